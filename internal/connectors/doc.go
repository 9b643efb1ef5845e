// Package connectors holds clients for remote content systems. Each
// connector implements driven.ContentGateway for one system.
//
// Currently only Confluence is supported (see the confluence package).
package connectors
