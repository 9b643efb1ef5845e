// Package normalisers provides implementations of the Normaliser port.
// A normaliser turns a page body from its wire format into readable text.
package normalisers
