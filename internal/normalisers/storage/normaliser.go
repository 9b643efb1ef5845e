// Package storage renders Confluence storage-format page bodies as markdown.
//
// Storage format is XHTML with namespaced macro elements (ac:*, ri:*).
// Macro parameters are dropped, macro bodies are kept inline and CDATA
// sections (code macros) become text before conversion.
package storage

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser converts storage-format bodies to markdown.
type Normaliser struct{}

// New creates a new storage-format normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts a storage-format body to markdown.
func (n *Normaliser) Normalise(body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse storage body: %w", err)
	}
	flattenMacros(doc)

	markdown, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(string(markdown)), nil
}

// flattenMacros rewrites namespaced storage elements in place.
func flattenMacros(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling

		switch {
		case c.Type == html.CommentNode && strings.HasPrefix(c.Data, "[CDATA["):
			text := strings.TrimSuffix(strings.TrimPrefix(c.Data, "[CDATA["), "]]")
			n.InsertBefore(&html.Node{Type: html.TextNode, Data: text}, c)
			n.RemoveChild(c)
		case c.Type == html.ElementNode && c.Data == "ac:parameter":
			n.RemoveChild(c)
		case c.Type == html.ElementNode && isNamespaced(c.Data):
			flattenMacros(c)
			// Keep a block boundary where a macro stood.
			wrapper := &html.Node{Type: html.ElementNode, Data: "div"}
			for gc := c.FirstChild; gc != nil; {
				gnext := gc.NextSibling
				c.RemoveChild(gc)
				wrapper.AppendChild(gc)
				gc = gnext
			}
			n.InsertBefore(wrapper, c)
			n.RemoveChild(c)
		default:
			flattenMacros(c)
		}

		c = next
	}
}

// isNamespaced reports whether tag is an ac: or ri: element.
func isNamespaced(tag string) bool {
	return strings.HasPrefix(tag, "ac:") || strings.HasPrefix(tag, "ri:")
}
