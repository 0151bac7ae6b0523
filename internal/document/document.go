// Package document holds the parsed, read-only view of one saved page.
package document

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrUnavailable is returned when no document could be built from the input
var ErrUnavailable = errors.New("document unavailable")

// Document is an immutable parsed page plus its two flattened text views
type Document struct {
	root    *html.Node
	query   *goquery.Document
	baseURL *url.URL
	lines   []string
	text    string
}

// Parse reads HTML from r. baseURL may be empty; it is only used to resolve
// relative links.
func Parse(r io.Reader, baseURL string) (*Document, error) {
	if r == nil {
		return nil, ErrUnavailable
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrUnavailable, err)
	}

	doc := FromNode(root)
	if baseURL != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base url: %v", ErrUnavailable, err)
		}
		doc.baseURL = base
	}
	return doc, nil
}

// ParseString is a convenience wrapper around Parse
func ParseString(htmlContent string, baseURL string) (*Document, error) {
	return Parse(strings.NewReader(htmlContent), baseURL)
}

// FromNode wraps an already parsed tree. A nil node yields an empty document.
func FromNode(root *html.Node) *Document {
	if root == nil {
		root = &html.Node{Type: html.DocumentNode}
	}

	lines := flatten(root)
	return &Document{
		root:  root,
		query: goquery.NewDocumentFromNode(root),
		lines: lines,
		text:  strings.Join(lines, " "),
	}
}

// Root returns the parsed tree. Callers must not modify it.
func (d *Document) Root() *html.Node {
	return d.root
}

// Query returns a goquery view of the tree for selector lookups
func (d *Document) Query() *goquery.Document {
	return d.query
}

// Lines returns the visible text split at block boundaries
func (d *Document) Lines() []string {
	return d.lines
}

// Text returns the visible text as one space-joined string
func (d *Document) Text() string {
	return d.text
}

// BaseURL returns the page URL, or nil when unknown
func (d *Document) BaseURL() *url.URL {
	return d.baseURL
}

// ResolveURL resolves href against the page URL. Protocol-relative links
// default to https when the page URL is unknown.
func (d *Document) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if d.baseURL == nil {
		if strings.HasPrefix(href, "//") {
			return "https:" + href
		}
		return href
	}

	return d.baseURL.ResolveReference(ref).String()
}
