package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/vehiclex/internal/document"
)

// Loader reads saved HTML pages from disk
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader that refuses pages larger than maxBytes.
// A non-positive limit disables the check.
func NewLoader(maxBytes int64) *Loader {
	return &Loader{maxBytes: maxBytes}
}

// LoadResult contains the raw page and where it came from
type LoadResult struct {
	HTML    []byte
	Path    string
	PageURL string
	Subject string
}

// Load reads the page at path. Every failure wraps document.ErrUnavailable.
func (l *Loader) Load(ctx context.Context, path string, pageURL string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", document.ErrUnavailable, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %w", document.ErrUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if l.maxBytes > 0 {
		r = io.LimitReader(f, l.maxBytes+1)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read page: %w", document.ErrUnavailable, err)
	}
	if l.maxBytes > 0 && int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: page %s exceeds %d bytes", document.ErrUnavailable, path, l.maxBytes)
	}

	subject := Subject(pageURL)
	if subject == "" {
		subject = Subject(filepath.Base(path))
	}

	return &LoadResult{
		HTML:    body,
		Path:    path,
		PageURL: pageURL,
		Subject: subject,
	}, nil
}

// Slug returns the last path segment of a link without its extension,
// e.g. "onix-lt-2020" for "https://host/carro/onix-lt-2020.html?x=1".
func Slug(rawURL string) string {
	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		p = parsed.Path
	}

	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	segments := strings.Split(p, "/")
	last := segments[len(segments)-1]

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}

// Subject is a human-readable name derived from a link or file name
func Subject(rawURL string) string {
	s := Slug(rawURL)
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ReplaceAll(s, "-", " ")
}
