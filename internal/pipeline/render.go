package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer writes records as JSON with HTML characters and non-ASCII text
// left unescaped
type Renderer struct {
	indent string
}

// NewRenderer creates a renderer indenting by the given number of spaces.
// Zero writes compact JSON.
func NewRenderer(indent int) *Renderer {
	if indent < 0 {
		indent = 0
	}
	return &Renderer{indent: strings.Repeat(" ", indent)}
}

// Write encodes v to w
func (r *Renderer) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", r.indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// RenderJSON writes v to the file at path
func (r *Renderer) RenderJSON(v any, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return r.Write(f, v)
}
