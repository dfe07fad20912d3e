package render

import (
	"context"
	"fmt"
	"sort"
	"strings"

	invoicedomain "github.com/smallbiznis/rentflow/internal/invoice/domain"
)

// Output formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Renderer turns a composed document into bytes of one format.
type Renderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, doc invoicedomain.Document) ([]byte, error)
}

// RenderError is returned by renderers. The cause stays reachable through
// errors.Is and errors.As.
type RenderError struct {
	Code    string
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Format + ": " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidDocument = "INVALID_DOCUMENT"
	ErrCodeCancelled       = "RENDER_CANCELLED"
)

func NewRenderError(format, code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Format:  format,
		Message: message,
		Cause:   cause,
	}
}

// CheckDocument rejects documents no renderer can lay out.
func CheckDocument(ctx context.Context, format string, doc invoicedomain.Document) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(format, ErrCodeCancelled, "rendering cancelled", err)
	}
	if strings.TrimSpace(doc.Number) == "" {
		return NewRenderError(format, ErrCodeInvalidDocument, "document has no number", nil)
	}
	if len(doc.Items) == 0 {
		return NewRenderError(format, ErrCodeInvalidDocument, "document has no items", nil)
	}
	return nil
}

// Registry resolves renderers by format.
type Registry struct {
	renderers map[string]Renderer
	fallback  string
}

func NewRegistry(fallback string, renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers)), fallback: strings.ToLower(fallback)}
	for _, item := range renderers {
		if item == nil {
			continue
		}
		r.renderers[strings.ToLower(item.Format())] = item
	}
	return r
}

// Get returns the renderer for format; an empty format selects the fallback.
func (r *Registry) Get(format string) (Renderer, error) {
	key := strings.ToLower(strings.TrimSpace(format))
	if key == "" {
		key = r.fallback
	}
	item, ok := r.renderers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", invoicedomain.ErrUnsupportedFormat, format)
	}
	return item, nil
}

// Formats lists the registered formats.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for key := range r.renderers {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
