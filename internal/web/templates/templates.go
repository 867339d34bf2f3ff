// Package templates renders the import UI as templ components.
//
// Components are written with templ.ComponentFunc; every value that comes
// from a user, an export or the database goes through templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmxSrc is loaded by ImportPage; the server's CSP allows this origin.
const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// HTMXOrigin is the script origin the content security policy must allow.
const HTMXOrigin = "https://unpkg.com"

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf formats into markup; string arguments are escaped.
func (h *htmlWriter) rawf(format string, args ...any) {
	for i, a := range args {
		if s, ok := a.(string); ok {
			args[i] = templ.EscapeString(s)
		}
	}
	h.raw(fmt.Sprintf(format, args...))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// ErrorAlert renders a dismissible error box with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="alert alert-error" role="alert">`)
		h.rawf(`<p class="alert-message">%s</p>`, message)
		if action != "" {
			h.rawf(`<p class="alert-action">%s</p>`, action)
		}
		if code != "" {
			h.rawf(`<p class="alert-code">Code: %s</p>`, code)
		}
		h.raw(`</div>`)
	})
}

func jerseyText(n *int) string {
	if n == nil {
		return "-"
	}
	return "#" + strconv.Itoa(*n)
}

func formatRate(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
