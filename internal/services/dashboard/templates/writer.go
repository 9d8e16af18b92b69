package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

// open writes a start tag with attribute pairs.
func (h *htmlWriter) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		h.attr(attrs[i], attrs[i+1])
	}
	h.raw(">")
}

func (h *htmlWriter) close(tag string) {
	h.raw("</" + tag + ">")
}

// element writes <tag attrs>text</tag>.
func (h *htmlWriter) element(tag, text string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(text)
	h.close(tag)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}
