package layout

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

var _ render.HTMLRender = (*HtmlRender)(nil)

// HtmlRender gin HtmlRender compatible
type HtmlRender struct {
	e *Engine
}

// NewHTMLRender create a new HtmlRender
func NewHTMLRender(e *Engine) *HtmlRender {
	return &HtmlRender{e: e}
}

// Instance returns a new render.Render
func (h *HtmlRender) Instance(name string, data any) render.Render {
	return &Render{ctx: context.Background(), e: h.e, name: name, data: data}
}

// HTML renders the named template as the response of c. Unlike c.HTML, the
// render pass runs with the request context.
func (h *HtmlRender) HTML(c *gin.Context, code int, name string, data any) {
	c.Render(code, &Render{ctx: c.Request.Context(), e: h.e, name: name, data: data})
}

// Render renders a template with data and applies its header directives to
// the response.
type Render struct {
	ctx  context.Context
	e    *Engine
	name string
	data any
}

// Render renders the template and writes headers, status and text to w.
// Nothing is written when rendering fails.
func (r *Render) Render(w http.ResponseWriter) error {
	out, err := r.e.Render(r.ctx, r.name, dataToVars(r.data))
	if err != nil {
		logger(r.ctx).ErrorContext(r.ctx, "error rendering template",
			slog.String("template", r.name),
			slog.Any("error", err),
		)
		return err
	}
	status := ApplyHeaders(w, out.Headers())
	r.WriteContentType(w)
	if status != 0 {
		w.WriteHeader(status)
	}
	_, err = io.WriteString(w, out.Text())
	return err
}

// WriteContentType write an HTML content type to the response header if not set
func (r *Render) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}

// ApplyHeaders sets the header directives on w in order and returns the
// status code they request, or zero. Directives are either "Name: value"
// lines or "HTTP/1.1 404 Not Found" status lines; a Status override wins
// over a status line of the same directive.
func ApplyHeaders(w http.ResponseWriter, headers []Header) int {
	status := 0
	for _, h := range headers {
		value := strings.TrimSpace(h.Value)
		switch {
		case strings.HasPrefix(strings.ToUpper(value), "HTTP/"):
			fields := strings.Fields(value)
			if len(fields) > 1 {
				if code, err := strconv.Atoi(fields[1]); err == nil {
					status = code
				}
			}
		default:
			name, val, ok := strings.Cut(value, ":")
			name = strings.TrimSpace(name)
			if ok && name != "" {
				val = strings.TrimSpace(val)
				if h.Replace {
					w.Header().Set(name, val)
				} else {
					w.Header().Add(name, val)
				}
			}
		}
		if h.Status != 0 {
			status = h.Status
		}
	}
	return status
}

func dataToVars(data any) Vars {
	if h, ok := data.(gin.H); ok {
		return Vars(h)
	}
	return toVars(data)
}
