// Package web renders HTML pages and carries flash messages between requests.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-extras/go-kit/must"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile   = "layout.html"
	partialsFile = "partials.html"
)

// Data is the named data handed to a page template.
type Data map[string]any

// Renderer executes one template set per page, each wrapped in the shared
// layout and able to use the shared partials.
type Renderer struct {
	pages   map[string]*template.Template
	flashes *Flashes
	log     *slog.Logger
}

func NewRenderer(flashes *Flashes, log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}

	fsys := must.Must(fs.Sub(templateFS, "templates"))
	files, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile || file == partialsFile {
			continue
		}
		tmpl, err := template.New(layoutFile).ParseFS(fsys, layoutFile, partialsFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", file, err)
		}
		pages[strings.TrimSuffix(file, ".html")] = tmpl
	}

	return &Renderer{pages: pages, flashes: flashes, log: log}, nil
}

// Flash queues one or more messages for the next rendered page.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, category string, messages ...string) {
	rd.flashes.Add(w, r, category, messages...)
}

// Render writes page with status. Pending flash messages are consumed and
// exposed to the layout as "mensajes".
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data Data) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.log.Error("unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = Data{}
	}
	data["mensajes"] = rd.flashes.Pop(w, r)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		rd.log.Error("failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.log.Debug("failed to write response", "page", page, "error", err)
	}
}

// Error renders the generic error page with a user-safe message.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, "error", Data{"mensaje": message, "estado": status})
}

// Redirect sends the client to path after a state change.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
