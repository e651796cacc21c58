package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"catalog-admin/internal/pages"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes one page template inside the shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *logrus.Logger
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"toJSON": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
	"sortArrow":  pages.SortOrderLabel,
	"previewURL": previewURL,
	"join":       strings.Join,
	"upper":      strings.ToUpper,
}

// previewURL lets locally generated image previews through the URL sanitizer.
func previewURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}

// standalone pages render without the layout.
var standalone = map[string]bool{"login.html": true}

func NewRenderer(logger *logrus.Logger) (*Renderer, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template), logger: logger}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" || name == "partials.html" {
			continue
		}
		files := []string{"templates/partials.html", "templates/" + name}
		if !standalone[name] {
			files = append([]string{"templates/layout.html"}, files...)
		}
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

// RenderPage writes a full HTML response.
func (r *Renderer) RenderPage(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.WithError(err).WithField("template", name).Error("Failed to render template")
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
