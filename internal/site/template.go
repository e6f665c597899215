package site

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"os"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
)

//go:embed templates/index.html.tmpl
var embeddedTemplates embed.FS

const defaultTemplateName = "templates/index.html.tmpl"

// Renderer turns a page into HTML.
type Renderer interface {
	Render(page *Page) ([]byte, error)
}

// Template is the html/template backed Renderer.
type Template struct {
	tmpl *template.Template
}

// LoadTemplate parses the override at path, or the embedded default when
// path is empty.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		b, err := embeddedTemplates.ReadFile(defaultTemplateName)
		if err != nil {
			return nil, ferrors.InternalError("embedded page template missing").WithCause(err).Build()
		}
		return parseTemplate("index", string(b))
	}

	// #nosec G304 - path comes from the operator's configuration
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read page template").WithCause(err).WithContext("path", path).Build()
	}
	slog.Debug("Loaded page template override", logfields.Path(path))
	return parseTemplate(path, string(b))
}

func parseTemplate(name, body string) (*Template, error) {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return nil, ferrors.RenderError("failed to parse page template").WithCause(err).WithContext("template", name).Build()
	}
	return &Template{tmpl: tmpl}, nil
}

// Render executes the template against page.
func (t *Template) Render(page *Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, page); err != nil {
		return nil, ferrors.RenderError("failed to render page").WithCause(err).WithContext("template", t.tmpl.Name()).Build()
	}
	return buf.Bytes(), nil
}
