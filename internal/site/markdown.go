package site

import (
	"bytes"
	"html/template"
	"os"

	"github.com/yuin/goldmark"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

// RenderMarkdown converts a markdown document to HTML. Raw HTML in the
// source is omitted by goldmark's default renderer.
func RenderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return "", ferrors.RenderError("failed to render markdown").WithCause(err).Build()
	}
	// #nosec G203 - goldmark output with unsafe HTML disabled
	return template.HTML(buf.String()), nil
}

// LoadIntro renders the markdown file at path. An empty path yields no intro.
func LoadIntro(path string) (template.HTML, error) {
	if path == "" {
		return "", nil
	}
	// #nosec G304 - path comes from the operator's configuration
	src, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.FileSystemError("failed to read intro file").WithCause(err).WithContext("path", path).Build()
	}
	return RenderMarkdown(src)
}
