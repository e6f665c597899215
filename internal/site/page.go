package site

import (
	"html/template"
	"time"

	"git.home.luguber.info/inful/citepage/internal/citation"
)

// DateLayout formats the dated output directory name.
const DateLayout = "2006-01-02"

// Copywriter supplies the filler copy of a page.
type Copywriter interface {
	Chooser
	CatchPhrase() string
	Sentences(n int) string
	Paragraph() string
}

// Page is the data handed to the HTML template.
type Page struct {
	Title       string
	Description string
	Paragraphs  []string
	Intro       template.HTML
	Citations   []citation.Variant
	Palette     Palette
	Link        string
	Language    string
	Date        string
	GeneratedAt string
}

// PageOptions carries the configured, non-random parts of a page.
type PageOptions struct {
	TitleSuffix string
	Link        string
	Language    string
	Intro       template.HTML
	Now         time.Time
}

// NewPage assembles a page around citations.
func NewPage(cw Copywriter, opts PageOptions, citations []citation.Variant) *Page {
	if citations == nil {
		citations = []citation.Variant{}
	}
	return &Page{
		Title:       cw.CatchPhrase() + " — " + opts.TitleSuffix,
		Description: cw.Sentences(2) + " Visitez " + opts.Link + " pour plus d'informations.",
		Paragraphs:  []string{cw.Paragraph(), cw.Paragraph()},
		Intro:       opts.Intro,
		Citations:   citations,
		Palette:     PickPalette(cw),
		Link:        opts.Link,
		Language:    opts.Language,
		Date:        opts.Now.Format(DateLayout),
		GeneratedAt: opts.Now.UTC().Format(time.RFC3339),
	}
}
