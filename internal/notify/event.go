// Package notify announces finished generation runs to other systems.
package notify

import (
	"time"

	"git.home.luguber.info/inful/citepage/internal/citation"
)

// CitationRef identifies one published citation without its text.
type CitationRef struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// GeneratedEvent is published after a page has been written.
type GeneratedEvent struct {
	Date        string        `json:"date"`
	OutputDir   string        `json:"output_dir"`
	Title       string        `json:"title"`
	Citations   []CitationRef `json:"citations"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NewGeneratedEvent builds the event for a run.
func NewGeneratedEvent(date, outputDir, title string, variants []citation.Variant, at time.Time) *GeneratedEvent {
	refs := make([]CitationRef, 0, len(variants))
	for _, v := range variants {
		refs = append(refs, CitationRef{ID: v.ID, Hash: v.Hash})
	}
	return &GeneratedEvent{
		Date:        date,
		OutputDir:   outputDir,
		Title:       title,
		Citations:   refs,
		GeneratedAt: at.UTC(),
	}
}
