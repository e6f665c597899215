package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/citepage/internal/citation"
	"git.home.luguber.info/inful/citepage/internal/config"
)

// Service is the canonical interface for executing a generation run.
type Service interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs required to execute a run.
type Request struct {
	// Config is the loaded configuration. Citations.Count is the number of
	// variants requested.
	Config *config.Config
}

// Result contains the outcome of a run.
type Result struct {
	Status Status

	// Date is the YYYY-MM-DD name of the output directory.
	Date string

	// OutputDir is the dated directory the page was written to.
	OutputDir string

	Title     string
	Citations []citation.Variant

	// Requested is the number of variants asked for.
	Requested int

	// Attempts counts generation attempts, Collisions the rejected ones.
	Attempts   int
	Collisions int

	// PoolSize is the number of base fragments loaded.
	PoolSize int

	// RegistrySize is the number of hashes persisted after the run.
	RegistrySize int

	// StaticCopied reports whether a static directory was copied.
	StaticCopied bool

	// Notified reports whether the generation event was published.
	Notified bool

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a run.
type Status string

const (
	// StatusSuccess indicates every requested citation was generated.
	StatusSuccess Status = "success"

	// StatusPartial indicates the attempt budget ran out before the
	// requested number of citations was reached. The page was still written.
	StatusPartial Status = "partial"

	// StatusFailed indicates the run encountered an error.
	StatusFailed Status = "failed"

	// StatusCancelled indicates the run was cancelled before writing output.
	StatusCancelled Status = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusPartial ||
		s == StatusFailed || s == StatusCancelled
}

// IsSuccess returns true if output was produced and persisted.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess || s == StatusPartial
}
