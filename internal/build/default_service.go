package build

import (
	"context"
	"io"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/citepage/internal/citation"
	"git.home.luguber.info/inful/citepage/internal/config"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
	"git.home.luguber.info/inful/citepage/internal/metrics"
	"git.home.luguber.info/inful/citepage/internal/notify"
	"git.home.luguber.info/inful/citepage/internal/observability"
	"git.home.luguber.info/inful/citepage/internal/registry"
	"git.home.luguber.info/inful/citepage/internal/site"
)

// Source supplies the randomness of both the citations and the page copy.
type Source interface {
	citation.Source
	site.Copywriter
}

// StoreOpener opens the registry store described by cfg.
type StoreOpener func(cfg *config.Config) (registry.Store, error)

// OpenStore is the default StoreOpener.
func OpenStore(cfg *config.Config) (registry.Store, error) {
	store, err := registry.Open(cfg.Registry.Backend, cfg.Registry.Path, cfg.Registry.MaxEntries)
	if err != nil {
		return nil, ferrors.RegistryError("failed to open registry").
			WithCause(err).
			WithContext("backend", string(cfg.Registry.Backend)).
			WithContext("path", cfg.Registry.Path).
			Build()
	}
	return store, nil
}

// DefaultService is the standard implementation of Service.
type DefaultService struct {
	source       Source
	openStore    StoreOpener
	publisher    notify.Publisher
	recorder     metrics.Recorder
	textfile     string
	gatherer     prom.Gatherer
	now          func() time.Time
	generatorFor func(citation.Source) *citation.Generator
	validateHTML func(io.Reader) error
}

// NewService creates a DefaultService with a randomly seeded faker source,
// the configured registry backend, no notifications and no metrics.
func NewService() *DefaultService {
	return &DefaultService{
		source:       citation.NewFakerSource(0),
		openStore:    OpenStore,
		publisher:    notify.NoopPublisher{},
		recorder:     metrics.NoopRecorder{},
		now:          time.Now,
		generatorFor: citation.NewGenerator,
		validateHTML: site.ValidateHTML,
	}
}

// WithSource replaces the random source (for deterministic tests).
func (s *DefaultService) WithSource(src Source) *DefaultService {
	s.source = src
	return s
}

// WithStoreOpener replaces how the registry store is opened.
func (s *DefaultService) WithStoreOpener(open StoreOpener) *DefaultService {
	s.openStore = open
	return s
}

// WithPublisher sets the generation event publisher.
func (s *DefaultService) WithPublisher(p notify.Publisher) *DefaultService {
	if p == nil {
		p = notify.NoopPublisher{}
	}
	s.publisher = p
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithTextfile writes everything gathered from g to path after each run.
func (s *DefaultService) WithTextfile(path string, g prom.Gatherer) *DefaultService {
	s.textfile = path
	s.gatherer = g
	return s
}

// WithClock replaces time.Now.
func (s *DefaultService) WithClock(now func() time.Time) *DefaultService {
	s.now = now
	return s
}

// Run executes the complete generation pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := s.now()
	result := &Result{StartTime: startTime, Citations: []citation.Variant{}}

	ctx = observability.WithRunID(ctx, startTime.Format("20060102-150405"))

	if req.Config == nil {
		return s.finish(ctx, result, StatusFailed, ferrors.ConfigError("config required").Build())
	}

	st := &runState{cfg: req.Config, now: startTime, result: result}
	result.Date = startTime.Format(site.DateLayout)
	result.Requested = max(req.Config.Citations.Count, 0)

	defer st.close(ctx)

	var deferred error
	for _, stage := range s.stages() {
		if deferred != nil && stage.skipAfterFailure {
			observability.InfoContext(ctx, "Skipping stage after failure", logfields.Stage(stage.name))
			continue
		}
		if stage.kind != stageAfterWrite {
			if err := ctx.Err(); err != nil {
				s.recorder.IncStageResult(stage.name, metrics.ResultCanceled)
				observability.WarnContext(ctx, "Run cancelled", logfields.Stage(stage.name))
				return s.finish(ctx, result, StatusCancelled, err)
			}
		}

		stageCtx := observability.WithStage(ctx, stage.name)
		stageStart := time.Now()
		err := stage.fn(stageCtx, st)
		s.recorder.ObserveStageDuration(stage.name, time.Since(stageStart))

		if err == nil {
			s.recorder.IncStageResult(stage.name, metrics.ResultSuccess)
			continue
		}

		switch stage.onError {
		case continueWithWarning:
			s.recorder.IncStageResult(stage.name, metrics.ResultWarning)
			observability.WarnContext(stageCtx, "Stage failed, continuing", logfields.Error(err))
		case continueThenFail:
			s.recorder.IncStageResult(stage.name, metrics.ResultFatal)
			observability.ErrorContext(stageCtx, "Stage failed, completing run before reporting", logfields.Error(err))
			if deferred == nil {
				deferred = err
			}
		default:
			s.recorder.IncStageResult(stage.name, metrics.ResultFatal)
			observability.ErrorContext(stageCtx, "Stage failed", logfields.Error(err))
			return s.finish(ctx, result, StatusFailed, err)
		}
	}

	if deferred != nil {
		return s.finish(ctx, result, StatusFailed, deferred)
	}
	status := StatusSuccess
	if len(result.Citations) < result.Requested {
		status = StatusPartial
	}
	return s.finish(ctx, result, status, nil)
}

// finish stamps timing, records the outcome and exports metrics.
func (s *DefaultService) finish(ctx context.Context, result *Result, status Status, err error) (*Result, error) {
	result.Status = status
	result.EndTime = s.now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.recorder.ObserveRunDuration(result.Duration)
	s.recorder.IncRunOutcome(outcomeFor(status))

	if s.textfile != "" && s.gatherer != nil {
		if werr := metrics.WriteTextfile(s.textfile, s.gatherer); werr != nil {
			observability.WarnContext(ctx, "Failed to write metrics textfile", logfields.Path(s.textfile), logfields.Error(werr))
		}
	}

	observability.InfoContext(ctx, "Run finished",
		slog.String("status", string(status)),
		logfields.Count(len(result.Citations)),
		logfields.Attempts(result.Attempts),
		logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	return result, err
}

func outcomeFor(status Status) metrics.OutcomeLabel {
	switch status {
	case StatusSuccess:
		return metrics.OutcomeSuccess
	case StatusPartial:
		return metrics.OutcomeWarning
	case StatusCancelled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
