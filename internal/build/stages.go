package build

import (
	"bytes"
	"context"
	"html/template"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/citepage/internal/citation"
	"git.home.luguber.info/inful/citepage/internal/config"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
	"git.home.luguber.info/inful/citepage/internal/notify"
	"git.home.luguber.info/inful/citepage/internal/observability"
	"git.home.luguber.info/inful/citepage/internal/registry"
	"git.home.luguber.info/inful/citepage/internal/site"
)

// Stage names, used as metric labels and log attributes.
const (
	StageLoad     = "load"
	StageGenerate = "generate"
	StageRender   = "render"
	StageWrite    = "write"
	StageValidate = "validate"
	StagePersist  = "persist"
	StageNotify   = "notify"
)

type stageKind int

const (
	stageBeforeWrite stageKind = iota
	stageAfterWrite
)

type errorPolicy int

const (
	abortRun errorPolicy = iota
	continueWithWarning
	continueThenFail
)

type stage struct {
	name    string
	kind    stageKind
	onError errorPolicy
	// skipAfterFailure skips the stage once an earlier stage has failed.
	skipAfterFailure bool
	fn               func(ctx context.Context, st *runState) error
}

// runState carries data between the stages of one run.
type runState struct {
	cfg    *config.Config
	now    time.Time
	result *Result

	pool      []string
	store     registry.Store
	set       *registry.Set
	tmpl      site.Renderer
	intro     template.HTML
	page      *site.Page
	artifacts *site.Artifacts
}

func (st *runState) close(ctx context.Context) {
	if st.store == nil {
		return
	}
	if err := st.store.Close(); err != nil {
		observability.WarnContext(ctx, "Failed to close registry", logfields.Error(err))
	}
}

func (s *DefaultService) stages() []stage {
	return []stage{
		{name: StageLoad, kind: stageBeforeWrite, fn: s.load},
		{name: StageGenerate, kind: stageBeforeWrite, fn: s.generate},
		{name: StageRender, kind: stageBeforeWrite, fn: s.render},
		{name: StageWrite, kind: stageBeforeWrite, fn: s.write},
		{name: StageValidate, kind: stageAfterWrite, onError: continueThenFail, fn: s.validate},
		{name: StagePersist, kind: stageAfterWrite, fn: s.persist},
		{name: StageNotify, kind: stageAfterWrite, onError: continueWithWarning, skipAfterFailure: true, fn: s.notify},
	}
}

func (s *DefaultService) load(ctx context.Context, st *runState) error {
	st.pool = citation.LoadPool(st.cfg.CitationsPath())
	st.result.PoolSize = len(st.pool)

	tmpl, err := site.LoadTemplate(st.cfg.Paths.TemplateFile)
	if err != nil {
		return err
	}
	st.tmpl = tmpl

	intro, err := site.LoadIntro(st.cfg.Paths.IntroFile)
	if err != nil {
		return err
	}
	st.intro = intro

	store, err := s.openStore(st.cfg)
	if err != nil {
		return err
	}
	st.store = store
	st.set = store.Load(ctx)

	observability.InfoContext(ctx, "Inputs loaded",
		logfields.PoolSize(len(st.pool)),
		logfields.RegistrySize(st.set.Len()),
		logfields.Backend(string(st.cfg.Registry.Backend)))
	return nil
}

func (s *DefaultService) generate(ctx context.Context, st *runState) error {
	report := s.generatorFor(s.source).Run(st.pool, st.set, st.cfg.Citations.Count)

	st.result.Citations = report.Variants
	st.result.Attempts = report.Attempts
	st.result.Collisions = report.Collisions

	s.recorder.AddVariants(len(report.Variants))
	s.recorder.AddAttempts(report.Attempts)
	if report.Exhausted() {
		s.recorder.IncBudgetExhausted()
		observability.WarnContext(ctx, "Attempt budget exhausted before reaching requested count",
			logfields.Count(len(report.Variants)),
			logfields.Attempts(report.Attempts),
			logfields.PoolSize(len(st.pool)))
	}
	for _, v := range report.Variants {
		observability.DebugContext(ctx, "Accepted citation", logfields.Hash(v.Hash))
	}
	return nil
}

func (s *DefaultService) render(_ context.Context, st *runState) error {
	st.page = site.NewPage(s.source, site.PageOptions{
		TitleSuffix: st.cfg.Site.TitleSuffix,
		Link:        st.cfg.Site.Link,
		Language:    st.cfg.Site.Language,
		Intro:       st.intro,
		Now:         st.now,
	}, st.result.Citations)
	st.result.Title = st.page.Title

	artifacts, err := site.BuildArtifacts(st.tmpl, st.page, st.cfg.Site.BaseURL)
	if err != nil {
		if ferrors.IsClassified(err) {
			return err
		}
		return ferrors.RenderError("failed to build site files").WithCause(err).Build()
	}
	st.artifacts = artifacts
	return nil
}

func (s *DefaultService) write(ctx context.Context, st *runState) error {
	outDir := filepath.Join(st.cfg.Paths.OutputDir, st.result.Date)
	st.result.OutputDir = outDir

	if _, err := st.artifacts.WriteDir(outDir); err != nil {
		return ferrors.FileSystemError("failed to write output").WithCause(err).WithContext("path", outDir).Build()
	}

	copied, err := site.CopyStatic(st.cfg.Paths.StaticDir, outDir)
	if err != nil {
		return ferrors.FileSystemError("failed to copy static assets").WithCause(err).WithContext("path", st.cfg.Paths.StaticDir).Build()
	}
	if !copied {
		observability.WarnContext(ctx, "Static directory not found, skipping copy", logfields.Path(st.cfg.Paths.StaticDir))
	}
	st.result.StaticCopied = copied

	observability.InfoContext(ctx, "Output written", logfields.OutputDir(outDir))
	return nil
}

func (s *DefaultService) validate(_ context.Context, st *runState) error {
	if err := s.validateHTML(bytes.NewReader(st.artifacts.Index)); err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return ce.WithContext("path", filepath.Join(st.result.OutputDir, site.IndexFile))
		}
		return err
	}
	return nil
}

func (s *DefaultService) persist(ctx context.Context, st *runState) error {
	if err := st.store.Save(context.WithoutCancel(ctx), st.set); err != nil {
		return err
	}
	size := min(st.set.Len(), st.cfg.Registry.MaxEntries)
	st.result.RegistrySize = size
	s.recorder.SetRegistrySize(size)
	observability.InfoContext(ctx, "Registry saved", logfields.RegistrySize(size))
	return nil
}

func (s *DefaultService) notify(ctx context.Context, st *runState) error {
	event := notify.NewGeneratedEvent(st.result.Date, st.result.OutputDir, st.result.Title, st.result.Citations, st.now)
	if err := s.publisher.Publish(ctx, event); err != nil {
		return err
	}
	st.result.Notified = true
	return nil
}
