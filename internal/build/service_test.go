package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/citepage/internal/config"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/metrics"
	"git.home.luguber.info/inful/citepage/internal/notify"
	"git.home.luguber.info/inful/citepage/internal/registry"
	"git.home.luguber.info/inful/citepage/internal/site"
)

// seqSource cycles through choices and hands out sequential UUIDs so that
// every composed variant is distinct.
type seqSource struct {
	n    int
	uuid int
}

func (s *seqSource) IntN(n int) int {
	s.n++
	return s.n % n
}
func (*seqSource) FullName() string     { return "Marie Curie" }
func (*seqSource) FirstName() string    { return "Marie" }
func (*seqSource) LastName() string     { return "Curie" }
func (*seqSource) CatchPhrase() string  { return "Innovation durable" }
func (*seqSource) Sentence(int) string  { return "Lorem ipsum." }
func (*seqSource) Words(int) string     { return "lorem ipsum dolor" }
func (*seqSource) Sentences(int) string { return "Lorem ipsum. Dolor sit." }
func (*seqSource) Paragraph() string    { return "Paragraphe de remplissage." }
func (s *seqSource) UUID() string {
	s.uuid++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.uuid)
}

type recordingRecorder struct {
	metrics.NoopRecorder
	stageResults map[string]metrics.ResultLabel
	outcomes     []metrics.OutcomeLabel
	variants     int
	exhausted    int
	registrySize int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{stageResults: map[string]metrics.ResultLabel{}}
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.stageResults[stage] = result
}
func (r *recordingRecorder) IncRunOutcome(o metrics.OutcomeLabel) { r.outcomes = append(r.outcomes, o) }
func (r *recordingRecorder) AddVariants(n int)                    { r.variants += n }
func (r *recordingRecorder) IncBudgetExhausted()                  { r.exhausted++ }
func (r *recordingRecorder) SetRegistrySize(n int)                { r.registrySize = n }

type capturePublisher struct {
	events []*notify.GeneratedEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev *notify.GeneratedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
func (*capturePublisher) Close() error { return nil }

var fixedNow = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

func testConfig(t *testing.T, pool []string) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.OutputDir = filepath.Join(root, "output")
	cfg.Paths.StaticDir = filepath.Join(root, "static")
	cfg.Registry.Path = filepath.Join(root, "data", "used.json")
	cfg.Citations.Count = 3

	if pool != nil {
		require.NoError(t, os.MkdirAll(cfg.Paths.DataDir, 0o750))
		data, err := json.Marshal(pool)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(cfg.CitationsPath(), data, 0o600))
	}
	return cfg
}

func newTestService() (*DefaultService, *recordingRecorder, *capturePublisher) {
	rec := newRecordingRecorder()
	pub := &capturePublisher{}
	svc := NewService().
		WithSource(&seqSource{}).
		WithRecorder(rec).
		WithPublisher(pub).
		WithClock(func() time.Time { return fixedNow })
	return svc, rec, pub
}

func readRegistry(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var hashes []string
	require.NoError(t, json.Unmarshal(data, &hashes))
	return hashes
}

func TestStatus_IsSuccess(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusSuccess, true},
		{StatusPartial, true},
		{StatusFailed, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsSuccess())
			assert.True(t, tt.status.IsTerminal())
		})
	}
}

func TestRun_NilConfig(t *testing.T) {
	svc, rec, _ := newTestService()

	result, err := svc.Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeFailed}, rec.outcomes)
}

func TestRun_Success(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A", "Citation B"})
	require.NoError(t, os.MkdirAll(cfg.Paths.StaticDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.StaticDir, "style.css"), []byte("body{}"), 0o600))

	svc, rec, pub := newTestService()
	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "2024-05-01", result.Date)
	assert.Equal(t, filepath.Join(cfg.Paths.OutputDir, "2024-05-01"), result.OutputDir)
	assert.Equal(t, "Innovation durable — RMH France", result.Title)
	assert.Equal(t, 2, result.PoolSize)
	require.Len(t, result.Citations, 3)
	assert.Equal(t, 3, result.Attempts)
	assert.True(t, result.StaticCopied)
	assert.True(t, result.Notified)

	hashes := make([]string, 0, len(result.Citations))
	for _, c := range result.Citations {
		assert.True(t, strings.HasPrefix(c.Text, "Citation A ") || strings.HasPrefix(c.Text, "Citation B "), c.Text)
		hashes = append(hashes, c.Hash)
	}
	assert.Equal(t, hashes, readRegistry(t, cfg.Registry.Path))
	assert.Equal(t, 3, result.RegistrySize)

	for _, name := range []string{site.IndexFile, site.SitemapFile, site.RobotsFile, filepath.Join("static", "style.css")} {
		assert.FileExists(t, filepath.Join(result.OutputDir, name))
	}
	index, err := os.ReadFile(filepath.Join(result.OutputDir, site.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), result.Citations[0].Text)

	for _, stage := range []string{StageLoad, StageGenerate, StageRender, StageWrite, StageValidate, StagePersist, StageNotify} {
		assert.Equal(t, metrics.ResultSuccess, rec.stageResults[stage], stage)
	}
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeSuccess}, rec.outcomes)
	assert.Equal(t, 3, rec.variants)
	assert.Equal(t, 3, rec.registrySize)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "2024-05-01", pub.events[0].Date)
	assert.Len(t, pub.events[0].Citations, 3)
}

func TestRun_SecondRunNeverRepeatsHashes(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A", "Citation B"})
	svc, _, _ := newTestService()

	first, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range append(first.Citations, second.Citations...) {
		assert.False(t, seen[c.Hash], "hash %s repeated", c.Hash)
		seen[c.Hash] = true
	}
	assert.Len(t, readRegistry(t, cfg.Registry.Path), 6)
	assert.Equal(t, 6, second.RegistrySize)
}

func TestRun_EmptyPoolIsPartial(t *testing.T) {
	cfg := testConfig(t, nil)
	svc, rec, _ := newTestService()

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, result.Status)
	assert.Empty(t, result.Citations)
	assert.Equal(t, 0, result.Attempts)
	assert.False(t, result.StaticCopied)
	assert.FileExists(t, filepath.Join(result.OutputDir, site.IndexFile))
	assert.Equal(t, 1, rec.exhausted)
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeWarning}, rec.outcomes)
	assert.Empty(t, readRegistry(t, cfg.Registry.Path))
}

func TestRun_ZeroCount(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	cfg.Citations.Count = 0
	svc, _, _ := newTestService()

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Empty(t, result.Citations)
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	svc, rec, _ := newTestService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Run(ctx, Request{Config: cfg})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCancelled, result.Status)
	assert.NoDirExists(t, cfg.Paths.OutputDir)
	assert.Equal(t, metrics.ResultCanceled, rec.stageResults[StageLoad])
	assert.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeCanceled}, rec.outcomes)
}

func TestRun_ValidationFailureStillPersists(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A", "Citation B"})
	svc, rec, pub := newTestService()
	svc.validateHTML = func(io.Reader) error {
		return ferrors.ValidationError("generated HTML could not be parsed").Build()
	}

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	assert.Equal(t, StatusFailed, result.Status)

	assert.Len(t, readRegistry(t, cfg.Registry.Path), 3)
	assert.Equal(t, metrics.ResultFatal, rec.stageResults[StageValidate])
	assert.Equal(t, metrics.ResultSuccess, rec.stageResults[StagePersist])
	assert.Empty(t, pub.events)
	assert.False(t, result.Notified)
}

func TestRun_PersistFailureIsFatal(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg.Registry.Path = filepath.Join(blocker, "used.json")

	svc, rec, pub := newTestService()
	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRegistry))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, metrics.ResultFatal, rec.stageResults[StagePersist])
	assert.Empty(t, pub.events)
}

func TestRun_NotifyFailureIsWarning(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	svc, rec, pub := newTestService()
	pub.err = ferrors.NotifyError("nats down").Build()

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.False(t, result.Notified)
	assert.Equal(t, metrics.ResultWarning, rec.stageResults[StageNotify])
}

func TestRun_StoreOpenFailure(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	svc, _, _ := newTestService()
	svc.WithStoreOpener(func(*config.Config) (registry.Store, error) {
		return nil, ferrors.RegistryError("failed to open registry").WithCause(errors.New("locked")).Build()
	})

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRegistry))
	assert.Equal(t, StatusFailed, result.Status)
	assert.NoDirExists(t, cfg.Paths.OutputDir)
}

func TestRun_SQLiteBackend(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A", "Citation B"})
	cfg.Registry.Backend = registry.BackendSQLite
	cfg.Registry.Path = filepath.Join(cfg.Paths.DataDir, "used.db")
	svc, _, _ := newTestService()

	first, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	assert.Len(t, first.Citations, 3)
	assert.Equal(t, 6, second.RegistrySize)
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	cfg := testConfig(t, []string{"Citation A"})
	reg := prom.NewRegistry()
	textfile := filepath.Join(t.TempDir(), "citepage.prom")

	svc := NewService().
		WithSource(&seqSource{}).
		WithClock(func() time.Time { return fixedNow }).
		WithRecorder(metrics.NewPrometheusRecorder(reg)).
		WithTextfile(textfile, reg)

	_, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `citepage_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "citepage_variants_generated_total 3")
}
