package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyStage        = "stage"
	KeyDate         = "date"
	KeyPath         = "path"
	KeyOutputDir    = "output_dir"
	KeyPoolSize     = "pool_size"
	KeyCount        = "count"
	KeyAttempts     = "attempts"
	KeyRegistrySize = "registry_size"
	KeyBackend      = "backend"
	KeyHash         = "hash"
	KeySubject      = "subject"
	KeySchedule     = "schedule"
	KeyDurationMS   = "duration_ms"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Date(d string) slog.Attr         { return slog.String(KeyDate, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func OutputDir(p string) slog.Attr    { return slog.String(KeyOutputDir, p) }
func PoolSize(n int) slog.Attr        { return slog.Int(KeyPoolSize, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Attempts(n int) slog.Attr        { return slog.Int(KeyAttempts, n) }
func RegistrySize(n int) slog.Attr    { return slog.Int(KeyRegistrySize, n) }
func Backend(b string) slog.Attr      { return slog.String(KeyBackend, b) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Schedule(expr string) slog.Attr  { return slog.String(KeySchedule, expr) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
