package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "20261019-060000", RunID("20261019-060000")},
		{"Stage", KeyStage, "generate", Stage("generate")},
		{"Date", KeyDate, "2026-10-19", Date("2026-10-19")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"OutputDir", KeyOutputDir, "output/2026-10-19", OutputDir("output/2026-10-19")},
		{"Backend", KeyBackend, "sqlite", Backend("sqlite")},
		{"Hash", KeyHash, "abcdef012345", Hash("abcdef012345")},
		{"Subject", KeySubject, "citepage.generated", Subject("citepage.generated")},
		{"Schedule", KeySchedule, "0 6 * * *", Schedule("0 6 * * *")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Attempts(6); a.Key != KeyAttempts || a.Value.Int64() != 6 {
		t.Fatalf("unexpected attempts attr: %v", a)
	}
	if a := RegistrySize(10000); a.Key != KeyRegistrySize || a.Value.Int64() != 10000 {
		t.Fatalf("unexpected registry size attr: %v", a)
	}
	if a := PoolSize(2); a.Key != KeyPoolSize || a.Value.Int64() != 2 {
		t.Fatalf("unexpected pool size attr: %v", a)
	}
}

func TestError(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("expected empty string for nil error, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
