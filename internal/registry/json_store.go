package registry

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// JSONStore persists the registry as a JSON array of hashes.
type JSONStore struct {
	path       string
	maxEntries int
}

// NewJSONStore creates a JSON file store. maxEntries <= 0 uses DefaultMaxEntries.
func NewJSONStore(path string, maxEntries int) *JSONStore {
	return &JSONStore{path: path, maxEntries: effectiveMax(maxEntries)}
}

// Path returns the registry file location.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load(_ context.Context) *Set {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read registry, starting empty", logfields.Path(s.path), logfields.Error(err))
		}
		return NewSet()
	}

	var hashes []string
	if err := json.Unmarshal(data, &hashes); err != nil {
		slog.Warn("Registry file is corrupt, starting empty", logfields.Path(s.path), logfields.Error(err))
		return NewSet()
	}
	return NewSet(hashes...)
}

func (s *JSONStore) Save(_ context.Context, set *Set) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return ferrors.RegistryError("create registry directory").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}

	data, err := json.MarshalIndent(set.Newest(s.maxEntries), "", "  ")
	if err != nil {
		return ferrors.InternalError("encode registry").WithCause(err).Build()
	}
	data = append(data, '\n')

	// Atomic write using temporary file
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return ferrors.RegistryError("write registry").
			WithCause(err).
			WithContext("path", tempPath).
			Build()
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return ferrors.RegistryError("replace registry").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }
