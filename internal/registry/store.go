package registry

import (
	"context"
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/citepage/internal/foundation/normalization"
)

// Store loads and persists a Set.
type Store interface {
	// Load returns the persisted set, or an empty set if it cannot be read.
	Load(ctx context.Context) *Set
	// Save replaces the persisted state with the newest entries of s.
	Save(ctx context.Context, s *Set) error
	// Close releases resources held by the store.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

var backendNormalizer = normalization.NewNamed("registry backend", map[string]Backend{
	"json":   BackendJSON,
	"sqlite": BackendSQLite,
}, BackendJSON)

// ParseBackend normalizes raw into a Backend.
func ParseBackend(raw string) (Backend, error) {
	return backendNormalizer.Parse(raw)
}

// DefaultPath returns the conventional registry location inside dataDir.
func DefaultPath(backend Backend, dataDir string) string {
	if backend == BackendSQLite {
		return filepath.Join(dataDir, "used.db")
	}
	return filepath.Join(dataDir, "used.json")
}

// Open creates the Store for backend at path.
func Open(backend Backend, path string, maxEntries int) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path, maxEntries), nil
	case BackendSQLite:
		return NewSQLiteStore(path, maxEntries)
	default:
		return nil, fmt.Errorf("unknown registry backend %q", backend)
	}
}
