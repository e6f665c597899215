package citation

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// LoadPool reads the fragment pool, a JSON array of strings. A missing or
// unreadable file yields an empty pool.
func LoadPool(path string) []string {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("Citation pool not found, using empty pool", logfields.Path(path))
		} else {
			slog.Warn("Failed to read citation pool, using empty pool", logfields.Path(path), logfields.Error(err))
		}
		return []string{}
	}

	var pool []string
	if err := json.Unmarshal(data, &pool); err != nil {
		slog.Warn("Citation pool is not a JSON string array, using empty pool", logfields.Path(path), logfields.Error(err))
		return []string{}
	}
	if pool == nil {
		return []string{}
	}
	return pool
}
