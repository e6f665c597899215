package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// EnvBaseURL overrides site.base_url when the file leaves it empty.
const EnvBaseURL = "SITE_BASE_URL"

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every present .env file. Variables already set in the
// process environment win.
func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}
