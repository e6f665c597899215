package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

// Init writes a configuration file populated with the defaults, except
// site.base_url which stays empty. An existing file is only replaced when
// force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("failed to stat config file").WithCause(err).WithContext("path", configPath).Build()
	}

	exampleConfig := Default()
	// Left empty so Load keeps falling back to SITE_BASE_URL.
	exampleConfig.Site.BaseURL = ""
	data, err := yaml.Marshal(exampleConfig)
	if err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.FileSystemError("failed to create config directory").WithCause(err).WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.FileSystemError("failed to write config file").WithCause(err).WithContext("path", configPath).Build()
	}
	return nil
}
