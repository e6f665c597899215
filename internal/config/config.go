package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/registry"
	"git.home.luguber.info/inful/citepage/internal/retry"
)

// CurrentVersion is the only supported configuration version.
const CurrentVersion = "1.0"

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "citepage.yaml"

// Config is the complete citepage configuration.
type Config struct {
	Version   string          `yaml:"version" validate:"required,eq=1.0"`
	Site      SiteConfig      `yaml:"site"`
	Paths     PathsConfig     `yaml:"paths"`
	Citations CitationsConfig `yaml:"citations"`
	Registry  RegistryConfig  `yaml:"registry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Notify    NotifyConfig    `yaml:"notify"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SiteConfig holds page-level settings.
type SiteConfig struct {
	TitleSuffix string `yaml:"title_suffix" validate:"required"`
	Link        string `yaml:"link" validate:"required,url"`
	// BaseURL is "/" for relative sitemap URLs, or an absolute http(s) URL.
	BaseURL  string `yaml:"base_url" validate:"required,baseurl"`
	Language string `yaml:"language" validate:"required,bcp47_language_tag"`
}

// PathsConfig locates inputs and outputs.
type PathsConfig struct {
	DataDir       string `yaml:"data_dir" validate:"required"`
	CitationsFile string `yaml:"citations_file" validate:"required"`
	OutputDir     string `yaml:"output_dir" validate:"required"`
	StaticDir     string `yaml:"static_dir" validate:"required"`
	TemplateFile  string `yaml:"template_file,omitempty"`
	IntroFile     string `yaml:"intro_file,omitempty"`
}

// CitationsConfig controls variant generation.
type CitationsConfig struct {
	// Count is the number of variants requested per run; 0 means the default.
	Count int `yaml:"count" validate:"gte=0,lte=100"`
}

// RegistryConfig selects where used hashes are persisted.
type RegistryConfig struct {
	Backend    registry.Backend `yaml:"backend" validate:"oneof=json sqlite"`
	Path       string           `yaml:"path" validate:"required"`
	MaxEntries int              `yaml:"max_entries" validate:"gt=0"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// NotifyConfig enables NATS generation events.
type NotifyConfig struct {
	NATSURL string      `yaml:"nats_url,omitempty" validate:"omitempty,url"`
	Subject string      `yaml:"subject" validate:"required_with=NATSURL"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig controls how failed event publishes are retried.
type RetryConfig struct {
	Backoff      retry.BackoffMode `yaml:"backoff" validate:"oneof=fixed linear exponential"`
	InitialDelay time.Duration     `yaml:"initial_delay" validate:"gt=0"`
	MaxDelay     time.Duration     `yaml:"max_delay" validate:"gtefield=InitialDelay"`
	// MaxRetries of 0 means the default.
	MaxRetries int `yaml:"max_retries" validate:"gte=0,lte=10"`
}

// Policy converts the configuration into a retry.Policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.NewPolicy(r.Backoff, r.InitialDelay, r.MaxDelay, r.MaxRetries)
}

// Enabled reports whether a NATS URL is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// ScheduleConfig drives the daemon command.
type ScheduleConfig struct {
	Cron string `yaml:"cron" validate:"required"`
	// Interval, when set, replaces Cron with a fixed period between runs.
	Interval time.Duration `yaml:"interval,omitempty" validate:"gte=0"`
}

// Load reads, expands, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError("configuration file not found").WithContext("path", path).Build()
		}
		return nil, ferrors.ConfigError("failed to read config file").WithCause(err).WithContext("path", path).Build()
	}

	cfg, err := Parse(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	if err != nil {
		return nil, ferrors.ConfigError("failed to parse config file").WithCause(err).WithContext("path", path).Build()
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !ferrors.HasCategory(err, ferrors.CategoryNotFound) {
		return nil, err
	}

	slog.Info("Configuration file not found, using defaults", "path", path)
	cfg = &Config{}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment or any file.
func Default() *Config {
	cfg := &Config{}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

// Parse decodes YAML without applying defaults. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &cfg, nil
}

func finalize(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = os.Getenv(EnvBaseURL)
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return ferrors.ConfigError("failed to apply defaults").WithCause(err).Build()
	}
	return ValidateConfig(cfg)
}
