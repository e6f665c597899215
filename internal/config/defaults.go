package config

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/citepage/internal/registry"
	"git.home.luguber.info/inful/citepage/internal/retry"
)

// Default values for fields left empty in the configuration file.
const (
	DefaultTitleSuffix   = "RMH France"
	DefaultLink          = "https://sites.google.com/view/rmh-france/home"
	DefaultBaseURL       = "/"
	DefaultLanguage      = "fr"
	DefaultDataDir       = "data"
	DefaultCitationsFile = "citations.json"
	DefaultOutputDir     = "output"
	DefaultStaticDir     = "static"
	DefaultCount         = 4
	DefaultSubject       = "citepage.generated"
	DefaultCron          = "0 6 * * *"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains
// in a fixed order. Paths run before registry because the registry path is
// derived from the data directory.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&PathsDefaultApplier{},
			&CitationsDefaultApplier{},
			&RegistryDefaultApplier{},
			&NotifyDefaultApplier{},
			&ScheduleDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("%s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}

type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.TitleSuffix == "" {
		cfg.Site.TitleSuffix = DefaultTitleSuffix
	}
	if cfg.Site.Link == "" {
		cfg.Site.Link = DefaultLink
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = DefaultBaseURL
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = DefaultLanguage
	}
	return nil
}

type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = DefaultDataDir
	}
	if cfg.Paths.CitationsFile == "" {
		cfg.Paths.CitationsFile = DefaultCitationsFile
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = DefaultOutputDir
	}
	if cfg.Paths.StaticDir == "" {
		cfg.Paths.StaticDir = DefaultStaticDir
	}
	return nil
}

type CitationsDefaultApplier struct{}

func (CitationsDefaultApplier) Domain() string { return "citations" }

func (CitationsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Citations.Count == 0 {
		cfg.Citations.Count = DefaultCount
	}
	return nil
}

type RegistryDefaultApplier struct{}

func (RegistryDefaultApplier) Domain() string { return "registry" }

func (RegistryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Registry.Backend == "" {
		cfg.Registry.Backend = registry.BackendJSON
	} else {
		backend, err := registry.ParseBackend(string(cfg.Registry.Backend))
		if err != nil {
			return err
		}
		cfg.Registry.Backend = backend
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = registry.DefaultPath(cfg.Registry.Backend, cfg.Paths.DataDir)
	}
	if cfg.Registry.MaxEntries == 0 {
		cfg.Registry.MaxEntries = registry.DefaultMaxEntries
	}
	return nil
}

type NotifyDefaultApplier struct{}

func (NotifyDefaultApplier) Domain() string { return "notify" }

func (NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultSubject
	}

	def := retry.DefaultPolicy()
	r := &cfg.Notify.Retry
	if r.Backoff == "" {
		r.Backoff = def.Mode
	} else {
		mode, err := retry.ParseBackoffMode(string(r.Backoff))
		if err != nil {
			return err
		}
		r.Backoff = mode
	}
	if r.InitialDelay == 0 {
		r.InitialDelay = def.Initial
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = def.Max
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = def.MaxRetries
	}
	return nil
}

type ScheduleDefaultApplier struct{}

func (ScheduleDefaultApplier) Domain() string { return "schedule" }

func (ScheduleDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultCron
	}
	return nil
}

type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// CitationsPath is the full path of the citation pool file.
func (c *Config) CitationsPath() string {
	return filepath.Join(c.Paths.DataDir, c.Paths.CitationsFile)
}
