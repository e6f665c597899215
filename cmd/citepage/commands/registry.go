package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/citepage/internal/build"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
	"git.home.luguber.info/inful/citepage/internal/registry"
)

// RegistryCmd groups registry maintenance subcommands.
type RegistryCmd struct {
	Stats RegistryStatsCmd `cmd:"" help:"Show the registry backend and entry count"`
	Prune RegistryPruneCmd `cmd:"" help:"Keep only the newest entries of the registry"`
}

// RegistryStatsCmd implements 'registry stats'.
type RegistryStatsCmd struct{}

func (RegistryStatsCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	store, err := build.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	set := store.Load(context.Background())
	out := g.out()
	_, _ = fmt.Fprintf(out, "backend:     %s\n", cfg.Registry.Backend)
	_, _ = fmt.Fprintf(out, "path:        %s\n", cfg.Registry.Path)
	_, _ = fmt.Fprintf(out, "entries:     %d\n", set.Len())
	_, _ = fmt.Fprintf(out, "max_entries: %d\n", cfg.Registry.MaxEntries)
	return nil
}

// RegistryPruneCmd implements 'registry prune'.
type RegistryPruneCmd struct {
	Keep int `required:"" help:"Number of newest hashes to keep"`
}

func (p *RegistryPruneCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if p.Keep < 0 || p.Keep > cfg.Registry.MaxEntries {
		return ferrors.ValidationError("--keep must be between 0 and registry.max_entries").
			WithContext("keep", p.Keep).
			WithContext("max_entries", cfg.Registry.MaxEntries).
			Build()
	}

	store, err := build.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	dropped, err := registry.Prune(context.Background(), store, p.Keep)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "pruned %d hashes, kept at most %d\n", dropped, p.Keep)
	return nil
}

func closeStore(store registry.Store) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close registry", logfields.Error(err))
	}
}
