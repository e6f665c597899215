package commands

import (
	"git.home.luguber.info/inful/citepage/internal/build"
	"git.home.luguber.info/inful/citepage/internal/config"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/observability"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Count   int    `short:"n" help:"Number of citations to generate (-1 uses citations.count)" default:"-1"`
	Output  string `short:"o" help:"Output root directory (overrides paths.output_dir)"`
	BaseURL string `name:"base-url" help:"Base URL used in sitemap.xml and robots.txt (overrides site.base_url)"`
	Seed    uint64 `help:"Seed for the random source (0 draws a random seed)"`
	Quiet   bool   `short:"q" help:"Do not print the run summary"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	ctx = observability.WithCommand(ctx, "generate")

	svc, cleanup := newService(cfg, c.Seed)
	defer cleanup()

	result, runErr := svc.Run(ctx, build.Request{Config: cfg})
	if result != nil && !c.Quiet && result.OutputDir != "" {
		printSummary(g.out(), result)
	}
	return runErr
}

// apply overlays command-line overrides onto cfg.
func (c *GenerateCmd) apply(cfg *config.Config) error {
	switch {
	case c.Count >= 0:
		cfg.Citations.Count = c.Count
	case c.Count != -1:
		return ferrors.ConfigError("--count must be -1 or a non-negative integer").WithContext("count", c.Count).Build()
	}
	if c.Output != "" {
		cfg.Paths.OutputDir = c.Output
	}
	if c.BaseURL != "" {
		if !config.IsValidBaseURL(c.BaseURL) {
			return ferrors.ConfigError(`--base-url must be "/" or an absolute http(s) URL`).WithContext("base_url", c.BaseURL).Build()
		}
		cfg.Site.BaseURL = c.BaseURL
	}
	// Overrides go through the same rules as the file, including the count cap.
	return config.ValidateConfig(cfg)
}
