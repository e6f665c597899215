package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/citepage/internal/build"
	"git.home.luguber.info/inful/citepage/internal/config"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
	"git.home.luguber.info/inful/citepage/internal/observability"
	"git.home.luguber.info/inful/citepage/internal/schedule"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Schedule string        `help:"Cron expression (overrides schedule.cron)"`
	Every    time.Duration `help:"Fixed interval between runs (overrides schedule.interval and cron)"`
	RunNow   bool          `name:"run-now" help:"Generate once immediately, then follow the schedule"`
	Seed     uint64        `help:"Seed for the random source (0 draws a random seed)"`
	NoWatch  bool          `name:"no-watch" help:"Do not reload the configuration file when it changes"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	if d.Every < 0 {
		return ferrors.ConfigError("--every must not be negative").WithContext("flag", "every").Build()
	}
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	ctx = observability.WithCommand(ctx, "daemon")

	opts := DaemonOptions{
		Seed:     d.Seed,
		RunNow:   d.RunNow,
		Override: d.override,
	}
	if !d.NoWatch {
		opts.ConfigPath = root.Config
	}
	return RunDaemon(ctx, cfg, opts)
}

// override reapplies the schedule flags; it runs on every loaded config.
func (d *DaemonCmd) override(cfg *config.Config) {
	if d.Schedule != "" {
		cfg.Schedule.Cron = d.Schedule
	}
	if d.Every > 0 {
		cfg.Schedule.Interval = d.Every
	}
}

// DaemonOptions tunes RunDaemon.
type DaemonOptions struct {
	// ConfigPath is watched for changes when set.
	ConfigPath string
	Seed       uint64
	RunNow     bool
	// Override is applied to the initial and every reloaded configuration.
	Override func(*config.Config)
	// ReloadDebounce defaults to config.DefaultReloadDebounce.
	ReloadDebounce time.Duration
}

// daemon holds the configuration the scheduled job currently runs with.
type daemon struct {
	ctx   context.Context
	sched *schedule.Scheduler
	opts  DaemonOptions

	mu      sync.Mutex
	cfg     *config.Config
	svc     *build.DefaultService
	cleanup func()
	jobID   string
}

// RunDaemon schedules generation on cfg.Schedule (interval when set, cron
// otherwise) and blocks until ctx is done. Failed runs are logged; the
// daemon keeps going. With opts.ConfigPath set, edits to the file are
// reloaded and the job is rescheduled without a restart.
func RunDaemon(ctx context.Context, cfg *config.Config, opts DaemonOptions) error {
	if opts.Override != nil {
		opts.Override(cfg)
	}

	sched, err := schedule.NewScheduler(nil)
	if err != nil {
		return ferrors.RuntimeError("failed to create scheduler").WithCause(err).Build()
	}
	d := &daemon{ctx: ctx, sched: sched, opts: opts}

	jobID, scheduleAttr, err := d.scheduleJob(cfg)
	if err != nil {
		_ = sched.Stop()
		return err
	}
	d.cfg, d.jobID = cfg, jobID
	d.svc, d.cleanup = newService(cfg, opts.Seed)
	defer func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.cleanup()
	}()

	if opts.ConfigPath != "" {
		if w := d.watch(ctx); w != nil {
			defer func() {
				if err := w.Stop(); err != nil {
					slog.Warn("Failed to stop config watcher", logfields.Error(err))
				}
			}()
		}
	}

	if opts.RunNow {
		d.run()
	}

	slog.Info("Daemon started, waiting for schedule", scheduleAttr)
	if err := sched.Run(ctx); err != nil {
		return ferrors.RuntimeError("failed to stop scheduler").WithCause(err).Build()
	}
	slog.Info("Daemon stopped")
	return nil
}

// watch starts the config watcher. Failing to watch is logged, not fatal.
func (d *daemon) watch(ctx context.Context) *config.Watcher {
	w, err := config.NewWatcher(d.opts.ConfigPath, d.reload)
	if err == nil {
		w.WithDebounce(d.opts.ReloadDebounce)
		err = w.Start(ctx)
		if err != nil {
			_ = w.Stop()
		}
	}
	if err != nil {
		slog.Warn("Configuration reload disabled", logfields.Path(d.opts.ConfigPath), logfields.Error(err))
		return nil
	}
	return w
}

// scheduleJob registers the generation job for cfg and returns its ID.
func (d *daemon) scheduleJob(cfg *config.Config) (string, slog.Attr, error) {
	if cfg.Schedule.Interval > 0 {
		id, err := d.sched.ScheduleEvery("generate", cfg.Schedule.Interval, d.run)
		if err != nil {
			return "", slog.Attr{}, ferrors.ConfigError("invalid schedule.interval").WithCause(err).WithContext("interval", cfg.Schedule.Interval.String()).Build()
		}
		return id, logfields.Schedule("every " + cfg.Schedule.Interval.String()), nil
	}
	id, err := d.sched.ScheduleCron("generate", cfg.Schedule.Cron, d.run)
	if err != nil {
		return "", slog.Attr{}, ferrors.ConfigError("invalid schedule.cron").WithCause(err).WithContext("cron", cfg.Schedule.Cron).Build()
	}
	return id, logfields.Schedule(cfg.Schedule.Cron), nil
}

// reload swaps in cfg. The new job is scheduled before the old one is
// removed, so a bad schedule leaves the running configuration in place.
func (d *daemon) reload(_ context.Context, cfg *config.Config) error {
	if d.opts.Override != nil {
		d.opts.Override(cfg)
	}

	jobID, scheduleAttr, err := d.scheduleJob(cfg)
	if err != nil {
		return err
	}
	svc, cleanup := newService(cfg, d.opts.Seed)

	d.mu.Lock()
	oldJobID, oldCleanup := d.jobID, d.cleanup
	d.cfg, d.svc, d.cleanup, d.jobID = cfg, svc, cleanup, jobID
	d.mu.Unlock()

	if err := d.sched.Remove(oldJobID); err != nil {
		slog.Warn("Failed to remove previous job", logfields.Error(err))
	}
	oldCleanup()

	slog.Info("Configuration applied", scheduleAttr)
	return nil
}

func (d *daemon) current() (*config.Config, *build.DefaultService) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg, d.svc
}

// run is the scheduled task.
func (d *daemon) run() {
	defer func() {
		if next, err := d.sched.NextRun(); err == nil && !next.IsZero() {
			slog.Info("Next scheduled generation", slog.Time("at", next))
		}
	}()

	cfg, svc := d.current()
	result, err := svc.Run(d.ctx, build.Request{Config: cfg})
	if err != nil {
		slog.Error("Scheduled generation failed", logfields.Error(err))
		return
	}
	slog.Info("Scheduled generation complete",
		logfields.OutputDir(result.OutputDir),
		logfields.Count(len(result.Citations)),
		logfields.RegistrySize(result.RegistrySize))
}
