package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/citepage/internal/build"
	"git.home.luguber.info/inful/citepage/internal/citation"
	"git.home.luguber.info/inful/citepage/internal/config"
	"git.home.luguber.info/inful/citepage/internal/logfields"
	"git.home.luguber.info/inful/citepage/internal/metrics"
	"git.home.luguber.info/inful/citepage/internal/notify"
)

// newService wires a build service from cfg. The returned cleanup closes
// the notification connection.
func newService(cfg *config.Config, seed uint64) (*build.DefaultService, func()) {
	svc := build.NewService().WithSource(citation.NewFakerSource(seed))

	if cfg.Metrics.Textfile != "" {
		reg := prom.NewRegistry()
		svc.WithRecorder(metrics.NewPrometheusRecorder(reg)).WithTextfile(cfg.Metrics.Textfile, reg)
	}

	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.Notify.Enabled() {
		p, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Notifications disabled for this run", logfields.Error(err))
		} else {
			publisher = notify.WithRetry(p, cfg.Notify.Retry.Policy())
		}
	}
	svc.WithPublisher(publisher)

	return svc, func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close publisher", logfields.Error(err))
		}
	}
}
