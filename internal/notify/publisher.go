package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// Publisher delivers generation events.
type Publisher interface {
	Publish(ctx context.Context, event *GeneratedEvent) error
	Close() error
}

// NoopPublisher drops every event (default when notify.nats_url is unset).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *GeneratedEvent) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }

// conn is the subset of *nats.Conn used by NATSPublisher.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes JSON events on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// NewNATSPublisher connects to url. Events go to subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("citepage"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, ferrors.NotifyError("failed to connect to NATS").WithCause(err).WithContext("url", url).Build()
	}
	slog.Info("NATS publisher connected", "url", url, logfields.Subject(subject))
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

// Publish sends event and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, event *GeneratedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return ferrors.InternalError("failed to marshal event").WithCause(err).Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.NotifyError("failed to publish event").WithCause(err).WithContext("subject", p.subject).Build()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.NotifyError("failed to flush event").WithCause(err).WithContext("subject", p.subject).Build()
	}

	slog.Debug("Published generation event", logfields.Subject(p.subject), logfields.Date(event.Date))
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
