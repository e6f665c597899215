package notify

import (
	"context"

	"git.home.luguber.info/inful/citepage/internal/retry"
)

// RetryingPublisher retries transient publish failures of the wrapped
// Publisher according to policy.
type RetryingPublisher struct {
	next   Publisher
	policy retry.Policy
}

// WithRetry wraps next. A policy with MaxRetries 0 publishes once.
func WithRetry(next Publisher, policy retry.Policy) *RetryingPublisher {
	return &RetryingPublisher{next: next, policy: policy}
}

func (p *RetryingPublisher) Publish(ctx context.Context, event *GeneratedEvent) error {
	return p.policy.Do(ctx, "notify.publish", func(ctx context.Context) error {
		return p.next.Publish(ctx, event)
	})
}

func (p *RetryingPublisher) Close() error { return p.next.Close() }
