// Package retry provides backoff policies for transient failures.
package retry

import (
	"context"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/foundation/normalization"
	"git.home.luguber.info/inful/citepage/internal/logfields"
)

// BackoffMode selects how the delay grows between retries.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

var backoffNormalizer = normalization.NewNamed("backoff mode", map[string]BackoffMode{
	"fixed":       BackoffFixed,
	"linear":      BackoffLinear,
	"exponential": BackoffExponential,
}, BackoffLinear)

// NormalizeBackoffMode maps raw to a BackoffMode, falling back to linear.
func NormalizeBackoffMode(raw string) BackoffMode {
	return backoffNormalizer.Normalize(raw)
}

// ParseBackoffMode maps raw to a BackoffMode and rejects unknown modes.
func ParseBackoffMode(raw string) (BackoffMode, error) {
	return backoffNormalizer.Parse(raw)
}

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       BackoffMode   // fixed|linear|exponential
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // maximum retry attempts after the first failure
}

// DefaultPolicy returns the default policy (linear, 1s initial, 30s cap, 2 retries).
func DefaultPolicy() Policy {
	return Policy{Mode: BackoffLinear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode BackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	if mode != "" {
		p.Mode = NormalizeBackoffMode(string(mode))
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case BackoffFixed:
		return p.Initial
	case BackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Do calls fn until it succeeds, returns a non-transient error, the retry
// budget is spent, or ctx is done. The last error is returned.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	err := fn(ctx)
	for retry := 1; err != nil && retry <= p.MaxRetries; retry++ {
		ce, ok := ferrors.AsClassified(err)
		if !ok || !ce.IsTransient() {
			return err
		}

		delay := p.Delay(retry)
		slog.Debug("Retrying after transient failure",
			slog.String("op", op),
			slog.Int("retry", retry),
			slog.Duration("delay", delay),
			logfields.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		err = fn(ctx)
	}
	return err
}
