package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, BackoffLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
}

// Initial above max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(BackoffFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, BackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(BackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 100*time.Millisecond, fixed.Delay(i), "attempt %d", i)
	}

	linear := NewPolicy(BackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	for attempt, want := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 250 * time.Millisecond, 4: 250 * time.Millisecond} {
		assert.Equal(t, want, linear.Delay(attempt), "linear attempt %d", attempt)
	}

	exp := NewPolicy(BackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	for attempt, want := range map[int]time.Duration{1: 50 * time.Millisecond, 2: 100 * time.Millisecond, 3: 160 * time.Millisecond, 4: 160 * time.Millisecond} {
		assert.Equal(t, want, exp.Delay(attempt), "exp attempt %d", attempt)
	}
}

func TestDelayEdgeCases(t *testing.T) {
	p := NewPolicy(BackoffLinear, 10*time.Millisecond, 20*time.Millisecond, 1)
	assert.Zero(t, p.Delay(0))
	assert.Zero(t, p.Delay(-1))
}

func TestUnknownModeFallsBack(t *testing.T) {
	p := NewPolicy("weird", 250*time.Millisecond, 500*time.Millisecond, 1)
	assert.Equal(t, BackoffLinear, p.Mode)
	assert.Equal(t, BackoffExponential, NormalizeBackoffMode(" Exponential "))
}

func TestParseBackoffMode(t *testing.T) {
	mode, err := ParseBackoffMode(" Fixed")
	require.NoError(t, err)
	assert.Equal(t, BackoffFixed, mode)

	_, err = ParseBackoffMode("linaer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid backoff mode "linaer"`)
}

func fastPolicy(retries int) Policy {
	return NewPolicy(BackoffFixed, time.Millisecond, time.Millisecond, retries)
}

func TestDo_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), "publish", func(context.Context) error {
		calls++
		if calls < 3 {
			return ferrors.NotifyError("nats unavailable").Build()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsAtBudget(t *testing.T) {
	calls := 0
	err := fastPolicy(2).Do(context.Background(), "publish", func(context.Context) error {
		calls++
		return ferrors.NotifyError("nats unavailable").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Do(context.Background(), "publish", func(context.Context) error {
		calls++
		return errors.New("plain")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = fastPolicy(5).Do(context.Background(), "publish", func(context.Context) error {
		calls++
		return ferrors.InternalError("marshal").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := NewPolicy(BackoffFixed, time.Hour, time.Hour, 5).Do(ctx, "publish", func(context.Context) error {
		calls++
		return ferrors.NotifyError("nats unavailable").Build()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
