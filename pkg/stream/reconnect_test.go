package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPolicy() backoffPolicy {
	return backoffPolicy{
		initial:    10 * time.Millisecond,
		max:        80 * time.Millisecond,
		multiplier: 2.0,
		jitter:     0.2,
	}
}

func TestNextDelay_GrowsAndCaps(t *testing.T) {
	r := newReconnector(testPolicy(), zap.NewNop())

	for _, want := range []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		80 * time.Millisecond,
	} {
		got := r.nextDelay()
		assert.GreaterOrEqual(t, got, want)
		assert.LessOrEqual(t, got, time.Duration(float64(want)*1.2))
	}
}

func TestReset_RestoresInitialDelay(t *testing.T) {
	r := newReconnector(testPolicy(), zap.NewNop())

	r.nextDelay()
	r.nextDelay()
	r.reset()

	got := r.nextDelay()
	assert.GreaterOrEqual(t, got, 10*time.Millisecond)
	assert.LessOrEqual(t, got, 12*time.Millisecond)
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	r := newReconnector(testPolicy(), zap.NewNop())

	attempts := 0
	err := r.run(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	// Backoff was reset by the success.
	got := r.nextDelay()
	assert.LessOrEqual(t, got, 12*time.Millisecond)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	r := newReconnector(testPolicy(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.run(ctx, func(ctx context.Context) error {
		return errors.New("refused")
	})
	assert.True(t, errors.Is(err, context.Canceled))
}
