package stream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// backoffPolicy configures the exponential backoff between redial attempts.
type backoffPolicy struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64 // 0.2 = up to 20% added to each delay
}

// reconnector redials a dropped session with exponential backoff and jitter.
// It retries until the dial succeeds or the context is canceled.
type reconnector struct {
	policy backoffPolicy
	logger *zap.Logger

	mu    sync.Mutex
	delay time.Duration
}

func newReconnector(policy backoffPolicy, logger *zap.Logger) *reconnector {
	return &reconnector{
		policy: policy,
		logger: logger,
		delay:  policy.initial,
	}
}

// run calls dial until it succeeds, sleeping a growing jittered delay before
// each attempt. On success the backoff resets for the next outage.
func (r *reconnector) run(ctx context.Context, dial func(context.Context) error) error {
	for {
		wait := r.nextDelay()

		r.logger.Info("attempting-reconnection", zap.Duration("backoff", wait))
		ReconnectAttemptsTotal.Inc()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		if err := dial(ctx); err != nil {
			r.logger.Warn("reconnection-failed", zap.Error(err))
			ReconnectFailuresTotal.Inc()
			continue
		}

		r.reset()
		r.logger.Info("reconnection-successful")
		return nil
	}
}

// nextDelay returns the current delay with jitter applied and advances the
// backoff for the following attempt.
func (r *reconnector) nextDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	jittered := time.Duration(float64(r.delay) * (1.0 + rand.Float64()*r.policy.jitter))

	next := time.Duration(float64(r.delay) * r.policy.multiplier)
	if next > r.policy.max {
		next = r.policy.max
	}
	r.delay = next

	return jittered
}

func (r *reconnector) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.delay = r.policy.initial
}
