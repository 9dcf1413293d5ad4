package desktop

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/1broseidon/limbo/internal/compositor"
)

// ReconnectPolicy controls how a dropped event stream is re-opened.
type ReconnectPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsed bounds the time spent retrying without receiving an
	// event. Zero retries forever.
	MaxElapsed time.Duration
}

// DefaultReconnectPolicy retries forever, backing off to 10s.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

func (p ReconnectPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = p.MaxElapsed
	b.Reset()
	return b
}

// Supervise forwards events from the backend and re-subscribes whenever the
// stream ends. The returned channel closes when ctx is cancelled or the
// retry budget is exhausted.
func (d *Desktop) Supervise(ctx context.Context, policy ReconnectPolicy) <-chan compositor.Event {
	return supervise(ctx, d.Subscribe, policy, d.logger.With("backend", d.kind.String()))
}

type subscribeFunc func(ctx context.Context) <-chan compositor.Event

func supervise(ctx context.Context, subscribe subscribeFunc, policy ReconnectPolicy, logger *slog.Logger) <-chan compositor.Event {
	out := make(chan compositor.Event, 16)

	go func() {
		defer close(out)
		b := backoff.WithContext(policy.backOff(), ctx)

		for attempt := 1; ; attempt++ {
			received, ok := forward(ctx, subscribe(ctx), out)
			if !ok || ctx.Err() != nil {
				return
			}
			if received > 0 {
				b.Reset()
				attempt = 1
			}

			wait := b.NextBackOff()
			if wait == backoff.Stop {
				logger.Error("compositor event stream lost, giving up", "attempts", attempt)
				return
			}
			logger.Warn("compositor event stream ended, reconnecting", "attempt", attempt, "retry_in", wait)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()

	return out
}

// forward copies events until in closes. ok is false when ctx was cancelled
// while delivering.
func forward(ctx context.Context, in <-chan compositor.Event, out chan<- compositor.Event) (received int, ok bool) {
	for ev := range in {
		received++
		select {
		case out <- ev:
		case <-ctx.Done():
			return received, false
		}
	}
	return received, true
}
