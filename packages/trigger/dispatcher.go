package trigger

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/time/rate"
)

// ErrStop is returned by a Handler to end Run without an error.
var ErrStop = errors.New("stop requested")

// Handler processes one signal. It runs to completion before the next
// signal is received.
type Handler func(Signal) error

// Dispatcher is the single consumer of a Queue.
type Dispatcher struct {
	queue   *Queue
	limiter *rate.Limiter
	logger  *slog.Logger
	limited int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRateLimit drops captures arriving faster than perSecond, allowing
// bursts of burst. A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) DispatcherOption {
	return func(d *Dispatcher) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithDispatcherLogger sets the logger.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher reading from q.
func NewDispatcher(q *Queue, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:  q,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Limited returns how many captures the rate limiter dropped.
func (d *Dispatcher) Limited() int {
	return d.limited
}

// Run hands signals to h one at a time until ctx is done, the queue is
// closed, or h returns ErrStop. Other handler errors are logged and the loop
// continues. Cancellation is only observed between signals.
func (d *Dispatcher) Run(ctx context.Context, h Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-d.queue.C():
			if !ok {
				return nil
			}
			if sig.Kind == KindCapture && d.limiter != nil && !d.limiter.Allow() {
				d.limited++
				d.logger.Warn("capture dropped by rate limit", "source", sig.Source)
				continue
			}
			if err := h(sig); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				d.logger.Error("trigger handler failed", "kind", sig.Kind.String(), "source", sig.Source, "error", err)
			}
		}
	}
}
