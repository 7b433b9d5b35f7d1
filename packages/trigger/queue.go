package trigger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrQueueClosed is returned by Send once the queue is closed.
var ErrQueueClosed = errors.New("trigger queue closed")

// Kind is the type of a Signal.
type Kind int

const (
	// KindCapture takes a screenshot. Text, when set, overrides the caption
	// for this capture only.
	KindCapture Kind = iota
	// KindCaption replaces the caption used by later captures.
	KindCaption
	// KindShell hides ("hide") or shows ("show") the desktop shell manually.
	KindShell
	// KindStop ends the session.
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindCapture:
		return "capture"
	case KindCaption:
		return "caption"
	case KindShell:
		return "shell"
	case KindStop:
		return "stop"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Signal is one message from a trigger source.
type Signal struct {
	Kind   Kind
	Text   string
	Source string
	At     time.Time
}

// DefaultQueueSize is the number of pending signals held before dropping.
const DefaultQueueSize = 16

// Queue is a bounded signal queue with a single consumer. Offer never
// blocks and drops on a full queue; Send waits for room.
type Queue struct {
	// mu is held for reading while sending and for writing while closing,
	// so the channel is never closed under a pending send.
	mu      sync.RWMutex
	ch      chan Signal
	closed  bool
	dropped atomic.Int64
	logger  *slog.Logger
}

// NewQueue creates a queue holding up to size pending signals.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Queue{ch: make(chan Signal, size), logger: logger}
}

// Offer enqueues sig without blocking. It reports false if the signal was
// dropped because the queue is full or closed.
func (q *Queue) Offer(sig Signal) bool {
	if sig.At.IsZero() {
		sig.At = time.Now()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- sig:
		return true
	default:
		q.dropped.Add(1)
		q.logger.Warn("trigger dropped, queue full", "kind", sig.Kind.String(), "source", sig.Source)
		return false
	}
}

// Send enqueues sig, waiting for room until ctx is done. Sources that can
// apply backpressure, such as stdin, use Send so no command is lost.
func (q *Queue) Send(ctx context.Context, sig Signal) error {
	if sig.At.IsZero() {
		sig.At = time.Now()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- sig:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// C returns the receive side of the queue.
func (q *Queue) C() <-chan Signal {
	return q.ch
}

// Dropped returns how many signals were dropped because the queue was full.
func (q *Queue) Dropped() int {
	return int(q.dropped.Load())
}

// Close stops accepting signals. Pending signals can still be received.
// Close waits for senders blocked in Send.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
