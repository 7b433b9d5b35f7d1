//go:build !windows

package trigger

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalSource captures on SIGUSR1, so external tools can trigger with
// `kill -USR1 <pid>`.
type SignalSource struct{}

// Run listens for SIGUSR1 until ctx is done.
func (SignalSource) Run(ctx context.Context, q *Queue) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			q.Offer(Signal{Kind: KindCapture, Source: "sigusr1"})
		}
	}
}
