//go:build windows

package trigger

import "context"

// SignalSource is a no-op on Windows, which has no user signals.
type SignalSource struct{}

// Run blocks until ctx is done.
func (SignalSource) Run(ctx context.Context, _ *Queue) error {
	<-ctx.Done()
	return nil
}
