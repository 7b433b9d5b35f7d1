package trigger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line     string
		wantKind Kind
		wantText string
		wantErr  bool
	}{
		{line: "", wantKind: KindCapture},
		{line: "   ", wantKind: KindCapture},
		{line: "HOME", wantKind: KindCapture},
		{line: "capture login page", wantKind: KindCapture, wantText: "login page"},
		{line: "c", wantKind: KindCapture},
		{line: "caption Checkout step 2", wantKind: KindCaption, wantText: "Checkout step 2"},
		{line: "shell Hide", wantKind: KindShell, wantText: "hide"},
		{line: "shell sideways", wantErr: true},
		{line: "quit", wantKind: KindStop},
		{line: "STOP", wantKind: KindStop},
		{line: "dance", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sig, err := ParseCommand(tt.line, "home")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, sig.Kind)
			assert.Equal(t, tt.wantText, sig.Text)
		})
	}
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q := NewQueue(2, nil)
	assert.True(t, q.Offer(Signal{Kind: KindCapture}))
	assert.True(t, q.Offer(Signal{Kind: KindCapture}))
	assert.False(t, q.Offer(Signal{Kind: KindCapture}))
	assert.Equal(t, 1, q.Dropped())

	q.Close()
	q.Close()
	assert.False(t, q.Offer(Signal{Kind: KindCapture}))

	sig := <-q.C()
	assert.False(t, sig.At.IsZero())
}

func TestQueue_SendWaitsForRoom(t *testing.T) {
	q := NewQueue(1, nil)
	require.NoError(t, q.Send(context.Background(), Signal{Kind: KindCapture}))

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(context.Background(), Signal{Kind: KindStop})
	}()

	select {
	case err := <-sent:
		t.Fatalf("send returned before room was made: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(t, KindCapture, (<-q.C()).Kind)
	require.NoError(t, <-sent)
	assert.Equal(t, KindStop, (<-q.C()).Kind)
	assert.Equal(t, 0, q.Dropped())
}

func TestQueue_SendCancelAndClose(t *testing.T) {
	q := NewQueue(1, nil)
	q.Offer(Signal{Kind: KindCapture})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Send(ctx, Signal{Kind: KindCapture}), context.DeadlineExceeded)

	q.Close()
	assert.ErrorIs(t, q.Send(context.Background(), Signal{Kind: KindStop}), ErrQueueClosed)
}

func TestStdinSource_Backpressure(t *testing.T) {
	q := NewQueue(2, nil)
	src := &StdinSource{Reader: strings.NewReader(strings.Repeat("\n", 10) + "stop\n")}

	done := make(chan error, 1)
	go func() { done <- src.Run(context.Background(), q) }()

	var got []Signal
	for len(got) < 11 {
		select {
		case sig := <-q.C():
			got = append(got, sig)
			time.Sleep(time.Millisecond)
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d signals received", len(got))
		}
	}
	require.NoError(t, <-done)
	assert.Equal(t, KindStop, got[10].Kind)
	assert.Equal(t, 0, q.Dropped())
}

func TestDispatcher_Sequential(t *testing.T) {
	q := NewQueue(64, nil)
	for i := 0; i < 20; i++ {
		q.Offer(Signal{Kind: KindCapture})
	}
	q.Offer(Signal{Kind: KindStop})

	var active, maxActive, handled atomic.Int32
	d := NewDispatcher(q)
	err := d.Run(context.Background(), func(sig Signal) error {
		if sig.Kind == KindStop {
			return ErrStop
		}
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(time.Millisecond)
		handled.Add(1)
		active.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(20), handled.Load())
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestDispatcher_HandlerErrorContinues(t *testing.T) {
	q := NewQueue(4, nil)
	q.Offer(Signal{Kind: KindCapture})
	q.Offer(Signal{Kind: KindCapture})
	q.Close()

	calls := 0
	err := NewDispatcher(q).Run(context.Background(), func(Signal) error {
		calls++
		return errors.New("grab failed")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_RateLimit(t *testing.T) {
	q := NewQueue(16, nil)
	for i := 0; i < 5; i++ {
		q.Offer(Signal{Kind: KindCapture})
	}
	q.Offer(Signal{Kind: KindCaption, Text: "not limited"})
	q.Close()

	var kinds []Kind
	d := NewDispatcher(q, WithRateLimit(0.001, 2))
	require.NoError(t, d.Run(context.Background(), func(sig Signal) error {
		kinds = append(kinds, sig.Kind)
		return nil
	}))
	assert.Equal(t, []Kind{KindCapture, KindCapture, KindCaption}, kinds)
	assert.Equal(t, 3, d.Limited())
}

func TestDispatcher_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDispatcher(NewQueue(1, nil)).Run(ctx, func(Signal) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStdinSource(t *testing.T) {
	q := NewQueue(16, nil)
	src := &StdinSource{
		Reader: strings.NewReader("\ncaption Login\nbogus\ncapture one-off\nf9\nstop\n"),
		Hotkey: "f9",
	}
	require.NoError(t, src.Run(context.Background(), q))
	q.Close()

	var got []Signal
	for sig := range q.C() {
		got = append(got, sig)
	}
	require.Len(t, got, 5)
	assert.Equal(t, KindCapture, got[0].Kind)
	assert.Equal(t, KindCaption, got[1].Kind)
	assert.Equal(t, "Login", got[1].Text)
	assert.Equal(t, "one-off", got[2].Text)
	assert.Equal(t, KindCapture, got[3].Kind)
	assert.Equal(t, KindStop, got[4].Kind)
	assert.Equal(t, "stdin", got[4].Source)
}

func TestDirSource(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "triggers")
	q := NewQueue(16, nil)
	src := &DirSource{Dir: dir, Delay: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = src.Run(ctx, q)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// Wait for the directory and the watch to exist.
	require.Eventually(t, func() bool {
		_, err := os.Stat(dir)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkout page.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644))

	select {
	case sig := <-q.C():
		assert.Equal(t, KindCapture, sig.Kind)
		assert.Equal(t, "checkout page", sig.Text)
		assert.Equal(t, "dir", sig.Source)
	case <-time.After(3 * time.Second):
		t.Fatal("no trigger from dropped file")
	}

	select {
	case sig := <-q.C():
		t.Fatalf("unexpected extra trigger %+v", sig)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "capture", KindCapture.String())
	assert.Equal(t, "stop", KindStop.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
