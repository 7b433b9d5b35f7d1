package trigger

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Source produces signals until its context is done.
type Source interface {
	Run(ctx context.Context, q *Queue) error
}

// StdinSource reads line commands:
//
//	<enter> or the hotkey word   capture
//	capture <text>               capture with a one-off caption
//	caption <text>               set the caption for later captures
//	shell hide|show              toggle the desktop shell manually
//	stop | quit | exit           stop the session
type StdinSource struct {
	Reader io.Reader
	Hotkey string
	Logger *slog.Logger
}

// ParseCommand turns one input line into a signal.
func ParseCommand(line, hotkey string) (Signal, error) {
	line = strings.TrimSpace(line)
	if line == "" || (hotkey != "" && strings.EqualFold(line, hotkey)) {
		return Signal{Kind: KindCapture}, nil
	}

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "capture", "c":
		return Signal{Kind: KindCapture, Text: rest}, nil
	case "caption":
		return Signal{Kind: KindCaption, Text: rest}, nil
	case "shell":
		switch strings.ToLower(rest) {
		case "hide", "show":
			return Signal{Kind: KindShell, Text: strings.ToLower(rest)}, nil
		}
		return Signal{}, fmt.Errorf("shell wants hide or show, got %q", rest)
	case "stop", "quit", "exit":
		return Signal{Kind: KindStop}, nil
	}
	return Signal{}, fmt.Errorf("unknown command %q", line)
}

// Run reads lines until EOF. Lines wait for room in the queue instead of
// being dropped. The reader cannot be interrupted, so Run only notices
// cancellation between lines or while waiting to send.
func (s *StdinSource) Run(ctx context.Context, q *Queue) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	scanner := bufio.NewScanner(s.Reader)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		sig, err := ParseCommand(scanner.Text(), s.Hotkey)
		if err != nil {
			logger.Warn("ignoring input", "error", err)
			continue
		}
		sig.Source = "stdin"
		if err := q.Send(ctx, sig); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	return scanner.Err()
}

// DirDebounceDelay is how long a dropped file must be quiet before it
// triggers, so a create followed by writes fires once.
const DirDebounceDelay = 300 * time.Millisecond

// DirSource captures whenever a file appears in Dir. The file name, without
// extension, becomes the caption. Hidden files are ignored.
type DirSource struct {
	Dir    string
	Delay  time.Duration
	Logger *slog.Logger
}

// Run watches Dir until ctx is done.
func (s *DirSource) Run(ctx context.Context, q *Queue) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	delay := s.Delay
	if delay <= 0 {
		delay = DirDebounceDelay
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create trigger directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.Dir, err)
	}

	// Debounce timers per file
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				continue
			}

			path := event.Name
			mu.Lock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(delay, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				q.Offer(Signal{
					Kind:   KindCapture,
					Text:   strings.TrimSuffix(name, filepath.Ext(name)),
					Source: "dir",
				})
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
