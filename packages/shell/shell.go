// Package shell hides and restores desktop-shell chrome (the taskbar) while
// evidence is captured, and guarantees it is shown again afterwards.
package shell

import (
	"io"
	"log/slog"
	"sync"
)

// Toggle changes the visibility of the desktop shell. It is best-effort and
// reports whether the change was applied.
type Toggle interface {
	SetVisible(visible bool) bool
}

// Unsupported is the Toggle for platforms without a controllable shell.
type Unsupported struct{}

// SetVisible does nothing and reports false.
func (Unsupported) SetVisible(bool) bool { return false }

// Guard tracks who hid the shell. A capture session and the user's manual
// toggle are separate owners; the shell is shown again once neither holds
// it, and each hide is matched by exactly one show.
type Guard struct {
	mu      sync.Mutex
	toggle  Toggle
	logger  *slog.Logger
	session bool
	manual  bool
	hidden  bool
}

// NewGuard wraps a toggle. A nil toggle is Unsupported.
func NewGuard(t Toggle, logger *slog.Logger) *Guard {
	if t == nil {
		t = Unsupported{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Guard{toggle: t, logger: logger}
}

// HideForSession hides the shell on behalf of the running session.
func (g *Guard) HideForSession() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = true
	g.apply()
}

// ReleaseSession drops the session's hold. It reports whether the shell was
// shown as a result.
func (g *Guard) ReleaseSession() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.session {
		return false
	}
	g.session = false
	return g.apply()
}

// SetManual records the user's own hide/show choice.
func (g *Guard) SetManual(hidden bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.manual = hidden
	g.apply()
}

// ReleaseAll drops every hold, for process shutdown.
func (g *Guard) ReleaseAll() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = false
	g.manual = false
	return g.apply()
}

// Hidden reports whether the guard currently keeps the shell hidden.
func (g *Guard) Hidden() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hidden
}

// SessionOwned reports whether the session holds the shell hidden.
func (g *Guard) SessionOwned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// apply brings the shell in line with the current holds and reports whether
// it issued a show.
func (g *Guard) apply() bool {
	want := g.session || g.manual
	if want == g.hidden {
		return false
	}
	g.hidden = want
	if !g.toggle.SetVisible(!want) {
		g.logger.Warn("shell visibility change not applied", "visible", !want)
	}
	if want {
		g.logger.Info("shell hidden", "session", g.session, "manual", g.manual)
		return false
	}
	g.logger.Info("shell restored")
	return true
}
