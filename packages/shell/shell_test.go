package shell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingToggle struct {
	mu    sync.Mutex
	calls []bool
	ok    bool
}

func (r *recordingToggle) SetVisible(v bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
	return r.ok
}

func (r *recordingToggle) shows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c {
			n++
		}
	}
	return n
}

func TestGuard_SessionHideRestoredOnce(t *testing.T) {
	toggle := &recordingToggle{ok: true}
	g := NewGuard(toggle, nil)

	g.HideForSession()
	assert.True(t, g.Hidden())
	assert.True(t, g.SessionOwned())

	assert.True(t, g.ReleaseSession())
	assert.False(t, g.ReleaseSession())
	assert.False(t, g.ReleaseAll())

	assert.Equal(t, []bool{false, true}, toggle.calls)
	assert.Equal(t, 1, toggle.shows())
}

func TestGuard_FailedToggleStillRestores(t *testing.T) {
	toggle := &recordingToggle{ok: false}
	g := NewGuard(toggle, nil)

	g.HideForSession()
	g.ReleaseAll()
	assert.Equal(t, 1, toggle.shows())
}

func TestGuard_ManualAndSessionAreSeparate(t *testing.T) {
	tests := []struct {
		name       string
		steps      func(g *Guard)
		wantCalls  []bool
		wantHidden bool
	}{
		{
			name: "manual hide survives session release",
			steps: func(g *Guard) {
				g.SetManual(true)
				g.HideForSession()
				g.ReleaseSession()
			},
			wantCalls:  []bool{false},
			wantHidden: true,
		},
		{
			name: "manual show while session holds keeps hidden",
			steps: func(g *Guard) {
				g.HideForSession()
				g.SetManual(true)
				g.SetManual(false)
			},
			wantCalls:  []bool{false},
			wantHidden: true,
		},
		{
			name: "shutdown releases both",
			steps: func(g *Guard) {
				g.HideForSession()
				g.SetManual(true)
				g.ReleaseAll()
			},
			wantCalls:  []bool{false, true},
			wantHidden: false,
		},
		{
			name: "release without hide is a no-op",
			steps: func(g *Guard) {
				g.ReleaseSession()
				g.ReleaseAll()
			},
			wantCalls:  nil,
			wantHidden: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toggle := &recordingToggle{ok: true}
			g := NewGuard(toggle, nil)
			tt.steps(g)
			assert.Equal(t, tt.wantCalls, toggle.calls)
			assert.Equal(t, tt.wantHidden, g.Hidden())
		})
	}
}

func TestUnsupported(t *testing.T) {
	assert.False(t, Unsupported{}.SetVisible(true))
	assert.NotNil(t, NewPlatformToggle())
}
