package display

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplays is returned when the platform reports zero active displays.
var ErrNoDisplays = errors.New("no displays available")

// Display describes one physical display for a single enumeration pass.
type Display struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// Bounds returns the display rectangle in virtual-desktop coordinates.
func (d Display) Bounds() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

// Label is the human-facing, 1-based monitor name.
func (d Display) Label() string {
	return fmt.Sprintf("Monitor %d", d.Index+1)
}

// Enumerator discovers the current display layout.
type Enumerator interface {
	Enumerate() ([]Display, error)
}

// ScreenEnumerator queries the operating system for active displays.
type ScreenEnumerator struct{}

// NewScreenEnumerator creates an enumerator backed by the OS display API
func NewScreenEnumerator() *ScreenEnumerator {
	return &ScreenEnumerator{}
}

// Enumerate returns every active display ordered by index.
func (e *ScreenEnumerator) Enumerate() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}

	rects := make([]image.Rectangle, n)
	for i := 0; i < n; i++ {
		rects[i] = screenshot.GetDisplayBounds(i)
	}
	return FromRects(rects), nil
}

// FromRects builds displays from raw bounds. The primary display is the one
// containing the desktop origin, falling back to index 0.
func FromRects(rects []image.Rectangle) []Display {
	displays := make([]Display, len(rects))
	primary := 0
	for i, r := range rects {
		if image.Pt(0, 0).In(r) {
			primary = i
			break
		}
	}
	for i, r := range rects {
		displays[i] = Display{
			Index:   i,
			Name:    fmt.Sprintf("Display %d", i+1),
			X:       r.Min.X,
			Y:       r.Min.Y,
			Width:   r.Dx(),
			Height:  r.Dy(),
			Primary: i == primary,
		}
	}
	return displays
}

// Static is an Enumerator over a fixed layout.
type Static []Display

// Enumerate returns a copy of the fixed layout.
func (s Static) Enumerate() ([]Display, error) {
	if len(s) == 0 {
		return nil, ErrNoDisplays
	}
	out := make([]Display, len(s))
	copy(out, s)
	return out, nil
}

// Lookup finds the display with the given index.
func Lookup(displays []Display, index int) (Display, bool) {
	for _, d := range displays {
		if d.Index == index {
			return d, true
		}
	}
	return Display{}, false
}
