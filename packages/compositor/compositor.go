// Package compositor grabs the virtual desktop once per capture event and
// crops per-display images out of that single grab.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/kbinani/screenshot"
)

var (
	// ErrGrabFailed means the underlying screen grab returned nothing usable.
	// It aborts the whole capture event.
	ErrGrabFailed = errors.New("capture grab failed")

	// ErrCropFailed means a display's rectangle fell outside the grabbed image.
	ErrCropFailed = errors.New("crop outside grabbed region")
)

// Grabber performs a single grab of a virtual-desktop rectangle.
type Grabber interface {
	Grab(rect image.Rectangle) (*image.RGBA, error)
}

// ScreenGrabber grabs pixels from the live desktop.
type ScreenGrabber struct{}

// Grab captures rect from the screen.
func (ScreenGrabber) Grab(rect image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(rect)
}

// GrabberFunc adapts a function to the Grabber interface.
type GrabberFunc func(rect image.Rectangle) (*image.RGBA, error)

// Grab calls f(rect).
func (f GrabberFunc) Grab(rect image.Rectangle) (*image.RGBA, error) {
	return f(rect)
}

// Compositor turns display geometry into grabbed and cropped images.
type Compositor struct {
	grabber Grabber
}

// New creates a compositor over the given grabber. A nil grabber grabs the
// live screen.
func New(g Grabber) *Compositor {
	if g == nil {
		g = ScreenGrabber{}
	}
	return &Compositor{grabber: g}
}

// GrabRegion grabs an arbitrary rectangle.
func (c *Compositor) GrabRegion(x, y, w, h int) (*image.RGBA, error) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	rect := image.Rect(x, y, x+w, y+h)
	img, err := c.grabber.Grab(rect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGrabFailed, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image for %v", ErrGrabFailed, rect)
	}
	return img, nil
}

// BoundingBox returns the minimal rectangle covering all displays. Width and
// height are clamped to at least one pixel.
func BoundingBox(displays []display.Display) image.Rectangle {
	if len(displays) == 0 {
		return image.Rect(0, 0, 1, 1)
	}
	minX, minY := displays[0].X, displays[0].Y
	maxRight, maxBottom := displays[0].X+displays[0].Width, displays[0].Y+displays[0].Height
	for _, d := range displays[1:] {
		minX = min(minX, d.X)
		minY = min(minY, d.Y)
		maxRight = max(maxRight, d.X+d.Width)
		maxBottom = max(maxBottom, d.Y+d.Height)
	}
	w := max(maxRight-minX, 1)
	h := max(maxBottom-minY, 1)
	return image.Rect(minX, minY, minX+w, minY+h)
}

// GrabBoundingBoxOf performs exactly one grab over the bounding box of the
// displays and returns the image with the box's origin as offset.
func (c *Compositor) GrabBoundingBoxOf(displays []display.Display) (*image.RGBA, int, int, error) {
	box := BoundingBox(displays)
	img, err := c.GrabRegion(box.Min.X, box.Min.Y, box.Dx(), box.Dy())
	if err != nil {
		return nil, 0, 0, err
	}
	return img, box.Min.X, box.Min.Y, nil
}

// CropForDisplay extracts one display from an image grabbed at (offsetX,
// offsetY). The result is a fresh image with its origin at (0,0).
func CropForDisplay(img *image.RGBA, d display.Display, offsetX, offsetY int) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no source image", ErrCropFailed)
	}
	// Grabbed images may or may not carry desktop coordinates; normalise to
	// the image's own bounds.
	origin := img.Bounds().Min
	x := d.X - offsetX + origin.X
	y := d.Y - offsetY + origin.Y
	rect := image.Rect(x, y, x+d.Width, y+d.Height)
	if rect.Empty() || !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("%w: %s at %v not within %v", ErrCropFailed, d.Label(), rect, img.Bounds())
	}

	out := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out, nil
}
