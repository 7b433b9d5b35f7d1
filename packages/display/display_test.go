package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRects(t *testing.T) {
	tests := []struct {
		name        string
		rects       []image.Rectangle
		wantPrimary int
	}{
		{
			name:        "single display",
			rects:       []image.Rectangle{image.Rect(0, 0, 1920, 1080)},
			wantPrimary: 0,
		},
		{
			name: "primary on the right",
			rects: []image.Rectangle{
				image.Rect(-1280, 0, 0, 1024),
				image.Rect(0, 0, 1920, 1080),
			},
			wantPrimary: 1,
		},
		{
			name: "no display at origin",
			rects: []image.Rectangle{
				image.Rect(100, 100, 900, 700),
				image.Rect(900, 100, 1700, 700),
			},
			wantPrimary: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			displays := FromRects(tt.rects)
			require.Len(t, displays, len(tt.rects))
			for i, d := range displays {
				assert.Equal(t, i, d.Index)
				assert.Equal(t, tt.rects[i], d.Bounds())
				assert.Equal(t, i == tt.wantPrimary, d.Primary)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	_, err := Static(nil).Enumerate()
	assert.ErrorIs(t, err, ErrNoDisplays)

	layout := Static{{Index: 0, Width: 10, Height: 10}}
	got, err := layout.Enumerate()
	require.NoError(t, err)
	got[0].Width = 99
	assert.Equal(t, 10, layout[0].Width, "enumeration must return a copy")
}

func TestLookup(t *testing.T) {
	displays := []Display{{Index: 0}, {Index: 2, Name: "third"}}

	d, ok := Lookup(displays, 2)
	require.True(t, ok)
	assert.Equal(t, "third", d.Name)

	_, ok = Lookup(displays, 1)
	assert.False(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Monitor 3", Display{Index: 2}.Label())
}
