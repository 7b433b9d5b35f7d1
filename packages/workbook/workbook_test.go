package workbook

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestScaleToHeight(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		target    int
		wantWidth int
	}{
		{"wide image", 1920, 1080, 200, 356},
		{"square", 400, 400, 200, 200},
		{"upscale", 50, 100, 200, 100},
		{"zero height", 10, 0, 200, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ScaleToHeight(tt.w, tt.h, tt.target)
			assert.Equal(t, tt.wantWidth, got)
		})
	}
}

func TestImageSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, 30, 20)

	w, h, err := ImageSize(path)
	require.NoError(t, err)
	assert.Equal(t, 30, w)
	assert.Equal(t, 20, h)

	_, _, err = ImageSize(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestExcelWorkbook(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "shot.png")
	writePNG(t, imgPath, 400, 100)

	wb, err := NewExcelBackend().NewWorkbook("Screenshots")
	require.NoError(t, err)

	row, err := wb.AddRow("Screenshot No.", "Description", "Image")
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	require.NoError(t, wb.StyleHeader(1, 3))
	require.NoError(t, wb.FreezeHeader())
	require.NoError(t, wb.SetColumnWidth("A", 15))

	row, err = wb.AddRow("1", "login page")
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	width, err := wb.EmbedImage(imgPath, "C2", 200)
	require.NoError(t, err)
	assert.Equal(t, 800, width)
	require.NoError(t, wb.SetRowHeight(2, 150))

	out := filepath.Join(dir, "out.xlsx")
	require.NoError(t, wb.Save(out))
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Screenshots", "B2")
	require.NoError(t, err)
	assert.Equal(t, "login page", v)

	h, err := f.GetRowHeight("Screenshots", 2)
	require.NoError(t, err)
	assert.InDelta(t, 150, h, 0.01)

	pics, err := f.GetPictures("Screenshots", "C2")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestExcelWorkbook_EmbedMissing(t *testing.T) {
	wb, err := NewExcelBackend().NewWorkbook("Screenshots")
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.EmbedImage(filepath.Join(t.TempDir(), "gone.png"), "C2", 200)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
