// Package workbook provides the companion spreadsheet that indexes every
// captured artifact, with an Excel (.xlsx) implementation.
package workbook

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/xuri/excelize/v2"
)

// ErrImageNotFound is returned by EmbedImage when the file does not exist.
var ErrImageNotFound = errors.New("image file not found")

// Backend creates workbooks.
type Backend interface {
	NewWorkbook(sheet string) (Workbook, error)
}

// Workbook is a single-sheet spreadsheet written row by row.
type Workbook interface {
	// AddRow appends a row and returns its 1-based number.
	AddRow(cells ...any) (int, error)
	// EmbedImage anchors the image at cell scaled to heightPx, returning the
	// scaled width in pixels.
	EmbedImage(path, cell string, heightPx int) (int, error)
	SetCell(cell string, value any) error
	SetRowHeight(row int, points float64) error
	SetColumnWidth(col string, width float64) error
	StyleHeader(row, columns int) error
	FreezeHeader() error
	Save(path string) error
	Close() error
}

// ImageSize returns the pixel dimensions of an image file.
func ImageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// ScaleToHeight returns the proportional width for an image scaled to
// heightPx, and the scale factor used.
func ScaleToHeight(w, h, heightPx int) (int, float64) {
	if h <= 0 || heightPx <= 0 {
		return w, 1
	}
	scale := float64(heightPx) / float64(h)
	return int(math.Round(float64(w) * scale)), scale
}

// ExcelBackend writes .xlsx files.
type ExcelBackend struct{}

// NewExcelBackend creates an Excel workbook backend
func NewExcelBackend() *ExcelBackend {
	return &ExcelBackend{}
}

// NewWorkbook creates a workbook whose only sheet is named sheet.
func (b *ExcelBackend) NewWorkbook(sheet string) (Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return &ExcelWorkbook{file: f, sheet: sheet}, nil
}

// ExcelWorkbook is a Workbook backed by excelize.
type ExcelWorkbook struct {
	file  *excelize.File
	sheet string
	rows  int
}

func (w *ExcelWorkbook) AddRow(cells ...any) (int, error) {
	row := w.rows + 1
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return 0, err
	}
	if err := w.file.SetSheetRow(w.sheet, cell, &cells); err != nil {
		return 0, fmt.Errorf("failed to write row %d: %w", row, err)
	}
	w.rows = row
	return row, nil
}

func (w *ExcelWorkbook) EmbedImage(path, cell string, heightPx int) (int, error) {
	iw, ih, err := ImageSize(path)
	if err != nil {
		return 0, err
	}
	width, scale := ScaleToHeight(iw, ih, heightPx)
	opts := &excelize.GraphicOptions{
		ScaleX:          scale,
		ScaleY:          scale,
		LockAspectRatio: true,
		Positioning:     "oneCell",
		OffsetX:         2,
		OffsetY:         2,
	}
	if err := w.file.AddPicture(w.sheet, cell, path, opts); err != nil {
		return 0, fmt.Errorf("failed to add picture at %s: %w", cell, err)
	}
	return width, nil
}

func (w *ExcelWorkbook) SetCell(cell string, value any) error {
	return w.file.SetCellValue(w.sheet, cell, value)
}

func (w *ExcelWorkbook) SetRowHeight(row int, points float64) error {
	return w.file.SetRowHeight(w.sheet, row, points)
}

func (w *ExcelWorkbook) SetColumnWidth(col string, width float64) error {
	return w.file.SetColWidth(w.sheet, col, col, width)
}

// StyleHeader makes the first columns of row bold and centered.
func (w *ExcelWorkbook) StyleHeader(row, columns int) error {
	style, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, first, last, style)
}

// FreezeHeader keeps the first row visible while scrolling.
func (w *ExcelWorkbook) FreezeHeader() error {
	return w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *ExcelWorkbook) Save(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}
