package finalize

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/shotlog/packages/core/recorder"
	"github.com/abdul-hamid-achik/shotlog/packages/workbook"
)

const (
	SheetName          = "Screenshots"
	DefaultImageHeight = 200
	// MinRowHeight is the smallest row height in points.
	MinRowHeight = 20.0

	MarkerNotFound = "[Image file not found]"
	MarkerNoPath   = "[No image path]"
)

// Header is the first row of every workbook.
var Header = []any{"Screenshot No.", "Description", "Image"}

var columnWidths = map[string]float64{
	"A": 15,
	"B": 40,
	"C": 50,
}

// WorkbookOptions controls image sizing and logging.
type WorkbookOptions struct {
	ImageHeight int
	Logger      *slog.Logger
}

// WorkbookReport summarises an emitted workbook.
type WorkbookReport struct {
	Path     string
	Rows     int
	Embedded int
	Failed   int
}

// RowHeightFor converts an image height in pixels to a row height in
// points, never below MinRowHeight.
func RowHeightFor(px int) float64 {
	return max(float64(px)*72/96, MinRowHeight)
}

// EmitWorkbook writes one row per artifact with its image scaled to a fixed
// height. A row whose image cannot be embedded gets a marker in the image
// cell and the remaining rows are still written.
func EmitWorkbook(backend workbook.Backend, artifacts []recorder.Artifact, path string, opts WorkbookOptions) (*WorkbookReport, error) {
	if opts.ImageHeight <= 0 {
		opts.ImageHeight = DefaultImageHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	wb, err := backend.NewWorkbook(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create workbook: %w", err)
	}
	defer wb.Close()

	if _, err := wb.AddRow(Header...); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := wb.StyleHeader(1, len(Header)); err != nil {
		return nil, err
	}
	if err := wb.FreezeHeader(); err != nil {
		return nil, err
	}
	for _, col := range []string{"A", "B", "C"} {
		if err := wb.SetColumnWidth(col, columnWidths[col]); err != nil {
			return nil, err
		}
	}

	report := &WorkbookReport{Path: path}
	for _, a := range artifacts {
		row, err := wb.AddRow(a.SequenceLabel, a.Caption)
		if err != nil {
			return nil, err
		}
		report.Rows++

		cell := fmt.Sprintf("C%d", row)
		marker := embedRow(wb, a, cell, opts.ImageHeight)
		if marker == "" {
			report.Embedded++
			if err := wb.SetRowHeight(row, RowHeightFor(opts.ImageHeight)); err != nil {
				logger.Warn("row height not set", "row", row, "error", err)
			}
			continue
		}

		report.Failed++
		logger.Warn("workbook row without image", "label", a.SequenceLabel, "path", a.ImagePath, "marker", marker)
		if err := wb.SetCell(cell, marker); err != nil {
			return nil, err
		}
	}

	if err := wb.Save(path); err != nil {
		return nil, err
	}
	logger.Info("workbook saved", "path", path, "rows", report.Rows, "failed", report.Failed)
	return report, nil
}

// embedRow returns the marker to show instead of the image, or "" on success.
// Errored artifacts are never embedded.
func embedRow(wb workbook.Workbook, a recorder.Artifact, cell string, heightPx int) string {
	if a.ImagePath == "" {
		return MarkerNoPath
	}
	if a.Failed() {
		if _, err := os.Stat(a.ImagePath); err != nil {
			return MarkerNotFound
		}
		return fmt.Sprintf("[Error: %v]", a.Err)
	}
	if _, err := wb.EmbedImage(a.ImagePath, cell, heightPx); err != nil {
		if errors.Is(err, workbook.ErrImageNotFound) {
			return MarkerNotFound
		}
		return fmt.Sprintf("[Error adding image: %v]", err)
	}
	return ""
}
