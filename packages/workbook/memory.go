package workbook

import (
	"fmt"
	"sync"
)

// MemoryBackend records workbooks in memory.
type MemoryBackend struct {
	mu        sync.Mutex
	Workbooks []*MemoryWorkbook
	// EmbedErr, when set, is returned by EmbedImage for matching paths.
	EmbedErr map[string]error
	SaveErr  error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{EmbedErr: make(map[string]error)}
}

func (b *MemoryBackend) NewWorkbook(sheet string) (Workbook, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := &MemoryWorkbook{
		backend:    b,
		Sheet:      sheet,
		Cells:      make(map[string]any),
		Images:     make(map[string]string),
		RowHeights: make(map[int]float64),
		ColWidths:  make(map[string]float64),
	}
	b.Workbooks = append(b.Workbooks, w)
	return w, nil
}

// MemoryWorkbook captures everything written to a workbook.
type MemoryWorkbook struct {
	backend    *MemoryBackend
	Sheet      string
	Rows       [][]any
	Cells      map[string]any
	Images     map[string]string
	RowHeights map[int]float64
	ColWidths  map[string]float64
	Frozen     bool
	HeaderRow  int
	SavedTo    string
	Closed     bool
}

func (w *MemoryWorkbook) AddRow(cells ...any) (int, error) {
	w.Rows = append(w.Rows, cells)
	return len(w.Rows), nil
}

func (w *MemoryWorkbook) EmbedImage(path, cell string, heightPx int) (int, error) {
	if err := w.backend.EmbedErr[path]; err != nil {
		return 0, err
	}
	iw, ih, err := ImageSize(path)
	if err != nil {
		return 0, err
	}
	width, _ := ScaleToHeight(iw, ih, heightPx)
	w.Images[cell] = path
	return width, nil
}

func (w *MemoryWorkbook) SetCell(cell string, value any) error {
	w.Cells[cell] = value
	return nil
}

func (w *MemoryWorkbook) SetRowHeight(row int, points float64) error {
	w.RowHeights[row] = points
	return nil
}

func (w *MemoryWorkbook) SetColumnWidth(col string, width float64) error {
	w.ColWidths[col] = width
	return nil
}

func (w *MemoryWorkbook) StyleHeader(row, columns int) error {
	if columns < 1 {
		return fmt.Errorf("invalid column count %d", columns)
	}
	w.HeaderRow = row
	return nil
}

func (w *MemoryWorkbook) FreezeHeader() error {
	w.Frozen = true
	return nil
}

func (w *MemoryWorkbook) Save(path string) error {
	if w.backend.SaveErr != nil {
		return w.backend.SaveErr
	}
	w.SavedTo = path
	return nil
}

func (w *MemoryWorkbook) Close() error {
	w.Closed = true
	return nil
}
