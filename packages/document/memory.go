package document

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Block kinds recorded by MemoryDocument.
const (
	BlockHeading   = "heading"
	BlockCaption   = "caption"
	BlockMarker    = "marker"
	BlockParagraph = "paragraph"
	BlockImage     = "image"
	BlockPageBreak = "pagebreak"
)

// Block is one element written into a MemoryDocument.
type Block struct {
	Kind  string
	Text  string
	Width int64
}

// MemoryBackend keeps documents in memory, keyed by path once saved.
// OpenDocument on an unknown path fails the same way a corrupt file would.
type MemoryBackend struct {
	mu        sync.Mutex
	saved     map[string][]Block
	SaveErr   error
	PageWidth int64
	// EmbedErr fails AddImage for the given image paths.
	EmbedErr map[string]error
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		saved:    make(map[string][]Block),
		EmbedErr: make(map[string]error),
	}
}

// Seed registers existing document content at path.
func (b *MemoryBackend) Seed(path string, paragraphs ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blocks := make([]Block, 0, len(paragraphs))
	for _, p := range paragraphs {
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: p})
	}
	b.saved[path] = blocks
}

// Saved returns the blocks last saved at path.
func (b *MemoryBackend) Saved(path string) ([]Block, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blocks, ok := b.saved[path]
	return append([]Block(nil), blocks...), ok
}

func (b *MemoryBackend) NewDocument() (Document, error) {
	return &MemoryDocument{backend: b}, nil
}

func (b *MemoryBackend) OpenDocument(path string) (Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	blocks, ok := b.saved[path]
	if !ok {
		return nil, fmt.Errorf("failed to parse document: %s: %w", path, os.ErrNotExist)
	}
	return &MemoryDocument{backend: b, blocks: append([]Block(nil), blocks...)}, nil
}

// MemoryDocument records every write as a Block.
type MemoryDocument struct {
	backend *MemoryBackend
	mu      sync.Mutex
	blocks  []Block
}

func (d *MemoryDocument) add(b Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocks = append(d.blocks, b)
	return nil
}

func (d *MemoryDocument) AddHeading(text string) error {
	return d.add(Block{Kind: BlockHeading, Text: text})
}

func (d *MemoryDocument) AddCaption(text string) error {
	return d.add(Block{Kind: BlockCaption, Text: text})
}

func (d *MemoryDocument) AddMarker(text string) error {
	return d.add(Block{Kind: BlockMarker, Text: text})
}

func (d *MemoryDocument) AddParagraph(text string) error {
	return d.add(Block{Kind: BlockParagraph, Text: text})
}

func (d *MemoryDocument) AddImage(path string, widthEMU int64) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	if d.backend != nil {
		d.backend.mu.Lock()
		err := d.backend.EmbedErr[path]
		d.backend.mu.Unlock()
		if err != nil {
			return err
		}
	}
	return d.add(Block{Kind: BlockImage, Text: path, Width: widthEMU})
}

func (d *MemoryDocument) AddPageBreak() error {
	return d.add(Block{Kind: BlockPageBreak})
}

func (d *MemoryDocument) UsableWidth() int64 {
	if d.backend != nil && d.backend.PageWidth > 0 {
		return d.backend.PageWidth
	}
	return int64(defaultPageWidthTwips-2*defaultMarginTwips) * TwipEMU
}

func (d *MemoryDocument) Save(path string) error {
	if d.backend == nil {
		return errors.New("document has no backend")
	}
	if d.backend.SaveErr != nil {
		return d.backend.SaveErr
	}
	d.mu.Lock()
	blocks := append([]Block(nil), d.blocks...)
	d.mu.Unlock()

	d.backend.mu.Lock()
	d.backend.saved[path] = blocks
	d.backend.mu.Unlock()
	return nil
}

func (d *MemoryDocument) AllText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb strings.Builder
	for _, b := range d.blocks {
		if b.Text == "" || b.Kind == BlockImage {
			continue
		}
		sb.WriteString(b.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Blocks returns a copy of everything written so far.
func (d *MemoryDocument) Blocks() []Block {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Block(nil), d.blocks...)
}
