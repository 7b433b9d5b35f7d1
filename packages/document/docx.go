package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxBackend reads and writes Word documents.
type DocxBackend struct{}

// NewDocxBackend creates a Word document backend
func NewDocxBackend() *DocxBackend {
	return &DocxBackend{}
}

// NewDocument creates an empty Letter-sized document.
func (b *DocxBackend) NewDocument() (Document, error) {
	d := docx.New().WithDefaultTheme()
	d.Document.Body.Items = append(d.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{W: defaultPageWidthTwips, H: defaultPageHeight},
		PgMar: &docx.PgMar{
			Top:    defaultMarginTwips,
			Left:   defaultMarginTwips,
			Bottom: defaultMarginTwips,
			Right:  defaultMarginTwips,
			Header: 720,
			Footer: 720,
		},
	})
	return &DocxDocument{doc: d}, nil
}

// OpenDocument parses an existing .docx file.
func (b *DocxBackend) OpenDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	// The parsed document keeps reading template parts from the reader when
	// it is written back, so it must outlive the file handle.
	d, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &DocxDocument{doc: d}, nil
}

// DocxDocument is a Document backed by go-docx.
type DocxDocument struct {
	doc *docx.Docx
}

// AddHeading adds a centered bold title paragraph.
func (d *DocxDocument) AddHeading(text string) error {
	p := d.doc.AddParagraph().Justification("center")
	p.AddText(text).Size("32").Bold()
	return nil
}

// AddCaption adds an italic caption paragraph.
func (d *DocxDocument) AddCaption(text string) error {
	p := d.doc.AddParagraph()
	p.AddText(text).Size("20").Italic()
	return nil
}

// AddMarker adds a red bold paragraph flagging a failed artifact.
func (d *DocxDocument) AddMarker(text string) error {
	p := d.doc.AddParagraph()
	p.AddText(text).Bold().Color("C00000")
	return nil
}

// AddParagraph adds a plain paragraph.
func (d *DocxDocument) AddParagraph(text string) error {
	p := d.doc.AddParagraph()
	if text != "" {
		p.AddText(text)
	}
	return nil
}

// AddImage embeds the image in its own centered paragraph, scaled to
// widthEMU with the aspect ratio preserved, followed by a spacer paragraph.
func (d *DocxDocument) AddImage(path string, widthEMU int64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoImage, err)
	}

	p := d.doc.AddParagraph().Justification("center")
	run, err := p.AddInlineDrawing(data)
	if err != nil {
		d.dropLast()
		return fmt.Errorf("failed to embed image %s: %w", filepath.Base(path), err)
	}

	if widthEMU > 0 {
		for _, child := range run.Children {
			drawing, ok := child.(*docx.Drawing)
			if !ok || drawing.Inline == nil || drawing.Inline.Extent == nil {
				continue
			}
			ext := drawing.Inline.Extent
			height := widthEMU
			if ext.CX > 0 {
				height = widthEMU * ext.CY / ext.CX
			}
			drawing.Inline.Size(widthEMU, height)
		}
	}

	d.doc.AddParagraph()
	return nil
}

// AddPageBreak starts a new page.
func (d *DocxDocument) AddPageBreak() error {
	d.doc.AddParagraph().AddPageBreaks()
	return nil
}

// UsableWidth returns the text width of the last section in EMU.
func (d *DocxDocument) UsableWidth() int64 {
	width, left, right := defaultPageWidthTwips, defaultMarginTwips, defaultMarginTwips
	if sect := d.section(); sect != nil {
		if sect.PgSz != nil && sect.PgSz.W > 0 {
			width = sect.PgSz.W
		}
		if sect.PgMar != nil {
			left, right = sect.PgMar.Left, sect.PgMar.Right
		}
	}
	usable := width - left - right
	if usable <= 0 {
		usable = defaultPageWidthTwips - 2*defaultMarginTwips
	}
	return int64(usable) * TwipEMU
}

// Save writes the document to path through a temporary file so a failed
// write never truncates an existing document.
func (d *DocxDocument) Save(path string) error {
	d.moveSectionsLast()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := d.doc.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// AllText returns the text of every paragraph and table, one per line.
func (d *DocxDocument) AllText() string {
	var sb strings.Builder
	for _, item := range d.doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(o.String())
			sb.WriteByte('\n')
		case *docx.Table:
			sb.WriteString(o.String())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (d *DocxDocument) section() *docx.SectPr {
	items := d.doc.Document.Body.Items
	for i := len(items) - 1; i >= 0; i-- {
		if sect, ok := items[i].(*docx.SectPr); ok {
			return sect
		}
	}
	return nil
}

// moveSectionsLast keeps the body's section properties after all content,
// where Word expects them.
func (d *DocxDocument) moveSectionsLast() {
	items := d.doc.Document.Body.Items
	content := make([]interface{}, 0, len(items))
	var sections []interface{}
	for _, item := range items {
		if _, ok := item.(*docx.SectPr); ok {
			sections = append(sections, item)
			continue
		}
		content = append(content, item)
	}
	d.doc.Document.Body.Items = append(content, sections...)
}

func (d *DocxDocument) dropLast() {
	items := d.doc.Document.Body.Items
	if len(items) > 0 {
		d.doc.Document.Body.Items = items[:len(items)-1]
	}
}
