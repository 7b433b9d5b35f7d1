package document

import "errors"

const (
	// TwipEMU is the number of EMU in one twip.
	TwipEMU = 635
	// InchEMU is the number of EMU in one inch.
	InchEMU = 914400

	// Letter page with one-inch margins, in twips.
	defaultPageWidthTwips = 12240
	defaultPageHeight     = 15840
	defaultMarginTwips    = 1440
)

// ErrNoImage is returned by AddImage when the image file cannot be read.
var ErrNoImage = errors.New("image not readable")

// Backend creates and opens documents.
type Backend interface {
	NewDocument() (Document, error)
	OpenDocument(path string) (Document, error)
}

// Document is a live, paginated document that artifacts are written into
// one at a time.
type Document interface {
	AddHeading(text string) error
	AddCaption(text string) error
	AddMarker(text string) error
	AddParagraph(text string) error
	AddImage(path string, widthEMU int64) error
	AddPageBreak() error
	// UsableWidth is the page width minus left and right margins, in EMU.
	UsableWidth() int64
	Save(path string) error
	AllText() string
}
