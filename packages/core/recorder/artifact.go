package recorder

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Caption prefixes for errored artifacts.
const (
	// SaveErrorPrefix marks artifacts whose image could not be saved.
	SaveErrorPrefix = "[SAVE ERROR] "
	// ProcessingErrorPrefix marks artifacts whose saved image could not be
	// put into the document.
	ProcessingErrorPrefix = "[PROCESSING ERROR] "
)

// ErrImageMissing is set on artifacts whose image is not on disk.
var ErrImageMissing = errors.New("image file missing")

// Artifact is one captured image and its captions.
type Artifact struct {
	SequenceLabel string
	ImagePath     string
	// Caption is the description used in the ledger and workbook.
	Caption string
	// DocumentCaption is the paragraph written above the image.
	DocumentCaption string
	DisplayIndex    *int
	CapturedAt      time.Time
	Err             error
}

// NewArtifact builds an artifact and checks that its image exists. A missing
// image yields an errored artifact rather than no artifact.
func NewArtifact(label, imagePath, caption, documentCaption string, displayIndex *int) Artifact {
	a := Artifact{
		SequenceLabel:   label,
		ImagePath:       imagePath,
		Caption:         caption,
		DocumentCaption: documentCaption,
		DisplayIndex:    displayIndex,
		CapturedAt:      time.Now(),
	}
	if imagePath == "" {
		return a.MarkFailed(fmt.Errorf("%w: no path", ErrImageMissing))
	}
	if _, err := os.Stat(imagePath); err != nil {
		return a.MarkFailed(fmt.Errorf("%w: %v", ErrImageMissing, err))
	}
	return a
}

// MarkFailed returns a copy tagged with err and captions prefixed with
// SaveErrorPrefix.
func (a Artifact) MarkFailed(err error) Artifact {
	return a.markFailed(SaveErrorPrefix, err)
}

// MarkProcessingFailed is MarkFailed for an image that exists on disk but
// could not be embedded.
func (a Artifact) MarkProcessingFailed(err error) Artifact {
	return a.markFailed(ProcessingErrorPrefix, err)
}

// markFailed prefixes the captions only the first time.
func (a Artifact) markFailed(prefix string, err error) Artifact {
	if a.Err == nil {
		a.Caption = prefix + a.Caption
		if a.DocumentCaption != "" {
			a.DocumentCaption = prefix + a.DocumentCaption
		}
	}
	a.Err = err
	return a
}

// Failed reports whether the artifact carries an error.
func (a Artifact) Failed() bool {
	return a.Err != nil
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
