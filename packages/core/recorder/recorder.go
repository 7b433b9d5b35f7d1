package recorder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abdul-hamid-achik/shotlog/packages/document"
)

// DefaultWidthSafety shrinks images slightly below the text width so they
// never overflow onto a new line.
const DefaultWidthSafety = 0.98

// Recorder writes artifacts into a document as they are captured.
type Recorder struct {
	doc         document.Document
	ledger      *Ledger
	widthSafety float64
	logger      *slog.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithWidthSafety sets the fraction of the usable page width images use.
func WithWidthSafety(f float64) RecorderOption {
	return func(r *Recorder) {
		if f > 0 && f <= 1 {
			r.widthSafety = f
		}
	}
}

// WithLedger records into an existing ledger.
func WithLedger(l *Ledger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.ledger = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRecorder creates a recorder writing into doc.
func NewRecorder(doc document.Document, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		doc:         doc,
		ledger:      NewLedger(),
		widthSafety: DefaultWidthSafety,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordOptions controls how an artifact is laid out.
type RecordOptions struct {
	// PageBreak starts the artifact on a new page.
	PageBreak bool
	// FailedLabel, when set, replaces the sequence label of an artifact that
	// is or becomes errored.
	FailedLabel string
}

// Ledger returns the ledger artifacts are appended to.
func (r *Recorder) Ledger() *Ledger {
	return r.ledger
}

// ImageWidth returns the width images are scaled to, in EMU.
func (r *Recorder) ImageWidth() int64 {
	return int64(float64(r.doc.UsableWidth()) * r.widthSafety)
}

// Record writes the artifact into the document and appends it to the ledger.
// The artifact is always appended, even when a document write fails; the
// returned artifact reflects any failure picked up while embedding.
func (r *Recorder) Record(a Artifact, opts RecordOptions) (Artifact, error) {
	var errs []error

	if opts.PageBreak {
		if err := r.doc.AddPageBreak(); err != nil {
			errs = append(errs, fmt.Errorf("page break: %w", err))
		}
	}

	if !a.Failed() {
		if _, err := os.Stat(a.ImagePath); err != nil {
			a = a.MarkFailed(fmt.Errorf("%w: %v", ErrImageMissing, err))
		}
	}

	if a.Failed() {
		if err := r.doc.AddCaption(documentCaption(a)); err != nil {
			errs = append(errs, fmt.Errorf("caption: %w", err))
		}
		errs = append(errs, r.writeMarker(a)...)
	} else {
		if err := r.doc.AddCaption(documentCaption(a)); err != nil {
			errs = append(errs, fmt.Errorf("caption: %w", err))
		}
		if err := r.doc.AddImage(a.ImagePath, r.ImageWidth()); err != nil {
			a = a.MarkProcessingFailed(err)
			r.logger.Warn("image embed failed", "label", a.SequenceLabel, "path", a.ImagePath, "error", err)
			if mErr := r.doc.AddMarker(fmt.Sprintf("[Error adding image: %v]", err)); mErr != nil {
				errs = append(errs, fmt.Errorf("marker: %w", mErr))
			}
		}
	}

	if a.Failed() && opts.FailedLabel != "" {
		a.SequenceLabel = opts.FailedLabel
	}

	r.ledger.Append(a)
	r.logger.Info("artifact recorded",
		"label", a.SequenceLabel,
		"path", a.ImagePath,
		"failed", a.Failed(),
	)

	return a, errors.Join(errs...)
}

func documentCaption(a Artifact) string {
	if a.DocumentCaption != "" {
		return a.DocumentCaption
	}
	return a.Caption
}

func (r *Recorder) writeMarker(a Artifact) []error {
	if err := r.doc.AddMarker(fmt.Sprintf("[Error: %v]", a.Err)); err != nil {
		return []error{fmt.Errorf("marker: %w", err)}
	}
	return nil
}
