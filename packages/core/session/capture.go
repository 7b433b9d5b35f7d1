package session

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/compositor"
	"github.com/abdul-hamid-achik/shotlog/packages/core/recorder"
	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/abdul-hamid-achik/shotlog/packages/stats"
)

// EventResult describes one processed trigger.
type EventResult struct {
	BaseNumber int
	Mode       Mode
	Artifacts  []recorder.Artifact
	// Err is set when the whole event was aborted (no displays, no valid
	// target, failed grab). Per-display failures are on the artifacts.
	Err      error
	Duration time.Duration
}

// Failed returns the number of errored artifacts.
func (r *EventResult) Failed() int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Failed() {
			n++
		}
	}
	return n
}

// Trigger processes one capture event. Outside the Active state it does
// nothing and returns ErrNotActive. Otherwise the event is stamped with the
// next base number and, whatever the outcome, the counter then advances by
// the increment step. The returned error is the event-level failure, if any.
func (s *Session) Trigger(req CaptureRequest) (*EventResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		s.logger.Warn("trigger ignored", "state", s.state.String())
		return nil, ErrNotActive
	}

	start := time.Now()
	req.BaseSequenceNumber = s.next
	result := &EventResult{BaseNumber: req.BaseSequenceNumber, Mode: req.Mode}

	result.Err = s.fanOut(req, result)

	s.next += s.step
	result.Duration = time.Since(start)

	s.metrics.Observe(stats.StageEvent, result.Duration)
	s.metrics.RecordEvent(len(result.Artifacts), result.Failed(), result.Err)

	if result.Err != nil {
		s.logger.Error("capture event failed",
			"number", req.BaseSequenceNumber,
			"mode", req.Mode.String(),
			"error", result.Err,
			"next_number", s.next,
		)
	} else {
		s.logger.Info("capture event processed",
			"number", req.BaseSequenceNumber,
			"artifacts", len(result.Artifacts),
			"failed", result.Failed(),
			"next_number", s.next,
		)
	}
	return result, result.Err
}

func (s *Session) fanOut(req CaptureRequest, result *EventResult) error {
	displays, err := s.enumerator.Enumerate()
	if err != nil {
		return err
	}
	if len(displays) == 0 {
		return display.ErrNoDisplays
	}

	switch req.Mode {
	case ModeSingle:
		return s.captureSingle(req, displays, result)
	case ModeAllStitched:
		return s.captureAll(req, displays, result)
	case ModeMultiSelect:
		return s.captureMulti(req, displays, result)
	default:
		return fmt.Errorf("unknown capture mode %v", req.Mode)
	}
}

func (s *Session) captureSingle(req CaptureRequest, displays []display.Display, result *EventResult) error {
	d, ok := primaryOf(displays)
	if len(req.Targets) > 0 {
		d, ok = display.Lookup(displays, req.Targets[0])
	}
	if !ok {
		return fmt.Errorf("%w: display %v", ErrInvalidTarget, req.Targets)
	}

	raw, offX, offY, err := s.grab([]display.Display{d})
	if err != nil {
		return err
	}

	base := req.BaseSequenceNumber
	path := s.imagePath(req, fmt.Sprintf("Monitor%d", d.Index+1))
	img, err := compositor.CropForDisplay(raw, d, offX, offY)
	if err == nil {
		err = s.save(path, img)
	}
	a := recorder.NewArtifact(strconv.Itoa(base), path, req.Caption, singleCaption(base, d.Index, req.Caption), recorder.IntPtr(d.Index))
	s.record(a, err, recorder.RecordOptions{}, result)
	return nil
}

func (s *Session) captureAll(req CaptureRequest, displays []display.Display, result *EventResult) error {
	raw, _, _, err := s.grab(displays)
	if err != nil {
		return err
	}

	base := req.BaseSequenceNumber
	path := s.imagePath(req, "AllMonitors")
	err = s.save(path, raw)
	a := recorder.NewArtifact(strconv.Itoa(base), path, req.Caption, allCaption(base, req.Caption), nil)
	s.record(a, err, recorder.RecordOptions{}, result)
	return nil
}

func (s *Session) captureMulti(req CaptureRequest, displays []display.Display, result *EventResult) error {
	var selected []display.Display
	for _, idx := range normalizeTargets(req.Targets) {
		d, ok := display.Lookup(displays, idx)
		if !ok {
			s.logger.Warn("ignoring unknown display", "index", idx, "available", len(displays))
			continue
		}
		selected = append(selected, d)
	}
	if len(selected) == 0 {
		return fmt.Errorf("%w: none of %v", ErrInvalidTarget, req.Targets)
	}

	// One grab for all selected displays so they show the same instant.
	raw, offX, offY, err := s.grab(selected)
	if err != nil {
		return err
	}

	base := req.BaseSequenceNumber
	successes := 0
	for _, d := range selected {
		path := s.imagePath(req, fmt.Sprintf("Monitor%d", d.Index+1))
		caption := fmt.Sprintf("%s (Monitor %d)", req.Caption, d.Index+1)

		img, err := compositor.CropForDisplay(raw, d, offX, offY)
		if err == nil {
			err = s.save(path, img)
		}

		errLabel := fmt.Sprintf("%d-E%d", base, d.Index+1)
		if err != nil {
			a := recorder.NewArtifact(errLabel, path, caption, multiCaption(base, d.Index, req.Caption), recorder.IntPtr(d.Index))
			s.record(a, err, recorder.RecordOptions{}, result)
			continue
		}
		// A success label is only kept if the image also makes it into
		// the document; otherwise the artifact takes the error label.
		a := recorder.NewArtifact(fmt.Sprintf("%d-%d", base, successes+1), path, caption, multiCaption(base, d.Index, req.Caption), recorder.IntPtr(d.Index))
		opts := recorder.RecordOptions{PageBreak: successes > 0, FailedLabel: errLabel}
		if recorded := s.record(a, nil, opts, result); !recorded.Failed() {
			successes++
		}
	}
	return nil
}

func (s *Session) grab(displays []display.Display) (*image.RGBA, int, int, error) {
	var (
		img        *image.RGBA
		offX, offY int
	)
	err := s.metrics.Time(stats.StageGrab, func() error {
		var err error
		img, offX, offY, err = s.compositor.GrabBoundingBoxOf(displays)
		return err
	})
	return img, offX, offY, err
}

func (s *Session) save(path string, img image.Image) error {
	err := s.metrics.Time(stats.StageSave, func() error {
		return s.writeImage(path, img)
	})
	if err != nil {
		return &SaveIOError{Op: "image", Path: path, Err: err}
	}
	return nil
}

// record writes the artifact, marking it failed with captureErr when set.
func (s *Session) record(a recorder.Artifact, captureErr error, opts recorder.RecordOptions, result *EventResult) recorder.Artifact {
	a.CapturedAt = s.now()
	if captureErr != nil {
		a = a.MarkFailed(captureErr)
		s.logger.Error("capture failed", "label", a.SequenceLabel, "path", a.ImagePath, "error", captureErr)
	}

	var recorded recorder.Artifact
	_ = s.metrics.Time(stats.StageRecord, func() error {
		var err error
		recorded, err = s.recorder.Record(a, opts)
		if err != nil {
			s.logger.Error("document write failed", "label", a.SequenceLabel, "error", err)
		}
		return err
	})

	result.Artifacts = append(result.Artifacts, recorded)
	s.journalArtifact(recorded)
	return recorded
}

func (s *Session) imagePath(req CaptureRequest, suffix string) string {
	name := ImageFileName(s.cfg.CaseName, req.BaseSequenceNumber, req.Caption, req.TimestampSuffix, suffix)
	return filepath.Join(s.outputDir, name)
}

func primaryOf(displays []display.Display) (display.Display, bool) {
	for _, d := range displays {
		if d.Primary {
			return d, true
		}
	}
	if len(displays) > 0 {
		return displays[0], true
	}
	return display.Display{}, false
}
