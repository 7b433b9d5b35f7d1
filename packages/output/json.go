package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary  `json:"summary"`
	Session  *JSONSession `json:"session,omitempty"`
	Events   []JSONEvent  `json:"events"`
	Errors   []string     `json:"errors,omitempty"`
	Duration float64      `json:"duration"`
	Time     string       `json:"time"`
}

// JSONSummary counts artifacts across all events
type JSONSummary struct {
	Events       int `json:"events"`
	Artifacts    int `json:"artifacts"`
	Failed       int `json:"failed"`
	FailedEvents int `json:"failedEvents"`
}

// JSONSession describes the session and its outputs
type JSONSession struct {
	ID            string       `json:"id"`
	Document      string       `json:"document"`
	Workbook      string       `json:"workbook,omitempty"`
	WorkbookError string       `json:"workbookError,omitempty"`
	Manifest      string       `json:"manifest,omitempty"`
	Resumed       bool         `json:"resumed"`
	NextNumber    int          `json:"nextNumber"`
	Cleanup       *JSONCleanup `json:"cleanup,omitempty"`
	Stages        []JSONStage  `json:"stages,omitempty"`
}

// JSONCleanup reports image deletion
type JSONCleanup struct {
	Deleted int      `json:"deleted"`
	Missing int      `json:"missing"`
	Errors  []string `json:"errors,omitempty"`
}

// JSONStage holds latency percentiles in milliseconds
type JSONStage struct {
	Stage string  `json:"stage"`
	Count int64   `json:"count"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	Max   float64 `json:"max"`
}

// JSONEvent represents one trigger
type JSONEvent struct {
	Number    int            `json:"number"`
	Mode      string         `json:"mode"`
	Duration  float64        `json:"duration"`
	Error     string         `json:"error,omitempty"`
	Artifacts []JSONArtifact `json:"artifacts,omitempty"`
}

// JSONArtifact represents a single captured image
type JSONArtifact struct {
	Label   string `json:"label"`
	Caption string `json:"caption"`
	Image   string `json:"image"`
	Display *int   `json:"display,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONFormatter collects session output and writes it as one JSON document
type JSONFormatter struct {
	writer  io.Writer
	started time.Time
	out     JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		started: time.Now(),
		out:     JSONOutput{Events: make([]JSONEvent, 0)},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

func (f *JSONFormatter) FormatSessionStarted(snap session.Snapshot) {
	f.out.Session = &JSONSession{
		ID:         snap.ID,
		Document:   snap.DocumentPath,
		Resumed:    snap.Resumed,
		NextNumber: snap.NextBaseNumber,
	}
}

func (f *JSONFormatter) FormatEvent(result *session.EventResult) {
	if result == nil {
		return
	}
	ev := JSONEvent{
		Number:   result.BaseNumber,
		Mode:     result.Mode.String(),
		Duration: float64(result.Duration.Milliseconds()),
	}
	if result.Err != nil {
		ev.Error = result.Err.Error()
		f.out.Summary.FailedEvents++
	}
	for _, a := range result.Artifacts {
		art := JSONArtifact{
			Label:   a.SequenceLabel,
			Caption: a.Caption,
			Image:   a.ImagePath,
			Display: a.DisplayIndex,
		}
		if a.Err != nil {
			art.Error = a.Err.Error()
			f.out.Summary.Failed++
		}
		ev.Artifacts = append(ev.Artifacts, art)
	}
	f.out.Summary.Events++
	f.out.Summary.Artifacts += len(result.Artifacts)
	f.out.Events = append(f.out.Events, ev)
}

func (f *JSONFormatter) FormatStopReport(report *session.StopReport) {
	if report == nil {
		return
	}
	s := f.out.Session
	if s == nil {
		s = &JSONSession{}
		f.out.Session = s
	}
	s.ID = report.SessionID
	s.Document = report.Document
	s.NextNumber = report.NextBaseNumber
	if report.ManifestErr == nil {
		s.Manifest = report.Manifest
	}
	if report.Workbook != nil {
		s.Workbook = report.Workbook.Path
	}
	if report.WorkbookErr != nil {
		s.WorkbookError = report.WorkbookErr.Error()
	}
	if c := report.Cleanup; c != nil {
		s.Cleanup = &JSONCleanup{Deleted: len(c.Deleted), Missing: len(c.Missing)}
		for _, err := range c.Errors {
			s.Cleanup.Errors = append(s.Cleanup.Errors, err.Error())
		}
	}
	for _, st := range report.Stats.Stages {
		s.Stages = append(s.Stages, JSONStage{
			Stage: st.Stage,
			Count: st.Count,
			P50:   millis(st.P50),
			P95:   millis(st.P95),
			Max:   millis(st.Max),
		})
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.out.Errors = append(f.out.Errors, err.Error())
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	f.out.Duration = float64(time.Since(f.started).Milliseconds())
	f.out.Time = time.Now().Format(time.RFC3339)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.out)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
