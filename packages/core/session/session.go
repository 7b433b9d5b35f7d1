package session

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/compositor"
	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
	"github.com/abdul-hamid-achik/shotlog/packages/core/recorder"
	"github.com/abdul-hamid-achik/shotlog/packages/core/resume"
	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/abdul-hamid-achik/shotlog/packages/document"
	"github.com/abdul-hamid-achik/shotlog/packages/journal"
	"github.com/abdul-hamid-achik/shotlog/packages/shell"
	"github.com/abdul-hamid-achik/shotlog/packages/stats"
	"github.com/abdul-hamid-achik/shotlog/packages/workbook"
	"github.com/google/uuid"
)

// ImageWriter persists a captured image.
type ImageWriter func(path string, img image.Image) error

// WritePNG encodes img as PNG at path, removing partial output on failure.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Session is a single evidence capture session.
type Session struct {
	mu sync.Mutex

	id      string
	state   State
	cfg     *config.Config
	mode    Mode
	targets []int
	caption string
	next    int
	step    int
	resumed bool

	outputDir    string
	docPath      string
	workbookPath string
	doc          document.Document
	recorder     *recorder.Recorder
	journal      *journal.Journal

	enumerator display.Enumerator
	compositor *compositor.Compositor
	documents  document.Backend
	workbooks  workbook.Backend
	validator  FolderValidator
	shell      *shell.Guard
	metrics    *stats.Metrics
	logger     *slog.Logger
	now        func() time.Time
	writeImage ImageWriter
}

// Option configures a Session.
type Option func(*Session)

// WithEnumerator sets the display enumerator.
func WithEnumerator(e display.Enumerator) Option {
	return func(s *Session) { s.enumerator = e }
}

// WithGrabber sets the screen grabber behind the compositor.
func WithGrabber(g compositor.Grabber) Option {
	return func(s *Session) { s.compositor = compositor.New(g) }
}

// WithDocumentBackend sets the document backend.
func WithDocumentBackend(b document.Backend) Option {
	return func(s *Session) { s.documents = b }
}

// WithWorkbookBackend sets the workbook backend.
func WithWorkbookBackend(b workbook.Backend) Option {
	return func(s *Session) { s.workbooks = b }
}

// WithFolderValidator sets the output folder check.
func WithFolderValidator(v FolderValidator) Option {
	return func(s *Session) { s.validator = v }
}

// WithShellGuard sets the shell visibility guard shared with the caller.
func WithShellGuard(g *shell.Guard) Option {
	return func(s *Session) { s.shell = g }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *stats.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithImageWriter sets how captured images are written to disk.
func WithImageWriter(w ImageWriter) Option {
	return func(s *Session) { s.writeImage = w }
}

// New creates an Idle session. Unset collaborators use the live screen,
// Word and Excel backends and the platform shell toggle.
func New(opts ...Option) *Session {
	s := &Session{state: StateIdle}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.enumerator == nil {
		s.enumerator = display.NewScreenEnumerator()
	}
	if s.compositor == nil {
		s.compositor = compositor.New(nil)
	}
	if s.documents == nil {
		s.documents = document.NewDocxBackend()
	}
	if s.workbooks == nil {
		s.workbooks = workbook.NewExcelBackend()
	}
	if s.validator == nil {
		s.validator = OSFolderValidator{}
	}
	if s.shell == nil {
		s.shell = shell.NewGuard(shell.NewPlatformToggle(), s.logger)
	}
	if s.metrics == nil {
		s.metrics = stats.NewMetrics()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.writeImage == nil {
		s.writeImage = WritePNG
	}
	return s
}

// Start opens a new document and arms the session. Numbering starts at 1.
func (s *Session) Start(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	cfg, mode, err := prepareConfig(cfg)
	if err != nil {
		return err
	}

	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &ConfigError{Msg: fmt.Sprintf("output folder %s cannot be created", dir), Err: err}
	}
	if !s.validator.IsWritableDirectory(dir) {
		return &ConfigError{Msg: fmt.Sprintf("output folder %s is not writable", dir)}
	}

	docPath := filepath.Join(dir, cfg.DocumentName())
	if _, err := os.Stat(docPath); err == nil && !cfg.GetOverwrite() {
		return &ConfigError{Msg: fmt.Sprintf("document %s already exists (resume it or pass --overwrite)", docPath)}
	}

	doc, err := s.documents.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	if err := doc.AddHeading("Test Case: " + cfg.CaseName); err != nil {
		return fmt.Errorf("failed to write heading: %w", err)
	}

	s.activate(cfg, mode, doc, dir, docPath, filepath.Join(dir, cfg.WorkbookName()), 1, false)
	return nil
}

// Resume attaches to an existing document and continues its numbering from
// the highest screenshot number found in it.
func (s *Session) Resume(cfg *config.Config, documentPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	cfg, mode, err := prepareConfig(cfg)
	if err != nil {
		return err
	}

	doc, err := s.documents.OpenDocument(documentPath)
	if err != nil {
		s.logger.Error("resume failed", "document", documentPath, "error", err)
		return &DocumentOpenError{Path: documentPath, Err: err}
	}

	dir := filepath.Dir(documentPath)
	if !s.validator.IsWritableDirectory(dir) {
		return &ConfigError{Msg: fmt.Sprintf("output folder %s is not writable", dir)}
	}
	cfg.OutputDir = dir

	last := resume.FindLastSequenceNumber(doc)
	base := strings.TrimSuffix(documentPath, filepath.Ext(documentPath))
	s.logger.Info("resuming document", "document", documentPath, "last_number", last)

	s.activate(cfg, mode, doc, dir, documentPath, base+"_appended_data.xlsx", last+1, true)
	return nil
}

func prepareConfig(cfg *config.Config) (*config.Config, Mode, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	// Work on a copy; the caller's config is not mutated.
	c := *cfg
	c.Displays = append([]int(nil), cfg.Displays...)
	if err := c.Validate(); err != nil {
		return nil, 0, &ConfigError{Msg: "invalid settings", Err: err}
	}
	mode, err := ParseMode(c.Mode)
	if err != nil {
		return nil, 0, &ConfigError{Msg: "invalid settings", Err: err}
	}
	return &c, mode, nil
}

// activate moves an Idle session to Active. Callers hold s.mu.
func (s *Session) activate(cfg *config.Config, mode Mode, doc document.Document, dir, docPath, workbookPath string, next int, resumed bool) {
	s.id = uuid.NewString()
	s.cfg = cfg
	s.mode = mode
	s.targets = append([]int(nil), cfg.Displays...)
	s.caption = cfg.Caption
	s.next = next
	s.step = cfg.IncrementStep
	s.resumed = resumed
	s.outputDir = dir
	s.docPath = docPath
	s.workbookPath = workbookPath
	s.doc = doc
	s.recorder = recorder.NewRecorder(doc,
		recorder.WithWidthSafety(cfg.WidthSafety),
		recorder.WithLogger(s.logger),
	)

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			s.logger.Warn("journal unavailable, continuing without it", "path", cfg.Journal, "error", err)
		} else if err := j.BeginSession(journal.Session{
			ID:          s.id,
			CaseName:    cfg.CaseName,
			Document:    docPath,
			Resumed:     resumed,
			FirstNumber: next,
			StartedAt:   s.now(),
		}); err != nil {
			s.logger.Warn("journal session not recorded", "error", err)
			_ = j.Close()
		} else {
			s.journal = j
		}
	}

	if cfg.GetHideShell() {
		s.shell.HideForSession()
	}

	s.state = StateActive
	s.logger.Info("session started",
		"id", s.id,
		"document", docPath,
		"mode", mode.String(),
		"next_number", next,
		"resumed", resumed,
	)
}

// SetCaption changes the caption used by later captures.
func (s *Session) SetCaption(caption string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caption = caption
}

// SetManualShell hides or shows the shell on the user's behalf, separately
// from any hide the session itself owns.
func (s *Session) SetManualShell(hidden bool) {
	s.shell.SetManual(hidden)
}

// NewRequest builds a capture request from the session settings. A
// non-empty caption overrides the current caption for this request only.
func (s *Session) NewRequest(caption string) CaptureRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caption == "" {
		caption = s.caption
	}
	req := CaptureRequest{
		Mode:    s.mode,
		Targets: append([]int(nil), s.targets...),
		Caption: caption,
	}
	if s.cfg != nil && s.cfg.GetTimestamp() {
		req.TimestampSuffix = s.now().Format(TimestampLayout)
	}
	return req
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID             string
	State          State
	Mode           Mode
	NextBaseNumber int
	IncrementStep  int
	Caption        string
	Resumed        bool
	OutputDir      string
	DocumentPath   string
	WorkbookPath   string
	ShellHidden    bool
	Artifacts      []recorder.Artifact
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		State:          s.state,
		Mode:           s.mode,
		NextBaseNumber: s.next,
		IncrementStep:  s.step,
		Caption:        s.caption,
		Resumed:        s.resumed,
		OutputDir:      s.outputDir,
		DocumentPath:   s.docPath,
		WorkbookPath:   s.workbookPath,
		ShellHidden:    s.shell.Hidden(),
	}
	if s.recorder != nil {
		snap.Artifacts = s.recorder.Ledger().Artifacts()
	}
	return snap
}

// Metrics returns the session's metrics collector.
func (s *Session) Metrics() *stats.Metrics {
	return s.metrics
}

// Close tears the session down without persisting: the shell hide owned by
// the session is released and an Active session becomes Finalized. It is
// safe to call after Stop and more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shell.ReleaseSession()

	var err error
	if s.journal != nil {
		if s.state == StateActive {
			_ = s.journal.EndSession(s.id, s.now())
		}
		err = s.journal.Close()
		s.journal = nil
	}
	if s.state == StateActive {
		s.logger.Warn("session abandoned without saving", "id", s.id, "document", s.docPath, "artifacts", s.recorder.Ledger().Len())
		s.state = StateFinalized
	}
	return err
}

func (s *Session) journalArtifact(a recorder.Artifact) {
	if s.journal == nil {
		return
	}
	entry := journal.Entry{
		SessionID:    s.id,
		Label:        a.SequenceLabel,
		Caption:      a.Caption,
		ImagePath:    a.ImagePath,
		DisplayIndex: a.DisplayIndex,
		CapturedAt:   a.CapturedAt,
	}
	if a.Err != nil {
		entry.Error = a.Err.Error()
	}
	if err := s.journal.Append(entry); err != nil {
		s.logger.Warn("journal append failed", "label", a.SequenceLabel, "error", err)
	}
}
