package session

import (
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/core/recorder"
	"github.com/abdul-hamid-achik/shotlog/packages/finalize"
	"github.com/abdul-hamid-achik/shotlog/packages/manifest"
	"github.com/abdul-hamid-achik/shotlog/packages/stats"
)

// StopReport summarises a finalized session.
type StopReport struct {
	SessionID      string
	Document       string
	Workbook       *finalize.WorkbookReport
	WorkbookErr    error
	Cleanup        *finalize.CleanupReport
	Manifest       string
	ManifestErr    error
	Artifacts      int
	Failed         int
	NextBaseNumber int
	Stats          stats.Summary
}

// Stop persists the document and finalizes the session. The session-owned
// shell hide is released first, whatever happens next. If the document
// cannot be saved nothing else runs, images are kept and the session stays
// Active so Stop can be retried. Workbook and manifest failures are
// reported but do not block finalization.
func (s *Session) Stop() (*StopReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shell.ReleaseSession()

	if s.state != StateActive {
		return nil, ErrNotActive
	}

	if err := s.doc.Save(s.docPath); err != nil {
		s.logger.Error("document save failed, images kept", "document", s.docPath, "error", err)
		return nil, &SaveIOError{Op: "document", Path: s.docPath, Err: err}
	}
	s.logger.Info("document saved", "document", s.docPath)

	artifacts := s.recorder.Ledger().Artifacts()
	report := &StopReport{
		SessionID:      s.id,
		Document:       s.docPath,
		Artifacts:      len(artifacts),
		Failed:         s.recorder.Ledger().Failed(),
		NextBaseNumber: s.next,
	}

	if s.cfg.GetWorkbook() {
		if len(artifacts) == 0 {
			s.logger.Info("no artifacts, workbook skipped")
		} else {
			wb, err := finalize.EmitWorkbook(s.workbooks, artifacts, s.workbookPath, finalize.WorkbookOptions{
				ImageHeight: s.cfg.ImageHeight,
				Logger:      s.logger,
			})
			report.Workbook, report.WorkbookErr = wb, err
			if err != nil {
				s.logger.Error("workbook not written", "path", s.workbookPath, "error", err)
			}
		}
	}

	// Images are embedded in the saved document, so the sources can go.
	if s.cfg.GetDeleteImages() {
		report.Cleanup = finalize.Cleanup(artifacts)
		if err := report.Cleanup.Err(); err != nil {
			s.logger.Warn("some images were not deleted", "error", err)
		}
		s.logger.Info("images cleaned up",
			"deleted", len(report.Cleanup.Deleted),
			"missing", len(report.Cleanup.Missing),
			"errors", len(report.Cleanup.Errors),
		)
	}

	report.Manifest = manifest.PathFor(s.docPath)
	report.ManifestErr = manifest.Write(s.buildManifest(report, artifacts))
	if report.ManifestErr != nil {
		s.logger.Warn("manifest not written", "error", report.ManifestErr)
	}

	if s.journal != nil {
		if err := s.journal.EndSession(s.id, s.now()); err != nil {
			s.logger.Warn("journal session not closed", "error", err)
		}
		_ = s.journal.Close()
		s.journal = nil
	}

	report.Stats = s.metrics.Summary()
	s.state = StateFinalized
	s.logger.Info("session stopped",
		"id", s.id,
		"artifacts", report.Artifacts,
		"failed", report.Failed,
		"next_number", s.next,
	)
	return report, nil
}

func (s *Session) buildManifest(report *StopReport, artifacts []recorder.Artifact) *manifest.Manifest {
	m := &manifest.Manifest{
		SessionID:     s.id,
		CaseName:      s.cfg.CaseName,
		Version:       s.cfg.Version,
		Document:      s.docPath,
		Mode:          s.mode.String(),
		IncrementStep: s.step,
		NextNumber:    s.next,
		StoppedAt:     s.now().UTC().Truncate(time.Second),
	}
	if report.Workbook != nil {
		m.Workbook = report.Workbook.Path
	}
	for _, a := range artifacts {
		item := manifest.Item{Label: a.SequenceLabel, Caption: a.Caption, Image: a.ImagePath}
		if a.Err != nil {
			item.Error = a.Err.Error()
		}
		m.Artifacts = append(m.Artifacts, item)
	}
	return m
}
