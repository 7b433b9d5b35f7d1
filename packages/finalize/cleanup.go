package finalize

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/shotlog/packages/core/recorder"
)

// CleanupReport lists what happened to each source image.
type CleanupReport struct {
	Deleted []string
	Missing []string
	Errors  []error
}

// Err joins every deletion failure.
func (r *CleanupReport) Err() error {
	return errors.Join(r.Errors...)
}

// Cleanup deletes the image of every artifact. Images that are already gone
// are not errors; other failures are collected without stopping.
func Cleanup(artifacts []recorder.Artifact) *CleanupReport {
	report := &CleanupReport{}
	seen := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		if a.ImagePath == "" || seen[a.ImagePath] {
			continue
		}
		seen[a.ImagePath] = true

		err := os.Remove(a.ImagePath)
		switch {
		case err == nil:
			report.Deleted = append(report.Deleted, a.ImagePath)
		case errors.Is(err, os.ErrNotExist):
			report.Missing = append(report.Missing, a.ImagePath)
		default:
			report.Errors = append(report.Errors, fmt.Errorf("failed to delete %s: %w", a.ImagePath, err))
		}
	}
	return report
}
