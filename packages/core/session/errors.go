package session

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/shotlog/packages/compositor"
)

var (
	// ErrNotActive is returned by Trigger and Stop outside the Active state.
	ErrNotActive = errors.New("session is not active")
	// ErrAlreadyStarted is returned by Start and Resume outside the Idle state.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrInvalidTarget means no requested display exists.
	ErrInvalidTarget = errors.New("no valid target display")
	// ErrCaptureGrabFailed aborts a whole capture event.
	ErrCaptureGrabFailed = compositor.ErrGrabFailed
)

// ConfigError reports a setting that prevents a session from starting. The
// session stays Idle.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.Err)
	}
	return "config error: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SaveIOError reports a failed write of an image or of the document.
type SaveIOError struct {
	Op   string // "image" or "document"
	Path string
	Err  error
}

func (e *SaveIOError) Error() string {
	return fmt.Sprintf("failed to save %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SaveIOError) Unwrap() error { return e.Err }

// DocumentOpenError reports a resume target that could not be read.
type DocumentOpenError struct {
	Path string
	Err  error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("cannot open document %s: %v", e.Path, e.Err)
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }
