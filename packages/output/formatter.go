package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
)

// Formatter renders the progress of a capture session.
type Formatter interface {
	FormatHeader(version string)
	FormatSessionStarted(snap session.Snapshot)
	FormatEvent(result *session.EventResult)
	FormatStopReport(report *session.StopReport)
	FormatError(err error)
}

// Flushable is implemented by formatters that buffer output until the end.
type Flushable interface {
	Flush() error
}

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns the formatter for a format name.
func New(format string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch format {
	case "", FormatConsole:
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want console or json)", format)
	}
}
