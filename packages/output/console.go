package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("shotlog"), version)
}

func (f *ConsoleFormatter) FormatSessionStarted(snap session.Snapshot) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	verb := "Recording"
	if snap.Resumed {
		verb = "Resuming"
	}
	fmt.Fprintf(f.writer, "\n%s %s\n", bold(verb+":"), snap.DocumentPath)
	fmt.Fprintf(f.writer, "  Mode: %s, next screenshot %s\n", snap.Mode, cyan(snap.NextBaseNumber))
	if snap.Caption != "" {
		fmt.Fprintf(f.writer, "  Caption: %s\n", snap.Caption)
	}
	if snap.ShellHidden {
		fmt.Fprintf(f.writer, "  Taskbar hidden until stop\n")
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatEvent(result *session.EventResult) {
	if result == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if result.Err != nil {
		fmt.Fprintf(f.writer, "  %s Screenshot %d %s\n", yellow("!"), result.BaseNumber, yellow(fmt.Sprintf("(%v)", result.Err)))
		return
	}

	for _, a := range result.Artifacts {
		if a.Failed() {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), a.SequenceLabel, red(fmt.Sprintf("(%v)", a.Err)))
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s %s %s\n", green("✓"), a.SequenceLabel, a.Caption, cyan(fmt.Sprintf("(%dms)", result.Duration.Milliseconds())))
		if f.verbose {
			fmt.Fprintf(f.writer, "    Image: %s", a.ImagePath)
			if info, err := os.Stat(a.ImagePath); err == nil {
				fmt.Fprintf(f.writer, " (%s)", humanize.Bytes(uint64(info.Size())))
			}
			fmt.Fprintf(f.writer, "\n")
		}
	}
}

func (f *ConsoleFormatter) FormatStopReport(report *session.StopReport) {
	if report == nil {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s %s\n", bold("Saved:"), report.Document)

	switch {
	case report.WorkbookErr != nil:
		fmt.Fprintf(f.writer, "  %s %v\n", red("Workbook failed:"), report.WorkbookErr)
	case report.Workbook != nil:
		fmt.Fprintf(f.writer, "  Workbook: %s (%d rows", report.Workbook.Path, report.Workbook.Rows)
		if report.Workbook.Failed > 0 {
			fmt.Fprintf(f.writer, ", %s", yellow(fmt.Sprintf("%d without image", report.Workbook.Failed)))
		}
		fmt.Fprintf(f.writer, ")\n")
	}

	if c := report.Cleanup; c != nil {
		fmt.Fprintf(f.writer, "  Images deleted: %d", len(c.Deleted))
		if len(c.Missing) > 0 {
			fmt.Fprintf(f.writer, ", %d already gone", len(c.Missing))
		}
		if len(c.Errors) > 0 {
			fmt.Fprintf(f.writer, ", %s", red(fmt.Sprintf("%d not deleted", len(c.Errors))))
		}
		fmt.Fprintf(f.writer, "\n")
		if f.verbose {
			for _, err := range c.Errors {
				fmt.Fprintf(f.writer, "    %s %v\n", red("→"), err)
			}
		}
	}

	if report.ManifestErr != nil {
		fmt.Fprintf(f.writer, "  %s %v\n", yellow("Manifest not written:"), report.ManifestErr)
	} else if f.verbose && report.Manifest != "" {
		fmt.Fprintf(f.writer, "  Manifest: %s\n", filepath.Base(report.Manifest))
	}

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Screenshots: ")
	if ok := report.Artifacts - report.Failed; ok > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d captured", ok)))
	}
	if report.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", report.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", report.Artifacts)
	fmt.Fprintf(f.writer, "Next:        %d\n", report.NextBaseNumber)
	fmt.Fprintf(f.writer, "Time:        %s\n", formatElapsed(report.Stats.Elapsed))

	if f.verbose {
		for _, st := range report.Stats.Stages {
			fmt.Fprintf(f.writer, "  %-7s n=%d p50=%s p95=%s max=%s\n", st.Stage, st.Count, st.P50, st.P95, st.Max)
		}
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)

	var saveErr *session.SaveIOError
	if errors.As(err, &saveErr) && saveErr.Op == "document" {
		fmt.Fprintf(f.writer, "  Images were kept in %s. Close the document in any other program and resume it.\n", filepath.Dir(saveErr.Path))
	}
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
