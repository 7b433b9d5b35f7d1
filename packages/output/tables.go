package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/abdul-hamid-achik/shotlog/packages/display"
	"github.com/abdul-hamid-achik/shotlog/packages/journal"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, noColor bool) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if noColor {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleColoredBright)
	}
	return t
}

// DisplaysTable lists the attached displays with the indices used by
// --display.
func DisplaysTable(w io.Writer, displays []display.Display, noColor bool) {
	t := newTable(w, noColor)
	t.AppendHeader(table.Row{"Index", "Name", "Position", "Size", "Primary"})
	for _, d := range displays {
		primary := ""
		if d.Primary {
			primary = "yes"
		}
		t.AppendRow(table.Row{
			d.Index,
			d.Label(),
			fmt.Sprintf("%d,%d", d.X, d.Y),
			fmt.Sprintf("%dx%d", d.Width, d.Height),
			primary,
		})
	}
	t.Render()
}

// SessionsTable lists journal sessions, newest first.
func SessionsTable(w io.Writer, sessions []journal.Session, noColor bool) {
	t := newTable(w, noColor)
	t.AppendHeader(table.Row{"ID", "Case", "Document", "Started", "Stopped", "Screenshots"})
	for _, s := range sessions {
		stopped := "-"
		if s.StoppedAt != nil {
			stopped = humanize.Time(*s.StoppedAt)
		}
		id := s.ID
		if len(id) > 8 {
			id = id[:8]
		}
		t.AppendRow(table.Row{
			id,
			s.CaseName,
			filepath.Base(s.Document),
			humanize.Time(s.StartedAt),
			stopped,
			humanize.Comma(int64(s.Artifacts)),
		})
	}
	t.Render()
}

// EntriesTable lists the artifacts recorded for one session.
func EntriesTable(w io.Writer, entries []journal.Entry, noColor bool) {
	t := newTable(w, noColor)
	t.AppendHeader(table.Row{"Label", "Caption", "Display", "Image", "Error"})
	for _, e := range entries {
		disp := "all"
		if e.DisplayIndex != nil {
			disp = strconv.Itoa(*e.DisplayIndex + 1)
		}
		t.AppendRow(table.Row{e.Label, e.Caption, disp, filepath.Base(e.ImagePath), e.Error})
	}
	t.Render()
}
