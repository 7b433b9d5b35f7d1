package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/shotlog/packages/core/config"
)

// Mode selects which displays a capture covers.
type Mode int

const (
	ModeSingle Mode = iota
	ModeAllStitched
	ModeMultiSelect
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return config.ModeSingle
	case ModeAllStitched:
		return config.ModeAll
	case ModeMultiSelect:
		return config.ModeMulti
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a config mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.ModeSingle, "":
		return ModeSingle, nil
	case config.ModeAll, "allstitched", "stitched":
		return ModeAllStitched, nil
	case config.ModeMulti, "multiselect", "multiple":
		return ModeMultiSelect, nil
	}
	return 0, fmt.Errorf("unknown capture mode %q", s)
}

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateActive
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CaptureRequest is one trigger event. BaseSequenceNumber is stamped by the
// session when the event is processed.
type CaptureRequest struct {
	Mode               Mode
	Targets            []int
	BaseSequenceNumber int
	Caption            string
	TimestampSuffix    string
}

// TimestampLayout is appended to image names when timestamps are enabled.
const TimestampLayout = "_20060102_150405"

const maxCaptionInName = 50

var unsafeNameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// ImageFileName builds the file name for a captured image. suffix is
// "Monitor{n}" or "AllMonitors".
func ImageFileName(caseName string, base int, caption, timestampSuffix, suffix string) string {
	safe := unsafeNameChars.ReplaceAllString(caption, "")
	if r := []rune(safe); len(r) > maxCaptionInName {
		safe = string(r[:maxCaptionInName])
	}
	name := fmt.Sprintf("%s_SS%d_%s%s_%s.png", caseName, base, safe, timestampSuffix, suffix)
	return strings.ReplaceAll(name, " ", "_")
}

// Document captions per mode.
func singleCaption(base, display int, caption string) string {
	return fmt.Sprintf("Screenshot %d (Monitor %d): %s", base, display+1, caption)
}

func allCaption(base int, caption string) string {
	return fmt.Sprintf("Screenshot %d (All Monitors): %s", base, caption)
}

func multiCaption(base, display int, caption string) string {
	return fmt.Sprintf("Screenshot %d (Monitor %d of Multiple): %s", base, display+1, caption)
}

// normalizeTargets removes duplicates and sorts ascending so labels never
// depend on selection order.
func normalizeTargets(targets []int) []int {
	seen := make(map[int]bool, len(targets))
	out := make([]int, 0, len(targets))
	for _, t := range targets {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Ints(out)
	return out
}
