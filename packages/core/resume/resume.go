// Package resume recovers the last screenshot number from an existing
// evidence document so a resumed session continues the sequence.
package resume

import (
	"regexp"
	"strconv"
)

// captionPattern matches the number in captions such as
// "Screenshot 12 (Monitor 1): login".
var captionPattern = regexp.MustCompile(`(?i)screenshot\s+(\d+)`)

// TextSource is anything that can expose its full text content.
type TextSource interface {
	AllText() string
}

// FindLastSequenceNumber returns the highest screenshot number in the
// document, or 0 when there is none. The maximum is used instead of the last
// occurrence so reordered or edited documents never cause reuse.
func FindLastSequenceNumber(src TextSource) int {
	if src == nil {
		return 0
	}
	return LastSequenceNumberIn(src.AllText())
}

// LastSequenceNumberIn scans text for the highest screenshot number.
func LastSequenceNumberIn(text string) int {
	highest := 0
	for _, m := range captionPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Out of range for int.
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}
