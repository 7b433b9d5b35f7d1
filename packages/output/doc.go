// Package output renders capture events and session reports.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output written when the session stops
//
// Display and journal listings are rendered as tables.
package output
