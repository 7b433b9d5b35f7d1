// Package session implements the capture session: the Idle → Active →
// Finalized state machine that owns screenshot numbering, fans each trigger
// out to one or more displays, writes artifacts into the live document and
// finalizes the document, workbook and source images on stop.
//
// A Session is safe for concurrent use, but triggers are processed one at a
// time; callers normally feed it from a single trigger.Dispatcher.
package session
