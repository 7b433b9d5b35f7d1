// Package recorder writes captured artifacts into the live evidence document
// and keeps the ordered, append-only ledger of everything captured in a
// session.
package recorder
