package recorder

import "sync"

// Ledger is the ordered list of artifacts captured during a session.
type Ledger struct {
	mu        sync.RWMutex
	artifacts []Artifact
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		artifacts: make([]Artifact, 0, 64),
	}
}

// Append adds an artifact at the end.
func (l *Ledger) Append(a Artifact) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.artifacts = append(l.artifacts, a)
}

// Artifacts returns a copy of all artifacts in capture order.
func (l *Ledger) Artifacts() []Artifact {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Artifact, len(l.artifacts))
	copy(result, l.artifacts)
	return result
}

// Len returns the number of artifacts.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.artifacts)
}

// Failed returns the number of errored artifacts.
func (l *Ledger) Failed() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, a := range l.artifacts {
		if a.Failed() {
			n++
		}
	}
	return n
}
