// Package stats collects capture latency metrics for a session.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Stage names.
const (
	StageGrab   = "grab"
	StageSave   = "save"
	StageRecord = "record"
	StageEvent  = "event"
)

const maxLatencyUs = 60_000_000

// Metrics collects and aggregates capture metrics
type Metrics struct {
	mu sync.Mutex

	// Counters
	events        atomic.Int64
	artifacts     atomic.Int64
	failedEvents  atomic.Int64
	failedCapture atomic.Int64

	// Latency histograms per stage (in microseconds for precision)
	stages map[string]*hdrhistogram.Histogram

	startTime time.Time
}

// StageSummary holds latency percentiles for one stage
type StageSummary struct {
	Stage string
	Count int64
	P50   time.Duration
	P95   time.Duration
	Max   time.Duration
}

// Summary is a point-in-time view of the metrics
type Summary struct {
	Events         int64
	Artifacts      int64
	FailedEvents   int64
	FailedCaptures int64
	Elapsed        time.Duration
	Stages         []StageSummary
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		stages:    make(map[string]*hdrhistogram.Histogram),
		startTime: time.Now(),
	}
}

// Observe records a stage latency
func (m *Metrics) Observe(stage string, d time.Duration) {
	latencyUs := d.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.stages[stage]
	if !ok {
		// 1us to 60s range, 3 significant digits
		h = hdrhistogram.New(1, maxLatencyUs, 3)
		m.stages[stage] = h
	}
	_ = h.RecordValue(latencyUs)
}

// Time runs fn and records its latency under stage
func (m *Metrics) Time(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.Observe(stage, time.Since(start))
	return err
}

// RecordEvent counts one processed trigger and its outcome
func (m *Metrics) RecordEvent(artifacts, failed int, eventErr error) {
	m.events.Add(1)
	m.artifacts.Add(int64(artifacts))
	m.failedCapture.Add(int64(failed))
	if eventErr != nil {
		m.failedEvents.Add(1)
	}
}

// Summary returns the current metrics
func (m *Metrics) Summary() Summary {
	s := Summary{
		Events:         m.events.Load(),
		Artifacts:      m.artifacts.Load(),
		FailedEvents:   m.failedEvents.Load(),
		FailedCaptures: m.failedCapture.Load(),
		Elapsed:        time.Since(m.startTime),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stage := range []string{StageEvent, StageGrab, StageSave, StageRecord} {
		h, ok := m.stages[stage]
		if !ok {
			continue
		}
		s.Stages = append(s.Stages, StageSummary{
			Stage: stage,
			Count: h.TotalCount(),
			P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
			Max:   time.Duration(h.Max()) * time.Microsecond,
		})
	}
	return s
}
