package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.Observe(StageGrab, time.Duration(i)*time.Millisecond)
	}
	m.Observe(StageSave, 0)
	m.Observe(StageSave, 2*time.Minute)

	s := m.Summary()
	require.Len(t, s.Stages, 2)

	grab := s.Stages[0]
	assert.Equal(t, StageGrab, grab.Stage)
	assert.Equal(t, int64(100), grab.Count)
	assert.InDelta(t, 50*time.Millisecond, grab.P50, float64(time.Millisecond))
	assert.InDelta(t, 95*time.Millisecond, grab.P95, float64(time.Millisecond))
	assert.InDelta(t, 100*time.Millisecond, grab.Max, float64(time.Millisecond))

	save := s.Stages[1]
	assert.Equal(t, int64(2), save.Count)
	assert.LessOrEqual(t, save.Max, 61*time.Second, "latency is clamped to the histogram range")
}

func TestMetrics_Time(t *testing.T) {
	m := NewMetrics()
	want := errors.New("boom")
	err := m.Time(StageRecord, func() error { return want })
	assert.ErrorIs(t, err, want)
	assert.Equal(t, int64(1), m.Summary().Stages[0].Count)
}

func TestMetrics_RecordEvent(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent(2, 0, nil)
	m.RecordEvent(0, 0, errors.New("grab failed"))
	m.RecordEvent(1, 1, nil)

	s := m.Summary()
	assert.Equal(t, int64(3), s.Events)
	assert.Equal(t, int64(3), s.Artifacts)
	assert.Equal(t, int64(1), s.FailedEvents)
	assert.Equal(t, int64(1), s.FailedCaptures)
}
