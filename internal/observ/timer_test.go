package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/trace"
)

func TestTimer_Report(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	time.Sleep(time.Millisecond)
	tm.End(load, "3 packages")
	traverse := tm.Begin("traverse")
	tm.End(traverse, "")
	tm.End(99, "ignored")

	report := tm.Report()
	require.Len(t, report.Phases, 2)
	assert.Equal(t, "load", report.Phases[0].Name)
	assert.Equal(t, "3 packages", report.Phases[0].Note)
	assert.Positive(t, tm.Duration(load))
	assert.GreaterOrEqual(t, report.TotalMS, report.Phases[0].DurationMS)
	assert.Zero(t, tm.Duration(-1))
	assert.Zero(t, tm.Span(load), "untraced timer has no spans")
}

func TestTimer_Summary(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("config"), "")
	tm.End(tm.Begin("traverse"), "12 types")

	lines := strings.Split(strings.TrimRight(tm.Summary(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "timings:", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  config   "))
	assert.Contains(t, lines[2], "// 12 types")
	assert.True(t, strings.HasPrefix(lines[3], "  total    "))
}

func TestTimer_Traced(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelPhase)
	tm := NewTimer().WithTracer(ring, 5)
	idx := tm.Begin("freeze")
	tm.End(idx, "done")

	assert.NotZero(t, tm.Span(idx))
	events := ring.Snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, uint64(5), events[0].ParentID)
	assert.Equal(t, "done", events[1].Detail)
}

func TestTimer_EmptyReport(t *testing.T) {
	assert.Equal(t, Report{}, NewTimer().Report())
}
