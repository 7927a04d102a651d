package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler_ReportsOncePerInterval(t *testing.T) {
	start := time.Unix(0, 0)
	now := start
	var reports []Stats

	p := NewProfiler(
		WithInterval(500*time.Millisecond),
		WithClock(func() time.Time { return now }),
		WithReporter(func(s Stats) { reports = append(reports, s) }),
	)

	for range 9 {
		now = now.Add(50 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	now = now.Add(50 * time.Millisecond)
	assert.True(t, p.Tick())

	require.Len(t, reports, 1)
	assert.InDelta(t, 20.0, reports[0].FPS, 1e-9)
	assert.Greater(t, reports[0].SysMB, 0.0)

	// the frame counter restarts after a report
	now = now.Add(time.Second)
	assert.True(t, p.Tick())
	require.Len(t, reports, 2)
	assert.InDelta(t, 1.0, reports[1].FPS, 1e-9)
}

func TestProfiler_IgnoresInvalidOptions(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithReporter(nil), WithClock(nil))
	assert.Equal(t, time.Second, p.updateInterval)
	assert.NotNil(t, p.report)
	assert.NotNil(t, p.now)
}
