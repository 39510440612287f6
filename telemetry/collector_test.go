package telemetry_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form2/must2"
	"github.com/soypat/implicit/form3/must3"
	"github.com/soypat/implicit/telemetry"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCollectorStats(t *testing.T) {
	c := telemetry.NewCollector(8)
	require.Zero(t, c.Stats().Calls)

	c.Record(100, 2*time.Millisecond)
	c.Record(300, 4*time.Millisecond)
	c.Record(200, 6*time.Millisecond)

	s := c.Stats()
	require.EqualValues(t, 3, s.Calls)
	require.EqualValues(t, 600, s.TotalPoints)
	require.Equal(t, 2*time.Millisecond, s.MinCall)
	require.Equal(t, 6*time.Millisecond, s.MaxCall)
	require.Equal(t, 4*time.Millisecond, s.AvgCall)
	require.InDelta(t, 600/0.012, s.PointsPerSecond, 1e-6)
}

func TestCollectorWindowRollover(t *testing.T) {
	c := telemetry.NewCollector(2)
	c.Record(1, time.Second)
	c.Record(1, time.Millisecond)
	c.Record(1, 3*time.Millisecond)
	s := c.Stats()
	// The 1s sample rolled out of the window, lifetime counters remain.
	require.EqualValues(t, 3, s.Calls)
	require.Equal(t, 3*time.Millisecond, s.MaxCall)
}

func TestInstrument2(t *testing.T) {
	c := telemetry.NewCollector(16)
	plain := must2.Circle(1)
	timed := telemetry.Instrument2(plain, c)
	require.Equal(t, plain.Bounds(), timed.Bounds())

	pos := []r2.Vec{{X: 0.5}, {X: 2}}
	want := make([]float64, len(pos))
	got := make([]float64, len(pos))
	require.NoError(t, plain.Evaluate(pos, want, nil))
	require.NoError(t, timed.Evaluate(pos, got, nil))
	require.Equal(t, want, got, "instrumentation must not change values")

	// The decorator keeps the exact gradient path of the wrapped field.
	grad := make([]r2.Vec, len(pos))
	require.NoError(t, implicit.Gradient2(timed, pos, grad, nil))
	require.InDelta(t, 1, grad[0].X, 1e-12)

	s := c.Stats()
	require.EqualValues(t, 2, s.Calls)
	require.EqualValues(t, 4, s.TotalPoints)
}

func TestInstrument3(t *testing.T) {
	c := telemetry.NewCollector(16)
	timed := telemetry.Instrument3(must3.Sphere(1), c)
	pos := []r3.Vec{{X: 2}}
	dist := make([]float64, 1)
	require.NoError(t, timed.Evaluate(pos, dist, nil))
	require.InDelta(t, 1, dist[0], 1e-12)
	require.EqualValues(t, 1, c.Stats().Calls)
	require.Panics(t, func() { telemetry.Instrument3(nil, c) })
}

func TestWriteCSV(t *testing.T) {
	c := telemetry.NewCollector(4)
	c.Record(50, time.Millisecond)
	var buf bytes.Buffer
	rows := []telemetry.StatsCSV{c.Stats().ToCSV("bench")}
	require.NoError(t, telemetry.WriteCSV(&buf, rows))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "label,calls,total_points"), "header: %s", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "bench,1,50"), "row: %s", lines[1])
}
