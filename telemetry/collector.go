// Package telemetry measures field evaluation performance. A Collector
// aggregates per-call timings over a rolling window and the Instrument
// decorators attach one transparently to any field.
package telemetry

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// Sample holds timing data for a single batched field evaluation.
type Sample struct {
	Points   int
	Duration time.Duration
}

// Collector tracks evaluation metrics over a rolling window. It is safe for
// concurrent use.
type Collector struct {
	mu          sync.Mutex
	windowSize  int
	samples     []Sample
	writeIndex  int
	sampleCount int
	totalCalls  int64
	totalPoints int64
}

// NewCollector creates a collector averaging over the last windowSize calls.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 64
	}
	return &Collector{
		windowSize: windowSize,
		samples:    make([]Sample, windowSize),
	}
}

// Record adds one evaluation of points positions taking d to the window.
func (c *Collector) Record(points int, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.samples[c.writeIndex] = Sample{Points: points, Duration: d}
	c.writeIndex = (c.writeIndex + 1) % c.windowSize
	if c.sampleCount < c.windowSize {
		c.sampleCount++
	}
	c.totalCalls++
	c.totalPoints += int64(points)
}

// Stats holds aggregated evaluation statistics. Call and point totals cover
// the collector's lifetime; durations and throughput cover the window.
type Stats struct {
	Calls       int64
	TotalPoints int64

	AvgCall time.Duration
	MinCall time.Duration
	MaxCall time.Duration

	// PointsPerSecond is the evaluation throughput over the window.
	PointsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := Stats{
		Calls:       c.totalCalls,
		TotalPoints: c.totalPoints,
	}
	if c.sampleCount == 0 {
		return stats
	}
	var total time.Duration
	var points int64
	for i := 0; i < c.sampleCount; i++ {
		s := c.samples[i]
		total += s.Duration
		points += int64(s.Points)
		if i == 0 || s.Duration < stats.MinCall {
			stats.MinCall = s.Duration
		}
		if s.Duration > stats.MaxCall {
			stats.MaxCall = s.Duration
		}
	}
	stats.AvgCall = total / time.Duration(c.sampleCount)
	if total > 0 {
		stats.PointsPerSecond = float64(points) / total.Seconds()
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("calls", s.Calls),
		slog.Int64("total_points", s.TotalPoints),
		slog.Int64("avg_call_us", s.AvgCall.Microseconds()),
		slog.Int64("min_call_us", s.MinCall.Microseconds()),
		slog.Int64("max_call_us", s.MaxCall.Microseconds()),
		slog.Float64("points_per_sec", s.PointsPerSecond),
	)
}

// StatsCSV is a flat struct for CSV export of evaluation stats.
type StatsCSV struct {
	Label         string  `csv:"label"`
	Calls         int64   `csv:"calls"`
	TotalPoints   int64   `csv:"total_points"`
	AvgCallUS     int64   `csv:"avg_call_us"`
	MinCallUS     int64   `csv:"min_call_us"`
	MaxCallUS     int64   `csv:"max_call_us"`
	PointsPerSec  float64 `csv:"points_per_sec"`
}

// ToCSV converts Stats to a flat CSV-friendly struct.
func (s Stats) ToCSV(label string) StatsCSV {
	return StatsCSV{
		Label:        label,
		Calls:        s.Calls,
		TotalPoints:  s.TotalPoints,
		AvgCallUS:    s.AvgCall.Microseconds(),
		MinCallUS:    s.MinCall.Microseconds(),
		MaxCallUS:    s.MaxCall.Microseconds(),
		PointsPerSec: s.PointsPerSecond,
	}
}

// WriteCSV writes stat rows to w in CSV format with a header row.
func WriteCSV(w io.Writer, rows []StatsCSV) error {
	return gocsv.Marshal(&rows, w)
}
