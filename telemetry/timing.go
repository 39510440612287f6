package telemetry

import (
	"time"

	"github.com/soypat/implicit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// timed2 wraps a 2D field, recording evaluation timings.
type timed2 struct {
	f implicit.Field2
	c *Collector
}

// Instrument2 decorates f so every batched evaluation and gradient call is
// timed and recorded in c. The wrapped field keeps exact gradients when the
// underlying field provides them.
func Instrument2(f implicit.Field2, c *Collector) implicit.Field2 {
	if f == nil || c == nil {
		panic("nil argument to Instrument2")
	}
	return &timed2{f: f, c: c}
}

func (t *timed2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	start := time.Now()
	err := t.f.Evaluate(pos, dist, userData)
	t.c.Record(len(pos), time.Since(start))
	return err
}

func (t *timed2) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	start := time.Now()
	err := implicit.Gradient2(t.f, pos, grad, userData)
	t.c.Record(len(pos), time.Since(start))
	return err
}

func (t *timed2) Bounds() r2.Box { return t.f.Bounds() }

// timed3 wraps a 3D field, recording evaluation timings.
type timed3 struct {
	f implicit.Field3
	c *Collector
}

// Instrument3 is the 3D analog of Instrument2.
func Instrument3(f implicit.Field3, c *Collector) implicit.Field3 {
	if f == nil || c == nil {
		panic("nil argument to Instrument3")
	}
	return &timed3{f: f, c: c}
}

func (t *timed3) Evaluate(pos []r3.Vec, dist []float64, userData any) error {
	start := time.Now()
	err := t.f.Evaluate(pos, dist, userData)
	t.c.Record(len(pos), time.Since(start))
	return err
}

func (t *timed3) Grad(pos []r3.Vec, grad []r3.Vec, userData any) error {
	start := time.Now()
	err := implicit.Gradient3(t.f, pos, grad, userData)
	t.c.Record(len(pos), time.Since(start))
	return err
}

func (t *timed3) Bounds() r3.Box { return t.f.Bounds() }
