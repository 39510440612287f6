package neural

import (
	"fmt"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/implicit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func lenErr(npos, ndst int) error {
	if npos != ndst {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", npos, ndst)
	}
	return nil
}

// Adapters exposing a Network through the float64 field interfaces so a
// learned field participates in rendering, normal extraction and telemetry
// exactly like an analytic one.

// field2 adapts a 2-input Network to implicit.Field2.
type field2 struct {
	n  *Network
	bb r2.Box
}

// Field2 returns a view of the network as a 2D scalar field over the given
// bounds. The network must have input width 2; evaluation fails fast with
// ErrDimensionMismatch otherwise.
func (n *Network) Field2(bounds r2.Box) implicit.Field2 {
	return &field2{n: n, bb: bounds}
}

func (f *field2) Evaluate(pos []r2.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	p32 := make([]ms2.Vec, len(pos))
	d32 := make([]float32, len(pos))
	for i, p := range pos {
		p32[i] = ms2.Vec{X: float32(p.X), Y: float32(p.Y)}
	}
	if err := f.n.Evaluate2(p32, d32); err != nil {
		return err
	}
	for i, d := range d32 {
		dist[i] = float64(d)
	}
	return nil
}

func (f *field2) Grad(pos []r2.Vec, grad []r2.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	p32 := make([]ms2.Vec, len(pos))
	g32 := make([]ms2.Vec, len(pos))
	for i, p := range pos {
		p32[i] = ms2.Vec{X: float32(p.X), Y: float32(p.Y)}
	}
	if err := f.n.Gradient2(p32, g32); err != nil {
		return err
	}
	for i, g := range g32 {
		grad[i] = r2.Vec{X: float64(g.X), Y: float64(g.Y)}
	}
	return nil
}

func (f *field2) Bounds() r2.Box { return f.bb }

// field3 adapts a 3-input Network to implicit.Field3.
type field3 struct {
	n  *Network
	bb r3.Box
}

// Field3 returns a view of the network as a 3D scalar field over the given
// bounds. The network must have input width 3.
func (n *Network) Field3(bounds r3.Box) implicit.Field3 {
	return &field3{n: n, bb: bounds}
}

func (f *field3) Evaluate(pos []r3.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	p32 := make([]ms3.Vec, len(pos))
	d32 := make([]float32, len(pos))
	for i, p := range pos {
		p32[i] = ms3.Vec{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	}
	if err := f.n.Evaluate3(p32, d32); err != nil {
		return err
	}
	for i, d := range d32 {
		dist[i] = float64(d)
	}
	return nil
}

func (f *field3) Grad(pos []r3.Vec, grad []r3.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	p32 := make([]ms3.Vec, len(pos))
	g32 := make([]ms3.Vec, len(pos))
	for i, p := range pos {
		p32[i] = ms3.Vec{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	}
	if err := f.n.Gradient3(p32, g32); err != nil {
		return err
	}
	for i, g := range g32 {
		grad[i] = r3.Vec{X: float64(g.X), Y: float64(g.Y), Z: float64(g.Z)}
	}
	return nil
}

func (f *field3) Bounds() r3.Box { return f.bb }
