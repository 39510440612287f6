package implicit

import (
	"math"

	"github.com/soypat/implicit/internal/d2"
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D scalar field interface and combinators. A Field3 either represents a
// spatial field over (x,y,z) or a time-indexed family of 2D fields where the
// Z coordinate is the time parameter.

// Field3 is the interface to a batched 3D scalar field.
type Field3 interface {
	// Evaluate evaluates the field over pos positions, storing one scalar per
	// position in dist. pos and dist must be of equal length.
	//
	// userData facilitates getting data to the evaluators, such as a [VecPool]
	// for scratch buffers.
	Evaluate(pos []r3.Vec, dist []float64, userData any) error

	// Bounds returns a box that contains the field's zero-level set.
	Bounds() r3.Box
}

// annular3 computes |f(x)| - r.
type annular3 struct {
	f  Field3
	r  float64
	bb r3.Box
}

// Annular3D returns the onion of f: a shell of half-thickness r centered on
// the zero-level set of f. See Annular2D.
func Annular3D(f Field3, r float64) Field3 {
	if f == nil {
		panic("nil field argument")
	}
	if r < 0 {
		panic("negative shell half-thickness")
	}
	bb := d3.Box(f.Bounds()).Enlarge(d3.Elem(2 * r))
	return &annular3{f: f, r: r, bb: r3.Box(bb)}
}

func (s *annular3) Evaluate(pos []r3.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	if err := s.f.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	for i := range dist {
		dist[i] = math.Abs(dist[i]) - s.r
	}
	return nil
}

func (s *annular3) Grad(pos []r3.Vec, grad []r3.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	dist, release := scratchFloats(userData, len(pos))
	defer release()
	if err := s.f.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	if err := Gradient3(s.f, pos, grad, userData); err != nil {
		return err
	}
	for i := range grad {
		grad[i] = r3.Scale(Sign(dist[i]), grad[i])
	}
	return nil
}

func (s *annular3) Bounds() r3.Box { return s.bb }

// offset3 offsets the distance function of an existing field.
type offset3 struct {
	f      Field3
	offset float64
	bb     r3.Box
}

// Offset3D returns a field that offsets the distance function of f by offset.
func Offset3D(f Field3, offset float64) Field3 {
	if f == nil {
		panic("nil field argument")
	}
	bb := d3.Box(f.Bounds()).Enlarge(d3.Elem(2 * offset))
	return &offset3{f: f, offset: offset, bb: r3.Box(bb)}
}

func (s *offset3) Evaluate(pos []r3.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	if err := s.f.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	for i := range dist {
		dist[i] -= s.offset
	}
	return nil
}

func (s *offset3) Grad(pos []r3.Vec, grad []r3.Vec, userData any) error {
	return Gradient3(s.f, pos, grad, userData)
}

func (s *offset3) Bounds() r3.Box { return s.bb }

// translate3 is a rigid translation of a field.
type translate3 struct {
	f  Field3
	v  r3.Vec
	bb r3.Box
}

// Translate3D translates the field f by v.
func Translate3D(f Field3, v r3.Vec) Field3 {
	if f == nil {
		panic("nil field argument")
	}
	return &translate3{f: f, v: v, bb: r3.Box(d3.Box(f.Bounds()).Translate(v))}
}

func (s *translate3) Evaluate(pos []r3.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	q, release := scratchV3(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = r3.Sub(p, s.v)
	}
	return s.f.Evaluate(q, dist, userData)
}

func (s *translate3) Grad(pos []r3.Vec, grad []r3.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	q, release := scratchV3(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = r3.Sub(p, s.v)
	}
	return Gradient3(s.f, q, grad, userData)
}

func (s *translate3) Bounds() r3.Box { return s.bb }

// transition blends two 2D fields along the time axis.
type transition struct {
	a, b Field2
	bb   r3.Box
}

// Transition2D returns the time-indexed field interpolating between the 2D
// fields a and b. The Z coordinate of a query point is the time parameter:
//
//	d(x, y, t) = mix(a(x,y), b(x,y), clamp(t, 0, 1))
//
// At t <= 0 the field is a, at t >= 1 it is b. The Z component of its
// gradient is the velocity b(x,y) - a(x,y) on t in (0,1).
func Transition2D(a, b Field2) Field3 {
	if a == nil || b == nil {
		panic("nil field argument")
	}
	bb2 := d2.Box(a.Bounds()).Extend(d2.Box(b.Bounds()))
	return &transition{
		a: a, b: b,
		bb: r3.Box{
			Min: r3.Vec{X: bb2.Min.X, Y: bb2.Min.Y, Z: 0},
			Max: r3.Vec{X: bb2.Max.X, Y: bb2.Max.Y, Z: 1},
		},
	}
}

func (s *transition) Evaluate(pos []r3.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	n := len(pos)
	q, releaseQ := scratchV2(userData, n)
	defer releaseQ()
	da, releaseA := scratchFloats(userData, n)
	defer releaseA()
	for i, p := range pos {
		q[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	if err := s.a.Evaluate(q, da, userData); err != nil {
		return err
	}
	if err := s.b.Evaluate(q, dist, userData); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = Mix(da[i], dist[i], Clamp(p.Z, 0, 1))
	}
	return nil
}

func (s *transition) Grad(pos []r3.Vec, grad []r3.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	n := len(pos)
	q, releaseQ := scratchV2(userData, n)
	defer releaseQ()
	da, releaseDA := scratchFloats(userData, n)
	defer releaseDA()
	db, releaseDB := scratchFloats(userData, n)
	defer releaseDB()
	ga, releaseGA := scratchV2(userData, n)
	defer releaseGA()
	gb, releaseGB := scratchV2(userData, n)
	defer releaseGB()
	for i, p := range pos {
		q[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	if err := s.a.Evaluate(q, da, userData); err != nil {
		return err
	}
	if err := s.b.Evaluate(q, db, userData); err != nil {
		return err
	}
	if err := Gradient2(s.a, q, ga, userData); err != nil {
		return err
	}
	if err := Gradient2(s.b, q, gb, userData); err != nil {
		return err
	}
	for i, p := range pos {
		w := Clamp(p.Z, 0, 1)
		var dt float64
		if p.Z > 0 && p.Z < 1 {
			dt = db[i] - da[i]
		}
		grad[i] = r3.Vec{
			X: Mix(ga[i].X, gb[i].X, w),
			Y: Mix(ga[i].Y, gb[i].Y, w),
			Z: dt,
		}
	}
	return nil
}

func (s *transition) Bounds() r3.Box { return s.bb }

// timeSlice fixes the time coordinate of a time-indexed field,
// yielding a plain 2D field.
type timeSlice struct {
	f  Field3
	t  float64
	bb r2.Box
}

// TimeSlice2D returns the 2D field obtained by evaluating the time-indexed
// field f at the fixed time t.
func TimeSlice2D(f Field3, t float64) Field2 {
	if f == nil {
		panic("nil field argument")
	}
	bb := f.Bounds()
	return &timeSlice{
		f: f, t: t,
		bb: r2.Box{
			Min: r2.Vec{X: bb.Min.X, Y: bb.Min.Y},
			Max: r2.Vec{X: bb.Max.X, Y: bb.Max.Y},
		},
	}
}

func (s *timeSlice) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	q, release := scratchV3(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = r3.Vec{X: p.X, Y: p.Y, Z: s.t}
	}
	return s.f.Evaluate(q, dist, userData)
}

func (s *timeSlice) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	q, releaseQ := scratchV3(userData, len(pos))
	defer releaseQ()
	g3, releaseG := scratchV3(userData, len(pos))
	defer releaseG()
	for i, p := range pos {
		q[i] = r3.Vec{X: p.X, Y: p.Y, Z: s.t}
	}
	if err := Gradient3(s.f, q, g3, userData); err != nil {
		return err
	}
	for i, g := range g3 {
		grad[i] = r2.Vec{X: g.X, Y: g.Y}
	}
	return nil
}

func (s *timeSlice) Bounds() r2.Box { return s.bb }
