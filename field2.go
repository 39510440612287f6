package implicit

import (
	"math"

	"github.com/soypat/implicit/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D scalar field interface and combinators.

// Field2 is the interface to a batched 2D scalar field, typically a signed
// distance field: negative inside, zero on the boundary, positive outside.
type Field2 interface {
	// Evaluate evaluates the field over pos positions, storing one scalar per
	// position in dist. pos and dist must be of equal length.
	//
	// userData facilitates getting data to the evaluators, such as a [VecPool]
	// for scratch buffers.
	Evaluate(pos []r2.Vec, dist []float64, userData any) error

	// Bounds returns a box that contains the field's zero-level set.
	Bounds() r2.Box
}

// MinFunc is a minimum function for field blending.
type MinFunc func(a, b float64) float64

// MaxFunc is a maximum function for field blending.
type MaxFunc func(a, b float64) float64

// Annular converts a filled-region field into a hollow-shell field of
// half-thickness r centered on the original boundary.

// annular2 computes |f(x)| - r.
type annular2 struct {
	f  Field2
	r  float64
	bb r2.Box
}

// Annular2D returns the onion of f: a shell of half-thickness r centered on
// the zero-level set of f. The result is differentiable wherever f is
// differentiable and nonzero; exactly on the wrapped zero set the gradient is
// undefined and normal extraction reports a degenerate normal.
func Annular2D(f Field2, r float64) Field2 {
	if f == nil {
		panic("nil field argument")
	}
	if r < 0 {
		panic("negative shell half-thickness")
	}
	bb := d2.Box(f.Bounds()).Enlarge(d2.Elem(2 * r))
	return &annular2{f: f, r: r, bb: r2.Box(bb)}
}

func (s *annular2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
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

func (s *annular2) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	dist, release := scratchFloats(userData, len(pos))
	defer release()
	if err := s.f.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	if err := Gradient2(s.f, pos, grad, userData); err != nil {
		return err
	}
	for i := range grad {
		grad[i] = r2.Scale(Sign(dist[i]), grad[i])
	}
	return nil
}

func (s *annular2) Bounds() r2.Box { return s.bb }

// offset2 offsets the distance function of an existing field.
type offset2 struct {
	f      Field2
	offset float64
	bb     r2.Box
}

// Offset2D returns a field that offsets the distance function of f by offset.
func Offset2D(f Field2, offset float64) Field2 {
	if f == nil {
		panic("nil field argument")
	}
	bb := d2.Box(f.Bounds()).Enlarge(d2.Elem(2 * offset))
	return &offset2{f: f, offset: offset, bb: r2.Box(bb)}
}

func (s *offset2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
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

func (s *offset2) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	return Gradient2(s.f, pos, grad, userData)
}

func (s *offset2) Bounds() r2.Box { return s.bb }

// translate2 is a rigid translation of a field.
type translate2 struct {
	f  Field2
	v  r2.Vec
	bb r2.Box
}

// Translate2D translates the field f by v.
func Translate2D(f Field2, v r2.Vec) Field2 {
	if f == nil {
		panic("nil field argument")
	}
	return &translate2{f: f, v: v, bb: r2.Box(d2.Box(f.Bounds()).Translate(v))}
}

func (s *translate2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	q, release := scratchV2(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = r2.Sub(p, s.v)
	}
	return s.f.Evaluate(q, dist, userData)
}

func (s *translate2) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	q, release := scratchV2(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = r2.Sub(p, s.v)
	}
	return Gradient2(s.f, q, grad, userData)
}

func (s *translate2) Bounds() r2.Box { return s.bb }

// rotate2 is a rigid rotation of a field about the origin.
type rotate2 struct {
	f        Field2
	cos, sin float64 // of the inverse rotation applied to query points
	bb       r2.Box
}

// Rotate2D rotates the field f by theta radians about the origin.
func Rotate2D(f Field2, theta float64) Field2 {
	if f == nil {
		panic("nil field argument")
	}
	// Bounding box of the rotated box vertices.
	vset := d2.Box(f.Bounds()).Vertices()
	c, sn := math.Cos(theta), math.Sin(theta)
	for i, v := range vset {
		vset[i] = r2.Vec{X: c*v.X - sn*v.Y, Y: sn*v.X + c*v.Y}
	}
	return &rotate2{
		f: f, cos: c, sin: -sn,
		bb: r2.Box{Min: vset.Min(), Max: vset.Max()},
	}
}

func (s *rotate2) invert(p r2.Vec) r2.Vec {
	return r2.Vec{X: s.cos*p.X - s.sin*p.Y, Y: s.sin*p.X + s.cos*p.Y}
}

func (s *rotate2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	q, release := scratchV2(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = s.invert(p)
	}
	return s.f.Evaluate(q, dist, userData)
}

func (s *rotate2) Grad(pos []r2.Vec, grad []r2.Vec, userData any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	q, release := scratchV2(userData, len(pos))
	defer release()
	for i, p := range pos {
		q[i] = s.invert(p)
	}
	if err := Gradient2(s.f, q, grad, userData); err != nil {
		return err
	}
	// Rotate gradients back to query space.
	for i, g := range grad {
		grad[i] = r2.Vec{X: s.cos*g.X + s.sin*g.Y, Y: -s.sin*g.X + s.cos*g.Y}
	}
	return nil
}

func (s *rotate2) Bounds() r2.Box { return s.bb }

// union2 is a union of multiple fields.
type union2 struct {
	fs  []Field2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple fields blended with math.Min.
// Use SetMin to control blending.
func Union2D(fs ...Field2) *union2 {
	if len(fs) < 2 {
		panic("union requires at least 2 fields")
	}
	bb := d2.Box(fs[0].Bounds())
	for _, f := range fs {
		if f == nil {
			panic("nil field argument")
		}
		bb = bb.Extend(d2.Box(f.Bounds()))
	}
	return &union2{fs: fs, min: math.Min, bb: r2.Box(bb)}
}

// SetMin sets the minimum function used to blend members of the union.
func (s *union2) SetMin(min MinFunc) { s.min = min }

func (s *union2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	tmp, release := scratchFloats(userData, len(pos))
	defer release()
	for fi, f := range s.fs {
		if err := f.Evaluate(pos, tmp, userData); err != nil {
			return err
		}
		if fi == 0 {
			copy(dist, tmp[:len(pos)])
			continue
		}
		for i := range dist {
			dist[i] = s.min(dist[i], tmp[i])
		}
	}
	return nil
}

func (s *union2) Bounds() r2.Box { return s.bb }

// diff2 is the difference of two fields, s0 - s1.
type diff2 struct {
	s0, s1 Field2
	max    MaxFunc
	bb     r2.Box
}

// Difference2D returns the difference of two fields, s0 - s1,
// blended with math.Max.
func Difference2D(s0, s1 Field2) *diff2 {
	if s0 == nil || s1 == nil {
		panic("nil field argument")
	}
	return &diff2{s0: s0, s1: s1, max: math.Max, bb: s0.Bounds()}
}

// SetMax sets the maximum function used to blend the difference.
func (s *diff2) SetMax(max MaxFunc) { s.max = max }

func (s *diff2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	tmp, release := scratchFloats(userData, len(pos))
	defer release()
	if err := s.s0.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	if err := s.s1.Evaluate(pos, tmp, userData); err != nil {
		return err
	}
	for i := range dist {
		dist[i] = s.max(dist[i], -tmp[i])
	}
	return nil
}

func (s *diff2) Bounds() r2.Box { return s.bb }

// intersect2 is the intersection of two fields.
type intersect2 struct {
	s0, s1 Field2
	max    MaxFunc
	bb     r2.Box
}

// Intersect2D returns the intersection of two fields blended with math.Max.
func Intersect2D(s0, s1 Field2) *intersect2 {
	if s0 == nil || s1 == nil {
		panic("nil field argument")
	}
	return &intersect2{s0: s0, s1: s1, max: math.Max, bb: s0.Bounds()}
}

// SetMax sets the maximum function used to blend the intersection.
func (s *intersect2) SetMax(max MaxFunc) { s.max = max }

func (s *intersect2) Evaluate(pos []r2.Vec, dist []float64, userData any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	tmp, release := scratchFloats(userData, len(pos))
	defer release()
	if err := s.s0.Evaluate(pos, dist, userData); err != nil {
		return err
	}
	if err := s.s1.Evaluate(pos, tmp, userData); err != nil {
		return err
	}
	for i := range dist {
		dist[i] = s.max(dist[i], tmp[i])
	}
	return nil
}

func (s *intersect2) Bounds() r2.Box { return s.bb }
