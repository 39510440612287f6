package must2

import (
	"github.com/soypat/implicit/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D Circle

// circle is the 2d signed distance field of a circle.
type circle struct {
	radius float64
	bb     d2.Box
}

// Circle returns the metric signed distance field of a circle:
// |p| - radius. Differentiable everywhere except the origin.
func Circle(radius float64) *circle {
	if radius <= 0 {
		panic("zero or negative radius")
	}
	d := d2.Elem(radius)
	return &circle{
		radius: radius,
		bb:     d2.Box{Min: r2.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the signed distance to the circle boundary.
func (s *circle) Evaluate(pos []r2.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = r2.Norm(p) - s.radius
	}
	return nil
}

// Grad returns the field gradient p/|p|. At the origin the gradient is the
// zero vector; normal extraction reports it as degenerate.
func (s *circle) Grad(pos []r2.Vec, grad []r2.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	for i, p := range pos {
		n := r2.Norm(p)
		if n == 0 {
			grad[i] = r2.Vec{}
			continue
		}
		grad[i] = r2.Scale(1/n, p)
	}
	return nil
}

// Bounds returns the bounding box of the circle.
func (s *circle) Bounds() r2.Box { return r2.Box(s.bb) }

// 2D Circle, squared-distance form.

// circleSquared is the squared-distance form of the circle field.
type circleSquared struct {
	radius float64
	bb     d2.Box
}

// CircleSquared returns the squared-distance form of the circle field:
// |p|^2 - radius^2. The zero-level set is still the circle boundary, but
// non-zero level sets are NOT at linear distance from it; callers relying on
// metric distance away from the boundary should use Circle instead.
// Differentiable everywhere, gradient 2p (zero at the origin).
func CircleSquared(radius float64) *circleSquared {
	if radius <= 0 {
		panic("zero or negative radius")
	}
	d := d2.Elem(radius)
	return &circleSquared{
		radius: radius,
		bb:     d2.Box{Min: r2.Scale(-1, d), Max: d},
	}
}

// Evaluate returns |p|^2 - radius^2 for each position.
func (s *circleSquared) Evaluate(pos []r2.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	rr := s.radius * s.radius
	for i, p := range pos {
		dist[i] = r2.Norm2(p) - rr
	}
	return nil
}

// Grad returns the field gradient 2p.
func (s *circleSquared) Grad(pos []r2.Vec, grad []r2.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	for i, p := range pos {
		grad[i] = r2.Scale(2, p)
	}
	return nil
}

// Bounds returns the bounding box of the circle.
func (s *circleSquared) Bounds() r2.Box { return r2.Box(s.bb) }
