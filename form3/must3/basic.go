package must3

import (
	"fmt"

	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D Sphere

// sphere is the 3d signed distance field of a sphere.
type sphere struct {
	radius float64
	bb     d3.Box
}

// Sphere returns the metric signed distance field of a sphere:
// |p| - radius. Differentiable everywhere except the origin.
func Sphere(radius float64) *sphere {
	if radius <= 0 {
		panic("zero or negative radius")
	}
	d := d3.Elem(radius)
	return &sphere{
		radius: radius,
		bb:     d3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the signed distance to the sphere boundary.
func (s *sphere) Evaluate(pos []r3.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	for i, p := range pos {
		dist[i] = r3.Norm(p) - s.radius
	}
	return nil
}

// Grad returns the field gradient p/|p|. At the origin the gradient is the
// zero vector; normal extraction reports it as degenerate.
func (s *sphere) Grad(pos []r3.Vec, grad []r3.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	for i, p := range pos {
		n := r3.Norm(p)
		if n == 0 {
			grad[i] = r3.Vec{}
			continue
		}
		grad[i] = r3.Scale(1/n, p)
	}
	return nil
}

// Bounds returns the bounding box of the sphere.
func (s *sphere) Bounds() r3.Box { return r3.Box(s.bb) }

// 3D Sphere, squared-distance form.

// sphereSquared is the squared-distance form of the sphere field.
type sphereSquared struct {
	radius float64
	bb     d3.Box
}

// SphereSquared returns the squared-distance form of the sphere field:
// |p|^2 - radius^2. The zero-level set is the sphere boundary; non-zero
// level sets are NOT at linear distance from it. Differentiable everywhere,
// gradient 2p (zero at the origin).
func SphereSquared(radius float64) *sphereSquared {
	if radius <= 0 {
		panic("zero or negative radius")
	}
	d := d3.Elem(radius)
	return &sphereSquared{
		radius: radius,
		bb:     d3.Box{Min: r3.Scale(-1, d), Max: d},
	}
}

// Evaluate returns |p|^2 - radius^2 for each position.
func (s *sphereSquared) Evaluate(pos []r3.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	rr := s.radius * s.radius
	for i, p := range pos {
		dist[i] = r3.Norm2(p) - rr
	}
	return nil
}

// Grad returns the field gradient 2p.
func (s *sphereSquared) Grad(pos []r3.Vec, grad []r3.Vec, _ any) error {
	if err := lenErr(len(pos), len(grad)); err != nil {
		return err
	}
	for i, p := range pos {
		grad[i] = r3.Scale(2, p)
	}
	return nil
}

// Bounds returns the bounding box of the sphere.
func (s *sphereSquared) Bounds() r3.Box { return r3.Box(s.bb) }

func lenErr(npos, ndst int) error {
	if npos != ndst {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", npos, ndst)
	}
	return nil
}
