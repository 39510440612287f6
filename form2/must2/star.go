package must2

import (
	"fmt"
	"math"

	"github.com/soypat/implicit/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// star is the 2d signed distance field of a regular n-pointed star.
type star struct {
	radius   float64
	n        int
	m        float64
	an, en   float64
	acs, ecs r2.Vec
	hmax     float64 // clamp limit radius*acs.Y/ecs.Y
	bb       d2.Box
}

// Star returns the signed distance field of a regular n-pointed star of
// outer radius radius. The sharpness parameter m lies in [2, n]: m = 2
// degenerates to the regular n-gon, larger m sharpens the points and m = n
// collapses the inner radius entirely.
//
// The angle folding exploits the star's sector symmetry and introduces a
// gradient discontinuity at sector seams. The field therefore does not
// implement the exact-gradient capability; normal extraction falls back to
// finite differences, which are unreliable on the seams. This is a known
// limitation of the formulation, acceptable for rendering but unsuitable as
// a gradient supervision target without care.
func Star(radius float64, n int, m float64) *star {
	if radius <= 0 {
		panic("zero or negative radius")
	}
	if n < 3 {
		panic("star needs at least 3 points")
	}
	if m < 2 || m > float64(n) {
		panic(fmt.Sprintf("star sharpness must be in [2, %d]", n))
	}
	an := math.Pi / float64(n)
	en := math.Pi / m
	d := d2.Elem(radius)
	return &star{
		radius: radius,
		n:      n,
		m:      m,
		an:     an,
		en:     en,
		acs:    r2.Vec{X: math.Cos(an), Y: math.Sin(an)},
		ecs:    r2.Vec{X: math.Cos(en), Y: math.Sin(en)},
		hmax:   radius * math.Sin(an) / math.Sin(en),
		bb:     d2.Box{Min: r2.Scale(-1, d), Max: d},
	}
}

// Evaluate returns the signed distance to the star boundary.
func (s *star) Evaluate(pos []r2.Vec, dist []float64, _ any) error {
	if err := lenErr(len(pos), len(dist)); err != nil {
		return err
	}
	for i, p := range pos {
		// Fold the query point into the canonical sector: polar angle
		// reduced modulo 2*an and shifted into [-an, an), radius preserved,
		// y taken as absolute value.
		bn := mod(math.Atan2(p.X, p.Y), 2*s.an) - s.an
		l := r2.Norm(p)
		q := r2.Vec{X: l * math.Cos(bn), Y: math.Abs(l * math.Sin(bn))}
		// Offset to the sector's reference edge and project onto the edge
		// direction, clamped to the valid edge segment.
		q = r2.Sub(q, r2.Scale(s.radius, s.acs))
		h := clamp(-r2.Dot(q, s.ecs), 0, s.hmax)
		q = r2.Add(q, r2.Scale(h, s.ecs))
		dist[i] = r2.Norm(q) * sign(q.X)
	}
	return nil
}

// Bounds returns the bounding box of the star.
func (s *star) Bounds() r2.Box { return r2.Box(s.bb) }

// mod is the floored modulo with result in [0, y), matching GLSL mod.
func mod(x, y float64) float64 {
	m := math.Mod(x, y)
	if m < 0 {
		m += y
	}
	return m
}

func clamp(x, a, b float64) float64 {
	return math.Min(b, math.Max(x, a))
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
