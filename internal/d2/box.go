package d2

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// NewBox2 creates a 2d box with a given center and size.
func NewBox2(center, size r2.Vec) Box {
	half := r2.Scale(0.5, size)
	return Box{Min: r2.Sub(center, half), Max: r2.Add(center, half)}
}

// Extend returns a box enclosing two 2d boxes.
func (a Box) Extend(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Translate translates a 2d box.
func (a Box) Translate(v r2.Vec) Box {
	return Box{Min: r2.Add(a.Min, v), Max: r2.Add(a.Max, v)}
}

// Enlarge returns a new 2d box enlarged by a size vector.
func (a Box) Enlarge(v r2.Vec) Box {
	v = r2.Scale(0.5, v)
	return Box{Min: r2.Sub(a.Min, v), Max: r2.Add(a.Max, v)}
}

// Vertices returns a slice of 2d box corner vertices.
func (a Box) Vertices() Set {
	v := make([]r2.Vec, 4)
	v[0] = a.Min
	v[1] = r2.Vec{X: a.Max.X, Y: a.Min.Y}
	v[2] = r2.Vec{X: a.Min.X, Y: a.Max.Y}
	v[3] = a.Max
	return v
}

// Random returns a random point within a bounding box.
func (a Box) Random(rnd *rand.Rand) r2.Vec {
	return r2.Vec{
		X: randomRange(rnd, a.Min.X, a.Max.X),
		Y: randomRange(rnd, a.Min.Y, a.Max.Y),
	}
}

// randomRange returns a random float64 [a,b).
func randomRange(rnd *rand.Rand, a, b float64) float64 {
	return a + (b-a)*rnd.Float64()
}
