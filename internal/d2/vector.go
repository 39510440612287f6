package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Elem returns a vector with all components set to sides.
func Elem(sides float64) r2.Vec {
	return r2.Vec{X: sides, Y: sides}
}

// MinElem returns a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem returns a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

type Set []r2.Vec

// Min returns the minimum components of a set of vectors.
func (a Set) Min() r2.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max returns the maximum components of a set of vectors.
func (a Set) Max() r2.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}

// PolarToXY converts polar to cartesian coordinates.
func PolarToXY(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}
