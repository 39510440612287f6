package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all components set to sides.
func Elem(sides float64) r3.Vec {
	return r3.Vec{X: sides, Y: sides, Z: sides}
}

// Max returns the maximum component of a vector.
func Max(a r3.Vec) float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}
