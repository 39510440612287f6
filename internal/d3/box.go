package d3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d bounding box.
type Box r3.Box

// NewBox3 creates a 3d box with a given center and size.
func NewBox3(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Translate translates a 3d box.
func (a Box) Translate(v r3.Vec) Box {
	return Box{Min: r3.Add(a.Min, v), Max: r3.Add(a.Max, v)}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// ScaleAboutCenter returns a new 3d box scaled about the center of a box.
func (a Box) ScaleAboutCenter(k float64) Box {
	return NewBox3(a.Center(), r3.Scale(k, a.Size()))
}

// Enlarge returns a new 3d box enlarged by a size vector.
func (a Box) Enlarge(v r3.Vec) Box {
	v = r3.Scale(0.5, v)
	return Box{Min: r3.Sub(a.Min, v), Max: r3.Add(a.Max, v)}
}
