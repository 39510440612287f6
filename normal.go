package implicit

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Gradient and unit-normal extraction for scalar fields.
//
// Differentiation is modeled as a capability: fields that can compute exact
// gradients implement Differentiable2/Differentiable3 and combinators chain
// vector-Jacobian products through their wrapped fields. Fields without the
// capability fall back to central finite differences. Higher-order
// derivatives are not retained; curvature-style quantities must be obtained
// by differencing the normal field itself.

// Differentiable2 is a 2D scalar field that can compute the exact gradient of
// its distance value with respect to the query point.
type Differentiable2 interface {
	Field2
	// Grad stores the field gradient at each position in grad.
	// pos and grad must be of equal length.
	Grad(pos []r2.Vec, grad []r2.Vec, userData any) error
}

// Differentiable3 is the 3D analog of Differentiable2.
type Differentiable3 interface {
	Field3
	Grad(pos []r3.Vec, grad []r3.Vec, userData any) error
}

// normalEps is the gradient norm below which a field is considered locally
// flat and its normal degenerate.
const normalEps = 1e-9

// DegenerateNormalError reports a query point where the field gradient
// vanishes, leaving the surface normal undefined. It is returned instead of
// propagating NaN through normalization.
type DegenerateNormalError struct {
	// Index is the position of the offending point within the evaluated batch.
	Index int
	// Point is the offending query point. Z is zero for 2D fields.
	Point r3.Vec
	// Norm is the gradient norm found at the point.
	Norm float64
}

func (e *DegenerateNormalError) Error() string {
	return fmt.Sprintf("degenerate normal at batch index %d, point (%g, %g, %g): gradient norm %g",
		e.Index, e.Point.X, e.Point.Y, e.Point.Z, e.Norm)
}

// Gradient2 computes the gradient of f at each position. The exact gradient
// is used when f implements Differentiable2, otherwise the gradient is
// approximated with central finite differences.
func Gradient2(f Field2, pos []r2.Vec, dst []r2.Vec, userData any) error {
	if err := lenErr(len(pos), len(dst)); err != nil {
		return err
	}
	if df, ok := f.(Differentiable2); ok {
		return df.Grad(pos, dst, userData)
	}
	return fdGradient2(f, pos, dst, userData)
}

// Gradient3 is the 3D analog of Gradient2.
func Gradient3(f Field3, pos []r3.Vec, dst []r3.Vec, userData any) error {
	if err := lenErr(len(pos), len(dst)); err != nil {
		return err
	}
	if df, ok := f.(Differentiable3); ok {
		return df.Grad(pos, dst, userData)
	}
	return fdGradient3(f, pos, dst, userData)
}

// Normals2 computes the unit-length gradient of f at each position: the
// surface normal of the zero-level set under the implicit function theorem,
// valid at any point as the field's instantaneous gradient direction.
// A locally flat point yields a *DegenerateNormalError rather than NaN.
func Normals2(f Field2, pos []r2.Vec, dst []r2.Vec, userData any) error {
	if err := Gradient2(f, pos, dst, userData); err != nil {
		return err
	}
	for i, g := range dst {
		n := r2.Norm(g)
		if n <= normalEps {
			return &DegenerateNormalError{
				Index: i,
				Point: r3.Vec{X: pos[i].X, Y: pos[i].Y},
				Norm:  n,
			}
		}
		dst[i] = r2.Scale(1/n, g)
	}
	return nil
}

// Normals3 is the 3D analog of Normals2.
func Normals3(f Field3, pos []r3.Vec, dst []r3.Vec, userData any) error {
	if err := Gradient3(f, pos, dst, userData); err != nil {
		return err
	}
	for i, g := range dst {
		n := r3.Norm(g)
		if n <= normalEps {
			return &DegenerateNormalError{Index: i, Point: pos[i], Norm: n}
		}
		dst[i] = r3.Scale(1/n, g)
	}
	return nil
}

var fdSettings = fd.Settings{Formula: fd.Central}

func fdGradient2(f Field2, pos []r2.Vec, dst []r2.Vec, userData any) error {
	var (
		evalErr error
		p       [1]r2.Vec
		d       [1]float64
		x, g    [2]float64
	)
	eval := func(x []float64) float64 {
		p[0] = r2.Vec{X: x[0], Y: x[1]}
		if err := f.Evaluate(p[:], d[:], userData); err != nil && evalErr == nil {
			evalErr = err
		}
		return d[0]
	}
	for i, pt := range pos {
		x[0], x[1] = pt.X, pt.Y
		fd.Gradient(g[:], eval, x[:], &fdSettings)
		if evalErr != nil {
			return evalErr
		}
		dst[i] = r2.Vec{X: g[0], Y: g[1]}
	}
	return nil
}

func fdGradient3(f Field3, pos []r3.Vec, dst []r3.Vec, userData any) error {
	var (
		evalErr error
		p       [1]r3.Vec
		d       [1]float64
		x, g    [3]float64
	)
	eval := func(x []float64) float64 {
		p[0] = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
		if err := f.Evaluate(p[:], d[:], userData); err != nil && evalErr == nil {
			evalErr = err
		}
		return d[0]
	}
	for i, pt := range pos {
		x[0], x[1], x[2] = pt.X, pt.Y, pt.Z
		fd.Gradient(g[:], eval, x[:], &fdSettings)
		if evalErr != nil {
			return evalErr
		}
		dst[i] = r3.Vec{X: g[0], Y: g[1], Z: g[2]}
	}
	return nil
}
