package implicit_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form2/must2"
	"github.com/soypat/implicit/form3/must3"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNormalsCircleRadial(t *testing.T) {
	pos := []r2.Vec{
		{X: 0.5},
		{X: 2, Y: 1},
		{X: -0.3, Y: 0.7},
		{Y: -4},
	}
	normals := make([]r2.Vec, len(pos))
	for _, f := range []implicit.Field2{must2.Circle(1), must2.CircleSquared(1)} {
		require.NoError(t, implicit.Normals2(f, pos, normals, nil))
		for i, n := range normals {
			require.InDelta(t, 1, r2.Norm(n), 1e-9, "normal %d not unit length", i)
			radial := r2.Scale(1/r2.Norm(pos[i]), pos[i])
			require.InDelta(t, 1, r2.Dot(n, radial), 1e-9, "normal %d not radial", i)
		}
	}
}

func TestNormals3SphereRadial(t *testing.T) {
	pos := []r3.Vec{
		{X: 0.5},
		{X: 1, Y: 1, Z: -1},
		{X: -0.2, Y: 0.4, Z: 0.1},
	}
	normals := make([]r3.Vec, len(pos))
	for _, f := range []implicit.Field3{must3.Sphere(1), must3.SphereSquared(1)} {
		require.NoError(t, implicit.Normals3(f, pos, normals, nil))
		for i, n := range normals {
			require.InDelta(t, 1, r3.Norm(n), 1e-9)
			radial := r3.Unit(pos[i])
			require.InDelta(t, 1, r3.Dot(n, radial), 1e-9)
		}
	}
}

// The gradient of the squared form vanishes at the origin. Normal extraction
// must report the point instead of emitting NaN.
func TestDegenerateNormal(t *testing.T) {
	pos := []r2.Vec{{X: 0.5}, {}}
	normals := make([]r2.Vec, len(pos))
	err := implicit.Normals2(must2.CircleSquared(1), pos, normals, nil)
	require.Error(t, err)
	var dnErr *implicit.DegenerateNormalError
	require.ErrorAs(t, err, &dnErr)
	require.Equal(t, 1, dnErr.Index)
	require.Equal(t, r3.Vec{}, dnErr.Point)
	for _, n := range normals {
		require.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y), "NaN leaked into normals")
	}

	pos3 := []r3.Vec{{}}
	normals3 := make([]r3.Vec, 1)
	err = implicit.Normals3(must3.SphereSquared(1), pos3, normals3, nil)
	require.True(t, errors.As(err, &dnErr))
	require.Equal(t, 0, dnErr.Index)
}

// The star provides no exact gradient so differentiation falls back to
// central finite differences. Away from the fold seams the star field is a
// true distance, so the gradient magnitude is close to one.
func TestStarFiniteDifferenceNormals(t *testing.T) {
	star := must2.Star(1, 5, 3)
	pos := []r2.Vec{{X: 0.3, Y: 0.11}, {X: 1.7, Y: 0.35}}
	grad := make([]r2.Vec, len(pos))
	require.NoError(t, implicit.Gradient2(star, pos, grad, nil))
	for i, g := range grad {
		require.InDelta(t, 1, r2.Norm(g), 1e-5, "gradient %d not unit magnitude", i)
	}
	normals := make([]r2.Vec, len(pos))
	require.NoError(t, implicit.Normals2(star, pos, normals, nil))
	for _, n := range normals {
		require.InDelta(t, 1, r2.Norm(n), 1e-9)
	}
}

// Exact gradients propagate through combinators: the annular shell of a
// circle has an outward normal outside the original boundary and an inward
// normal inside it.
func TestAnnularNormalFlip(t *testing.T) {
	shell := implicit.Annular2D(must2.Circle(1), 0.25)
	pos := []r2.Vec{{X: 1.2}, {X: 0.8}}
	normals := make([]r2.Vec, len(pos))
	require.NoError(t, implicit.Normals2(shell, pos, normals, nil))
	require.InDelta(t, 1, normals[0].X, 1e-9)
	require.InDelta(t, -1, normals[1].X, 1e-9)
}

// The Z gradient component of a transition field is the morph velocity
// b(x,y) - a(x,y) inside the open unit time interval and zero outside it.
func TestTransitionGradVelocity(t *testing.T) {
	a := must2.Circle(1)
	b := must2.Circle(0.5)
	morph := implicit.Transition2D(a, b)
	p := r2.Vec{X: 0.75}
	da := eval2(t, a, p)[0]
	db := eval2(t, b, p)[0]

	pos := []r3.Vec{
		{X: p.X, Z: 0.5},
		{X: p.X, Z: -1},
		{X: p.X, Z: 2},
	}
	grad := make([]r3.Vec, len(pos))
	require.NoError(t, implicit.Gradient3(morph, pos, grad, nil))
	require.InDelta(t, db-da, grad[0].Z, tol)
	require.InDelta(t, 0, grad[1].Z, tol)
	require.InDelta(t, 0, grad[2].Z, tol)
	// In-plane gradient remains radial.
	require.InDelta(t, 1, grad[0].X, tol)
	require.InDelta(t, 0, grad[0].Y, tol)
}

func TestGradientBatchMismatch(t *testing.T) {
	err := implicit.Gradient2(must2.Circle(1), make([]r2.Vec, 2), make([]r2.Vec, 3), nil)
	require.Error(t, err)
}
