package form3_test

import (
	"testing"

	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/soypat/implicit/form3"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBadShapeArguments(t *testing.T) {
	_, err := form3.Sphere(-1)
	require.Error(t, err)
	_, err = form3.SphereSquared(0)
	require.Error(t, err)
}

// Cross-check the metric sphere against the reference sdfx implementation.
func TestSphereAgainstSDFX(t *testing.T) {
	const radius = 0.8
	ours, err := form3.Sphere(radius)
	require.NoError(t, err)
	theirs, err := sdfx.Sphere3D(radius)
	require.NoError(t, err)

	pos := []r3.Vec{
		{},
		{X: 0.1, Y: 0.2, Z: -0.3},
		{X: radius},
		{X: 1, Y: 2, Z: 2},
	}
	dist := make([]float64, len(pos))
	require.NoError(t, ours.Evaluate(pos, dist, nil))
	for i, p := range pos {
		want := theirs.Evaluate(sdfx.V3{X: p.X, Y: p.Y, Z: p.Z})
		require.InDelta(t, want, dist[i], 1e-12, "point %d", i)
	}
}
