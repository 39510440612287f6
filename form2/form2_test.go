package form2_test

import (
	"testing"

	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/soypat/implicit/form2"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestBadShapeArguments(t *testing.T) {
	_, err := form2.Circle(-1)
	require.Error(t, err)
	_, err = form2.CircleSquared(0)
	require.Error(t, err)
	_, err = form2.Star(1, 2, 2)
	require.Error(t, err)
	_, err = form2.Star(1, 5, 9)
	require.Error(t, err)
}

func TestGoodShapeArguments(t *testing.T) {
	c, err := form2.Circle(1)
	require.NoError(t, err)
	require.NotNil(t, c)
	s, err := form2.Star(1, 5, 3)
	require.NoError(t, err)
	require.NotNil(t, s)
}

// Cross-check the metric circle against the reference sdfx implementation.
func TestCircleAgainstSDFX(t *testing.T) {
	const radius = 1.3
	ours, err := form2.Circle(radius)
	require.NoError(t, err)
	theirs, err := sdfx.Circle2D(radius)
	require.NoError(t, err)

	pos := []r2.Vec{
		{},
		{X: 0.5, Y: 0.25},
		{X: radius},
		{X: -2, Y: 3},
		{X: 10, Y: -10},
	}
	dist := make([]float64, len(pos))
	require.NoError(t, ours.Evaluate(pos, dist, nil))
	for i, p := range pos {
		want := theirs.Evaluate(sdfx.V2{X: p.X, Y: p.Y})
		require.InDelta(t, want, dist[i], 1e-12, "point %d", i)
	}
}
