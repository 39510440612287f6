package neural

import (
	"bytes"
	"testing"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/implicit"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig2() Config {
	return Config{
		Inputs:     2,
		Hidden:     []int{8, 8},
		Activation: "sine",
		Omega:      1,
		Seed:       42,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.validate())
	require.Equal(t, 2, cfg.Inputs)
	require.Equal(t, "sine", cfg.Activation)
	require.NotEmpty(t, cfg.Hidden)
	require.Greater(t, cfg.Omega, float32(0))
}

func TestConfigValidation(t *testing.T) {
	bad := testConfig2()
	bad.Inputs = 4
	_, err := New(bad)
	require.Error(t, err)

	bad = testConfig2()
	bad.Hidden = nil
	_, err = New(bad)
	require.Error(t, err)

	bad = testConfig2()
	bad.Activation = "relu"
	_, err = New(bad)
	require.Error(t, err)

	bad = testConfig2()
	bad.Omega = 0
	_, err = New(bad)
	require.Error(t, err)
}

func TestDeterministicInit(t *testing.T) {
	a, err := New(testConfig2())
	require.NoError(t, err)
	b, err := New(testConfig2())
	require.NoError(t, err)
	pos := []ms2.Vec{{X: 0.3, Y: -0.2}}
	da, db := make([]float32, 1), make([]float32, 1)
	require.NoError(t, a.Evaluate2(pos, da))
	require.NoError(t, b.Evaluate2(pos, db))
	require.Equal(t, da[0], db[0], "same seed must give same network")
}

// Backpropagated input gradients must agree with central finite differences
// of the forward pass, up to float32 noise.
func TestGradientMatchesFiniteDifference(t *testing.T) {
	for _, act := range []string{"sine", "tanh"} {
		cfg := testConfig2()
		cfg.Activation = act
		net, err := New(cfg)
		require.NoError(t, err)

		pos := []ms2.Vec{
			{X: 0.1, Y: 0.2},
			{X: -0.7, Y: 0.4},
			{X: 0.9, Y: -0.9},
		}
		grad := make([]ms2.Vec, len(pos))
		require.NoError(t, net.Gradient2(pos, grad))

		const h = 1e-3
		eval := func(p ms2.Vec) float64 {
			d := make([]float32, 1)
			require.NoError(t, net.Evaluate2([]ms2.Vec{p}, d))
			return float64(d[0])
		}
		for i, p := range pos {
			fdx := (eval(ms2.Vec{X: p.X + h, Y: p.Y}) - eval(ms2.Vec{X: p.X - h, Y: p.Y})) / (2 * h)
			fdy := (eval(ms2.Vec{X: p.X, Y: p.Y + h}) - eval(ms2.Vec{X: p.X, Y: p.Y - h})) / (2 * h)
			require.InDelta(t, fdx, float64(grad[i].X), 1e-2, "%s point %d dx", act, i)
			require.InDelta(t, fdy, float64(grad[i].Y), 1e-2, "%s point %d dy", act, i)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	net, err := New(testConfig2())
	require.NoError(t, err)
	err = net.Evaluate3(make([]ms3.Vec, 1), make([]float32, 1))
	require.ErrorIs(t, err, ErrDimensionMismatch)
	err = net.Gradient3(make([]ms3.Vec, 1), make([]ms3.Vec, 1))
	require.ErrorIs(t, err, ErrDimensionMismatch)

	cfg3 := testConfig2()
	cfg3.Inputs = 3
	net3, err := New(cfg3)
	require.NoError(t, err)
	err = net3.Evaluate2(make([]ms2.Vec, 1), make([]float32, 1))
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestWeightsRoundtrip(t *testing.T) {
	net, err := New(testConfig2())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, net.WriteWeights(&buf))

	loaded, err := ReadWeights(&buf)
	require.NoError(t, err)
	require.Equal(t, net.In(), loaded.In())

	pos := []ms2.Vec{{X: 0.5, Y: -0.3}, {X: -0.1, Y: 0.9}}
	want := make([]float32, len(pos))
	got := make([]float32, len(pos))
	require.NoError(t, net.Evaluate2(pos, want))
	require.NoError(t, loaded.Evaluate2(pos, got))
	require.Equal(t, want, got)
}

func TestReadWeightsRejectsGarbage(t *testing.T) {
	_, err := ReadWeights(bytes.NewReader([]byte("not a snapshot")))
	require.Error(t, err)
}

// A short destination buffer must come back as an error from the field
// adapters, never as an out-of-range panic.
func TestFieldAdapterBatchMismatch(t *testing.T) {
	net, err := New(testConfig2())
	require.NoError(t, err)
	bounds := r2.Box{Min: r2.Vec{X: -1, Y: -1}, Max: r2.Vec{X: 1, Y: 1}}
	field := net.Field2(bounds)
	require.NotPanics(t, func() {
		err = field.Evaluate(make([]r2.Vec, 3), make([]float64, 1), nil)
	})
	require.Error(t, err)
	exact, ok := field.(implicit.Differentiable2)
	require.True(t, ok)
	require.NotPanics(t, func() {
		err = exact.Grad(make([]r2.Vec, 3), make([]r2.Vec, 1), nil)
	})
	require.Error(t, err)

	cfg3 := testConfig2()
	cfg3.Inputs = 3
	net3, err := New(cfg3)
	require.NoError(t, err)
	f3 := net3.Field3(r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	require.NotPanics(t, func() {
		err = f3.Evaluate(make([]r3.Vec, 2), make([]float64, 5), nil)
	})
	require.Error(t, err)
	exact3, ok := f3.(implicit.Differentiable3)
	require.True(t, ok)
	require.NotPanics(t, func() {
		err = exact3.Grad(make([]r3.Vec, 2), make([]r3.Vec, 5), nil)
	})
	require.Error(t, err)
}

// The Field2 adapter exposes exact gradients, so normal extraction never
// falls back to finite differences and yields unit vectors wherever the
// learned field is not flat.
func TestFieldAdapter(t *testing.T) {
	net, err := New(testConfig2())
	require.NoError(t, err)
	bounds := r2.Box{Min: r2.Vec{X: -1, Y: -1}, Max: r2.Vec{X: 1, Y: 1}}
	field := net.Field2(bounds)
	require.Equal(t, bounds, field.Bounds())
	_, exact := field.(implicit.Differentiable2)
	require.True(t, exact, "adapter must expose the exact gradient capability")

	pos := []r2.Vec{{X: 0.2, Y: 0.1}}
	normals := make([]r2.Vec, 1)
	err = implicit.Normals2(field, pos, normals, nil)
	if err == nil {
		require.InDelta(t, 1, r2.Norm(normals[0]), 1e-6)
	} else {
		// A flat spot at the probe is legitimate for random weights, but it
		// must be reported as a typed error.
		require.ErrorAs(t, err, new(*implicit.DegenerateNormalError))
	}
}
