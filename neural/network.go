package neural

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// ErrDimensionMismatch reports a batch of points whose dimensionality does
// not match the network's input width.
var ErrDimensionMismatch = errors.New("point dimensionality does not match network input width")

type activation int

const (
	actSine activation = iota
	actTanh
)

// layer is a dense layer with row-major out-by-in weights.
type layer struct {
	in, out int
	w       []float32
	b       []float32
}

// Network is a small fully-connected scalar field approximator. Weights are
// immutable after construction; all per-call scratch is local, so a Network
// is safe for concurrent evaluation.
type Network struct {
	layers []layer // hidden layers followed by the final 1-wide linear layer
	act    activation
	omega  float32
	inputs int
}

// New builds a randomly initialized network from cfg. Sine networks use
// SIREN-style initialization: the first layer uniform in [-1/in, 1/in] and
// deeper layers uniform in [-sqrt(6/in)/omega, sqrt(6/in)/omega].
func New(cfg Config) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	sizes := make([]int, 0, len(cfg.Hidden)+2)
	sizes = append(sizes, cfg.Inputs)
	sizes = append(sizes, cfg.Hidden...)
	sizes = append(sizes, 1)
	n := &Network{
		act:    actTanh,
		omega:  1,
		inputs: cfg.Inputs,
	}
	if cfg.Activation == "sine" {
		n.act = actSine
		n.omega = cfg.Omega
	}
	for li := 0; li < len(sizes)-1; li++ {
		in, out := sizes[li], sizes[li+1]
		l := layer{
			in:  in,
			out: out,
			w:   make([]float32, in*out),
			b:   make([]float32, out),
		}
		bound := initBound(n.act, n.omega, in, li == 0)
		for i := range l.w {
			l.w[i] = (2*rng.Float32() - 1) * bound
		}
		n.layers = append(n.layers, l)
	}
	return n, nil
}

func initBound(act activation, omega float32, fanIn int, first bool) float32 {
	switch {
	case act == actSine && first:
		return 1 / float32(fanIn)
	case act == actSine:
		return math32.Sqrt(6/float32(fanIn)) / omega
	default:
		return math32.Sqrt(6 / float32(fanIn))
	}
}

// In returns the network's input width.
func (n *Network) In() int { return n.inputs }

// maxWidth returns the widest layer output, used to size scratch buffers.
func (n *Network) maxWidth() int {
	w := n.inputs
	for _, l := range n.layers {
		if l.out > w {
			w = l.out
		}
	}
	return w
}

// scratch holds per-call forward/backward buffers.
type scratch struct {
	// acts[l] is the input vector of layer l; acts[len(layers)] the output.
	acts [][]float32
	// du[l][j] is d(activation output)/d(pre-activation) of layer l unit j.
	du [][]float32
	// delta buffers for the backward pass.
	da, db []float32
}

func (n *Network) newScratch() *scratch {
	s := &scratch{
		acts: make([][]float32, len(n.layers)+1),
		du:   make([][]float32, len(n.layers)),
		da:   make([]float32, n.maxWidth()),
		db:   make([]float32, n.maxWidth()),
	}
	s.acts[0] = make([]float32, n.inputs)
	for li, l := range n.layers {
		s.acts[li+1] = make([]float32, l.out)
		s.du[li] = make([]float32, l.out)
	}
	return s
}

// forward runs one point through the network, filling sc with activations and
// activation derivatives for a later backward pass.
func (n *Network) forward(x []float32, sc *scratch) float32 {
	copy(sc.acts[0], x)
	last := len(n.layers) - 1
	for li, l := range n.layers {
		in := sc.acts[li]
		out := sc.acts[li+1]
		for o := 0; o < l.out; o++ {
			z := l.b[o]
			row := l.w[o*l.in : (o+1)*l.in]
			for j, wj := range row {
				z += wj * in[j]
			}
			if li == last {
				out[o] = z
				sc.du[li][o] = 1
				continue
			}
			switch n.act {
			case actSine:
				u := n.omega * z
				out[o] = math32.Sin(u)
				sc.du[li][o] = n.omega * math32.Cos(u)
			default:
				a := math32.Tanh(z)
				out[o] = a
				sc.du[li][o] = 1 - a*a
			}
		}
	}
	return sc.acts[len(n.layers)][0]
}

// backward propagates a unit cotangent from the scalar output to the inputs,
// storing the input gradient in dst. forward must have been called on sc for
// the same point.
func (n *Network) backward(sc *scratch, dst []float32) {
	delta := sc.da[:1]
	delta[0] = 1
	for li := len(n.layers) - 1; li >= 0; li-- {
		l := n.layers[li]
		// Scale by the activation derivative of this layer's units.
		for o := 0; o < l.out; o++ {
			delta[o] *= sc.du[li][o]
		}
		// Multiply by the transposed weights into the layer's input space.
		var din []float32
		if li == 0 {
			din = dst
		} else if &delta[0] == &sc.da[0] {
			din = sc.db[:l.in]
		} else {
			din = sc.da[:l.in]
		}
		for j := 0; j < l.in; j++ {
			var sum float32
			for o := 0; o < l.out; o++ {
				sum += l.w[o*l.in+j] * delta[o]
			}
			din[j] = sum
		}
		delta = din
	}
}

// Evaluate2 evaluates the network over a batch of 2D points.
// dist must be the same length as pos.
func (n *Network) Evaluate2(pos []ms2.Vec, dist []float32) error {
	if n.inputs != 2 {
		return fmt.Errorf("%w: network wants %d inputs, got 2D points", ErrDimensionMismatch, n.inputs)
	}
	if len(pos) != len(dist) {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", len(pos), len(dist))
	}
	sc := n.newScratch()
	var x [2]float32
	for i, p := range pos {
		x[0], x[1] = p.X, p.Y
		dist[i] = n.forward(x[:], sc)
	}
	return nil
}

// Evaluate3 evaluates the network over a batch of 3D points.
func (n *Network) Evaluate3(pos []ms3.Vec, dist []float32) error {
	if n.inputs != 3 {
		return fmt.Errorf("%w: network wants %d inputs, got 3D points", ErrDimensionMismatch, n.inputs)
	}
	if len(pos) != len(dist) {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", len(pos), len(dist))
	}
	sc := n.newScratch()
	var x [3]float32
	for i, p := range pos {
		x[0], x[1], x[2] = p.X, p.Y, p.Z
		dist[i] = n.forward(x[:], sc)
	}
	return nil
}

// Gradient2 computes the gradient of the network output with respect to each
// input point by reverse-mode backpropagation of a unit cotangent.
func (n *Network) Gradient2(pos []ms2.Vec, grad []ms2.Vec) error {
	if n.inputs != 2 {
		return fmt.Errorf("%w: network wants %d inputs, got 2D points", ErrDimensionMismatch, n.inputs)
	}
	if len(pos) != len(grad) {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", len(pos), len(grad))
	}
	sc := n.newScratch()
	var x, g [2]float32
	for i, p := range pos {
		x[0], x[1] = p.X, p.Y
		n.forward(x[:], sc)
		n.backward(sc, g[:])
		grad[i] = ms2.Vec{X: g[0], Y: g[1]}
	}
	return nil
}

// Gradient3 is the 3D analog of Gradient2.
func (n *Network) Gradient3(pos []ms3.Vec, grad []ms3.Vec) error {
	if n.inputs != 3 {
		return fmt.Errorf("%w: network wants %d inputs, got 3D points", ErrDimensionMismatch, n.inputs)
	}
	if len(pos) != len(grad) {
		return fmt.Errorf("batch length mismatch: %d positions, %d results", len(pos), len(grad))
	}
	sc := n.newScratch()
	var x, g [3]float32
	for i, p := range pos {
		x[0], x[1], x[2] = p.X, p.Y, p.Z
		n.forward(x[:], sc)
		n.backward(sc, g[:])
		grad[i] = ms3.Vec{X: g[0], Y: g[1], Z: g[2]}
	}
	return nil
}
