package neural

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary weight snapshots. Little-endian framing: a magic header, format
// version, activation kind, omega, layer count, then per layer the in/out
// widths followed by raw row-major weights and biases.

var weightsMagic = [4]byte{'S', 'I', 'R', 'N'}

const weightsVersion uint32 = 1

// WriteWeights writes the network's weights to w.
func (n *Network) WriteWeights(w io.Writer) error {
	if _, err := w.Write(weightsMagic[:]); err != nil {
		return err
	}
	hdr := []uint32{weightsVersion, uint32(n.act), uint32(len(n.layers))}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.omega); err != nil {
		return err
	}
	for _, l := range n.layers {
		if err := binary.Write(w, binary.LittleEndian, []uint32{uint32(l.in), uint32(l.out)}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, l.w); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, l.b); err != nil {
			return err
		}
	}
	return nil
}

// ReadWeights reconstructs a network from a weight snapshot written by
// WriteWeights.
func ReadWeights(r io.Reader) (*Network, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != weightsMagic {
		return nil, errors.New("not a network weight snapshot")
	}
	var hdr [3]uint32
	if err := binary.Read(r, binary.LittleEndian, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[0] != weightsVersion {
		return nil, fmt.Errorf("unsupported weight snapshot version %d", hdr[0])
	}
	n := &Network{act: activation(hdr[1])}
	if n.act != actSine && n.act != actTanh {
		return nil, fmt.Errorf("unknown activation kind %d in snapshot", hdr[1])
	}
	if err := binary.Read(r, binary.LittleEndian, &n.omega); err != nil {
		return nil, err
	}
	nLayers := int(hdr[2])
	if nLayers < 2 {
		return nil, fmt.Errorf("snapshot holds %d layers, want at least 2", nLayers)
	}
	for li := 0; li < nLayers; li++ {
		var dims [2]uint32
		if err := binary.Read(r, binary.LittleEndian, dims[:]); err != nil {
			return nil, err
		}
		l := layer{
			in:  int(dims[0]),
			out: int(dims[1]),
		}
		if l.in < 1 || l.out < 1 {
			return nil, fmt.Errorf("bad layer dimensions %dx%d in snapshot", l.in, l.out)
		}
		l.w = make([]float32, l.in*l.out)
		l.b = make([]float32, l.out)
		if err := binary.Read(r, binary.LittleEndian, l.w); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, l.b); err != nil {
			return nil, err
		}
		n.layers = append(n.layers, l)
	}
	n.inputs = n.layers[0].in
	if out := n.layers[nLayers-1].out; out != 1 {
		return nil, fmt.Errorf("snapshot output width %d, want scalar field", out)
	}
	return n, nil
}
