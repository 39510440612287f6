package render

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
)

// CreateSTL renders a 3D field's zero-level set to a binary STL file using a
// Renderer.
func CreateSTL(path string, r Renderer) error {
	model, err := RenderAll(r)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteSTL(file, model)
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	nt := len(model)
	if nt > math.MaxUint32 {
		return errors.New("too many triangles for STL format")
	}
	header := stlHeader{
		Count: uint32(nt),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var d stlTriangle
	var b [stlTriangleSize]byte
	for _, triangle := range model {
		d.Normal = triangle.normal32()
		for v := 0; v < 3; v++ {
			d.Vertex[v][0] = float32(triangle.V[v].X)
			d.Vertex[v][1] = float32(triangle.V[v].Y)
			d.Vertex[v][2] = float32(triangle.V[v].Z)
		}
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const stlTriangleSize = 50

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal [3]float32
	Vertex [3][3]float32
}

// put packs the triangle into b in STL wire order: normal, three vertices,
// attribute byte count of zero.
func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need at least 50 bytes to encode STL triangle")
	}
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(t.Normal[0]))
	le.PutUint32(b[4:], math.Float32bits(t.Normal[1]))
	le.PutUint32(b[8:], math.Float32bits(t.Normal[2]))
	off := 12
	for v := 0; v < 3; v++ {
		le.PutUint32(b[off:], math.Float32bits(t.Vertex[v][0]))
		le.PutUint32(b[off+4:], math.Float32bits(t.Vertex[v][1]))
		le.PutUint32(b[off+8:], math.Float32bits(t.Vertex[v][2]))
		off += 12
	}
	b[48] = 0
	b[49] = 0
}
