// Package render visualizes scalar fields: filled contour plots of 2D
// fields, frame animations of time-indexed fields, and triangle meshing of
// 3D zero-level sets with binary STL output.
package render

import (
	"io"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the normal vector to the plane defined by the triangle.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// normal32 returns the triangle normal as float32 components for STL output.
func (t Triangle3) normal32() [3]float32 {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	x, y, z := float32(n.X), float32(n.Y), float32(n.Z)
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return [3]float32{}
	}
	return [3]float32{x / l, y / l, z / l}
}

// Renderer produces triangles from a 3D field's zero-level set.
type Renderer interface {
	// ReadTriangles writes rendered triangles into the argument buffer and
	// returns the number written. io.EOF signals the end of the model.
	ReadTriangles(t []Triangle3) (int, error)
}

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return an error on io.EOF.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var err error
	var nt int
	result := make([]Triangle3, 0, 1<<12)
	buf := make([]Triangle3, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		if err != nil {
			break
		}
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// triangle3Buffer buffers triangles that did not fit a caller's slice.
type triangle3Buffer struct {
	buf []Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
