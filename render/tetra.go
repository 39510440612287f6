package render

import (
	"errors"
	"io"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// evalBatchSize is the number of grid corners evaluated per field call.
const evalBatchSize = 4096

// tetraRenderer marches tetrahedra over a uniform grid of field samples and
// emits the triangles of the zero-level set. Each grid cell is split into six
// tetrahedra sharing the cell diagonal, which avoids the ambiguous cases of
// cube-based marching.
type tetraRenderer struct {
	f          implicit.Field3
	origin     r3.Vec
	dx, dy, dz float64
	nx, ny, nz int // cells per axis
	dist       []float64
	spill      triangle3Buffer
	cellIdx    int
}

// NewTetrahedraRenderer returns a Renderer that meshes the zero-level set of
// f by marching tetrahedra on a grid of meshCells cells along the largest
// bounding box axis. The field is sampled once, in batches, at construction.
func NewTetrahedraRenderer(f implicit.Field3, meshCells int) (*tetraRenderer, error) {
	if f == nil {
		return nil, errors.New("nil field argument")
	}
	if meshCells < 2 {
		return nil, errors.New("need at least 2 mesh cells")
	}
	// Scale the bounding box around the center to make sure the boundary
	// faces of the field are not on the edge of the grid.
	bb := d3.Box(f.Bounds()).ScaleAboutCenter(1.01)
	size := bb.Size()
	res := d3.Max(size) / float64(meshCells)
	r := &tetraRenderer{
		f:      f,
		origin: bb.Min,
		nx:     cellCount(size.X, res),
		ny:     cellCount(size.Y, res),
		nz:     cellCount(size.Z, res),
	}
	r.dx = size.X / float64(r.nx)
	r.dy = size.Y / float64(r.ny)
	r.dz = size.Z / float64(r.nz)
	if err := r.sampleGrid(); err != nil {
		return nil, err
	}
	return r, nil
}

func cellCount(span, res float64) int {
	n := int(span/res + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// sampleGrid evaluates the field at all grid corners.
func (r *tetraRenderer) sampleGrid() error {
	npt := (r.nx + 1) * (r.ny + 1) * (r.nz + 1)
	r.dist = make([]float64, npt)
	pos := make([]r3.Vec, 0, evalBatchSize)
	start := 0
	flush := func() error {
		if len(pos) == 0 {
			return nil
		}
		err := r.f.Evaluate(pos, r.dist[start:start+len(pos)], nil)
		start += len(pos)
		pos = pos[:0]
		return err
	}
	for iz := 0; iz <= r.nz; iz++ {
		for iy := 0; iy <= r.ny; iy++ {
			for ix := 0; ix <= r.nx; ix++ {
				pos = append(pos, r.corner(ix, iy, iz))
				if len(pos) == evalBatchSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}
	}
	return flush()
}

func (r *tetraRenderer) corner(ix, iy, iz int) r3.Vec {
	return r3.Vec{
		X: r.origin.X + float64(ix)*r.dx,
		Y: r.origin.Y + float64(iy)*r.dy,
		Z: r.origin.Z + float64(iz)*r.dz,
	}
}

func (r *tetraRenderer) cornerDist(ix, iy, iz int) float64 {
	return r.dist[(iz*(r.ny+1)+iy)*(r.nx+1)+ix]
}

// ReadTriangles implements the Renderer interface.
func (r *tetraRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if r.spill.Len() > 0 {
		n += r.spill.Read(dst)
		if n == len(dst) {
			return n, nil
		}
	}
	total := r.nx * r.ny * r.nz
	var cellBuf [12]Triangle3
	for r.cellIdx < total {
		ix := r.cellIdx % r.nx
		iy := (r.cellIdx / r.nx) % r.ny
		iz := r.cellIdx / (r.nx * r.ny)
		nt := r.cellTriangles(ix, iy, iz, cellBuf[:])
		r.cellIdx++
		if nt == 0 {
			continue
		}
		c := copy(dst[n:], cellBuf[:nt])
		n += c
		if c < nt {
			r.spill.Write(cellBuf[c:nt])
			return n, nil
		}
		if n == len(dst) {
			return n, nil
		}
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// cubeCorners orders the corners of a cell: bit patterns of the bottom face
// counterclockwise, then the top face.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// cubeTets splits a cube into six tetrahedra sharing the 0-6 diagonal.
var cubeTets = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

func (r *tetraRenderer) cellTriangles(ix, iy, iz int, buf []Triangle3) int {
	var p [8]r3.Vec
	var d [8]float64
	for c, off := range cubeCorners {
		cx, cy, cz := ix+off[0], iy+off[1], iz+off[2]
		p[c] = r.corner(cx, cy, cz)
		d[c] = r.cornerDist(cx, cy, cz)
	}
	n := 0
	for _, tet := range cubeTets {
		tp := [4]r3.Vec{p[tet[0]], p[tet[1]], p[tet[2]], p[tet[3]]}
		td := [4]float64{d[tet[0]], d[tet[1]], d[tet[2]], d[tet[3]]}
		n += marchTet(tp, td, buf[n:])
	}
	return n
}

// marchTet emits the zero-level set triangles of one tetrahedron into dst and
// returns the number of triangles written (0, 1 or 2). A vertex is inside the
// surface when its field value is negative.
func marchTet(p [4]r3.Vec, d [4]float64, dst []Triangle3) int {
	var in, out [4]int
	nin, nout := 0, 0
	for i := 0; i < 4; i++ {
		if d[i] < 0 {
			in[nin] = i
			nin++
		} else {
			out[nout] = i
			nout++
		}
	}
	if nin == 0 || nin == 4 {
		return 0
	}
	cut := func(a, b int) r3.Vec {
		t := d[a] / (d[a] - d[b])
		return r3.Add(p[a], r3.Scale(t, r3.Sub(p[b], p[a])))
	}
	// Outward reference direction from interior towards exterior vertices.
	var ci, co r3.Vec
	for i := 0; i < nin; i++ {
		ci = r3.Add(ci, p[in[i]])
	}
	for i := 0; i < nout; i++ {
		co = r3.Add(co, p[out[i]])
	}
	dir := r3.Sub(r3.Scale(1/float64(nout), co), r3.Scale(1/float64(nin), ci))
	switch nin {
	case 1:
		dst[0] = orient(Triangle3{V: [3]r3.Vec{
			cut(in[0], out[0]),
			cut(in[0], out[1]),
			cut(in[0], out[2]),
		}}, dir)
		return 1
	case 3:
		dst[0] = orient(Triangle3{V: [3]r3.Vec{
			cut(in[0], out[0]),
			cut(in[1], out[0]),
			cut(in[2], out[0]),
		}}, dir)
		return 1
	default: // nin == 2, quad split into two triangles.
		v0 := cut(in[0], out[0])
		v1 := cut(in[0], out[1])
		v2 := cut(in[1], out[1])
		v3 := cut(in[1], out[0])
		dst[0] = orient(Triangle3{V: [3]r3.Vec{v0, v1, v2}}, dir)
		dst[1] = orient(Triangle3{V: [3]r3.Vec{v0, v2, v3}}, dir)
		return 2
	}
}

// orient flips the triangle winding if its normal does not point along dir.
func orient(t Triangle3, dir r3.Vec) Triangle3 {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	if r3.Dot(n, dir) < 0 {
		t.V[1], t.V[2] = t.V[2], t.V[1]
	}
	return t
}
