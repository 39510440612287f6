package render

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/soypat/implicit"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Grid is a uniform sampling of a 2D field over its bounding box. It
// implements plotter.GridXYZ so it can feed heat maps and contour plots
// directly.
type Grid struct {
	bb         r2.Box
	nx, ny     int
	z          []float64
	zmin, zmax float64
}

// SampleGrid evaluates f on a nx-by-ny grid spanning the field's bounds.
func SampleGrid(f implicit.Field2, nx, ny int) (*Grid, error) {
	if f == nil {
		return nil, errors.New("nil field argument")
	}
	if nx < 2 || ny < 2 {
		return nil, errors.New("need at least 2 grid samples per axis")
	}
	g := &Grid{
		bb: f.Bounds(),
		nx: nx,
		ny: ny,
		z:  make([]float64, nx*ny),
	}
	dx := (g.bb.Max.X - g.bb.Min.X) / float64(nx-1)
	dy := (g.bb.Max.Y - g.bb.Min.Y) / float64(ny-1)
	pos := make([]r2.Vec, 0, evalBatchSize)
	start := 0
	flush := func() error {
		if len(pos) == 0 {
			return nil
		}
		err := f.Evaluate(pos, g.z[start:start+len(pos)], nil)
		start += len(pos)
		pos = pos[:0]
		return err
	}
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			pos = append(pos, r2.Vec{
				X: g.bb.Min.X + float64(c)*dx,
				Y: g.bb.Min.Y + float64(r)*dy,
			})
			if len(pos) == evalBatchSize {
				if err := flush(); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	g.zmin, g.zmax = g.z[0], g.z[0]
	for _, v := range g.z[1:] {
		g.zmin = math.Min(g.zmin, v)
		g.zmax = math.Max(g.zmax, v)
	}
	return g, nil
}

// Dims implements plotter.GridXYZ.
func (g *Grid) Dims() (c, r int) { return g.nx, g.ny }

// Z implements plotter.GridXYZ.
func (g *Grid) Z(c, r int) float64 { return g.z[r*g.nx+c] }

// X implements plotter.GridXYZ.
func (g *Grid) X(c int) float64 {
	return g.bb.Min.X + float64(c)*(g.bb.Max.X-g.bb.Min.X)/float64(g.nx-1)
}

// Y implements plotter.GridXYZ.
func (g *Grid) Y(r int) float64 {
	return g.bb.Min.Y + float64(r)*(g.bb.Max.Y-g.bb.Min.Y)/float64(g.ny-1)
}

// soleColor is a one color palette for drawing the zero contour.
type soleColor struct {
	c color.Color
}

func (p soleColor) Colors() []color.Color { return []color.Color{p.c} }

// FieldPlot builds a diverging heat map of f sampled on a cells-by-cells grid
// with the zero-level set overlaid as a contour line. The color scale is
// symmetric about zero so the sign of the field reads off the hue.
func FieldPlot(f implicit.Field2, cells int) (*plot.Plot, error) {
	g, err := SampleGrid(f, cells, cells)
	if err != nil {
		return nil, err
	}
	lim := math.Max(math.Abs(g.zmin), math.Abs(g.zmax))
	if lim == 0 {
		lim = 1
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-lim)
	cmap.SetMax(lim)
	hm := plotter.NewHeatMap(g, cmap.Palette(255))
	hm.Min, hm.Max = -lim, lim
	ct := plotter.NewContour(g, []float64{0}, soleColor{c: color.Black})
	p := plot.New()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(hm, ct)
	return p, nil
}

// SavePNG writes a heat map and zero contour plot of f to a PNG file.
func SavePNG(path string, f implicit.Field2, cells int) error {
	p, err := FieldPlot(f, cells)
	if err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// DrawImage renders the field plot to an in-memory image of the requested
// pixel size.
func DrawImage(f implicit.Field2, cells, widthPx, heightPx int) (image.Image, error) {
	p, err := FieldPlot(f, cells)
	if err != nil {
		return nil, err
	}
	w := vg.Length(widthPx) * vg.Inch / vgimg.DefaultDPI
	h := vg.Length(heightPx) * vg.Inch / vgimg.DefaultDPI
	c := vgimg.New(w, h)
	p.Draw(draw.New(c))
	return c.Image(), nil
}
