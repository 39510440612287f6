package render_test

import (
	"bytes"
	"testing"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/form2/must2"
	"github.com/soypat/implicit/render"
)

func TestSampleGrid(t *testing.T) {
	circle := must2.Circle(1)
	g, err := render.SampleGrid(circle, 9, 9)
	if err != nil {
		t.Fatal(err)
	}
	c, r := g.Dims()
	if c != 9 || r != 9 {
		t.Fatalf("grid dims %dx%d, want 9x9", c, r)
	}
	bb := circle.Bounds()
	if g.X(0) != bb.Min.X || g.X(c-1) != bb.Max.X {
		t.Errorf("X range [%g, %g], want [%g, %g]", g.X(0), g.X(c-1), bb.Min.X, bb.Max.X)
	}
	if g.Y(0) != bb.Min.Y || g.Y(r-1) != bb.Max.Y {
		t.Errorf("Y range [%g, %g], want [%g, %g]", g.Y(0), g.Y(r-1), bb.Min.Y, bb.Max.Y)
	}
	// Center sample of a symmetric grid is the field value at the origin.
	if got := g.Z(4, 4); got != -1 {
		t.Errorf("center sample %g, want -1", got)
	}
	// Corner of the bounding box is outside the circle.
	if got := g.Z(0, 0); got <= 0 {
		t.Errorf("corner sample %g, want positive", got)
	}
}

func TestSampleGridBadArguments(t *testing.T) {
	if _, err := render.SampleGrid(nil, 4, 4); err == nil {
		t.Error("expected error for nil field")
	}
	if _, err := render.SampleGrid(must2.Circle(1), 1, 4); err == nil {
		t.Error("expected error for degenerate grid")
	}
}

func TestDrawImage(t *testing.T) {
	img, err := render.DrawImage(must2.Star(1, 5, 3), 32, 120, 100)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() < 119 || b.Dy() < 99 {
		t.Errorf("image size %dx%d, want about 120x100", b.Dx(), b.Dy())
	}
}

func TestAnimationGIF(t *testing.T) {
	morph := implicit.Transition2D(must2.Circle(1), must2.Star(1, 5, 3))
	anim, err := render.NewAnimation(morph)
	if err != nil {
		t.Fatal(err)
	}
	anim.Frames = 2
	anim.Cells = 8
	anim.Width, anim.Height = 64, 64
	var buf bytes.Buffer
	if err := anim.EncodeGIF(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("GIF8")) {
		t.Error("output is not a GIF stream")
	}
}

// A zeroed FPS field must not divide the GIF frame delay by zero.
func TestAnimationZeroFPS(t *testing.T) {
	anim, err := render.NewAnimation(implicit.Transition2D(must2.Circle(1), must2.Circle(0.5)))
	if err != nil {
		t.Fatal(err)
	}
	anim.Frames = 2
	anim.Cells = 8
	anim.Width, anim.Height = 32, 32
	anim.FPS = 0
	var buf bytes.Buffer
	if err := anim.EncodeGIF(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("no GIF output")
	}
}

func TestAnimationBadArguments(t *testing.T) {
	if _, err := render.NewAnimation(nil); err == nil {
		t.Error("expected error for nil field")
	}
}
