package render

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/soypat/implicit"
)

// Animation renders a time-indexed field as a sequence of 2D plot frames and
// encodes them as GIF or MP4. Frames are rendered at twice the output width
// and downsampled, which smooths the contour line considerably.
type Animation struct {
	// Frames is the number of time samples on [0, 1].
	Frames int
	// Cells is the grid resolution of each frame's field sampling.
	Cells int
	// Width and Height are the output frame size in pixels.
	Width, Height int
	// FPS is the playback rate of encoded video.
	FPS int
	// Log receives per-frame progress. Nil disables logging.
	Log *slog.Logger

	f implicit.Field3
}

// NewAnimation returns an animation of the time-indexed field f with sensible
// defaults for a preview-quality render.
func NewAnimation(f implicit.Field3) (*Animation, error) {
	if f == nil {
		return nil, errors.New("nil field argument")
	}
	return &Animation{
		Frames: 30,
		Cells:  96,
		Width:  480,
		Height: 480,
		FPS:    15,
		f:      f,
	}, nil
}

// fps clamps the playback rate to at least 1 frame per second.
func (a *Animation) fps() int {
	if a.FPS < 1 {
		return 1
	}
	return a.FPS
}

// renderFrames renders all frames of the animation.
func (a *Animation) renderFrames() ([]image.Image, error) {
	if a.Frames < 2 {
		return nil, errors.New("need at least 2 animation frames")
	}
	frames := make([]image.Image, a.Frames)
	for i := range frames {
		t := float64(i) / float64(a.Frames-1)
		img, err := DrawImage(implicit.TimeSlice2D(a.f, t), a.Cells, 2*a.Width, 2*a.Height)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = resize.Resize(uint(a.Width), uint(a.Height), img, resize.Bilinear)
		if a.Log != nil {
			a.Log.Info("rendered frame", slog.Int("frame", i), slog.Float64("time", t))
		}
	}
	return frames, nil
}

// EncodeGIF renders the animation and writes it to w as an animated GIF.
func (a *Animation) EncodeGIF(w io.Writer) error {
	frames, err := a.renderFrames()
	if err != nil {
		return err
	}
	out := &gif.GIF{}
	delay := 100 / a.fps() // GIF delays are in centiseconds.
	for _, frame := range frames {
		pm := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pm, frame.Bounds(), frame, image.Point{})
		out.Image = append(out.Image, pm)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// SaveGIF renders the animation to an animated GIF file.
func (a *Animation) SaveGIF(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return a.EncodeGIF(file)
}

// SaveFrames writes each frame as a numbered PNG file under dir.
func (a *Animation) SaveFrames(dir string) error {
	frames, err := a.renderFrames()
	if err != nil {
		return err
	}
	return writeFramePNGs(dir, frames)
}

// SaveMP4 renders the animation and encodes it to an MP4 file with the ffmpeg
// command line tool, which must be on the PATH.
func (a *Animation) SaveMP4(path string) error {
	frames, err := a.renderFrames()
	if err != nil {
		return err
	}
	tmp, err := os.MkdirTemp("", "implicit-anim")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)
	if err := writeFramePNGs(tmp, frames); err != nil {
		return err
	}
	cmd := exec.Command("ffmpeg", "-y",
		"-framerate", fmt.Sprint(a.fps()),
		"-i", filepath.Join(tmp, "frame%04d.png"),
		"-pix_fmt", "yuv420p",
		path,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w\n%s", err, output)
	}
	return nil
}

func writeFramePNGs(dir string, frames []image.Image) error {
	for i, frame := range frames {
		file, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame%04d.png", i)))
		if err != nil {
			return err
		}
		err = png.Encode(file, frame)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}
	return nil
}
