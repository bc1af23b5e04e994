package renderer

import (
	"fmt"
	"image"
	"log"

	"github.com/anthonynsimon/bild/transform"

	graphics "github.com/richinsley/learngl/graphics"
)

// FrameSink consumes bottom-up RGBA frames, such as a *recorder.Recorder.
type FrameSink interface {
	WriteFrame(pixels []byte) error
}

// ReadPixels returns the framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, error) {
	w, h := r.width, r.height
	pixels := make([]byte, w*h*4)
	// errors raised while drawing are not ours to report
	for r.gl.GetError() != graphics.NoError {
	}
	r.gl.ReadPixels(0, 0, int32(w), int32(h), graphics.RGBA, graphics.UnsignedByte, pixels)
	if e := r.gl.GetError(); e != graphics.NoError {
		return nil, fmt.Errorf("failed to read pixels: GL error 0x%x", uint32(e))
	}
	return pixels, nil
}

// Screenshot renders the frame at time t and returns it top row first.
func (r *Renderer) Screenshot(t float64) (*image.RGBA, error) {
	r.RenderFrame(t)
	pixels, err := r.ReadPixels()
	if err != nil {
		return nil, err
	}
	img := &image.RGBA{
		Pix:    pixels,
		Stride: r.width * 4,
		Rect:   image.Rect(0, 0, r.width, r.height),
	}
	return transform.FlipV(img), nil
}

// RunOffscreen renders frames at a fixed time step and hands each one to
// sink. It stops at the first error.
func (r *Renderer) RunOffscreen(frames, fps int, sink FrameSink) error {
	if fps <= 0 {
		return fmt.Errorf("invalid frame rate %d", fps)
	}
	log.Printf("Rendering %d frames at %d fps...", frames, fps)
	timeStep := 1.0 / float64(fps)
	for i := 0; i < frames; i++ {
		r.RenderFrame(float64(i) * timeStep)
		pixels, err := r.ReadPixels()
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := sink.WriteFrame(pixels); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		r.context.EndFrame()
	}
	return nil
}
