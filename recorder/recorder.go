// Package recorder streams rendered RGBA frames into ffmpeg.
package recorder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// numBuffers is how many frames may be queued ahead of the encoder.
const numBuffers = 3

var ErrClosed = errors.New("recorder is closed")

type Config struct {
	Path       string
	Width      int
	Height     int
	FPS        int
	Codec      string // h264 or hevc
	FFmpegPath string
	Format     string // container override, e.g. mpegts
}

// Frame is one bottom-up RGBA image as read back from GL.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// encode runs the encoder over raw frames read from in until in is
// exhausted.
var encode = func(cfg Config, in io.Reader) error {
	inputArgs, outputArgs := Args(cfg)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Path, outputArgs).
		OverWriteOutput().WithInput(in).ErrorToStdOut()
	if cfg.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(cfg.FFmpegPath)
	}
	return cmd.Run()
}

// Args returns the ffmpeg input and output arguments for cfg.
func Args(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		// GL rows arrive bottom first
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}
	if cfg.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(cfg.Path, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	if cfg.Format != "" {
		outputArgs["f"] = cfg.Format
	}
	return
}

// Recorder is the consumer side of a recording. Frames written to it are
// queued and piped to ffmpeg on a separate goroutine.
type Recorder struct {
	cfg       Config
	frameSize int
	frames    chan *Frame
	done      chan error
	next      int64
	closed    bool
	err       error

	mu      sync.Mutex
	failure error // first encoder or pipe failure
}

// Start launches the encoder.
func Start(cfg Config) (*Recorder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}
	r := &Recorder{
		cfg:       cfg,
		frameSize: cfg.Width * cfg.Height * 4,
		frames:    make(chan *Frame, numBuffers),
		done:      make(chan error, 1),
	}
	go r.run()
	return r, nil
}

func (r *Recorder) run() {
	pipeReader, pipeWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := encode(r.cfg, pipeReader)
		if err != nil {
			r.fail(fmt.Errorf("ffmpeg failed: %w", err))
		}
		// unblock the writer if the encoder stopped reading early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to ffmpeg: %v", frame.PTS, err)
			writeErr = fmt.Errorf("failed to write frame %d: %w", frame.PTS, err)
			r.fail(writeErr)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		r.done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	r.done <- writeErr
}

func (r *Recorder) fail(err error) {
	r.mu.Lock()
	if r.failure == nil {
		r.failure = err
	}
	r.mu.Unlock()
}

// Err returns the first encoder failure seen so far, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failure
}

// WriteFrame queues one frame. The recorder keeps pixels; the caller must
// not reuse the slice. Once the encoder has failed every call returns that
// failure.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.Err(); err != nil {
		return err
	}
	if len(pixels) != r.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), r.frameSize)
	}
	r.frames <- &Frame{Pixels: pixels, PTS: r.next}
	r.next++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int64 {
	return r.next
}

// Close flushes the queue and waits for ffmpeg to exit.
func (r *Recorder) Close() error {
	if r.closed {
		return r.err
	}
	r.closed = true
	close(r.frames)
	r.err = <-r.done
	return r.err
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
