package recorder

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEncoder(t *testing.T, fn func(cfg Config, in io.Reader) error) {
	t.Helper()
	saved := encode
	encode = fn
	t.Cleanup(func() { encode = saved })
}

func TestArgs(t *testing.T) {
	in, out := Args(Config{Path: "out.mp4", Width: 320, Height: 240, FPS: 30, Codec: "h264"})
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x240", in["s"])
	assert.Equal(t, 30, in["r"])
	assert.Equal(t, "libx264", out["c:v"])
	assert.Equal(t, "vflip", out["vf"])
	assert.NotContains(t, out, "tag:v")
	assert.NotContains(t, out, "f")

	_, out = Args(Config{Path: "out.mp4", Width: 1, Height: 1, FPS: 1, Codec: "hevc"})
	assert.Equal(t, "libx265", out["c:v"])
	assert.Equal(t, "hvc1", out["tag:v"])

	_, out = Args(Config{Path: "out.ts", Width: 1, Height: 1, FPS: 1, Codec: "hevc", Format: "mpegts"})
	assert.NotContains(t, out, "tag:v")
	assert.Equal(t, "mpegts", out["f"])
}

func TestRecorderPipesFrames(t *testing.T) {
	var got []byte
	fakeEncoder(t, func(cfg Config, in io.Reader) error {
		var err error
		got, err = io.ReadAll(in)
		return err
	})

	r, err := Start(Config{Width: 2, Height: 1, FPS: 10})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		frame := make([]byte, 8)
		for j := range frame {
			frame[j] = byte(i)
		}
		require.NoError(t, r.WriteFrame(frame))
	}
	require.NoError(t, r.Close())
	assert.EqualValues(t, 5, r.Frames())
	require.Len(t, got, 40)
	assert.Equal(t, byte(4), got[39])

	assert.ErrorIs(t, r.WriteFrame(make([]byte, 8)), ErrClosed)
	assert.NoError(t, r.Close())
}

func TestRecorderRejectsWrongSize(t *testing.T) {
	fakeEncoder(t, func(cfg Config, in io.Reader) error {
		_, err := io.Copy(io.Discard, in)
		return err
	})
	r, err := Start(Config{Width: 2, Height: 2, FPS: 10})
	require.NoError(t, err)
	assert.Error(t, r.WriteFrame(make([]byte, 4)))
	assert.NoError(t, r.Close())
}

func TestRecorderEncoderFailure(t *testing.T) {
	fakeEncoder(t, func(cfg Config, in io.Reader) error {
		return errors.New("exit status 1")
	})
	r, err := Start(Config{Width: 1, Height: 1, FPS: 10})
	require.NoError(t, err)

	// the failure reaches the producer instead of frames being dropped silently
	var writeErr error
	for i := 0; i < 1000 && writeErr == nil; i++ {
		writeErr = r.WriteFrame(make([]byte, 4))
		time.Sleep(time.Millisecond)
	}
	require.Error(t, writeErr)
	assert.Equal(t, r.Err(), writeErr)
	assert.Equal(t, r.Err(), r.WriteFrame(make([]byte, 4)))

	err = r.Close()
	assert.ErrorContains(t, err, "ffmpeg failed")
	assert.Equal(t, err, r.Close())
}

func TestRecorderPipeFailure(t *testing.T) {
	fakeEncoder(t, func(cfg Config, in io.Reader) error {
		// read one frame, then stop reading without reporting an error
		buf := make([]byte, 4)
		_, err := io.ReadFull(in, buf)
		return err
	})
	r, err := Start(Config{Width: 1, Height: 1, FPS: 10})
	require.NoError(t, err)

	var writeErr error
	for i := 0; i < 1000 && writeErr == nil; i++ {
		writeErr = r.WriteFrame(make([]byte, 4))
		time.Sleep(time.Millisecond)
	}
	assert.ErrorContains(t, writeErr, "failed to write frame")
	assert.ErrorContains(t, r.Close(), "failed to write frame")
}

func TestStartInvalid(t *testing.T) {
	_, err := Start(Config{Width: 0, Height: 1, FPS: 1})
	assert.Error(t, err)
	_, err = Start(Config{Width: 1, Height: 1})
	assert.Error(t, err)
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, SavePNG(path, img))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
	r, g, _, a := decoded.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0xffff), a)
}
