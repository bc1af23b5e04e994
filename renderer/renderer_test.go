package renderer

import (
	"bytes"
	"errors"
	"image/color"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/learngl/lesson"
	"github.com/richinsley/learngl/shader"
	"github.com/richinsley/learngl/softgl"
)

// fakeContext presents frames on a softgl context and asks to close after
// a fixed number of them, or when closeWhen returns true.
type fakeContext struct {
	gl         *softgl.Context
	frames     int
	closeAfter int
	closeWhen  func() bool
	current    bool
	shutdown   bool
	delay      time.Duration
}

func (c *fakeContext) MakeCurrent() { c.current = true }
func (c *fakeContext) Shutdown() { c.shutdown = true }

func (c *fakeContext) ShouldClose() bool {
	if c.closeWhen != nil {
		return c.closeWhen()
	}
	return c.frames >= c.closeAfter
}

func (c *fakeContext) EndFrame() {
	c.frames++
	time.Sleep(c.delay)
}

func (c *fakeContext) GetFramebufferSize() (int, int) { return 8, 4 }

func (c *fakeContext) Time() float64 { return float64(c.frames) / 60 }

func newRenderer(t *testing.T, name string, shaders fs.FS, opts Options) (*Renderer, *fakeContext, *bytes.Buffer, error) {
	t.Helper()
	gl := softgl.New()
	gl.Resize(8, 4)
	ctx := &fakeContext{gl: gl, closeAfter: 3}
	var logs bytes.Buffer
	env := &lesson.Env{GL: gl, Shaders: shaders, Logger: log.New(&logs, "", 0)}
	r, err := New(ctx, env, name, opts)
	return r, ctx, &logs, err
}

// shaderFiles copies the built-in shaders so a test can edit them.
func shaderFiles(t *testing.T) fstest.MapFS {
	t.Helper()
	m := fstest.MapFS{}
	err := fs.WalkDir(lesson.Shaders(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(lesson.Shaders(), path)
		if err != nil {
			return err
		}
		m[path] = &fstest.MapFile{Data: data}
		return nil
	})
	require.NoError(t, err)
	return m
}

const brokenFragment = `#version 330 core
out vec4 FragColor;
void main() {
    FragColor = vec4(1.0)
`

func TestNewSetsUpLesson(t *testing.T) {
	r, ctx, logs, err := newRenderer(t, "triangle", nil, Options{})
	require.NoError(t, err)
	assert.True(t, ctx.current)
	assert.Equal(t, [4]int32{0, 0, 8, 4}, ctx.gl.ViewportRect())
	assert.Equal(t, 8, r.env.Width)
	assert.Equal(t, 4, r.env.Height)
	assert.IsType(t, &lesson.Triangle{}, r.Lesson())
	assert.Empty(t, logs.String())

	r.Shutdown()
	assert.True(t, ctx.shutdown)
	assert.Equal(t, 0, ctx.gl.LivePrograms())
}

func TestNewUnknownLesson(t *testing.T) {
	_, _, _, err := newRenderer(t, "teapot", nil, Options{})
	assert.ErrorContains(t, err, "teapot")
}

func TestRunDrawsUntilClosed(t *testing.T) {
	r, ctx, _, err := newRenderer(t, "triangle", nil, Options{})
	require.NoError(t, err)
	defer r.Shutdown()

	r.Run()
	assert.Equal(t, 3, ctx.frames)
	assert.Len(t, ctx.gl.Draws(), 3)
}

func TestBrokenShaderTolerated(t *testing.T) {
	shaders := shaderFiles(t)
	shaders["color.fs"] = &fstest.MapFile{Data: []byte(brokenFragment)}

	r, ctx, logs, err := newRenderer(t, "triangle", shaders, Options{})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "ERROR::SHADER::FRAGMENT::COMPILATION_FAILED")
	assert.Contains(t, logs.String(), "continues with a broken shader")

	r.Run()
	assert.Equal(t, 3, ctx.frames)
	r.Shutdown()
	assert.Equal(t, 0, ctx.gl.LiveShaders())
	assert.Equal(t, 0, ctx.gl.LivePrograms())
}

func TestBrokenShaderStrict(t *testing.T) {
	shaders := shaderFiles(t)
	shaders["color.fs"] = &fstest.MapFile{Data: []byte(brokenFragment)}

	gl := softgl.New()
	ctx := &fakeContext{gl: gl}
	env := &lesson.Env{GL: gl, Shaders: shaders, Logger: log.New(&bytes.Buffer{}, "", 0)}
	_, err := New(ctx, env, "triangle", Options{Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.Equal(t, 0, gl.LiveShaders())
	assert.Equal(t, 0, gl.LivePrograms())
	buffers, arrays, _ := gl.LiveObjects()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)
}

func TestReloadKeepsLessonOnFailure(t *testing.T) {
	shaders := shaderFiles(t)
	r, ctx, logs, err := newRenderer(t, "triangle", shaders, Options{})
	require.NoError(t, err)
	defer r.Shutdown()
	first := r.Lesson()

	good := shaders["color.fs"]
	shaders["color.fs"] = &fstest.MapFile{Data: []byte(brokenFragment)}
	err = r.Reload()
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.Same(t, first, r.Lesson())
	assert.Contains(t, logs.String(), "keeping the previous version")
	assert.Equal(t, 1, ctx.gl.LivePrograms())

	shaders["color.fs"] = good
	require.NoError(t, r.Reload())
	assert.NotSame(t, first, r.Lesson())
	assert.Equal(t, 1, ctx.gl.LivePrograms())
	assert.Equal(t, 0, ctx.gl.LiveShaders())
}

func TestReloadKeepsDepthTest(t *testing.T) {
	r, ctx, _, err := newRenderer(t, "cube", nil, Options{})
	require.NoError(t, err)
	defer r.Shutdown()

	require.NoError(t, r.Reload())
	ctx.gl.ResetDraws()
	r.RenderFrame(0)
	draws := ctx.gl.Draws()
	require.Len(t, draws, len(lesson.CubePositions))
	assert.True(t, draws[0].DepthTest)
}

func TestScreenshot(t *testing.T) {
	r, _, _, err := newRenderer(t, "triangle", nil, Options{})
	require.NoError(t, err)
	defer r.Shutdown()

	img, err := r.Screenshot(0)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, color.RGBA{51, 77, 77, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{51, 77, 77, 255}, img.RGBAAt(7, 3))
}

type frameSink struct {
	frames [][]byte
	fail   int
}

func (s *frameSink) WriteFrame(pixels []byte) error {
	if s.fail > 0 && len(s.frames) == s.fail {
		return errors.New("encoder gone")
	}
	s.frames = append(s.frames, pixels)
	return nil
}

func TestRunOffscreen(t *testing.T) {
	r, ctx, _, err := newRenderer(t, "rectangle", nil, Options{})
	require.NoError(t, err)
	defer r.Shutdown()

	sink := &frameSink{}
	require.NoError(t, r.RunOffscreen(5, 30, sink))
	require.Len(t, sink.frames, 5)
	for _, f := range sink.frames {
		assert.Len(t, f, 8*4*4)
	}
	assert.Equal(t, 5, ctx.frames)
	assert.Len(t, ctx.gl.Draws(), 5)

	assert.Error(t, r.RunOffscreen(1, 0, sink))
}

func TestRunOffscreenSinkError(t *testing.T) {
	r, _, _, err := newRenderer(t, "triangle", nil, Options{})
	require.NoError(t, err)
	defer r.Shutdown()

	sink := &frameSink{fail: 2}
	err = r.RunOffscreen(10, 60, sink)
	assert.ErrorContains(t, err, "frame 2: encoder gone")
	assert.Len(t, sink.frames, 2)
}

func TestWatchReloadsChangedShader(t *testing.T) {
	dir := t.TempDir()
	for name, f := range shaderFiles(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0o644))
	}

	gl := softgl.New()
	gl.Resize(8, 4)
	ctx := &fakeContext{gl: gl, delay: 5 * time.Millisecond}
	env := &lesson.Env{GL: gl, Shaders: os.DirFS(dir), Logger: log.New(&bytes.Buffer{}, "", 0)}
	r, err := New(ctx, env, "triangle", Options{WatchDir: dir})
	require.NoError(t, err)
	defer r.Shutdown()

	first := r.Lesson()
	deadline := time.Now().Add(5 * time.Second)
	ctx.closeWhen = func() bool {
		return r.Lesson() != first || time.Now().After(deadline)
	}

	data, err := os.ReadFile(filepath.Join(dir, "color.fs"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "color.fs"), append(data, '\n'), 0o644))

	r.Run()
	assert.NotSame(t, first, r.Lesson())
}
