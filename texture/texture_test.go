package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/softgl"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

// twoRows is 2x2 with a red top row and a blue bottom row.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		img.SetRGBA(x, 0, red)
		img.SetRGBA(x, 1, blue)
	}
	return img
}

func pixel(tex softgl.Texture, x, y int) color.RGBA {
	i := (y*int(tex.Width) + x) * 4
	return color.RGBA{tex.Pixels[i], tex.Pixels[i+1], tex.Pixels[i+2], tex.Pixels[i+3]}
}

func TestFromImageFlipsRows(t *testing.T) {
	gl := softgl.New()
	tex, err := FromImage(gl, twoRows(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 2, tex.Height)

	state, ok := gl.Texture(tex.ID)
	require.True(t, ok)
	assert.Equal(t, graphics.RGBA, state.Format)
	assert.Equal(t, int32(graphics.RGBA8), state.InternalFormat)
	assert.True(t, state.Mipmapped)
	assert.Equal(t, blue, pixel(state, 0, 0))
	assert.Equal(t, red, pixel(state, 0, 1))
	assert.Equal(t, int32(graphics.LinearMipmapLinear), state.Params[graphics.TextureMinFilter])
	assert.Equal(t, int32(graphics.Repeat), state.Params[graphics.TextureWrapS])
	assert.Equal(t, graphics.NoError, gl.GetError())
}

func TestFromImageWithoutFlip(t *testing.T) {
	gl := softgl.New()
	opts := DefaultOptions()
	opts.FlipY = false
	opts.Mipmap = false
	opts.MinFilter = graphics.Nearest
	opts.Wrap = graphics.ClampToEdge
	tex, err := FromImage(gl, twoRows(), opts)
	require.NoError(t, err)

	state, _ := gl.Texture(tex.ID)
	assert.Equal(t, red, pixel(state, 0, 0))
	assert.False(t, state.Mipmapped)
	assert.Equal(t, int32(graphics.ClampToEdge), state.Params[graphics.TextureWrapT])
}

func TestFromImageConvertsToRGBA(t *testing.T) {
	gl := softgl.New()
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.SetGray(1, 0, color.Gray{Y: 128})
	tex, err := FromImage(gl, gray, DefaultOptions())
	require.NoError(t, err)

	state, _ := gl.Texture(tex.ID)
	require.Len(t, state.Pixels, 3*4)
	assert.Equal(t, color.RGBA{128, 128, 128, 255}, pixel(state, 1, 0))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, pixel(state, 0, 0))
}

func TestFromImageRejectsEmpty(t *testing.T) {
	gl := softgl.New()
	_, err := FromImage(gl, nil, DefaultOptions())
	assert.Error(t, err)
	_, err = FromImage(gl, image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultOptions())
	assert.Error(t, err)
	_, _, textures := gl.LiveObjects()
	assert.Zero(t, textures)
}

func TestLoadPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, twoRows()))
	fsys := fstest.MapFS{"textures/rows.png": {Data: buf.Bytes()}}

	gl := softgl.New()
	tex, err := Load(gl, fsys, "textures/rows.png", DefaultOptions())
	require.NoError(t, err)
	state, _ := gl.Texture(tex.ID)
	assert.Equal(t, blue, pixel(state, 1, 0))
}

func TestLoadRejectsGarbage(t *testing.T) {
	fsys := fstest.MapFS{"bad.png": {Data: []byte("not an image")}}
	_, err := Load(softgl.New(), fsys, "bad.png", DefaultOptions())
	assert.ErrorContains(t, err, "failed to decode bad.png")
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	var logs bytes.Buffer
	gl := softgl.New()
	tex, err := LoadOrDefault(gl, fstest.MapFS{}, "container.jpg", DefaultOptions(), log.New(&logs, "", 0))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Failed to load texture container.jpg")
	assert.Equal(t, 64, tex.Width)
	assert.Equal(t, 64, tex.Height)
}

func TestCheckerboard(t *testing.T) {
	a := color.RGBA{1, 1, 1, 255}
	b := color.RGBA{2, 2, 2, 255}
	img := Checkerboard(4, 2, a, b)
	assert.Equal(t, a, img.RGBAAt(0, 0))
	assert.Equal(t, b, img.RGBAAt(2, 0))
	assert.Equal(t, b, img.RGBAAt(0, 2))
	assert.Equal(t, a, img.RGBAAt(3, 3))
}

func TestBindAndDelete(t *testing.T) {
	gl := softgl.New()
	tex, err := FromImage(gl, twoRows(), DefaultOptions())
	require.NoError(t, err)

	tex.Bind(1)
	assert.Equal(t, int32(graphics.Texture0)+1, gl.GetIntegerv(graphics.ActiveTextureUnit))
	assert.Equal(t, int32(tex.ID), gl.GetIntegerv(graphics.TextureBinding2D))

	tex.Delete()
	tex.Delete()
	assert.Zero(t, tex.ID)
	assert.Zero(t, gl.GetIntegerv(graphics.TextureBinding2D))
	_, _, textures := gl.LiveObjects()
	assert.Zero(t, textures)
	assert.Equal(t, graphics.NoError, gl.GetError())
}
