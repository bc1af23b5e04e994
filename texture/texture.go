// Package texture uploads decoded images as 2D textures.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	graphics "github.com/richinsley/learngl/graphics"
)

// Options controls sampling and upload of a texture.
type Options struct {
	Wrap      graphics.Enum
	MinFilter graphics.Enum
	MagFilter graphics.Enum
	// FlipY stores the last image row first, matching GL's bottom-left origin.
	FlipY  bool
	Mipmap bool
	SRGB   bool
}

// DefaultOptions are the settings every lesson texture uses.
func DefaultOptions() Options {
	return Options{
		Wrap:      graphics.Repeat,
		MinFilter: graphics.LinearMipmapLinear,
		MagFilter: graphics.Linear,
		FlipY:     true,
		Mipmap:    true,
	}
}

// Texture is a 2D texture object.
type Texture struct {
	ID     uint32
	Width  int
	Height int
	gl     graphics.GL
}

// FromImage uploads img as RGBA8, converting and flipping it as requested.
func FromImage(gl graphics.GL, img image.Image, opts Options) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	var rgba *image.RGBA
	if opts.FlipY {
		rgba = transform.FlipV(img)
	} else {
		rgba = clone.AsRGBA(img)
	}
	width, height := rgba.Rect.Dx(), rgba.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	internalFormat := int32(graphics.RGBA8)
	if opts.SRGB {
		internalFormat = int32(graphics.SRGB8Alpha8)
	}

	id := gl.GenTexture()
	gl.BindTexture(graphics.Texture2D, id)
	gl.TexParameteri(graphics.Texture2D, graphics.TextureWrapS, int32(opts.Wrap))
	gl.TexParameteri(graphics.Texture2D, graphics.TextureWrapT, int32(opts.Wrap))
	gl.TexParameteri(graphics.Texture2D, graphics.TextureMinFilter, int32(opts.MinFilter))
	gl.TexParameteri(graphics.Texture2D, graphics.TextureMagFilter, int32(opts.MagFilter))
	gl.TexImage2D(graphics.Texture2D, 0, internalFormat, int32(width), int32(height),
		graphics.RGBA, graphics.UnsignedByte, packed(rgba))
	if opts.Mipmap {
		gl.GenerateMipmap(graphics.Texture2D)
	}
	gl.BindTexture(graphics.Texture2D, 0)

	if e := gl.GetError(); e != graphics.NoError {
		gl.DeleteTexture(id)
		return nil, fmt.Errorf("texture upload failed: GL error 0x%x", uint32(e))
	}
	return &Texture{ID: id, Width: width, Height: height, gl: gl}, nil
}

// packed returns the pixel rows without stride padding.
func packed(img *image.RGBA) []byte {
	rowSize := img.Rect.Dx() * 4
	if img.Stride == rowSize {
		return img.Pix[:rowSize*img.Rect.Dy()]
	}
	out := make([]byte, 0, rowSize*img.Rect.Dy())
	for y := 0; y < img.Rect.Dy(); y++ {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+rowSize]...)
	}
	return out
}

// Decode reads an image file. png, jpeg, bmp, tiff and webp are supported.
func Decode(fsys fs.FS, path string) (image.Image, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Load decodes path from fsys and uploads it.
func Load(gl graphics.GL, fsys fs.FS, path string, opts Options) (*Texture, error) {
	img, err := Decode(fsys, path)
	if err != nil {
		return nil, err
	}
	return FromImage(gl, img, opts)
}

// LoadOrDefault behaves like Load but falls back to a checkerboard, logging
// the failure, so a missing asset never stops a lesson.
func LoadOrDefault(gl graphics.GL, fsys fs.FS, path string, opts Options, logger *log.Logger) (*Texture, error) {
	if fsys != nil {
		t, err := Load(gl, fsys, path, opts)
		if err == nil {
			return t, nil
		}
		if logger == nil {
			logger = log.Default()
		}
		logger.Printf("Failed to load texture %s: %v", path, err)
	}
	return FromImage(gl, Checkerboard(64, 8, color.RGBA{255, 255, 255, 255}, color.RGBA{255, 0, 255, 255}), opts)
}

// Checkerboard draws a size x size image of cells x cells squares.
func Checkerboard(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Bind makes the texture current on the given unit.
func (t *Texture) Bind(unit int) {
	t.gl.ActiveTexture(graphics.Texture0 + graphics.Enum(unit))
	t.gl.BindTexture(graphics.Texture2D, t.ID)
}

// Delete releases the texture. Calling it again is a no-op.
func (t *Texture) Delete() {
	if t.ID == 0 {
		return
	}
	t.gl.DeleteTexture(t.ID)
	t.ID = 0
}
