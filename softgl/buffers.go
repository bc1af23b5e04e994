package softgl

import (
	graphics "github.com/richinsley/learngl/graphics"
)

const textureUnits = 16

// AttribPointer is the recorded state of one vertex attribute.
type AttribPointer struct {
	Size       int32
	Type       graphics.Enum
	Normalized bool
	Stride     int32
	Offset     int
	Buffer     uint32
	Enabled    bool
}

// DrawCall is a recorded DrawArrays or DrawElements call together with the
// state it was issued against.
type DrawCall struct {
	Mode        graphics.Enum
	First       int32
	Count       int32
	Indexed     bool
	IndexType   graphics.Enum
	Offset      int
	Program     uint32
	VertexArray uint32
	Textures    [textureUnits]uint32
	DepthTest   bool
}

// Texture is a snapshot of a texture object's level 0 image and parameters.
type Texture struct {
	Width          int32
	Height         int32
	InternalFormat int32
	Format         graphics.Enum
	Pixels         []byte
	Params         map[graphics.Enum]int32
	Mipmapped      bool
}

type vertexArray struct {
	attribs       map[uint32]*AttribPointer
	elementBuffer uint32
}

type bufferState struct {
	nextBuffer  uint32
	nextArray   uint32
	nextTexture uint32

	buffers  map[uint32][]byte
	arrays   map[uint32]*vertexArray
	textures map[uint32]*Texture

	arrayBuffer  uint32
	currentArray uint32
	activeUnit   int
	units        [textureUnits]uint32

	viewport   [4]int32
	clearColor [4]float32
	caps       map[graphics.Enum]bool

	width  int
	height int
	color  []byte
	draws  []DrawCall
}

func (b *bufferState) init(width, height int) {
	b.buffers = make(map[uint32][]byte)
	b.arrays = make(map[uint32]*vertexArray)
	b.textures = map[uint32]*Texture{0: {Params: make(map[graphics.Enum]int32)}}
	b.caps = make(map[graphics.Enum]bool)
	b.resize(width, height)
	b.viewport = [4]int32{0, 0, int32(width), int32(height)}
}

func (b *bufferState) resize(width, height int) {
	b.width, b.height = width, height
	b.color = make([]byte, width*height*4)
}

// Resize changes the size of the default framebuffer, discarding its contents.
func (c *Context) Resize(width, height int) {
	c.resize(width, height)
}

// ViewportRect returns the last viewport set: x, y, width, height.
func (c *Context) ViewportRect() [4]int32 {
	return c.viewport
}

// Draws returns the draw calls issued so far.
func (c *Context) Draws() []DrawCall {
	return append([]DrawCall(nil), c.draws...)
}

// ResetDraws forgets recorded draw calls.
func (c *Context) ResetDraws() {
	c.draws = nil
}

// IsEnabled reports whether a capability was enabled with Enable.
func (c *Context) IsEnabled(capability graphics.Enum) bool {
	return c.caps[capability]
}

// Texture returns a copy of the texture object's state.
func (c *Context) Texture(texture uint32) (Texture, bool) {
	t, ok := c.textures[texture]
	if !ok || texture == 0 {
		return Texture{}, false
	}
	out := *t
	out.Pixels = append([]byte(nil), t.Pixels...)
	out.Params = make(map[graphics.Enum]int32, len(t.Params))
	for k, v := range t.Params {
		out.Params[k] = v
	}
	return out, true
}

// BufferContents returns a copy of a buffer object's data store.
func (c *Context) BufferContents(buffer uint32) ([]byte, bool) {
	data, ok := c.buffers[buffer]
	return append([]byte(nil), data...), ok
}

// Attrib returns the state of one attribute of a vertex array object.
func (c *Context) Attrib(array, index uint32) (AttribPointer, bool) {
	vao, ok := c.arrays[array]
	if !ok {
		return AttribPointer{}, false
	}
	a, ok := vao.attribs[index]
	if !ok {
		return AttribPointer{}, false
	}
	return *a, true
}

// LiveObjects reports how many buffers, vertex arrays and textures exist.
func (c *Context) LiveObjects() (buffers, arrays, textures int) {
	return len(c.buffers), len(c.arrays), len(c.textures) - 1
}

// ─────────────────────────────── Vertex arrays ─────────────────────────────────

func (c *Context) GenVertexArray() uint32 {
	c.nextArray++
	c.arrays[c.nextArray] = &vertexArray{attribs: make(map[uint32]*AttribPointer)}
	return c.nextArray
}

func (c *Context) BindVertexArray(array uint32) {
	if _, ok := c.arrays[array]; array != 0 && !ok {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.currentArray = array
}

func (c *Context) DeleteVertexArray(array uint32) {
	if _, ok := c.arrays[array]; !ok {
		return
	}
	if c.currentArray == array {
		c.currentArray = 0
	}
	delete(c.arrays, array)
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	vao, ok := c.arrays[c.currentArray]
	if !ok {
		c.setError(graphics.InvalidOperation)
		return
	}
	a, ok := vao.attribs[index]
	if !ok {
		a = &AttribPointer{Size: 4, Type: graphics.Float}
		vao.attribs[index] = a
	}
	a.Enabled = true
}

func (c *Context) VertexAttribPointer(index uint32, size int32, xtype graphics.Enum, normalized bool, stride int32, offset int) {
	if size < 1 || size > 4 || stride < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	vao, ok := c.arrays[c.currentArray]
	if !ok || (c.arrayBuffer == 0 && offset != 0) {
		c.setError(graphics.InvalidOperation)
		return
	}
	a, ok := vao.attribs[index]
	if !ok {
		a = &AttribPointer{}
		vao.attribs[index] = a
	}
	*a = AttribPointer{
		Size:       size,
		Type:       xtype,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
		Buffer:     c.arrayBuffer,
		Enabled:    a.Enabled,
	}
}

// ────────────────────────────────── Buffers ────────────────────────────────────

func (c *Context) GenBuffer() uint32 {
	c.nextBuffer++
	c.buffers[c.nextBuffer] = nil
	return c.nextBuffer
}

func (c *Context) BindBuffer(target graphics.Enum, buffer uint32) {
	if _, ok := c.buffers[buffer]; buffer != 0 && !ok {
		c.setError(graphics.InvalidValue)
		return
	}
	switch target {
	case graphics.ArrayBuffer:
		c.arrayBuffer = buffer
	case graphics.ElementArrayBuffer:
		vao, ok := c.arrays[c.currentArray]
		if !ok {
			c.setError(graphics.InvalidOperation)
			return
		}
		vao.elementBuffer = buffer
	default:
		c.setError(graphics.InvalidEnum)
	}
}

func (c *Context) boundBuffer(target graphics.Enum) (uint32, bool) {
	switch target {
	case graphics.ArrayBuffer:
		return c.arrayBuffer, true
	case graphics.ElementArrayBuffer:
		if vao, ok := c.arrays[c.currentArray]; ok {
			return vao.elementBuffer, true
		}
		return 0, true
	}
	return 0, false
}

func (c *Context) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	buffer, ok := c.boundBuffer(target)
	if !ok {
		c.setError(graphics.InvalidEnum)
		return
	}
	if buffer == 0 {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.buffers[buffer] = append([]byte(nil), data...)
}

func (c *Context) DeleteBuffer(buffer uint32) {
	if _, ok := c.buffers[buffer]; !ok || buffer == 0 {
		return
	}
	if c.arrayBuffer == buffer {
		c.arrayBuffer = 0
	}
	if vao, ok := c.arrays[c.currentArray]; ok && vao.elementBuffer == buffer {
		vao.elementBuffer = 0
	}
	delete(c.buffers, buffer)
}

// ───────────────────────────────── Textures ────────────────────────────────────

func (c *Context) GenTexture() uint32 {
	c.nextTexture++
	c.textures[c.nextTexture] = &Texture{Params: map[graphics.Enum]int32{
		graphics.TextureWrapS:     int32(graphics.Repeat),
		graphics.TextureWrapT:     int32(graphics.Repeat),
		graphics.TextureMinFilter: int32(graphics.NearestMipmapLinear),
		graphics.TextureMagFilter: int32(graphics.Linear),
	}}
	return c.nextTexture
}

func (c *Context) ActiveTexture(texture graphics.Enum) {
	unit := int(texture) - int(graphics.Texture0)
	if unit < 0 || unit >= textureUnits {
		c.setError(graphics.InvalidEnum)
		return
	}
	c.activeUnit = unit
}

func (c *Context) BindTexture(target graphics.Enum, texture uint32) {
	if target != graphics.Texture2D {
		c.setError(graphics.InvalidEnum)
		return
	}
	if _, ok := c.textures[texture]; !ok {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.units[c.activeUnit] = texture
}

func (c *Context) boundTexture(target graphics.Enum) *Texture {
	if target != graphics.Texture2D {
		c.setError(graphics.InvalidEnum)
		return nil
	}
	return c.textures[c.units[c.activeUnit]]
}

var validTexParams = map[graphics.Enum][]graphics.Enum{
	graphics.TextureWrapS:     {graphics.Repeat, graphics.ClampToEdge, graphics.MirroredRepeat},
	graphics.TextureWrapT:     {graphics.Repeat, graphics.ClampToEdge, graphics.MirroredRepeat},
	graphics.TextureMagFilter: {graphics.Nearest, graphics.Linear},
	graphics.TextureMinFilter: {
		graphics.Nearest, graphics.Linear,
		graphics.NearestMipmapNearest, graphics.LinearMipmapNearest,
		graphics.NearestMipmapLinear, graphics.LinearMipmapLinear,
	},
}

func (c *Context) TexParameteri(target, pname graphics.Enum, param int32) {
	t := c.boundTexture(target)
	if t == nil {
		return
	}
	valid, ok := validTexParams[pname]
	if !ok {
		c.setError(graphics.InvalidEnum)
		return
	}
	for _, v := range valid {
		if int32(v) == param {
			t.Params[pname] = param
			return
		}
	}
	c.setError(graphics.InvalidEnum)
}

func bytesPerPixel(format graphics.Enum) int {
	switch format {
	case graphics.RGBA:
		return 4
	case graphics.RGB:
		return 3
	}
	return 0
}

func (c *Context) TexImage2D(target graphics.Enum, level, internalFormat, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	t := c.boundTexture(target)
	if t == nil {
		return
	}
	bpp := bytesPerPixel(format)
	if bpp == 0 || xtype != graphics.UnsignedByte {
		c.setError(graphics.InvalidEnum)
		return
	}
	if level < 0 || width < 0 || height < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	if level > 0 {
		return
	}
	size := int(width) * int(height) * bpp
	if pixels != nil && len(pixels) < size {
		c.setError(graphics.InvalidOperation)
		return
	}
	t.Width, t.Height = width, height
	t.InternalFormat = internalFormat
	t.Format = format
	t.Mipmapped = false
	if pixels == nil {
		t.Pixels = make([]byte, size)
	} else {
		t.Pixels = append([]byte(nil), pixels[:size]...)
	}
}

func (c *Context) GenerateMipmap(target graphics.Enum) {
	t := c.boundTexture(target)
	if t == nil {
		return
	}
	if t.Width == 0 || t.Height == 0 {
		c.setError(graphics.InvalidOperation)
		return
	}
	t.Mipmapped = true
}

func (c *Context) DeleteTexture(texture uint32) {
	if _, ok := c.textures[texture]; !ok || texture == 0 {
		return
	}
	for i, bound := range c.units {
		if bound == texture {
			c.units[i] = 0
		}
	}
	delete(c.textures, texture)
}

// ───────────────────────────── Framebuffer / draws ─────────────────────────────

func (c *Context) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	c.viewport = [4]int32{x, y, width, height}
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{clamp01(r), clamp01(g), clamp01(b), clamp01(a)}
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (c *Context) Clear(mask graphics.Enum) {
	if mask&^(graphics.ColorBufferBit|graphics.DepthBufferBit|graphics.StencilBufferBit) != 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	if mask&graphics.ColorBufferBit == 0 {
		return
	}
	var px [4]byte
	for i, v := range c.clearColor {
		px[i] = byte(v*255 + 0.5)
	}
	for i := 0; i < len(c.color); i += 4 {
		copy(c.color[i:i+4], px[:])
	}
}

func (c *Context) Enable(capability graphics.Enum) {
	c.caps[capability] = true
}

func (c *Context) Disable(capability graphics.Enum) {
	c.caps[capability] = false
}

func (c *Context) record(call DrawCall) {
	call.Program = c.current
	call.VertexArray = c.currentArray
	call.Textures = c.units
	call.DepthTest = c.caps[graphics.DepthTest]
	c.draws = append(c.draws, call)
}

func (c *Context) DrawArrays(mode graphics.Enum, first, count int32) {
	if count < 0 || first < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	if c.currentArray == 0 {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.record(DrawCall{Mode: mode, First: first, Count: count})
}

func (c *Context) DrawElements(mode graphics.Enum, count int32, xtype graphics.Enum, offset int) {
	if count < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	switch xtype {
	case graphics.UnsignedByte, graphics.UnsignedShort, graphics.UnsignedInt:
	default:
		c.setError(graphics.InvalidEnum)
		return
	}
	vao, ok := c.arrays[c.currentArray]
	if !ok || vao.elementBuffer == 0 {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.record(DrawCall{Mode: mode, Count: count, Indexed: true, IndexType: xtype, Offset: offset})
}

// ReadPixels copies RGBA bytes from the default framebuffer, bottom row first.
// Pixels outside the framebuffer are left untouched.
func (c *Context) ReadPixels(x, y, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	if format != graphics.RGBA || xtype != graphics.UnsignedByte {
		c.setError(graphics.InvalidEnum)
		return
	}
	if width < 0 || height < 0 {
		c.setError(graphics.InvalidValue)
		return
	}
	if len(pixels) < int(width)*int(height)*4 {
		c.setError(graphics.InvalidOperation)
		return
	}
	for row := int32(0); row < height; row++ {
		sy := int(y + row)
		if sy < 0 || sy >= c.height {
			continue
		}
		for col := int32(0); col < width; col++ {
			sx := int(x + col)
			if sx < 0 || sx >= c.width {
				continue
			}
			src := (sy*c.width + sx) * 4
			dst := (int(row)*int(width) + int(col)) * 4
			copy(pixels[dst:dst+4], c.color[src:src+4])
		}
	}
}

func (c *Context) integer(pname graphics.Enum) int32 {
	switch pname {
	case graphics.ArrayBufferBinding:
		return int32(c.arrayBuffer)
	case graphics.VertexArrayBinding:
		return int32(c.currentArray)
	case graphics.ActiveTextureUnit:
		return int32(graphics.Texture0) + int32(c.activeUnit)
	case graphics.TextureBinding2D:
		return int32(c.units[c.activeUnit])
	}
	c.setError(graphics.InvalidEnum)
	return 0
}
