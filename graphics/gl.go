package graphics

// Enum is an OpenGL enumerant. Values are identical to the ones in the
// OpenGL headers so backends can pass them straight through.
type Enum uint32

// ────────────────────────────────── Shaders ────────────────────────────────────

const (
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31

	ShaderType      Enum = 0x8B4F
	DeleteStatus    Enum = 0x8B80
	CompileStatus   Enum = 0x8B81
	LinkStatus      Enum = 0x8B82
	InfoLogLength   Enum = 0x8B84
	AttachedShaders Enum = 0x8B85
	ActiveUniforms  Enum = 0x8B86
	CurrentProgram  Enum = 0x8B8D
)

// ─────────────────────────────── Buffers / draws ───────────────────────────────

const (
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4
	DynamicDraw        Enum = 0x88E8

	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	UnsignedShort Enum = 0x1403
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406

	Points    Enum = 0x0000
	Lines     Enum = 0x0001
	Triangles Enum = 0x0004

	DepthBufferBit   Enum = 0x0100
	StencilBufferBit Enum = 0x0400
	ColorBufferBit   Enum = 0x4000

	DepthTest Enum = 0x0B71
	Blend     Enum = 0x0BE2
	CullFace  Enum = 0x0B44

	ArrayBufferBinding Enum = 0x8894
	VertexArrayBinding Enum = 0x85B5
)

// ────────────────────────────────── Textures ───────────────────────────────────

const (
	Texture2D         Enum = 0x0DE1
	Texture0          Enum = 0x84C0
	TextureBinding2D  Enum = 0x8069
	ActiveTextureUnit Enum = 0x84E0

	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803

	Nearest              Enum = 0x2600
	Linear               Enum = 0x2601
	NearestMipmapNearest Enum = 0x2700
	LinearMipmapNearest  Enum = 0x2701
	NearestMipmapLinear  Enum = 0x2702
	LinearMipmapLinear   Enum = 0x2703
	Repeat               Enum = 0x2901
	ClampToEdge          Enum = 0x812F
	MirroredRepeat       Enum = 0x8370

	RGB         Enum = 0x1907
	RGBA        Enum = 0x1908
	RGBA8       Enum = 0x8058
	SRGB8Alpha8 Enum = 0x8C43
)

// ─────────────────────────────────── Errors ────────────────────────────────────

const (
	NoError          Enum = 0
	InvalidEnum      Enum = 0x0500
	InvalidValue     Enum = 0x0501
	InvalidOperation Enum = 0x0502
)

const (
	False int32 = 0
	True  int32 = 1
)

// GL is the subset of the OpenGL API used by this module. It is passed
// explicitly to everything that renders so that independent contexts (a real
// driver, or an in-memory one for tests) can coexist.
type GL interface {
	CreateShader(xtype Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname Enum) int32
	// GetShaderInfoLog returns at most bufSize-1 bytes of the info log.
	GetShaderInfoLog(shader uint32, bufSize int32) string
	DeleteShader(shader uint32)
	IsShader(shader uint32) bool

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32, bufSize int32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	IsProgram(program uint32) bool

	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v0 int32)
	Uniform1f(location int32, v0 float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv(location int32, transpose bool, value [16]float32)
	GetUniformiv(program uint32, location int32) int32
	// GetUniformfv fills params with as many components as the uniform has.
	GetUniformfv(program uint32, location int32, params []float32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)
	GenBuffer() uint32
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	GenTexture() uint32
	ActiveTexture(texture Enum)
	BindTexture(target Enum, texture uint32)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level, internalFormat, width, height int32, format, xtype Enum, pixels []byte)
	GenerateMipmap(target Enum)
	DeleteTexture(texture uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	Disable(capability Enum)
	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, xtype Enum, offset int)
	ReadPixels(x, y, width, height int32, format, xtype Enum, pixels []byte)

	GetIntegerv(pname Enum) int32
	GetError() Enum
}
