package softgl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphics "github.com/richinsley/learngl/graphics"
)

const passVertex = `#version 330 core
layout (location = 0) in vec3 aPos;
void main()
{
    gl_Position = vec4(aPos, 1.0);
}
`

const passFragment = `#version 330 core
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0);
}
`

func compile(t *testing.T, c *Context, xtype graphics.Enum, src string) uint32 {
	t.Helper()
	s := c.CreateShader(xtype)
	require.NotZero(t, s)
	c.ShaderSource(s, src)
	c.CompileShader(s)
	require.Equal(t, graphics.True, c.GetShaderiv(s, graphics.CompileStatus), c.GetShaderInfoLog(s, 512))
	return s
}

// link builds a program and leaves its stages attached.
func link(t *testing.T, c *Context, vs, fs string) (program, vert, frag uint32) {
	t.Helper()
	vert = compile(t, c, graphics.VertexShader, vs)
	frag = compile(t, c, graphics.FragmentShader, fs)
	program = c.CreateProgram()
	c.AttachShader(program, vert)
	c.AttachShader(program, frag)
	c.LinkProgram(program)
	require.Equal(t, graphics.True, c.GetProgramiv(program, graphics.LinkStatus), c.GetProgramInfoLog(program, 512))
	return program, vert, frag
}

func TestErrorFlagFirstWins(t *testing.T) {
	c := New()
	assert.Equal(t, graphics.NoError, c.GetError())

	c.UseProgram(42)                   // no such object
	c.CreateShader(graphics.Texture2D) // bad enum
	c.Viewport(0, 0, -1, 1)            // bad value

	assert.Equal(t, graphics.InvalidValue, c.GetError())
	assert.Equal(t, graphics.NoError, c.GetError(), "reading the flag clears it")

	c.CreateShader(graphics.Texture2D)
	assert.Equal(t, graphics.InvalidEnum, c.GetError())
}

func TestSharedNamespace(t *testing.T) {
	c := New()
	s := c.CreateShader(graphics.VertexShader)
	p := c.CreateProgram()
	assert.NotEqual(t, s, p)

	c.ShaderSource(p, passVertex)
	assert.Equal(t, graphics.InvalidOperation, c.GetError())
	c.LinkProgram(s)
	assert.Equal(t, graphics.InvalidOperation, c.GetError())
	c.LinkProgram(p + 100)
	assert.Equal(t, graphics.InvalidValue, c.GetError())
}

func TestDeleteAttachedShaderIsPending(t *testing.T) {
	c := New()
	program, vert, frag := link(t, c, passVertex, passFragment)

	c.DeleteShader(vert)
	assert.True(t, c.IsShader(vert))
	assert.Equal(t, graphics.True, c.GetShaderiv(vert, graphics.DeleteStatus))
	assert.Equal(t, 2, c.LiveShaders())

	c.DetachShader(program, vert)
	assert.False(t, c.IsShader(vert))
	assert.Equal(t, int32(1), c.GetProgramiv(program, graphics.AttachedShaders))

	// an unattached shader goes at once
	c.DetachShader(program, frag)
	c.DeleteShader(frag)
	assert.False(t, c.IsShader(frag))
	assert.Equal(t, 0, c.LiveShaders())

	c.DetachShader(program, frag)
	assert.Equal(t, graphics.InvalidValue, c.GetError())
}

func TestDeleteCurrentProgramIsPending(t *testing.T) {
	c := New()
	program, vert, frag := link(t, c, passVertex, passFragment)
	c.DeleteShader(vert)
	c.DeleteShader(frag)
	c.UseProgram(program)

	c.DeleteProgram(program)
	assert.True(t, c.IsProgram(program))
	assert.Equal(t, graphics.True, c.GetProgramiv(program, graphics.DeleteStatus))
	assert.Equal(t, int32(program), c.GetIntegerv(graphics.CurrentProgram))

	// stops being current, then the program and its pending stages are freed
	c.UseProgram(0)
	assert.False(t, c.IsProgram(program))
	assert.Equal(t, 0, c.LivePrograms())
	assert.Equal(t, 0, c.LiveShaders())
	assert.Equal(t, graphics.NoError, c.GetError())
}

func TestUseUnlinkedProgram(t *testing.T) {
	c := New()
	p := c.CreateProgram()
	c.UseProgram(p)
	assert.Equal(t, graphics.InvalidOperation, c.GetError())
	assert.Equal(t, int32(0), c.GetIntegerv(graphics.CurrentProgram))
}

func TestLogLength(t *testing.T) {
	assert.Equal(t, int32(0), logLength(""))
	assert.Equal(t, int32(4), logLength("abc"))
}

func TestTruncateLog(t *testing.T) {
	for _, tc := range []struct {
		bufSize int32
		want    string
	}{
		{0, ""},
		{1, ""},
		{2, "a"},
		{3, "ab"},
		{4, "abc"},
		{5, "abc"},
		{512, "abc"},
	} {
		assert.Equal(t, tc.want, truncateLog("abc", tc.bufSize), "bufSize %d", tc.bufSize)
	}
}

func TestShaderInfoLog(t *testing.T) {
	c := New()
	s := c.CreateShader(graphics.VertexShader)
	c.ShaderSource(s, "#version 330 core\nvoid main() {\n")
	c.CompileShader(s)
	require.Equal(t, graphics.False, c.GetShaderiv(s, graphics.CompileStatus))

	length := c.GetShaderiv(s, graphics.InfoLogLength)
	full := c.GetShaderInfoLog(s, length)
	assert.Equal(t, int(length)-1, len(full))
	assert.Equal(t, full, c.GetShaderInfoLog(s, length+10))
	assert.Equal(t, full[:5], c.GetShaderInfoLog(s, 6))

	assert.Equal(t, "", c.GetShaderInfoLog(s, -1))
	assert.Equal(t, graphics.InvalidValue, c.GetError())

	// a successful compile clears the log
	c.ShaderSource(s, passVertex)
	c.CompileShader(s)
	assert.Equal(t, int32(0), c.GetShaderiv(s, graphics.InfoLogLength))
}

func TestLinkFailureLog(t *testing.T) {
	c := New()
	vert := compile(t, c, graphics.VertexShader, passVertex)
	p := c.CreateProgram()
	c.AttachShader(p, vert)
	c.LinkProgram(p)
	assert.Equal(t, graphics.False, c.GetProgramiv(p, graphics.LinkStatus))
	assert.Contains(t, c.GetProgramInfoLog(p, 512), "lacks a fragment shader")

	c.AttachShader(p, vert)
	assert.Equal(t, graphics.InvalidOperation, c.GetError(), "attached twice")
}

const arrayVertex = `#version 330 core
layout (location = 0) in vec3 aPos;
uniform vec3 lights[3];
uniform float alpha;
uniform float unused;
void main()
{
    gl_Position = vec4(aPos + lights[0] + lights[2], alpha);
}
`

func TestActiveUniformLocations(t *testing.T) {
	c := New()
	p, _, _ := link(t, c, arrayVertex, passFragment)

	assert.Equal(t, int32(4), c.GetProgramiv(p, graphics.ActiveUniforms))
	for _, tc := range []struct {
		name string
		want int32
	}{
		{"alpha", 0},
		{"lights", 1},
		{"lights[0]", 1},
		{"lights[1]", 2},
		{"lights[2]", 3},
		{"lights[3]", -1},
		{"unused", -1},
		{"missing", -1},
	} {
		assert.Equal(t, tc.want, c.GetUniformLocation(p, tc.name), tc.name)
	}
	assert.Equal(t, graphics.NoError, c.GetError())
}

func TestUniformWrites(t *testing.T) {
	c := New()
	p, _, _ := link(t, c, arrayVertex, passFragment)

	c.Uniform1f(0, 0.5)
	assert.Equal(t, graphics.InvalidOperation, c.GetError(), "no current program")

	c.UseProgram(p)
	c.Uniform1f(-1, 0.5)
	assert.Equal(t, graphics.NoError, c.GetError(), "location -1 is ignored")

	c.Uniform1f(9, 0.5)
	assert.Equal(t, graphics.InvalidOperation, c.GetError(), "location out of range")

	c.Uniform4f(0, 1, 2, 3, 4)
	assert.Equal(t, graphics.InvalidOperation, c.GetError(), "vec4 into float")

	c.Uniform1f(0, 0.5)
	c.Uniform3f(2, 1, 2, 3)
	require.Equal(t, graphics.NoError, c.GetError())

	var f [3]float32
	c.GetUniformfv(p, 0, f[:1])
	assert.Equal(t, float32(0.5), f[0])
	c.GetUniformfv(p, 2, f[:])
	assert.Equal(t, [3]float32{1, 2, 3}, f)
	c.GetUniformfv(p, 1, f[:])
	assert.Equal(t, [3]float32{}, f, "other array elements untouched")

	// relinking resets every value
	c.LinkProgram(p)
	c.GetUniformfv(p, 0, f[:1])
	assert.Equal(t, float32(0), f[0])
}

func TestBoolUniform(t *testing.T) {
	c := New()
	p, _, _ := link(t, c, passVertex, `#version 330 core
out vec4 FragColor;
uniform bool flag;
void main()
{
    FragColor = flag ? vec4(1.0) : vec4(0.0);
}
`)
	c.UseProgram(p)
	loc := c.GetUniformLocation(p, "flag")
	c.Uniform1f(loc, 2.5)
	assert.Equal(t, int32(1), c.GetUniformiv(p, loc))
	c.Uniform1i(loc, 0)
	assert.Equal(t, int32(0), c.GetUniformiv(p, loc))
	assert.Equal(t, graphics.NoError, c.GetError())
}
