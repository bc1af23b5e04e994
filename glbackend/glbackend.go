// Package glbackend implements graphics.GL on top of the native OpenGL 4.1
// core profile bindings.
package glbackend

import (
	"fmt"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	graphics "github.com/richinsley/learngl/graphics"
)

var glInitOnce sync.Once
var glInitErr error

// Init loads the OpenGL function pointers. A context must be current on the
// calling thread. It is safe to call more than once.
func Init() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return nil
}

// Version returns the GL_VERSION string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// GL is a zero-size graphics.GL that forwards to the context current on the
// calling thread.
type GL struct{}

var _ graphics.GL = GL{}

func New() GL {
	return GL{}
}

func (GL) CreateShader(xtype graphics.Enum) uint32 {
	return gl.CreateShader(uint32(xtype))
}

func (GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (GL) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (GL) GetShaderiv(shader uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, uint32(pname), &v)
	return v
}

func (GL) GetShaderInfoLog(shader uint32, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	buf := make([]uint8, bufSize)
	var n int32
	gl.GetShaderInfoLog(shader, bufSize, &n, &buf[0])
	return string(buf[:n])
}

func (GL) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (GL) IsShader(shader uint32) bool {
	return gl.IsShader(shader)
}

func (GL) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (GL) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (GL) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (GL) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (GL) GetProgramiv(program uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (GL) GetProgramInfoLog(program uint32, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	buf := make([]uint8, bufSize)
	var n int32
	gl.GetProgramInfoLog(program, bufSize, &n, &buf[0])
	return string(buf[:n])
}

func (GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (GL) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GL) IsProgram(program uint32) bool {
	return gl.IsProgram(program)
}

func (GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GL) Uniform1i(location int32, v0 int32) {
	gl.Uniform1i(location, v0)
}

func (GL) Uniform1f(location int32, v0 float32) {
	gl.Uniform1f(location, v0)
}

func (GL) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}

func (GL) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (GL) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (GL) UniformMatrix4fv(location int32, transpose bool, value [16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &value[0])
}

func (GL) GetUniformiv(program uint32, location int32) int32 {
	var v [16]int32
	gl.GetUniformiv(program, location, &v[0])
	return v[0]
}

func (GL) GetUniformfv(program uint32, location int32, params []float32) {
	var v [16]float32
	gl.GetUniformfv(program, location, &v[0])
	copy(params, v[:])
}

func (GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (GL) BindVertexArray(array uint32) {
	gl.BindVertexArray(array)
}

func (GL) DeleteVertexArray(array uint32) {
	gl.DeleteVertexArrays(1, &array)
}

func (GL) GenBuffer() uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	return vbo
}

func (GL) BindBuffer(target graphics.Enum, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (GL) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

func (GL) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (GL) VertexAttribPointer(index uint32, size int32, xtype graphics.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(xtype), normalized, stride, gl.PtrOffset(offset))
}

func (GL) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (GL) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (GL) ActiveTexture(texture graphics.Enum) {
	gl.ActiveTexture(uint32(texture))
}

func (GL) BindTexture(target graphics.Enum, texture uint32) {
	gl.BindTexture(uint32(target), texture)
}

func (GL) TexParameteri(target, pname graphics.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (GL) TexImage2D(target graphics.Enum, level, internalFormat, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	if len(pixels) == 0 {
		gl.TexImage2D(uint32(target), level, internalFormat, width, height, 0, uint32(format), uint32(xtype), nil)
		return
	}
	gl.TexImage2D(uint32(target), level, internalFormat, width, height, 0, uint32(format), uint32(xtype), gl.Ptr(pixels))
}

func (GL) GenerateMipmap(target graphics.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (GL) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (GL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (GL) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (GL) Clear(mask graphics.Enum) {
	gl.Clear(uint32(mask))
}

func (GL) Enable(capability graphics.Enum) {
	gl.Enable(uint32(capability))
}

func (GL) Disable(capability graphics.Enum) {
	gl.Disable(uint32(capability))
}

func (GL) DrawArrays(mode graphics.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (GL) DrawElements(mode graphics.Enum, count int32, xtype graphics.Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(xtype), gl.PtrOffset(offset))
}

func (GL) ReadPixels(x, y, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(xtype), gl.Ptr(pixels))
}

func (GL) GetIntegerv(pname graphics.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (GL) GetError() graphics.Enum {
	return graphics.Enum(gl.GetError())
}
