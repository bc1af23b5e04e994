// Package softgl is an in-memory implementation of graphics.GL.
//
// It keeps the object model and state machine of an OpenGL 4.1 core context
// (shader and program objects, uniforms, buffers, vertex arrays, textures,
// the current program and bindings, the error flag) without rasterizing.
// Each Context is independent, so tests can create as many as they need.
package softgl

import (
	"fmt"
	"strings"

	graphics "github.com/richinsley/learngl/graphics"
)

type shaderObject struct {
	xtype         graphics.Enum
	source        string
	compiled      bool
	infoLog       string
	unit          *translationUnit
	deletePending bool
	attached      map[uint32]bool
}

type uniformSlot struct {
	name     string
	typ      string
	location int32
	ints     [16]int32
	floats   [16]float32
}

type programObject struct {
	attached      []uint32
	linked        bool
	infoLog       string
	deletePending bool
	uniforms      []*uniformSlot
	locations     map[string]int32
}

// Context is a software OpenGL context. It is not safe for concurrent use.
type Context struct {
	nextName uint32 // shared namespace for shaders and programs
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	current  uint32
	err      graphics.Enum

	bufferState
}

var _ graphics.GL = (*Context)(nil)

// New returns a context with a default 800x600 framebuffer.
func New() *Context {
	c := &Context{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
	}
	c.bufferState.init(800, 600)
	return c
}

func (c *Context) setError(e graphics.Enum) {
	if c.err == graphics.NoError {
		c.err = e
	}
}

// GetError returns and clears the first error recorded since the last call.
func (c *Context) GetError() graphics.Enum {
	e := c.err
	c.err = graphics.NoError
	return e
}

// LiveShaders is the number of shader objects that still exist, including
// ones flagged for deletion but still attached.
func (c *Context) LiveShaders() int {
	return len(c.shaders)
}

// LivePrograms is the number of program objects that still exist.
func (c *Context) LivePrograms() int {
	return len(c.programs)
}

// ───────────────────────────────── Shaders ─────────────────────────────────────

func (c *Context) CreateShader(xtype graphics.Enum) uint32 {
	if xtype != graphics.VertexShader && xtype != graphics.FragmentShader {
		c.setError(graphics.InvalidEnum)
		return 0
	}
	c.nextName++
	c.shaders[c.nextName] = &shaderObject{xtype: xtype, attached: make(map[uint32]bool)}
	return c.nextName
}

func (c *Context) shader(name uint32) *shaderObject {
	s, ok := c.shaders[name]
	if !ok {
		if _, isProgram := c.programs[name]; isProgram {
			c.setError(graphics.InvalidOperation)
		} else {
			c.setError(graphics.InvalidValue)
		}
		return nil
	}
	return s
}

func (c *Context) ShaderSource(shader uint32, source string) {
	if s := c.shader(shader); s != nil {
		s.source = source
	}
}

func (c *Context) CompileShader(shader uint32) {
	s := c.shader(shader)
	if s == nil {
		return
	}
	unit, diags := parseGLSL(s.source)
	unit.resolveVaryings(s.xtype == graphics.FragmentShader)
	s.unit = unit
	s.compiled = len(diags) == 0
	s.infoLog = diags.String()
}

func (c *Context) GetShaderiv(shader uint32, pname graphics.Enum) int32 {
	s := c.shader(shader)
	if s == nil {
		return 0
	}
	switch pname {
	case graphics.ShaderType:
		return int32(s.xtype)
	case graphics.DeleteStatus:
		return boolInt(s.deletePending)
	case graphics.CompileStatus:
		return boolInt(s.compiled)
	case graphics.InfoLogLength:
		return logLength(s.infoLog)
	}
	c.setError(graphics.InvalidEnum)
	return 0
}

func (c *Context) GetShaderInfoLog(shader uint32, bufSize int32) string {
	if bufSize < 0 {
		c.setError(graphics.InvalidValue)
		return ""
	}
	s := c.shader(shader)
	if s == nil {
		return ""
	}
	return truncateLog(s.infoLog, bufSize)
}

func (c *Context) DeleteShader(shader uint32) {
	if shader == 0 {
		return
	}
	s := c.shader(shader)
	if s == nil {
		return
	}
	if len(s.attached) > 0 {
		s.deletePending = true
		return
	}
	delete(c.shaders, shader)
}

func (c *Context) IsShader(shader uint32) bool {
	_, ok := c.shaders[shader]
	return ok
}

// ───────────────────────────────── Programs ────────────────────────────────────

func (c *Context) CreateProgram() uint32 {
	c.nextName++
	c.programs[c.nextName] = &programObject{locations: make(map[string]int32)}
	return c.nextName
}

func (c *Context) program(name uint32) *programObject {
	p, ok := c.programs[name]
	if !ok {
		if _, isShader := c.shaders[name]; isShader {
			c.setError(graphics.InvalidOperation)
		} else {
			c.setError(graphics.InvalidValue)
		}
		return nil
	}
	return p
}

func (c *Context) AttachShader(program, shader uint32) {
	p := c.program(program)
	if p == nil {
		return
	}
	s := c.shader(shader)
	if s == nil {
		return
	}
	if s.attached[program] {
		c.setError(graphics.InvalidOperation)
		return
	}
	s.attached[program] = true
	p.attached = append(p.attached, shader)
}

func (c *Context) DetachShader(program, shader uint32) {
	p := c.program(program)
	if p == nil {
		return
	}
	s := c.shader(shader)
	if s == nil {
		return
	}
	if !s.attached[program] {
		c.setError(graphics.InvalidOperation)
		return
	}
	c.detach(program, p, shader, s)
}

func (c *Context) detach(program uint32, p *programObject, shader uint32, s *shaderObject) {
	delete(s.attached, program)
	for i, name := range p.attached {
		if name == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			break
		}
	}
	if s.deletePending && len(s.attached) == 0 {
		delete(c.shaders, shader)
	}
}

func (c *Context) LinkProgram(program uint32) {
	p := c.program(program)
	if p == nil {
		return
	}
	var vert, frag *shaderObject
	var errs []string
	for _, name := range p.attached {
		s := c.shaders[name]
		if !s.compiled {
			errs = append(errs, "error: linking with uncompiled/unspecialized shader")
			continue
		}
		switch s.xtype {
		case graphics.VertexShader:
			if vert != nil {
				errs = append(errs, "error: multiple vertex shaders attached")
			}
			vert = s
		case graphics.FragmentShader:
			if frag != nil {
				errs = append(errs, "error: multiple fragment shaders attached")
			}
			frag = s
		}
	}
	if len(errs) == 0 {
		switch {
		case vert == nil && frag == nil:
			errs = append(errs, "error: no shaders attached to the program")
		case vert == nil:
			errs = append(errs, "error: program lacks a vertex shader")
		case frag == nil:
			errs = append(errs, "error: program lacks a fragment shader")
		}
	}

	var active []activeUniform
	if len(errs) == 0 {
		var linkErrs []string
		active, linkErrs = linkUnits(vert.unit, frag.unit)
		errs = append(errs, linkErrs...)
	}

	if len(errs) > 0 {
		p.linked = false
		p.infoLog = strings.Join(errs, "\n") + "\n"
		p.uniforms = nil
		p.locations = make(map[string]int32)
		return
	}

	p.linked = true
	p.infoLog = ""
	p.uniforms = nil
	p.locations = make(map[string]int32)
	for _, u := range active {
		count := 1
		if u.array > 0 {
			count = u.array
		}
		for i := 0; i < count; i++ {
			slot := &uniformSlot{name: u.name, typ: u.typ, location: int32(len(p.uniforms))}
			if u.array > 0 {
				slot.name = fmt.Sprintf("%s[%d]", u.name, i)
				if i == 0 {
					p.locations[u.name] = slot.location
				}
			}
			p.locations[slot.name] = slot.location
			p.uniforms = append(p.uniforms, slot)
		}
	}
}

func (c *Context) GetProgramiv(program uint32, pname graphics.Enum) int32 {
	p := c.program(program)
	if p == nil {
		return 0
	}
	switch pname {
	case graphics.DeleteStatus:
		return boolInt(p.deletePending)
	case graphics.LinkStatus:
		return boolInt(p.linked)
	case graphics.InfoLogLength:
		return logLength(p.infoLog)
	case graphics.AttachedShaders:
		return int32(len(p.attached))
	case graphics.ActiveUniforms:
		return int32(len(p.uniforms))
	}
	c.setError(graphics.InvalidEnum)
	return 0
}

func (c *Context) GetProgramInfoLog(program uint32, bufSize int32) string {
	if bufSize < 0 {
		c.setError(graphics.InvalidValue)
		return ""
	}
	p := c.program(program)
	if p == nil {
		return ""
	}
	return truncateLog(p.infoLog, bufSize)
}

func (c *Context) UseProgram(program uint32) {
	if program != 0 {
		p := c.program(program)
		if p == nil {
			return
		}
		if !p.linked {
			c.setError(graphics.InvalidOperation)
			return
		}
	}
	previous := c.current
	c.current = program
	if previous != program {
		c.collect(previous)
	}
}

func (c *Context) DeleteProgram(program uint32) {
	if program == 0 {
		return
	}
	p := c.program(program)
	if p == nil {
		return
	}
	p.deletePending = true
	c.collect(program)
}

// collect frees a program flagged for deletion once it is no longer current.
func (c *Context) collect(program uint32) {
	p, ok := c.programs[program]
	if !ok || !p.deletePending || program == c.current {
		return
	}
	for _, name := range append([]uint32(nil), p.attached...) {
		c.detach(program, p, name, c.shaders[name])
	}
	delete(c.programs, program)
}

func (c *Context) IsProgram(program uint32) bool {
	_, ok := c.programs[program]
	return ok
}

func (c *Context) GetIntegerv(pname graphics.Enum) int32 {
	switch pname {
	case graphics.CurrentProgram:
		return int32(c.current)
	}
	return c.integer(pname)
}

func boolInt(b bool) int32 {
	if b {
		return graphics.True
	}
	return graphics.False
}

// logLength follows GL: the length includes the terminator, or is zero for
// an empty log.
func logLength(log string) int32 {
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

func truncateLog(log string, bufSize int32) string {
	if bufSize == 0 {
		return ""
	}
	if int32(len(log)) > bufSize-1 {
		return log[:bufSize-1]
	}
	return log
}
