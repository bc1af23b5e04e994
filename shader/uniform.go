package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	graphics "github.com/richinsley/learngl/graphics"
)

// Location resolves the location of a uniform in this program. It returns
// -1 for names that are unknown, inactive, or when the program is not
// usable.
func (p *Program) Location(name string) int32 {
	if p.state != Usable {
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	mapped := name
	if n, ok := p.names[name]; ok {
		mapped = n
	}
	loc := p.gl.GetUniformLocation(p.ID, mapped)
	if p.locations != nil {
		p.locations[name] = loc
	}
	return loc
}

// target is the location a setter writes to, or -1 when the push must be
// skipped. glUniform* writes into the current program, so a program that
// is not current would overwrite another program's uniforms.
func (p *Program) target(name string) int32 {
	if p.state != Usable {
		return -1
	}
	if uint32(p.gl.GetIntegerv(graphics.CurrentProgram)) != p.ID {
		return -1
	}
	return p.Location(name)
}

// SetBool pushes a bool uniform as 1 or 0.
func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.SetInt(name, v)
}

// SetInt pushes an int or sampler uniform.
func (p *Program) SetInt(name string, value int32) {
	if loc := p.target(name); loc != -1 {
		p.gl.Uniform1i(loc, value)
	}
}

// SetFloat pushes a float uniform.
func (p *Program) SetFloat(name string, value float32) {
	if loc := p.target(name); loc != -1 {
		p.gl.Uniform1f(loc, value)
	}
}

// SetVec2 pushes a vec2 uniform.
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.target(name); loc != -1 {
		p.gl.Uniform2f(loc, v[0], v[1])
	}
}

// SetVec3 pushes a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.target(name); loc != -1 {
		p.gl.Uniform3f(loc, v[0], v[1], v[2])
	}
}

// SetVec4 pushes a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.target(name); loc != -1 {
		p.gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetMat4 pushes a column-major matrix, the layout mgl32 already uses.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.target(name); loc != -1 {
		p.gl.UniformMatrix4fv(loc, false, m)
	}
}
