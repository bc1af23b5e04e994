package softgl

import (
	"strings"

	graphics "github.com/richinsley/learngl/graphics"
)

func (c *Context) GetUniformLocation(program uint32, name string) int32 {
	p := c.program(program)
	if p == nil {
		return -1
	}
	if !p.linked {
		c.setError(graphics.InvalidOperation)
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func isSampler(typ string) bool {
	return strings.Contains(typ, "sampler")
}

func acceptsInt(typ string) bool {
	return typ == "int" || typ == "bool" || isSampler(typ)
}

func acceptsFloat(n int) func(string) bool {
	return func(typ string) bool {
		switch n {
		case 1:
			return typ == "float" || typ == "bool"
		case 2:
			return typ == "vec2" || typ == "bvec2"
		case 3:
			return typ == "vec3" || typ == "bvec3"
		case 4:
			return typ == "vec4" || typ == "bvec4"
		}
		return false
	}
}

// slot resolves a location in the current program the way glUniform* does.
// A nil result with no recorded error means the call is silently ignored.
func (c *Context) slot(location int32, accept func(typ string) bool) *uniformSlot {
	if c.current == 0 {
		c.setError(graphics.InvalidOperation)
		return nil
	}
	if location == -1 {
		return nil
	}
	p := c.programs[c.current]
	if location < 0 || int(location) >= len(p.uniforms) {
		c.setError(graphics.InvalidOperation)
		return nil
	}
	s := p.uniforms[location]
	if !accept(s.typ) {
		c.setError(graphics.InvalidOperation)
		return nil
	}
	return s
}

func (s *uniformSlot) store(values ...float32) {
	boolean := strings.HasPrefix(s.typ, "b")
	for i, v := range values {
		if boolean && v != 0 {
			v = 1
		}
		s.floats[i] = v
		s.ints[i] = int32(v)
	}
}

func (c *Context) Uniform1i(location int32, v0 int32) {
	if s := c.slot(location, acceptsInt); s != nil {
		s.store(float32(v0))
		if !strings.HasPrefix(s.typ, "b") {
			// keep full integer precision
			s.ints[0] = v0
		}
	}
}

func (c *Context) Uniform1f(location int32, v0 float32) {
	if s := c.slot(location, acceptsFloat(1)); s != nil {
		s.store(v0)
	}
}

func (c *Context) Uniform2f(location int32, v0, v1 float32) {
	if s := c.slot(location, acceptsFloat(2)); s != nil {
		s.store(v0, v1)
	}
}

func (c *Context) Uniform3f(location int32, v0, v1, v2 float32) {
	if s := c.slot(location, acceptsFloat(3)); s != nil {
		s.store(v0, v1, v2)
	}
}

func (c *Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	if s := c.slot(location, acceptsFloat(4)); s != nil {
		s.store(v0, v1, v2, v3)
	}
}

func (c *Context) UniformMatrix4fv(location int32, transpose bool, value [16]float32) {
	s := c.slot(location, func(typ string) bool { return typ == "mat4" })
	if s == nil {
		return
	}
	if transpose {
		var t [16]float32
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				t[col*4+row] = value[row*4+col]
			}
		}
		value = t
	}
	s.store(value[:]...)
}

func (c *Context) readSlot(program uint32, location int32) *uniformSlot {
	p := c.program(program)
	if p == nil {
		return nil
	}
	if !p.linked || location < 0 || int(location) >= len(p.uniforms) {
		c.setError(graphics.InvalidOperation)
		return nil
	}
	return p.uniforms[location]
}

func (c *Context) GetUniformiv(program uint32, location int32) int32 {
	if s := c.readSlot(program, location); s != nil {
		return s.ints[0]
	}
	return 0
}

func (c *Context) GetUniformfv(program uint32, location int32, params []float32) {
	s := c.readSlot(program, location)
	if s == nil {
		return
	}
	n := knownTypes[s.typ]
	if n > len(params) {
		n = len(params)
	}
	copy(params, s.floats[:n])
}
