// Package mesh holds the vertex data drawn by the lessons and uploads it
// into vertex array objects.
package mesh

import (
	"fmt"
	"unsafe"

	graphics "github.com/richinsley/learngl/graphics"
)

// Attrib is one float vertex attribute. Attributes are packed in order.
type Attrib struct {
	Index uint32
	Size  int32
}

// Data is interleaved float vertex data with an optional index list.
type Data struct {
	Vertices []float32
	Indices  []uint32
	Layout   []Attrib
	Mode     graphics.Enum
}

// Stride is the size in bytes of one vertex.
func (d Data) Stride() int32 {
	var n int32
	for _, a := range d.Layout {
		n += a.Size
	}
	return n * 4
}

// VertexCount is the number of vertices described by Vertices.
func (d Data) VertexCount() int {
	floats := int(d.Stride() / 4)
	if floats == 0 {
		return 0
	}
	return len(d.Vertices) / floats
}

func (d Data) validate() error {
	floats := int(d.Stride() / 4)
	if floats == 0 {
		return fmt.Errorf("mesh has no attributes")
	}
	if len(d.Vertices) == 0 || len(d.Vertices)%floats != 0 {
		return fmt.Errorf("mesh has %d floats, not a multiple of %d per vertex", len(d.Vertices), floats)
	}
	count := uint32(len(d.Vertices) / floats)
	for _, i := range d.Indices {
		if i >= count {
			return fmt.Errorf("index %d out of range for %d vertices", i, count)
		}
	}
	return nil
}

// Mesh is uploaded vertex data.
type Mesh struct {
	VAO uint32
	VBO uint32
	EBO uint32

	gl    graphics.GL
	mode  graphics.Enum
	count int32
}

// Upload creates the buffers and the vertex array for d.
func Upload(gl graphics.GL, d Data) (*Mesh, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	m := &Mesh{gl: gl, mode: d.Mode}
	if m.mode == 0 {
		m.mode = graphics.Triangles
	}

	m.VAO = gl.GenVertexArray()
	gl.BindVertexArray(m.VAO)

	m.VBO = gl.GenBuffer()
	gl.BindBuffer(graphics.ArrayBuffer, m.VBO)
	gl.BufferData(graphics.ArrayBuffer, floatBytes(d.Vertices), graphics.StaticDraw)

	if len(d.Indices) > 0 {
		// the element binding is recorded in the bound VAO
		m.EBO = gl.GenBuffer()
		gl.BindBuffer(graphics.ElementArrayBuffer, m.EBO)
		gl.BufferData(graphics.ElementArrayBuffer, uintBytes(d.Indices), graphics.StaticDraw)
		m.count = int32(len(d.Indices))
	} else {
		m.count = int32(d.VertexCount())
	}

	stride := d.Stride()
	offset := 0
	for _, a := range d.Layout {
		gl.VertexAttribPointer(a.Index, a.Size, graphics.Float, false, stride, offset)
		gl.EnableVertexAttribArray(a.Index)
		offset += int(a.Size) * 4
	}

	gl.BindBuffer(graphics.ArrayBuffer, 0)
	gl.BindVertexArray(0)
	return m, nil
}

// Draw issues one draw call for the whole mesh with the current program.
func (m *Mesh) Draw() {
	m.gl.BindVertexArray(m.VAO)
	if m.EBO != 0 {
		m.gl.DrawElements(m.mode, m.count, graphics.UnsignedInt, 0)
	} else {
		m.gl.DrawArrays(m.mode, 0, m.count)
	}
}

// Count is the number of vertices or indices a draw consumes.
func (m *Mesh) Count() int32 {
	return m.count
}

// Delete releases the vertex array and buffers. Calling it again is a no-op.
func (m *Mesh) Delete() {
	if m.VAO != 0 {
		m.gl.DeleteVertexArray(m.VAO)
		m.VAO = 0
	}
	if m.VBO != 0 {
		m.gl.DeleteBuffer(m.VBO)
		m.VBO = 0
	}
	if m.EBO != 0 {
		m.gl.DeleteBuffer(m.EBO)
		m.EBO = 0
	}
}

func floatBytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

func uintBytes(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
