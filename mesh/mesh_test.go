package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/softgl"
)

func TestShapes(t *testing.T) {
	for name, tc := range map[string]struct {
		data     Data
		vertices int
		stride   int32
	}{
		"triangle":  {Triangle(), 3, 24},
		"rectangle": {Rectangle(), 4, 32},
		"quad":      {TexturedQuad(), 4, 20},
		"cube":      {Cube(), 36, 20},
	} {
		assert.NoError(t, tc.data.validate(), name)
		assert.Equal(t, tc.vertices, tc.data.VertexCount(), name)
		assert.Equal(t, tc.stride, tc.data.Stride(), name)
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Data{Vertices: []float32{1, 2, 3}}.validate())
	assert.Error(t, Data{Vertices: []float32{1, 2}, Layout: []Attrib{{0, 3}}}.validate())
	assert.Error(t, Data{Vertices: []float32{1, 2, 3}, Indices: []uint32{1}, Layout: []Attrib{{0, 3}}}.validate())
}

func TestUploadIndexed(t *testing.T) {
	gl := softgl.New()
	m, err := Upload(gl, Rectangle())
	require.NoError(t, err)
	assert.NotZero(t, m.VAO)
	assert.NotZero(t, m.EBO)
	assert.Equal(t, int32(6), m.Count())

	// nothing is left bound
	assert.Zero(t, gl.GetIntegerv(graphics.VertexArrayBinding))
	assert.Zero(t, gl.GetIntegerv(graphics.ArrayBufferBinding))

	data, ok := gl.BufferContents(m.VBO)
	require.True(t, ok)
	require.Len(t, data, 32*4)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(data[0:4])))

	indices, _ := gl.BufferContents(m.EBO)
	assert.Len(t, indices, 6*4)

	tex, ok := gl.Attrib(m.VAO, LocTexCoord)
	require.True(t, ok)
	assert.True(t, tex.Enabled)
	assert.Equal(t, int32(2), tex.Size)
	assert.Equal(t, int32(32), tex.Stride)
	assert.Equal(t, 24, tex.Offset)
	assert.Equal(t, m.VBO, tex.Buffer)

	m.Draw()
	draws := gl.Draws()
	require.Len(t, draws, 1)
	assert.True(t, draws[0].Indexed)
	assert.Equal(t, int32(6), draws[0].Count)
	assert.Equal(t, graphics.UnsignedInt, draws[0].IndexType)
	assert.Equal(t, m.VAO, draws[0].VertexArray)
	assert.Equal(t, graphics.NoError, gl.GetError())
}

func TestUploadArrays(t *testing.T) {
	gl := softgl.New()
	m, err := Upload(gl, Cube())
	require.NoError(t, err)
	assert.Zero(t, m.EBO)

	m.Draw()
	draws := gl.Draws()
	require.Len(t, draws, 1)
	assert.False(t, draws[0].Indexed)
	assert.Equal(t, int32(36), draws[0].Count)
	assert.Equal(t, graphics.Triangles, draws[0].Mode)
	assert.Equal(t, graphics.NoError, gl.GetError())
}

func TestDelete(t *testing.T) {
	gl := softgl.New()
	m, err := Upload(gl, Rectangle())
	require.NoError(t, err)
	m.Delete()
	m.Delete()
	buffers, arrays, _ := gl.LiveObjects()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)
	assert.Equal(t, graphics.NoError, gl.GetError())
}

func TestUploadRejectsBadData(t *testing.T) {
	gl := softgl.New()
	_, err := Upload(gl, Data{Vertices: []float32{1}, Layout: []Attrib{{0, 3}}})
	assert.Error(t, err)
	buffers, arrays, _ := gl.LiveObjects()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)
}
