package mesh

import (
	graphics "github.com/richinsley/learngl/graphics"
)

// Attribute locations shared by the lesson shaders.
const (
	LocPosition uint32 = 0
	LocColor    uint32 = 1
	LocTexCoord uint32 = 2
)

// Triangle has a position and a colour per vertex.
func Triangle() Data {
	return Data{
		Vertices: []float32{
			// positions      // colors
			0.5, -0.5, 0.0, 1.0, 0.0, 0.0, // bottom right
			-0.5, -0.5, 0.0, 0.0, 1.0, 0.0, // bottom left
			0.0, 0.5, 0.0, 0.0, 0.0, 1.0, // top
		},
		Layout: []Attrib{{LocPosition, 3}, {LocColor, 3}},
		Mode:   graphics.Triangles,
	}
}

// Rectangle is an indexed quad with position, colour and texture coordinates.
func Rectangle() Data {
	return Data{
		Vertices: []float32{
			// positions     // colors      // texture coords
			0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0, // top right
			0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0, // bottom right
			-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, // bottom left
			-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0, // top left
		},
		Indices: []uint32{
			0, 1, 3,
			1, 2, 3,
		},
		Layout: []Attrib{{LocPosition, 3}, {LocColor, 3}, {LocTexCoord, 2}},
		Mode:   graphics.Triangles,
	}
}

// TexturedQuad is Rectangle without the colour attribute.
func TexturedQuad() Data {
	return Data{
		Vertices: []float32{
			0.5, 0.5, 0.0, 1.0, 1.0,
			0.5, -0.5, 0.0, 1.0, 0.0,
			-0.5, -0.5, 0.0, 0.0, 0.0,
			-0.5, 0.5, 0.0, 0.0, 1.0,
		},
		Indices: []uint32{
			0, 1, 3,
			1, 2, 3,
		},
		Layout: []Attrib{{LocPosition, 3}, {LocTexCoord, 2}},
		Mode:   graphics.Triangles,
	}
}

// Cube is 36 non-indexed vertices with position and texture coordinates.
func Cube() Data {
	return Data{
		Vertices: []float32{
			-0.5, -0.5, -0.5, 0.0, 0.0,
			0.5, -0.5, -0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 0.0,

			-0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			-0.5, 0.5, 0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,

			-0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, 0.5, 1.0, 0.0,

			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,

			-0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,

			-0.5, 0.5, -0.5, 0.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
		},
		Layout: []Attrib{{LocPosition, 3}, {LocTexCoord, 2}},
		Mode:   graphics.Triangles,
	}
}
