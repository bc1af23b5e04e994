package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphics "github.com/richinsley/learngl/graphics"
)

func TestIsES(t *testing.T) {
	assert.True(t, IsES("#version 300 es\nprecision highp float;\n"))
	assert.True(t, IsES("\n\n  #version 300 es\n"))
	assert.False(t, IsES("#version 330 core\n"))
	assert.False(t, IsES("#version 330\n"))
	assert.False(t, IsES("void main() {}\n#version 300 es\n"))
	assert.False(t, IsES(""))
}

func TestDesktopSourcePassesThrough(t *testing.T) {
	var tr Translator
	src := "#version 330 core\nvoid main() {}\n"
	code, names, err := tr.Translate(src, graphics.VertexShader)
	require.NoError(t, err)
	assert.Equal(t, src, code)
	assert.Nil(t, names)
}

func TestStageName(t *testing.T) {
	name, err := stageName(graphics.VertexShader)
	require.NoError(t, err)
	assert.Equal(t, "vertex", name)
	name, err = stageName(graphics.FragmentShader)
	require.NoError(t, err)
	assert.Equal(t, "fragment", name)
	_, err = stageName(graphics.Texture2D)
	assert.Error(t, err)
}
