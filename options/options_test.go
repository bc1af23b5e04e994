package options

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o, err := Parse("learngl", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "texture", *o.Lesson)
	assert.Equal(t, ModeWindow, *o.Mode)
	assert.Equal(t, 800, *o.Width)
	assert.Equal(t, 600, *o.Height)
	assert.Equal(t, 512, *o.InfoLogLimit)
	assert.Equal(t, 300, o.Frames())
}

func TestFlags(t *testing.T) {
	o, err := Parse("learngl", []string{"-lesson", "cube", "-mode", "record", "-fps", "30", "-duration", "2"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "cube", *o.Lesson)
	assert.Equal(t, ModeRecord, *o.Mode)
	assert.Equal(t, 60, o.Frames())
}

func TestValidate(t *testing.T) {
	for _, args := range [][]string{
		{"-mode", "fullscreen"},
		{"-width", "0"},
		{"-fps", "0"},
		{"-codec", "vp9"},
		{"-watch"},
	} {
		_, err := Parse("learngl", args, io.Discard)
		assert.Error(t, err, "%v", args)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learngl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
lesson = "rectangle"
width = 1280
height = 720
strict = true
`), 0o644))

	o, err := Parse("learngl", []string{"-config", path, "-width", "640"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "rectangle", *o.Lesson)
	assert.Equal(t, 640, *o.Width, "explicit flag wins over the file")
	assert.Equal(t, 720, *o.Height)
	assert.True(t, *o.Strict)
}

func TestConfigFileErrors(t *testing.T) {
	_, err := Parse("learngl", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, io.Discard)
	assert.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = [1"), 0o644))
	_, err = Parse("learngl", []string{"-config", path}, io.Discard)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestTOMLRoundTrip(t *testing.T) {
	o, err := Parse("learngl", []string{"-lesson", "cube", "-shaders", "shaders", "-watch"}, io.Discard)
	require.NoError(t, err)
	data, err := o.TOML()
	require.NoError(t, err)

	var cfg fileConfig
	require.NoError(t, toml.Unmarshal(data, &cfg))
	require.NotNil(t, cfg.Lesson)
	assert.Equal(t, "cube", *cfg.Lesson)
	require.NotNil(t, cfg.Watch)
	assert.True(t, *cfg.Watch)
}
