// Package translator turns GLSL ES 3.00 shaders into desktop GLSL 3.30 so
// lesson shaders written for WebGL2 can be loaded next to the desktop ones.
package translator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	graphics "github.com/richinsley/learngl/graphics"
)

// Translator implements shader.Translator. Sources that are not GLSL ES
// pass through untouched.
type Translator struct {
	mu  sync.Mutex
	gst *gst.ShaderTranslator
}

// New starts a translator producing GLSL 3.30.
func New(ctx context.Context) (*Translator, error) {
	t, err := gst.NewShaderTranslator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	return &Translator{gst: t}, nil
}

var (
	defaultOnce       sync.Once
	defaultTranslator *Translator
	defaultErr        error
)

// Default returns a process-wide translator, created on first use.
func Default() (*Translator, error) {
	defaultOnce.Do(func() {
		defaultTranslator, defaultErr = New(context.Background())
	})
	return defaultTranslator, defaultErr
}

// IsES reports whether source declares a GLSL ES version.
func IsES(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] != "#version" {
			return false
		}
		return len(fields) > 2 && fields[2] == "es"
	}
	return false
}

func stageName(stage graphics.Enum) (string, error) {
	switch stage {
	case graphics.VertexShader:
		return "vertex", nil
	case graphics.FragmentShader:
		return "fragment", nil
	}
	return "", fmt.Errorf("unsupported shader stage 0x%x", uint32(stage))
}

// Translate converts source for the given stage and returns the mapping
// from source uniform names to the names in the translated code.
func (t *Translator) Translate(source string, stage graphics.Enum) (string, map[string]string, error) {
	if !IsES(source) {
		return source, nil, nil
	}
	name, err := stageName(stage)
	if err != nil {
		return "", nil, err
	}

	t.mu.Lock()
	result, err := t.gst.TranslateShader(source, name, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL330)
	t.mu.Unlock()
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", name, err)
	}

	names := make(map[string]string, len(result.Variables))
	for k, v := range result.Variables {
		names[k] = v.MappedName
	}
	return result.Code, names, nil
}
