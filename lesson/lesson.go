// Package lesson contains the tutorial steps, each a small self-contained
// scene drawn with one shader program.
package lesson

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"sync"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/shader"
)

//go:embed shaders
var embedded embed.FS

// Shaders returns the built-in shader sources.
func Shaders() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

// Env is everything a lesson needs from its host.
type Env struct {
	GL graphics.GL
	// Shaders holds the .vs and .fs files. Nil means the built-in ones.
	Shaders fs.FS
	// Assets holds textures/*. Nil means every texture is a checkerboard.
	Assets     fs.FS
	Logger     *log.Logger
	Translator shader.Translator
	// InfoLogLimit caps compile and link logs. Zero keeps the default.
	InfoLogLimit int
	Width        int
	Height       int
}

func (e *Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Program builds a shader program from two files in e.Shaders.
func (e *Env) Program(vertexPath, fragmentPath string) (*shader.Program, error) {
	fsys := e.Shaders
	if fsys == nil {
		fsys = Shaders()
	}
	opts := []shader.Option{
		shader.WithFS(fsys),
		shader.WithLogger(e.logger()),
		shader.WithInfoLogLimit(e.InfoLogLimit),
	}
	if e.Translator != nil {
		opts = append(opts, shader.WithTranslator(e.Translator))
	}
	return shader.New(e.GL, vertexPath, fragmentPath, opts...)
}

// Aspect is the width to height ratio of the surface.
func (e *Env) Aspect() float32 {
	if e.Height == 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}

// Lesson is one tutorial step.
//
// Setup may fail part way, typically with a broken shader program; Teardown
// must still be called afterwards and releases whatever was created.
type Lesson interface {
	Setup(env *Env) error
	Draw(t float64)
	Teardown()
	// ShaderFiles lists the shader paths the lesson reads, for reloading.
	ShaderFiles() []string
}

// Factory creates a fresh, not yet set up lesson.
type Factory func() Lesson

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a lesson available by name. It panics on duplicates.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("lesson: Register called twice for " + name)
	}
	registry[name] = f
}

// New creates the named lesson.
func New(name string) (Lesson, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown lesson %q", name)
	}
	return f(), nil
}

// Names lists the registered lessons in alphabetical order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clearFrame(gl graphics.GL, mask graphics.Enum) {
	gl.ClearColor(0.2, 0.3, 0.3, 1.0)
	gl.Clear(mask)
}
