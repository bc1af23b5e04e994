// Package renderer drives a lesson on a graphics.Context, either in a
// window loop or frame by frame for recording.
package renderer

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/lesson"
	"github.com/richinsley/learngl/shader"
)

type Options struct {
	// Strict makes a shader build failure fatal instead of drawing the
	// lesson without that program.
	Strict bool
	// WatchDir, if set, is the directory the lesson's shader files are read
	// from; they are reloaded when they change.
	WatchDir string
}

type Renderer struct {
	context graphics.Context
	gl      graphics.GL
	env     *lesson.Env
	name    string
	lesson  lesson.Lesson
	watcher *shader.Watcher
	strict  bool
	logger  *log.Logger
	width   int
	height  int
}

// New makes ctx current and sets up the named lesson on it.
func New(ctx graphics.Context, env *lesson.Env, name string, opts Options) (*Renderer, error) {
	r := &Renderer{
		context: ctx,
		gl:      env.GL,
		env:     env,
		name:    name,
		strict:  opts.Strict,
		logger:  env.Logger,
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	r.context.MakeCurrent()
	r.resize()

	l, err := r.setup()
	if err != nil {
		return nil, err
	}
	r.lesson = l

	if opts.WatchDir != "" {
		var paths []string
		for _, f := range l.ShaderFiles() {
			paths = append(paths, filepath.Join(opts.WatchDir, f))
		}
		r.watcher, err = shader.Watch(r.logger, paths...)
		if err != nil {
			r.lesson.Teardown()
			return nil, fmt.Errorf("failed to watch shaders: %w", err)
		}
		r.logger.Printf("Watching %d shader files in %s", len(paths), opts.WatchDir)
	}
	return r, nil
}

// setup creates and sets up a fresh instance of the lesson. Shader failures
// are tolerated unless the renderer is strict.
func (r *Renderer) setup() (lesson.Lesson, error) {
	l, err := lesson.New(r.name)
	if err != nil {
		return nil, err
	}
	err = l.Setup(r.env)
	if err == nil {
		return l, nil
	}
	var serr *shader.Error
	if !r.strict && errors.As(err, &serr) {
		r.logger.Printf("Lesson %s continues with a broken shader", r.name)
		return l, nil
	}
	l.Teardown()
	return nil, fmt.Errorf("failed to set up lesson %s: %w", r.name, err)
}

// Lesson returns the lesson currently drawn.
func (r *Renderer) Lesson() lesson.Lesson {
	return r.lesson
}

// Reload builds a new instance of the lesson from the current shader files
// and swaps it in. On failure the running lesson is kept. Reloading is
// always strict so a typo in an edited file does not blank the screen.
func (r *Renderer) Reload() error {
	l, err := lesson.New(r.name)
	if err != nil {
		return err
	}
	if err := l.Setup(r.env); err != nil {
		l.Teardown()
		r.logger.Printf("Reload of %s failed, keeping the previous version", r.name)
		return err
	}
	r.lesson.Teardown()
	r.lesson = l
	r.logger.Printf("Reloaded %s", r.name)
	return nil
}

// resize matches the viewport to the framebuffer.
func (r *Renderer) resize() {
	w, h := r.context.GetFramebufferSize()
	if w == r.width && h == r.height {
		return
	}
	r.width, r.height = w, h
	r.env.Width, r.env.Height = w, h
	r.gl.Viewport(0, 0, int32(w), int32(h))
}

// RenderFrame draws the lesson at time t without presenting it.
func (r *Renderer) RenderFrame(t float64) {
	r.resize()
	r.lesson.Draw(t)
}

// Run draws frames until the context is asked to close.
func (r *Renderer) Run() {
	startTime := r.context.Time()
	for !r.context.ShouldClose() {
		r.RenderFrame(r.context.Time() - startTime)
		r.context.EndFrame()

		if r.watcher != nil && r.watcher.Changed() {
			r.Reload()
		}
	}
}

// Shutdown releases the lesson and the context.
func (r *Renderer) Shutdown() {
	if r.watcher != nil {
		r.watcher.Close()
	}
	if r.lesson != nil {
		r.lesson.Teardown()
	}
	r.context.Shutdown()
}
