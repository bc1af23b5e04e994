package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/learngl/glbackend"
	"github.com/richinsley/learngl/glfwcontext"
	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/headless"
	"github.com/richinsley/learngl/lesson"
	"github.com/richinsley/learngl/options"
	"github.com/richinsley/learngl/recorder"
	"github.com/richinsley/learngl/renderer"
	"github.com/richinsley/learngl/translator"
)

func newContext(opts *options.LessonOptions) (graphics.Context, func(), error) {
	if *opts.Headless {
		ctx, err := headless.New(*opts.Width, *opts.Height)
		if err != nil {
			return nil, nil, err
		}
		return ctx, func() {}, nil
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, err
	}
	visible := *opts.Mode == options.ModeWindow
	ctx, err := glfwcontext.New(*opts.Width, *opts.Height, "LearnOpenGL - "+*opts.Lesson, visible)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return ctx, glfwcontext.TerminateGraphics, nil
}

func newEnv(opts *options.LessonOptions) (*lesson.Env, error) {
	env := &lesson.Env{
		GL:           glbackend.New(),
		Logger:       log.Default(),
		InfoLogLimit: *opts.InfoLogLimit,
	}
	if *opts.ShaderDir != "" {
		env.Shaders = os.DirFS(*opts.ShaderDir)
	}
	if fi, err := os.Stat(*opts.AssetDir); err == nil && fi.IsDir() {
		env.Assets = os.DirFS(*opts.AssetDir)
	} else {
		log.Printf("Warning: asset directory %s not found, using placeholder textures.", *opts.AssetDir)
	}
	if *opts.Translate {
		t, err := translator.Default()
		if err != nil {
			return nil, err
		}
		env.Translator = t
	}
	return env, nil
}

func record(r *renderer.Renderer, opts *options.LessonOptions) error {
	rec, err := recorder.Start(recorder.Config{
		Path:       *opts.OutputFile,
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		Codec:      *opts.Codec,
		FFmpegPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}
	err = r.RunOffscreen(opts.Frames(), *opts.FPS, rec)
	return errors.Join(err, rec.Close())
}

func screenshot(r *renderer.Renderer, opts *options.LessonOptions) error {
	path := *opts.OutputFile
	if ext := filepath.Ext(path); ext != ".png" {
		path = strings.TrimSuffix(path, ext) + ".png"
	}
	img, err := r.Screenshot(*opts.Duration)
	if err != nil {
		return err
	}
	if err := recorder.SavePNG(path, img); err != nil {
		return err
	}
	log.Printf("Saved screenshot to %s", path)
	return nil
}

func runLesson(opts *options.LessonOptions) {
	ctx, terminate, err := newContext(opts)
	if err != nil {
		log.Fatalf("Failed to create graphics context: %v", err)
	}
	defer terminate()

	env, err := newEnv(opts)
	if err != nil {
		log.Fatalf("Failed to prepare lesson environment: %v", err)
	}

	var watchDir string
	if *opts.Watch {
		watchDir = *opts.ShaderDir
	}
	r, err := renderer.New(ctx, env, *opts.Lesson, renderer.Options{Strict: *opts.Strict, WatchDir: watchDir})
	if err != nil {
		ctx.Shutdown()
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Shutdown()

	switch *opts.Mode {
	case options.ModeRecord:
		log.Println("Starting offscreen render loop...")
		if err := record(r, opts); err != nil {
			log.Fatalf("Recording failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
	case options.ModeScreenshot:
		if err := screenshot(r, opts); err != nil {
			log.Fatalf("Screenshot failed: %v", err)
		}
	default:
		if win, ok := ctx.(*glfwcontext.Context); ok {
			win.RegisterKeyCallback(glfw.KeyR, func() { r.Reload() })
		}
		log.Println("Starting interactive render loop...")
		r.Run()
	}
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(os.Args[0], os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if *opts.Help {
		fmt.Println("LearnOpenGL lesson viewer")
		fmt.Printf("Lessons: %s\n", strings.Join(lesson.Names(), ", "))
		opts.PrintDefaults()
		return
	}
	if *opts.DumpConfig {
		data, err := opts.TOML()
		if err != nil {
			log.Fatalf("Failed to encode options: %v", err)
		}
		os.Stdout.Write(data)
		return
	}

	runLesson(opts)
}
