// Package options holds the command line settings of the lesson viewer.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	ModeWindow     = "window"
	ModeRecord     = "record"
	ModeScreenshot = "screenshot"
)

type LessonOptions struct {
	Lesson       *string
	Mode         *string
	Headless     *bool
	Width        *int
	Height       *int
	FPS          *int
	Duration     *float64
	OutputFile   *string
	FFMPEGPath   *string
	Codec        *string
	ShaderDir    *string // overrides the built-in shaders
	AssetDir     *string
	Watch        *bool // reload shaders when ShaderDir changes
	Translate    *bool // accept GLSL ES 3.00 shaders
	Strict       *bool // exit when a shader fails instead of drawing without it
	InfoLogLimit *int
	ConfigFile   *string
	DumpConfig   *bool
	Help         *bool

	flags *flag.FlagSet
}

// fileConfig is the TOML form. Keys mirror the flag names.
type fileConfig struct {
	Lesson       *string  `toml:"lesson,omitempty"`
	Mode         *string  `toml:"mode,omitempty"`
	Headless     *bool    `toml:"headless,omitempty"`
	Width        *int     `toml:"width,omitempty"`
	Height       *int     `toml:"height,omitempty"`
	FPS          *int     `toml:"fps,omitempty"`
	Duration     *float64 `toml:"duration,omitempty"`
	OutputFile   *string  `toml:"output,omitempty"`
	FFMPEGPath   *string  `toml:"ffmpeg,omitempty"`
	Codec        *string  `toml:"codec,omitempty"`
	ShaderDir    *string  `toml:"shaders,omitempty"`
	AssetDir     *string  `toml:"assets,omitempty"`
	Watch        *bool    `toml:"watch,omitempty"`
	Translate    *bool    `toml:"translate,omitempty"`
	Strict       *bool    `toml:"strict,omitempty"`
	InfoLogLimit *int     `toml:"infolog,omitempty"`
}

// Parse reads flags from args, then fills every flag that was not given
// explicitly from the -config file, if one is named.
func Parse(name string, args []string, output io.Writer) (*LessonOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	o := &LessonOptions{
		Lesson:       fs.String("lesson", "texture", "Lesson to run"),
		Mode:         fs.String("mode", ModeWindow, "Run mode: window, record or screenshot"),
		Headless:     fs.Bool("headless", false, "Render with an EGL pbuffer instead of a window (linux)"),
		Width:        fs.Int("width", 800, "Width of the window or output"),
		Height:       fs.Int("height", 600, "Height of the window or output"),
		FPS:          fs.Int("fps", 60, "Frames per second for recording"),
		Duration:     fs.Float64("duration", 5.0, "Seconds to record, or the time of the screenshot frame"),
		OutputFile:   fs.String("output", "output.mp4", "Output file for record and screenshot modes"),
		FFMPEGPath:   fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:        fs.String("codec", "h264", "Video codec: h264 or hevc"),
		ShaderDir:    fs.String("shaders", "", "Directory with .vs/.fs files overriding the built-in shaders"),
		AssetDir:     fs.String("assets", "resources", "Directory containing textures/"),
		Watch:        fs.Bool("watch", false, "Reload the lesson when its shader files change"),
		Translate:    fs.Bool("translate", false, "Translate GLSL ES 3.00 shaders to desktop GLSL"),
		Strict:       fs.Bool("strict", false, "Exit if a shader fails to compile or link"),
		InfoLogLimit: fs.Int("infolog", 512, "Maximum shader info log size in bytes"),
		ConfigFile:   fs.String("config", "", "TOML file with default option values"),
		DumpConfig:   fs.Bool("dumpconfig", false, "Print the effective options as TOML and exit"),
		Help:         fs.Bool("help", false, "Show help message"),
		flags:        fs,
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *o.ConfigFile != "" {
		data, err := os.ReadFile(*o.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if err := o.overlay(data, set); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", *o.ConfigFile, err)
		}
	}
	return o, o.Validate()
}

// overlay copies values from TOML data into options not named in set.
func (o *LessonOptions) overlay(data []byte, set map[string]bool) error {
	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	fill(set, "lesson", o.Lesson, cfg.Lesson)
	fill(set, "mode", o.Mode, cfg.Mode)
	fill(set, "headless", o.Headless, cfg.Headless)
	fill(set, "width", o.Width, cfg.Width)
	fill(set, "height", o.Height, cfg.Height)
	fill(set, "fps", o.FPS, cfg.FPS)
	fill(set, "duration", o.Duration, cfg.Duration)
	fill(set, "output", o.OutputFile, cfg.OutputFile)
	fill(set, "ffmpeg", o.FFMPEGPath, cfg.FFMPEGPath)
	fill(set, "codec", o.Codec, cfg.Codec)
	fill(set, "shaders", o.ShaderDir, cfg.ShaderDir)
	fill(set, "assets", o.AssetDir, cfg.AssetDir)
	fill(set, "watch", o.Watch, cfg.Watch)
	fill(set, "translate", o.Translate, cfg.Translate)
	fill(set, "strict", o.Strict, cfg.Strict)
	fill(set, "infolog", o.InfoLogLimit, cfg.InfoLogLimit)
	return nil
}

func fill[T any](set map[string]bool, name string, dst, src *T) {
	if src != nil && !set[name] {
		*dst = *src
	}
}

// Validate checks value ranges.
func (o *LessonOptions) Validate() error {
	var errs []error
	switch *o.Mode {
	case ModeWindow, ModeRecord, ModeScreenshot:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", *o.Mode))
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height))
	}
	if *o.FPS <= 0 {
		errs = append(errs, errors.New("fps must be positive"))
	}
	if *o.Duration < 0 {
		errs = append(errs, errors.New("duration must not be negative"))
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		errs = append(errs, fmt.Errorf("unknown codec %q", *o.Codec))
	}
	if *o.Watch && *o.ShaderDir == "" {
		errs = append(errs, errors.New("-watch needs -shaders"))
	}
	return errors.Join(errs...)
}

// PrintDefaults writes the flag usage to the flag set's output.
func (o *LessonOptions) PrintDefaults() {
	o.flags.PrintDefaults()
}

// Frames is the number of frames a recording of Duration seconds holds.
func (o *LessonOptions) Frames() int {
	return int(*o.Duration * float64(*o.FPS))
}

// TOML encodes the effective options in the -config file format.
func (o *LessonOptions) TOML() ([]byte, error) {
	return toml.Marshal(fileConfig{
		Lesson:       o.Lesson,
		Mode:         o.Mode,
		Headless:     o.Headless,
		Width:        o.Width,
		Height:       o.Height,
		FPS:          o.FPS,
		Duration:     o.Duration,
		OutputFile:   o.OutputFile,
		FFMPEGPath:   o.FFMPEGPath,
		Codec:        o.Codec,
		ShaderDir:    o.ShaderDir,
		AssetDir:     o.AssetDir,
		Watch:        o.Watch,
		Translate:    o.Translate,
		Strict:       o.Strict,
		InfoLogLimit: o.InfoLogLimit,
	})
}
