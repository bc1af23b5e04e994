// Package shader builds linked GPU programs from a vertex and a fragment
// source and pushes uniform values into them.
//
// Construction never stops the process: every failure is written to the
// logger with an ERROR::SHADER::<stage>::<kind> tag and also returned, so a
// caller can either carry on with a broken program, as the tutorials do, or
// treat the error as fatal.
package shader

import (
	"errors"
	"io/fs"
	"log"

	graphics "github.com/richinsley/learngl/graphics"
)

// DefaultInfoLogLimit is the size of the buffer used to fetch info logs,
// including the terminator.
const DefaultInfoLogLimit = 512

// State is the lifecycle state of a Program.
type State int

const (
	// Uninitialized is the zero State, before construction has run.
	Uninitialized State = iota
	// Usable programs linked and can be made current.
	Usable
	// Broken programs failed to read, compile or link.
	Broken
	// Deleted programs have released their GL object.
	Deleted
)

func (s State) String() string {
	switch s {
	case Usable:
		return "usable"
	case Broken:
		return "broken"
	case Deleted:
		return "deleted"
	}
	return "uninitialized"
}

// Translator rewrites stage source into the dialect the driver accepts and
// reports how uniform names were renamed along the way.
type Translator interface {
	Translate(source string, stage graphics.Enum) (code string, uniforms map[string]string, err error)
}

type options struct {
	fsys       fs.FS
	logger     *log.Logger
	translator Translator
	logLimit   int32
	cache      bool
}

// Option configures program construction.
type Option func(*options)

// WithFS resolves source paths against fsys instead of the working directory.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.fsys = fsys }
}

// WithLogger sends diagnostics to logger instead of log.Default(). A nil
// logger keeps the default.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTranslator passes both sources through t before compiling them.
func WithTranslator(t Translator) Option {
	return func(o *options) { o.translator = t }
}

// WithInfoLogLimit sets the info log buffer size. Longer logs are truncated.
func WithInfoLogLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.logLimit = int32(n)
		}
	}
}

// WithoutLocationCache makes every uniform push look its location up again.
func WithoutLocationCache() Option {
	return func(o *options) { o.cache = false }
}

func newOptions(opts []Option) *options {
	o := &options{
		fsys:     osFS{},
		logger:   log.Default(),
		logLimit: DefaultInfoLogLimit,
		cache:    true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Program is a linked shader program on one GL context.
type Program struct {
	// ID is the program object name. It is zero when nothing was created.
	ID uint32

	gl        graphics.GL
	state     State
	logger    *log.Logger
	locations map[string]int32
	names     map[string]string
}

// New reads the two source files and builds a program from them.
//
// The returned Program is never nil. When err is nil the program is Usable;
// otherwise it is Broken and err joins one *Error per failed step. A read
// failure stops before any GL object is created.
func New(gl graphics.GL, vertexPath, fragmentPath string, opts ...Option) (*Program, error) {
	o := newOptions(opts)
	src, err := Load(o.fsys, vertexPath, fragmentPath)
	if err != nil {
		p := &Program{gl: gl, state: Broken, logger: o.logger}
		p.report(err)
		return p, err
	}
	return build(gl, src, o)
}

// NewFromSource builds a program from in-memory stage sources.
func NewFromSource(gl graphics.GL, src Source, opts ...Option) (*Program, error) {
	return build(gl, src, newOptions(opts))
}

func build(gl graphics.GL, src Source, o *options) (*Program, error) {
	p := &Program{gl: gl, logger: o.logger}
	if o.cache {
		p.locations = make(map[string]int32)
	}

	var errs []error
	var stages []uint32
	// stages live only until the link attempt is over, whatever its outcome
	defer func() {
		for _, s := range stages {
			if p.ID != 0 {
				gl.DetachShader(p.ID, s)
			}
			gl.DeleteShader(s)
		}
	}()

	for _, st := range []struct {
		stage  Stage
		xtype  graphics.Enum
		source string
	}{
		{StageVertex, graphics.VertexShader, src.Vertex},
		{StageFragment, graphics.FragmentShader, src.Fragment},
	} {
		code := st.source
		if o.translator != nil {
			translated, names, err := o.translator.Translate(code, st.xtype)
			if err != nil {
				errs = append(errs, p.report(&Error{Stage: st.stage, Kind: ErrCompile, Log: err.Error()}))
				continue
			}
			code = translated
			p.mergeNames(names)
		}
		shader, err := compileStage(gl, st.stage, st.xtype, code, o.logLimit)
		if shader != 0 {
			stages = append(stages, shader)
		}
		if err != nil {
			errs = append(errs, p.report(err))
		}
	}

	p.ID = gl.CreateProgram()
	if p.ID == 0 {
		errs = append(errs, p.report(&Error{Stage: StageProgram, Kind: ErrLink, Log: "failed to create program object"}))
		p.state = Broken
		return p, errors.Join(errs...)
	}
	for _, s := range stages {
		gl.AttachShader(p.ID, s)
	}
	gl.LinkProgram(p.ID)
	if gl.GetProgramiv(p.ID, graphics.LinkStatus) == graphics.False {
		size := min(gl.GetProgramiv(p.ID, graphics.InfoLogLength), o.logLimit)
		errs = append(errs, p.report(&Error{Stage: StageProgram, Kind: ErrLink, Log: gl.GetProgramInfoLog(p.ID, size)}))
	}

	if len(errs) > 0 {
		p.state = Broken
		return p, errors.Join(errs...)
	}
	p.state = Usable
	return p, nil
}

func compileStage(gl graphics.GL, stage Stage, xtype graphics.Enum, source string, logLimit int32) (uint32, error) {
	shader := gl.CreateShader(xtype)
	if shader == 0 {
		return 0, &Error{Stage: stage, Kind: ErrCompile, Log: "failed to create shader object"}
	}
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)
	if gl.GetShaderiv(shader, graphics.CompileStatus) == graphics.False {
		size := min(gl.GetShaderiv(shader, graphics.InfoLogLength), logLimit)
		return shader, &Error{Stage: stage, Kind: ErrCompile, Log: gl.GetShaderInfoLog(shader, size)}
	}
	return shader, nil
}

// report writes err to the diagnostic log, one line group per *Error.
func (p *Program) report(err error) error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			p.report(e)
		}
		return err
	}
	p.logger.Print(err.Error())
	return err
}

func (p *Program) mergeNames(names map[string]string) {
	if len(names) == 0 {
		return
	}
	if p.names == nil {
		p.names = make(map[string]string, len(names))
	}
	for k, v := range names {
		p.names[k] = v
	}
}

// State returns the lifecycle state.
func (p *Program) State() State {
	return p.state
}

// Usable reports whether the program linked and has not been deleted.
func (p *Program) Usable() bool {
	return p.state == Usable
}

// Use makes the program current. It does nothing if the program is not
// usable or is already current.
func (p *Program) Use() {
	if p.state != Usable {
		return
	}
	if uint32(p.gl.GetIntegerv(graphics.CurrentProgram)) == p.ID {
		return
	}
	p.gl.UseProgram(p.ID)
}

// Delete releases the program object, unbinding it first if it is current.
// Calling it again is a no-op.
func (p *Program) Delete() {
	if p.state == Deleted {
		return
	}
	if p.ID != 0 {
		if uint32(p.gl.GetIntegerv(graphics.CurrentProgram)) == p.ID {
			p.gl.UseProgram(0)
		}
		p.gl.DeleteProgram(p.ID)
	}
	p.ID = 0
	p.locations = nil
	p.state = Deleted
}
