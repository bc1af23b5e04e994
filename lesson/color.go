package lesson

import (
	"math"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/mesh"
	"github.com/richinsley/learngl/shader"
)

func init() {
	Register("triangle", func() Lesson { return &Triangle{} })
	Register("rectangle", func() Lesson { return &Rectangle{} })
}

// Triangle draws one triangle with a colour per vertex.
type Triangle struct {
	env     *Env
	program *shader.Program
	mesh    *mesh.Mesh
}

func (l *Triangle) ShaderFiles() []string { return []string{"color.vs", "color.fs"} }

func (l *Triangle) Setup(env *Env) error {
	l.env = env
	var err error
	if l.mesh, err = mesh.Upload(env.GL, mesh.Triangle()); err != nil {
		return err
	}
	l.program, err = env.Program("color.vs", "color.fs")
	return err
}

func (l *Triangle) Draw(t float64) {
	clearFrame(l.env.GL, graphics.ColorBufferBit)
	l.program.Use()
	l.mesh.Draw()
}

func (l *Triangle) Teardown() {
	if l.program != nil {
		l.program.Delete()
	}
	if l.mesh != nil {
		l.mesh.Delete()
	}
}

// Rectangle draws an indexed quad whose colour pulses over time.
type Rectangle struct {
	Triangle
	// UseVertexColor blends the vertex colours instead of a flat green.
	UseVertexColor bool
}

func (l *Rectangle) ShaderFiles() []string { return []string{"color.vs", "rectangle.fs"} }

func (l *Rectangle) Setup(env *Env) error {
	l.env = env
	l.UseVertexColor = true
	var err error
	if l.mesh, err = mesh.Upload(env.GL, mesh.Rectangle()); err != nil {
		return err
	}
	l.program, err = env.Program("color.vs", "rectangle.fs")
	return err
}

func (l *Rectangle) Draw(t float64) {
	clearFrame(l.env.GL, graphics.ColorBufferBit)
	l.program.Use()
	l.program.SetBool("useVertexColor", l.UseVertexColor)
	l.program.SetFloat("pulse", Pulse(t))
	l.mesh.Draw()
}

// Pulse oscillates between 0 and 1 once every 2π seconds.
func Pulse(t float64) float32 {
	return float32(math.Sin(t)/2 + 0.5)
}
