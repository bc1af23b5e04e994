package lesson

import (
	"github.com/go-gl/mathgl/mgl32"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/mesh"
)

func init() {
	Register("cube", func() Lesson { return &Cubes{Textured: Textured{MixValue: 0.2}, FOV: 45} })
}

// CubePositions places the ten cubes in world space.
var CubePositions = []mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}

// Cubes draws textured cubes with a perspective camera and depth testing.
type Cubes struct {
	Textured
	// FOV is the vertical field of view in degrees.
	FOV float32
}

func (l *Cubes) ShaderFiles() []string { return []string{"cube.vs", "texture.fs"} }

func (l *Cubes) Setup(env *Env) error {
	env.GL.Enable(graphics.DepthTest)
	return l.setup(env, mesh.Cube(), "cube.vs", "texture.fs")
}

// Model is the model matrix of cube i at time t. Every third cube spins.
func Model(i int, t float64) mgl32.Mat4 {
	angle := mgl32.DegToRad(20 * float32(i))
	if i%3 == 0 {
		angle += float32(t) * mgl32.DegToRad(50)
	}
	axis := mgl32.Vec3{1.0, 0.3, 0.5}.Normalize()
	return mgl32.Translate3D(CubePositions[i].Elem()).Mul4(mgl32.HomogRotate3D(angle, axis))
}

func (l *Cubes) Draw(t float64) {
	// a lesson torn down after this one was set up may have disabled it
	l.env.GL.Enable(graphics.DepthTest)
	clearFrame(l.env.GL, graphics.ColorBufferBit|graphics.DepthBufferBit)
	l.bind()
	view := mgl32.Translate3D(0, 0, -3)
	projection := mgl32.Perspective(mgl32.DegToRad(l.FOV), l.env.Aspect(), 0.1, 100)
	l.program.SetMat4("view", view)
	l.program.SetMat4("projection", projection)
	for i := range CubePositions {
		l.program.SetMat4("model", Model(i, t))
		l.mesh.Draw()
	}
}

func (l *Cubes) Teardown() {
	if l.env != nil {
		l.env.GL.Disable(graphics.DepthTest)
	}
	l.Textured.Teardown()
}
