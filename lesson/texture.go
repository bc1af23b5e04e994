package lesson

import (
	"github.com/go-gl/mathgl/mgl32"

	graphics "github.com/richinsley/learngl/graphics"
	"github.com/richinsley/learngl/mesh"
	"github.com/richinsley/learngl/shader"
	"github.com/richinsley/learngl/texture"
)

func init() {
	Register("texture", func() Lesson { return &Textured{MixValue: 0.2} })
	Register("transform", func() Lesson { return &Transform{Textured: Textured{MixValue: 0.2}} })
}

const (
	containerTexture = "textures/container.jpg"
	faceTexture      = "textures/awesomeface.png"
)

// Textured draws a quad mixing two textures.
type Textured struct {
	env      *Env
	program  *shader.Program
	mesh     *mesh.Mesh
	textures [2]*texture.Texture
	// MixValue is the weight of the second texture.
	MixValue float32
}

func (l *Textured) ShaderFiles() []string { return []string{"texture.vs", "texture.fs"} }

func (l *Textured) Setup(env *Env) error {
	return l.setup(env, mesh.Rectangle(), "texture.vs", "texture.fs")
}

func (l *Textured) setup(env *Env, data mesh.Data, vertexPath, fragmentPath string) error {
	l.env = env
	var err error
	if l.mesh, err = mesh.Upload(env.GL, data); err != nil {
		return err
	}
	for i, path := range []string{containerTexture, faceTexture} {
		l.textures[i], err = texture.LoadOrDefault(env.GL, env.Assets, path, texture.DefaultOptions(), env.logger())
		if err != nil {
			return err
		}
	}
	l.program, err = env.Program(vertexPath, fragmentPath)
	if err != nil {
		return err
	}
	// samplers only need their units set once
	l.program.Use()
	l.program.SetInt("texture1", 0)
	l.program.SetInt("texture2", 1)
	return nil
}

func (l *Textured) bind() {
	l.textures[0].Bind(0)
	l.textures[1].Bind(1)
	l.program.Use()
	l.program.SetFloat("mixValue", l.MixValue)
}

func (l *Textured) Draw(t float64) {
	clearFrame(l.env.GL, graphics.ColorBufferBit)
	l.bind()
	l.mesh.Draw()
}

func (l *Textured) Teardown() {
	if l.program != nil {
		l.program.Delete()
	}
	for _, tex := range l.textures {
		if tex != nil {
			tex.Delete()
		}
	}
	if l.mesh != nil {
		l.mesh.Delete()
	}
}

// Transform spins the textured quad in the bottom right corner.
type Transform struct {
	Textured
}

func (l *Transform) ShaderFiles() []string { return []string{"transform.vs", "texture.fs"} }

func (l *Transform) Setup(env *Env) error {
	return l.setup(env, mesh.TexturedQuad(), "transform.vs", "texture.fs")
}

// TransformAt is the quad's transform at time t.
func TransformAt(t float64) mgl32.Mat4 {
	return mgl32.Translate3D(0.5, -0.5, 0).Mul4(mgl32.HomogRotate3DZ(float32(t)))
}

func (l *Transform) Draw(t float64) {
	clearFrame(l.env.GL, graphics.ColorBufferBit)
	l.bind()
	l.program.SetMat4("transform", TransformAt(t))
	l.mesh.Draw()
}
