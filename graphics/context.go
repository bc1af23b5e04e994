package graphics

// Context defines the interface for a window or surface that owns an OpenGL
// context. All methods must be called from the thread that created it.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}
