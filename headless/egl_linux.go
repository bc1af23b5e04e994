//go:build linux

// Package headless provides a graphics.Context backed by an EGL pbuffer, for
// recording and screenshots on machines without a display.
package headless

import (
	"fmt"
	"log"
	"time"
	"unsafe"

	"github.com/richinsley/learngl/glbackend"
	graphics "github.com/richinsley/learngl/graphics"
)

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC queryDevicesEXT = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC getPlatformDisplayEXT = NULL;

static void load_extensions() {
    queryDevicesEXT = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    getPlatformDisplayEXT = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay platform_display(EGLenum platform, void *native_display) {
    if (getPlatformDisplayEXT) {
        return getPlatformDisplayEXT(platform, native_display, NULL);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (queryDevicesEXT) {
        return queryDevicesEXT(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// Context is an off-screen OpenGL 4.1 core context. It never asks to close;
// callers decide how many frames to render.
type Context struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface
	width   int
	height  int
	start   time.Time
}

var _ graphics.Context = (*Context)(nil)

// display picks the first GPU found by device enumeration, falling back to
// the default display.
func display() (C.EGLDisplay, error) {
	C.load_extensions()

	var count C.EGLint
	if C.query_devices(0, nil, &count) == C.EGL_FALSE || count == 0 {
		log.Println("Warning: EGL device enumeration unavailable. Falling back to EGL_DEFAULT_DISPLAY.")
		d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if d == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return d, fmt.Errorf("eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return d, nil
	}

	devices := make([]C.EGLDeviceEXT, count)
	if C.query_devices(count, &devices[0], &count) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}
	for i := 0; i < int(count); i++ {
		d := C.platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]))
		if d != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Using EGL device %d of %d.", i, count)
			return d, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("no EGL device provided a display")
}

// New creates a width x height pbuffer with a current OpenGL 4.1 core
// context and loads the GL function pointers.
func New(width, height int) (*Context, error) {
	c := &Context{width: width, height: height}

	var err error
	if c.display, err = display(); err != nil {
		return nil, fmt.Errorf("failed to get EGL display: %w", err)
	}

	var major, minor C.EGLint
	if C.eglInitialize(c.display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to initialize EGL")
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)

	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		c.Shutdown()
		return nil, fmt.Errorf("EGL does not support desktop OpenGL")
	}

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(c.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		c.Shutdown()
		return nil, fmt.Errorf("failed to choose EGL config")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	c.surface = C.eglCreatePbufferSurface(c.display, config, &pbufferAttribs[0])
	if c.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		c.Shutdown()
		return nil, fmt.Errorf("failed to create pbuffer surface")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
		C.EGL_NONE,
	}
	c.context = C.eglCreateContext(c.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if c.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		c.Shutdown()
		return nil, fmt.Errorf("failed to create OpenGL 4.1 core context")
	}

	c.MakeCurrent()
	if err := glbackend.Init(); err != nil {
		c.Shutdown()
		return nil, err
	}
	log.Printf("Headless OpenGL %s", glbackend.Version())
	c.start = time.Now()
	return c, nil
}

func (c *Context) MakeCurrent() {
	C.eglMakeCurrent(c.display, c.surface, c.surface, c.context)
}

func (c *Context) Shutdown() {
	if c.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(c.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if c.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(c.display, c.context)
	}
	if c.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(c.display, c.surface)
	}
	C.eglTerminate(c.display)
	c.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

func (c *Context) ShouldClose() bool {
	return false
}

func (c *Context) EndFrame() {
	C.eglSwapBuffers(c.display, c.surface)
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.width, c.height
}

func (c *Context) Time() float64 {
	return time.Since(c.start).Seconds()
}
