//go:build !linux

package headless

import (
	"fmt"

	graphics "github.com/richinsley/learngl/graphics"
)

// Context is unavailable off linux.
type Context struct{ graphics.Context }

func New(width, height int) (*Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
