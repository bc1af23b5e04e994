package shader

import (
	"errors"
	"fmt"
)

// Stage names the part of a program a diagnostic refers to.
type Stage string

const (
	StageVertex   Stage = "VERTEX"
	StageFragment Stage = "FRAGMENT"
	StageProgram  Stage = "PROGRAM"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrFileRead = errors.New("FILE_NOT_SUCCESSFULLY_READ")
	ErrCompile  = errors.New("COMPILATION_FAILED")
	ErrLink     = errors.New("LINKING_FAILED")
)

// Error describes one failed step of building a program.
type Error struct {
	Stage Stage
	Kind  error  // ErrFileRead, ErrCompile or ErrLink
	Path  string // source file, when known
	Log   string // driver info log, possibly truncated
	Err   error  // underlying cause for read failures
}

// Tag is the fixed diagnostic prefix, e.g. ERROR::SHADER::VERTEX::COMPILATION_FAILED.
func (e *Error) Tag() string {
	return fmt.Sprintf("ERROR::SHADER::%s::%s", e.Stage, e.Kind)
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Tag(), e.Err)
	case e.Path != "" && e.Log != "":
		return fmt.Sprintf("%s: %s\n%s", e.Tag(), e.Path, e.Log)
	case e.Log != "":
		return e.Tag() + "\n" + e.Log
	}
	return e.Tag()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}
