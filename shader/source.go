package shader

import (
	"errors"
	"io/fs"
	"os"
)

// Source is the text of the two stages of a program.
type Source struct {
	Vertex   string
	Fragment string
}

// osFS resolves paths against the process working directory, like os.ReadFile.
// Unlike os.DirFS it accepts absolute and parent-relative paths.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Load reads both stage sources from fsys. Both files are attempted; the
// returned error joins one *Error per file that could not be read.
func Load(fsys fs.FS, vertexPath, fragmentPath string) (Source, error) {
	if fsys == nil {
		fsys = osFS{}
	}
	var src Source
	var errs []error

	vertex, err := fs.ReadFile(fsys, vertexPath)
	if err != nil {
		errs = append(errs, &Error{Stage: StageVertex, Kind: ErrFileRead, Path: vertexPath, Err: err})
	}
	fragment, err := fs.ReadFile(fsys, fragmentPath)
	if err != nil {
		errs = append(errs, &Error{Stage: StageFragment, Kind: ErrFileRead, Path: fragmentPath, Err: err})
	}
	if len(errs) > 0 {
		return src, errors.Join(errs...)
	}

	src.Vertex = string(vertex)
	src.Fragment = string(fragment)
	return src, nil
}
