package fspath

import (
	"os"
)

// Workdir supplies the ambient current directory that relative paths resolve
// against. Implementations are not synchronized.
type Workdir interface {
	// Current returns the absolute current directory.
	Current() DirectoryPath
	// Change makes dir the current directory.
	Change(dir DirectoryPath) error
}

// OSWorkdir is the process working directory. Changing it affects the whole process.
type OSWorkdir struct{}

// Current returns the process working directory. When the working directory
// cannot be determined (for example it was removed) $PWD is used, then the root.
func (OSWorkdir) Current() DirectoryPath {
	wd, err := os.Getwd()
	if err != nil {
		wd = os.Getenv("PWD")
	}
	if len(wd) == 0 || wd[0] != '/' {
		return Root()
	}
	return DirectoryPath{location{segments: normalize(split(wd), true)}}
}

// Change calls os.Chdir.
func (OSWorkdir) Change(dir DirectoryPath) error {
	return os.Chdir(dir.AbsoluteString())
}

// VirtualWorkdir is an in-memory current directory, for callers that must not
// mutate process state (tests, embedded use).
type VirtualWorkdir struct {
	dir DirectoryPath
}

// NewVirtualWorkdir returns a Workdir whose current directory starts at dir.
func NewVirtualWorkdir(dir DirectoryPath) *VirtualWorkdir {
	return &VirtualWorkdir{dir: dir.Absolute()}
}

// Current returns the current directory.
func (w *VirtualWorkdir) Current() DirectoryPath {
	return w.dir
}

// Change sets the current directory. The directory is not checked for existence.
func (w *VirtualWorkdir) Change(dir DirectoryPath) error {
	w.dir = dir.Absolute()
	return nil
}
