// Package filesystem is the boundary between typedfs and the host
// filesystem. Every name passed to it is an absolute, already normalized
// path; safety and typing live above this layer.
package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

// DirEntry is one child of a directory together with its classification.
type DirEntry struct {
	Name string
	Type core.FileType
}

// StatFS classifies and enumerates entries without modifying anything.
type StatFS interface {
	// Stat classifies the entry at name without following a final symlink.
	// A missing entry is core.TypeNone with a nil error.
	Stat(name string) (core.FileType, error)
	// Info returns the fs.FileInfo of name, following symlinks.
	Info(name string) (fs.FileInfo, error)
	// Readlink returns the destination stored in the symlink at name.
	Readlink(name string) (string, error)
	// ReadDir returns the children of name sorted by name.
	ReadDir(name string) ([]DirEntry, error)
	// CanWrite returns nil when the caller may modify name.
	CanWrite(name string) error
}

// WriteFS creates and removes entries.
type WriteFS interface {
	// CreateFile creates an empty file; it fails if anything exists at name.
	CreateFile(name string, perm fs.FileMode) error
	// CreateDirectory creates a single directory.
	CreateDirectory(name string, perm fs.FileMode) error
	// Remove removes a file, an empty directory or a symlink.
	Remove(name string) error
	// RemoveAll removes name and everything below it without following symlinks.
	RemoveAll(name string) error
	// Symlink creates newname pointing at oldname, stored verbatim.
	Symlink(oldname, newname string) error
}

// OpenFS opens OS handles.
type OpenFS interface {
	OpenFile(name string, flag int, perm fs.FileMode) (*os.File, error)
}

// FileSystem combines every host operation typedfs needs.
type FileSystem interface {
	StatFS
	WriteFS
	OpenFS
}
