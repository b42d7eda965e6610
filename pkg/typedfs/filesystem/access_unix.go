//go:build unix

package filesystem

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// CanWrite implements StatFS using access(2), so the answer reflects the
// caller's effective permissions rather than the mode bits alone.
func (osfs *OSFileSystem) CanWrite(name string) error {
	if err := unix.Access(name, unix.W_OK); err != nil {
		return &fs.PathError{Op: "access", Path: name, Err: err}
	}
	return nil
}
