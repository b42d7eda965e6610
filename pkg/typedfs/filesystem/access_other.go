//go:build !unix

package filesystem

import (
	"io/fs"
	"os"
)

// CanWrite implements StatFS by inspecting the owner write bit.
func (osfs *OSFileSystem) CanWrite(name string) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o200 == 0 {
		return &fs.PathError{Op: "access", Path: name, Err: fs.ErrPermission}
	}
	return nil
}
