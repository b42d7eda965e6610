package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/karrick/godirwalk"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

// OSFileSystem implements FileSystem using the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS-based filesystem
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat implements StatFS
func (osfs *OSFileSystem) Stat(name string) (core.FileType, error) {
	info, err := os.Lstat(name)
	if err != nil {
		if isMissing(err) {
			return core.TypeNone, nil
		}
		return core.TypeNone, err
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return classify(info), nil
	}

	target, err := os.Stat(name)
	if err != nil {
		// Dangling links and link loops both resolve to nothing.
		if isMissing(err) || errors.Is(err, syscall.ELOOP) {
			return core.SymlinkTo(core.KindNone), nil
		}
		return core.TypeNone, err
	}
	return core.SymlinkTo(classify(target).Kind), nil
}

// Info implements StatFS
func (osfs *OSFileSystem) Info(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Readlink implements StatFS
func (osfs *OSFileSystem) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

// ReadDir implements StatFS
func (osfs *OSFileSystem) ReadDir(name string) ([]DirEntry, error) {
	dirents, err := godirwalk.ReadDirents(name, nil)
	if err != nil {
		return nil, err
	}
	sort.Sort(dirents)

	entries := make([]DirEntry, 0, len(dirents))
	for _, de := range dirents {
		var typ core.FileType
		switch {
		case de.IsSymlink():
			typ, err = osfs.Stat(filepath.Join(name, de.Name()))
			if err != nil {
				return nil, err
			}
		case de.IsDir():
			typ = core.TypeDirectory
		default:
			typ = core.TypeFile
		}
		entries = append(entries, DirEntry{Name: de.Name(), Type: typ})
	}
	return entries, nil
}

// CreateFile implements WriteFS
func (osfs *OSFileSystem) CreateFile(name string, perm fs.FileMode) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	return f.Close()
}

// CreateDirectory implements WriteFS
func (osfs *OSFileSystem) CreateDirectory(name string, perm fs.FileMode) error {
	return os.Mkdir(name, perm)
}

// Remove implements WriteFS
func (osfs *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll implements WriteFS
func (osfs *OSFileSystem) RemoveAll(name string) error {
	return os.RemoveAll(name)
}

// Symlink implements WriteFS
func (osfs *OSFileSystem) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

// OpenFile implements OpenFS
func (osfs *OSFileSystem) OpenFile(name string, flag int, perm fs.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

func classify(info fs.FileInfo) core.FileType {
	if info.IsDir() {
		return core.TypeDirectory
	}
	return core.TypeFile
}

// isMissing reports errors meaning "nothing there", including a path that
// runs through a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
