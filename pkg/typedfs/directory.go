package typedfs

import (
	"os"

	"emperror.dev/errors"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// Directory is an open directory handle. Child paths built from it are
// relative to it and keep it as their base.
type Directory struct {
	owner  *FS
	path   fspath.DirectoryPath
	handle *os.File
	closed bool
}

// Path returns the path the directory was opened with.
func (d *Directory) Path() fspath.DirectoryPath {
	return d.path
}

// Close releases the handle. Closing twice is a no-op.
func (d *Directory) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.handle.Close()
}

// Delete removes the directory with its contents and closes the handle. A
// refused delete leaves the handle open.
func (d *Directory) Delete() error {
	t, err := d.owner.checkDelete(d.path)
	if err != nil {
		return err
	}
	if err := d.Close(); err != nil {
		return errors.Wrapf(err, "typedfs: close %s", d.path.AbsoluteString())
	}
	return d.owner.remove(d.path, t)
}

// File returns the path of the file rel below d. It fails when rel does not
// name a file, such as "" or "..".
func (d *Directory) File(rel string) (fspath.FilePath, error) {
	return fspath.ParseRelativeFile(rel, d.path)
}

// Subdirectory returns the path of the directory rel below d.
func (d *Directory) Subdirectory(rel string) fspath.DirectoryPath {
	return d.path.RelativeDirectory(rel)
}

// OpenFile opens the file rel below d for reading.
func (d *Directory) OpenFile(rel string) (*File, error) {
	p, err := d.File(rel)
	if err != nil {
		return nil, err
	}
	return d.owner.OpenFile(p)
}

// CreateFile creates the file rel below d, see FS.CreateFile.
func (d *Directory) CreateFile(rel string, ifExists core.IfExists) (*EditableFile, error) {
	p, err := d.File(rel)
	if err != nil {
		return nil, err
	}
	return d.owner.CreateFile(p, ifExists)
}

// OpenSubdirectory opens the directory rel below d.
func (d *Directory) OpenSubdirectory(rel string) (*Directory, error) {
	return d.owner.OpenDirectory(d.Subdirectory(rel))
}

// CreateSubdirectory creates the directory rel below d, see FS.CreateDirectory.
func (d *Directory) CreateSubdirectory(rel string, ifExists core.IfExists) (*Directory, error) {
	return d.owner.CreateDirectory(d.Subdirectory(rel), ifExists)
}

// CreateFileSymlink creates the link rel below d pointing at target.
func (d *Directory) CreateFileSymlink(rel string, target *File, ifExists core.IfExists) (*File, error) {
	p, err := d.File(rel)
	if err != nil {
		return nil, err
	}
	return d.owner.CreateFileSymlink(p, target, ifExists)
}

// CreateDirectorySymlink creates the link rel below d pointing at target.
func (d *Directory) CreateDirectorySymlink(rel string, target *Directory, ifExists core.IfExists) (*Directory, error) {
	return d.owner.CreateDirectorySymlink(d.Subdirectory(rel), target, ifExists)
}
