package typedfs

import (
	"io/fs"

	"emperror.dev/errors"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// CreateFileSymlink creates newlink pointing at target and opens it as a
// file. The destination is stored as target.Path().String(), so a relative
// target produces a relative link.
func (f *FS) CreateFileSymlink(newlink fspath.FilePath, target *File, ifExists core.IfExists) (*File, error) {
	if target == nil {
		return nil, errors.New("typedfs: nil symlink target")
	}
	if err := f.link(newlink, target.Path(), ifExists); err != nil {
		return nil, err
	}
	return f.OpenFile(newlink)
}

// CreateDirectorySymlink creates newlink pointing at target and opens it as
// a directory.
func (f *FS) CreateDirectorySymlink(newlink fspath.DirectoryPath, target *Directory, ifExists core.IfExists) (*Directory, error) {
	if target == nil {
		return nil, errors.New("typedfs: nil symlink target")
	}
	if err := f.link(newlink, target.Path(), ifExists); err != nil {
		return nil, err
	}
	return f.OpenDirectory(newlink)
}

// ReadSymlink returns the destination stored in the link at p, unresolved.
func (f *FS) ReadSymlink(p fspath.Path) (string, error) {
	abs := p.AbsoluteString()
	t, err := f.stat(p)
	if err != nil {
		return "", err
	}
	if !t.Exists() {
		return "", core.NewError(core.ErrCodeNotFound, abs, nil)
	}
	if !t.IsSymlink() {
		return "", core.NewError(core.ErrCodeNotSymlink, abs, nil)
	}
	dest, err := f.fsys.Readlink(abs)
	if err != nil {
		return "", errors.Wrapf(err, "typedfs: readlink %s", abs)
	}
	return dest, nil
}

func (f *FS) link(newlink, target fspath.Path, ifExists core.IfExists) error {
	t, err := f.stat(newlink)
	if err != nil {
		return err
	}
	if !t.Exists() {
		return f.createLink(newlink, target)
	}
	if err := linkConflict(newlink, t); err != nil {
		return err
	}

	switch ifExists {
	case core.IfExistsOpen:
		return f.checkLinkTarget(newlink, target)
	case core.IfExistsReplace:
		if err := f.verifyEntry(newlink); err != nil {
			return err
		}
		if err := f.remove(newlink, t); err != nil {
			return err
		}
		return f.createLink(newlink, target)
	default:
		return core.NewError(core.ErrCodeAlreadyExists, newlink.AbsoluteString(), nil)
	}
}

func (f *FS) createLink(newlink, target fspath.Path) error {
	if err := f.ensureParent(newlink); err != nil {
		return err
	}
	if err := f.sandbox.VerifyResolved(newlink); err != nil {
		return err
	}

	abs := newlink.AbsoluteString()
	dest := target.String()
	if err := f.fsys.Symlink(dest, abs); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return core.NewError(core.ErrCodeAlreadyExists, abs, err)
		}
		return core.NewError(core.ErrCodeCouldNotCreate, abs, err)
	}
	pathEvent(f.logger.Debug(), newlink).Str("target", dest).Msg("created symlink")
	return nil
}

// checkLinkTarget fails with an invalid access error unless the existing link
// at newlink resolves to target. Relative destinations are resolved against
// the link's own directory.
func (f *FS) checkLinkTarget(newlink, target fspath.Path) error {
	abs := newlink.AbsoluteString()
	dest, err := f.fsys.Readlink(abs)
	if err != nil {
		return errors.Wrapf(err, "typedfs: readlink %s", abs)
	}
	resolved, err := fspath.ParseDirectory(dest, fspath.NewVirtualWorkdir(newlink.Parent().Absolute()))
	if err != nil {
		return errors.Wrapf(err, "typedfs: invalid link destination %q", dest)
	}
	if resolved.AbsoluteString() != target.AbsoluteString() {
		f.logger.Debug().
			Str("path", abs).
			Str("existing", resolved.AbsoluteString()).
			Str("requested", target.AbsoluteString()).
			Msg("symlink points elsewhere")
		return core.NewInvalidAccess(abs, false, nil)
	}
	return nil
}

// linkConflict rejects an existing entry that is not a link of newlink's kind.
// Dangling links are accepted for either kind.
func linkConflict(newlink fspath.Path, t core.FileType) error {
	abs := newlink.AbsoluteString()
	switch {
	case !newlink.IsDirectory() && t.IsDirectory():
		return core.NewError(core.ErrCodeIsDirectory, abs, nil)
	case newlink.IsDirectory() && t.IsFile():
		return core.NewError(core.ErrCodeNotDirectory, abs, nil)
	case !t.IsSymlink():
		return core.NewError(core.ErrCodeNotSymlink, abs, nil)
	}
	return nil
}
