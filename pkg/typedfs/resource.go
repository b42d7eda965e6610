package typedfs

import (
	"io/fs"
	"os"
	"path/filepath"

	"emperror.dev/errors"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// CreateFile creates the file at p, creating missing ancestors, and opens it
// for writing. What happens when something already occupies p is governed by
// ifExists; a directory at p always fails with core.ErrCodeIsDirectory.
func (f *FS) CreateFile(p fspath.FilePath, ifExists core.IfExists) (*EditableFile, error) {
	if err := f.prepare(p, ifExists); err != nil {
		return nil, err
	}
	return f.OpenEditableFile(p)
}

// CreateDirectory creates the directory at p, creating missing ancestors, and
// opens it. A file at p always fails with core.ErrCodeNotDirectory.
func (f *FS) CreateDirectory(p fspath.DirectoryPath, ifExists core.IfExists) (*Directory, error) {
	if err := f.prepare(p, ifExists); err != nil {
		return nil, err
	}
	return f.OpenEditableDirectory(p)
}

// OpenFile opens an existing file, or a link to one, for reading.
func (f *FS) OpenFile(p fspath.FilePath) (*File, error) {
	handle, err := f.openHandle(p, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	return &File{owner: f, path: p, handle: handle}, nil
}

// OpenEditableFile opens an existing file for reading and writing. The
// sandbox is checked even though nothing is created.
func (f *FS) OpenEditableFile(p fspath.FilePath) (*EditableFile, error) {
	if err := f.sandbox.VerifyResolved(p); err != nil {
		return nil, err
	}
	handle, err := f.openHandle(p, os.O_RDWR)
	if err != nil {
		return nil, err
	}
	return &EditableFile{File: &File{owner: f, path: p, handle: handle}}, nil
}

// OpenDirectory opens an existing directory, or a link to one.
func (f *FS) OpenDirectory(p fspath.DirectoryPath) (*Directory, error) {
	handle, err := f.openHandle(p, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	return &Directory{owner: f, path: p, handle: handle}, nil
}

// OpenEditableDirectory opens an existing directory the caller may modify.
func (f *FS) OpenEditableDirectory(p fspath.DirectoryPath) (*Directory, error) {
	if err := f.sandbox.VerifyResolved(p); err != nil {
		return nil, err
	}
	if err := f.checkOpenable(p); err != nil {
		return nil, err
	}
	abs := p.AbsoluteString()
	if err := f.fsys.CanWrite(abs); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, core.NewInvalidAccess(abs, false, err)
		}
		return nil, errors.Wrapf(err, "typedfs: access %s", abs)
	}
	return f.OpenDirectory(p)
}

// Delete removes whatever occupies p. Directories are removed with their
// contents; symlinks are removed, never followed. Removing the current
// directory, or a directory containing it, fails with
// core.ErrCodeDeleteWorkdir.
func (f *FS) Delete(p fspath.Path) error {
	t, err := f.checkDelete(p)
	if err != nil {
		return err
	}
	return f.remove(p, t)
}

// checkDelete runs the checks of Delete without touching the disk and
// returns what occupies p.
func (f *FS) checkDelete(p fspath.Path) (core.FileType, error) {
	abs := p.AbsoluteString()
	if err := f.verifyEntry(p); err != nil {
		return core.TypeNone, err
	}
	t, err := f.stat(p)
	if err != nil {
		return core.TypeNone, err
	}
	switch {
	case !t.Exists():
		return t, core.NewError(core.ErrCodeNotFound, abs, nil)
	case t.Kind == core.KindDirectory && !p.IsDirectory():
		return t, core.NewError(core.ErrCodeIsDirectory, abs, nil)
	case t.Kind == core.KindFile && p.IsDirectory():
		return t, core.NewError(core.ErrCodeNotDirectory, abs, nil)
	}
	return t, f.guardWorkdir(p, t)
}

// prepare runs the creation state machine for p. On success something of
// the right kind exists at p.
func (f *FS) prepare(p fspath.Path, ifExists core.IfExists) error {
	t, err := f.stat(p)
	if err != nil {
		return err
	}
	if !t.Exists() {
		return f.createFresh(p)
	}

	abs := p.AbsoluteString()
	if p.IsDirectory() && t.IsFile() {
		return core.NewError(core.ErrCodeNotDirectory, abs, nil)
	}
	if !p.IsDirectory() && t.IsDirectory() {
		return core.NewError(core.ErrCodeIsDirectory, abs, nil)
	}

	switch ifExists {
	case core.IfExistsOpen:
		return nil
	case core.IfExistsReplace:
		if err := f.verifyEntry(p); err != nil {
			return err
		}
		if err := f.remove(p, t); err != nil {
			return err
		}
		return f.createFresh(p)
	default:
		return core.NewError(core.ErrCodeAlreadyExists, abs, nil)
	}
}

func (f *FS) createFresh(p fspath.Path) error {
	if err := f.ensureParent(p); err != nil {
		return err
	}
	if err := f.sandbox.VerifyResolved(p); err != nil {
		return err
	}

	abs := p.AbsoluteString()
	var err error
	if p.IsDirectory() {
		err = f.fsys.CreateDirectory(abs, f.dirPerm)
	} else {
		err = f.fsys.CreateFile(abs, f.filePerm)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return core.NewError(core.ErrCodeAlreadyExists, abs, err)
		}
		return core.NewError(core.ErrCodeCouldNotCreate, abs, err)
	}

	if p.IsDirectory() {
		pathEvent(f.logger.Debug(), p).Msg("created directory")
	} else {
		pathEvent(f.logger.Debug(), p).Msg("created file")
	}
	return nil
}

// ensureParent creates the missing ancestors of p. Ancestors are always
// opened when they exist, and stay behind if a later step fails.
func (f *FS) ensureParent(p fspath.Path) error {
	parent := p.Parent().Absolute()
	if parent.IsRoot() {
		return nil
	}
	return f.prepare(parent, core.IfExistsOpen)
}

// remove deletes the entry at p, already classified as t. Every removal goes
// through here, so the working directory guard covers replaces as well as
// deletes.
func (f *FS) remove(p fspath.Path, t core.FileType) error {
	if err := f.guardWorkdir(p, t); err != nil {
		return err
	}
	abs := p.AbsoluteString()
	var err error
	if t.Kind == core.KindDirectory {
		err = f.fsys.RemoveAll(abs)
	} else {
		err = f.fsys.Remove(abs)
	}
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return core.NewInvalidAccess(abs, false, err)
		}
		return errors.Wrapf(err, "typedfs: remove %s", abs)
	}
	pathEvent(f.logger.Debug(), p).Stringer("type", t).Msg("removed")
	return nil
}

// verifyEntry checks an entry that is removed in place. The entry itself is
// never followed, so it is judged lexically; its directory is judged after
// resolving symlinks.
func (f *FS) verifyEntry(p fspath.Path) error {
	if err := f.sandbox.Verify(p); err != nil || !f.sandbox.Enabled() {
		return err
	}
	if p.AbsoluteString() == f.sandbox.Root().AbsoluteString() {
		return nil
	}
	return f.sandbox.VerifyResolved(p.Parent())
}

// checkOpenable fails unless an entry of p's kind can be opened at p.
func (f *FS) checkOpenable(p fspath.Path) error {
	t, err := f.stat(p)
	if err != nil {
		return err
	}
	abs := p.AbsoluteString()
	switch {
	case !t.Exists() || t.IsDangling():
		return core.NewError(core.ErrCodeNotFound, abs, nil)
	case p.IsDirectory() && !t.IsDirectory():
		return core.NewError(core.ErrCodeNotDirectory, abs, nil)
	case !p.IsDirectory() && t.IsDirectory():
		return core.NewError(core.ErrCodeIsDirectory, abs, nil)
	}
	return nil
}

func (f *FS) openHandle(p fspath.Path, flag int) (*os.File, error) {
	if err := f.checkOpenable(p); err != nil {
		return nil, err
	}
	abs := p.AbsoluteString()
	handle, err := f.fsys.OpenFile(abs, flag, 0)
	if err != nil {
		reading := flag&(os.O_WRONLY|os.O_RDWR) == 0
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, core.NewInvalidAccess(abs, reading, err)
		case errors.Is(err, fs.ErrNotExist):
			return nil, core.NewError(core.ErrCodeNotFound, abs, err)
		}
		return nil, errors.Wrapf(err, "typedfs: open %s", abs)
	}
	pathEvent(f.logger.Trace(), p).Int("flag", flag).Msg("opened")
	return handle, nil
}

// guardWorkdir refuses to remove a directory holding the working directory.
// Links are removed without following them, so they always pass.
func (f *FS) guardWorkdir(p fspath.Path, t core.FileType) error {
	if t.Kind != core.KindDirectory || !containsWorkdir(p, f.wd.Current()) {
		return nil
	}
	abs := p.AbsoluteString()
	f.logger.Error().Str("path", abs).Msg("refusing to delete the working directory")
	return core.NewError(core.ErrCodeDeleteWorkdir, abs, nil)
}

// containsWorkdir reports whether removing dir would remove cwd. Both are
// compared as written and with symlinks resolved, so a working directory
// reached through a link is still found.
func containsWorkdir(dir fspath.Path, cwd fspath.DirectoryPath) bool {
	if hasPrefix(cwd.AbsoluteSegments(), dir.AbsoluteSegments()) {
		return true
	}
	return hasPrefix(resolvedSegments(cwd), resolvedSegments(dir))
}

// resolvedSegments returns the components of p with symlinks evaluated, or
// the lexical components when p cannot be resolved.
func resolvedSegments(p fspath.Path) []string {
	target, err := filepath.EvalSymlinks(p.AbsoluteString())
	if err != nil {
		return p.AbsoluteSegments()
	}
	resolved, err := fspath.AbsoluteDirectory(filepath.ToSlash(target))
	if err != nil {
		return p.AbsoluteSegments()
	}
	return resolved.AbsoluteSegments()
}

func hasPrefix(segs, prefix []string) bool {
	if len(segs) < len(prefix) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}
