package typedfs

import (
	"io/fs"
	"os"
	"path"
	"sort"

	"emperror.dev/errors"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// Files returns the files below d whose relative path matches pattern. An
// empty pattern matches everything. Links to files count as files; when
// recursive is set, links to directories are descended into. Results are
// relative to d and sorted.
func (d *Directory) Files(pattern string, recursive bool) ([]fspath.FilePath, error) {
	entries, err := d.list(pattern, recursive)
	if err != nil {
		return nil, err
	}
	files := make([]fspath.FilePath, 0, len(entries))
	for _, e := range entries {
		if e.typ.IsFile() {
			files = append(files, d.path.RelativeFile(e.rel))
		}
	}
	return files, nil
}

// Directories is Files for directories and links to directories.
func (d *Directory) Directories(pattern string, recursive bool) ([]fspath.DirectoryPath, error) {
	entries, err := d.list(pattern, recursive)
	if err != nil {
		return nil, err
	}
	dirs := make([]fspath.DirectoryPath, 0, len(entries))
	for _, e := range entries {
		if e.typ.IsDirectory() {
			dirs = append(dirs, d.path.RelativeDirectory(e.rel))
		}
	}
	return dirs, nil
}

// Contains reports whether anything occupies rel below d. An empty rel, or
// one resolving to d itself or above it, is never contained.
func (d *Directory) Contains(rel string) bool {
	return d.VerifyContains(rel) == nil
}

// VerifyContains is Contains failing with core.ErrCodeNotFound.
func (d *Directory) VerifyContains(rel string) error {
	p, err := fspath.ParseRelativeFile(rel, d.path)
	if err != nil {
		return core.NewError(core.ErrCodeNotFound, d.path.AbsoluteString(), err)
	}
	if !d.path.IsAParentOf(p) {
		return core.NewError(core.ErrCodeNotFound, p.AbsoluteString(), nil)
	}
	if !d.owner.Exists(p) {
		return core.NewError(core.ErrCodeNotFound, p.AbsoluteString(), nil)
	}
	return nil
}

type listEntry struct {
	rel string
	typ core.FileType
}

type walker struct {
	owner     *FS
	pattern   string
	recursive bool
	found     []listEntry
}

func (d *Directory) list(pattern string, recursive bool) ([]listEntry, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("typedfs: invalid glob pattern %q", pattern)
	}
	abs := d.path.AbsoluteString()
	info, err := d.owner.fsys.Info(abs)
	if err != nil {
		return nil, readError(abs, err)
	}

	w := &walker{owner: d.owner, pattern: pattern, recursive: recursive}
	if err := w.walk(abs, "", []fs.FileInfo{info}); err != nil {
		return nil, err
	}
	sort.Slice(w.found, func(i, j int) bool {
		return w.found[i].rel < w.found[j].rel
	})
	d.owner.logger.Trace().Str("path", abs).Str("pattern", pattern).Bool("recursive", recursive).
		Int("entries", len(w.found)).Msg("listed directory")
	return w.found, nil
}

// walk lists dir, whose path relative to the listing root is rel. ancestors
// holds the identity of every directory on the current descent, dir included.
func (w *walker) walk(dir, rel string, ancestors []fs.FileInfo) error {
	entries, err := w.owner.fsys.ReadDir(dir)
	if err != nil {
		return readError(dir, err)
	}

	for _, e := range entries {
		childRel := path.Join(rel, e.Name)
		if w.match(childRel) && (e.Type.IsFile() || e.Type.IsDirectory()) {
			w.found = append(w.found, listEntry{rel: childRel, typ: e.Type})
		}
		if !w.recursive || !e.Type.IsDirectory() {
			continue
		}

		childAbs := path.Join(dir, e.Name)
		info, err := w.owner.fsys.Info(childAbs)
		if err != nil {
			return errors.Wrapf(err, "typedfs: stat %s", childAbs)
		}
		if onStack(info, ancestors) {
			w.owner.logger.Debug().Str("path", childAbs).Msg("directory cycle, not descending")
			continue
		}
		if err := w.walk(childAbs, childRel, append(ancestors[:len(ancestors):len(ancestors)], info)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) match(rel string) bool {
	if w.pattern == "" {
		return true
	}
	ok, err := doublestar.Match(w.pattern, rel)
	return err == nil && ok
}

func onStack(info fs.FileInfo, ancestors []fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

// readError maps a failure to read abs to the typed taxonomy.
func readError(abs string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return core.NewInvalidAccess(abs, true, err)
	case errors.Is(err, fs.ErrNotExist):
		return core.NewError(core.ErrCodeNotFound, abs, err)
	}
	return errors.Wrapf(err, "typedfs: read %s", abs)
}
