// Package layout creates a declared tree of files, directories and symlinks
// beneath a root directory.
//
// A layout is written in YAML:
//
//	if_exists: open
//	entries:
//	  - path: src
//	    type: directory
//	  - path: src/main.txt
//	    type: file
//	    content: hello
//	  - path: current
//	    type: symlink
//	    target: src
//
// Entries are applied through typedfs, so the sandbox and the exists policy
// apply to each of them. Applying is not transactional: entries created
// before a failure stay on disk.
package layout

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/gammazero/toposort"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/typedfs/pkg/typedfs"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// EntryType is the kind of entry a layout declares.
type EntryType string

const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "directory"
	TypeSymlink   EntryType = "symlink"
)

// Entry is one declared path, relative to the root the layout is applied to.
type Entry struct {
	Path string    `yaml:"path"`
	Type EntryType `yaml:"type"`
	// Target is the path a symlink points at, relative to the root.
	Target string `yaml:"target,omitempty"`
	// Content is written to files.
	Content string `yaml:"content,omitempty"`
}

// Layout is a parsed layout document.
type Layout struct {
	IfExists string  `yaml:"if_exists"`
	Entries  []Entry `yaml:"entries"`
}

// Parse decodes and validates a YAML layout. Unknown fields are rejected.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks entry types, paths, symlink targets and duplicates.
func (l *Layout) Validate() error {
	if _, err := core.ParseIfExists(l.IfExists); err != nil {
		return err
	}

	seen := make(map[string]EntryType, len(l.Entries))
	for i, e := range l.Entries {
		p, err := cleanPath(e.Path)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("entry %d: duplicate path %q", i, p)
		}
		seen[p] = e.Type

		switch e.Type {
		case TypeFile:
			if e.Target != "" {
				return fmt.Errorf("entry %q: only symlinks have a target", p)
			}
		case TypeDirectory:
			if e.Target != "" || e.Content != "" {
				return fmt.Errorf("entry %q: directories have neither target nor content", p)
			}
		case TypeSymlink:
			if e.Content != "" {
				return fmt.Errorf("entry %q: symlinks have no content", p)
			}
			if _, err := cleanPath(e.Target); err != nil {
				return fmt.Errorf("entry %q: invalid target: %w", p, err)
			}
		default:
			return fmt.Errorf("entry %q: unknown type %q", p, e.Type)
		}
	}

	// A declared ancestor must be a directory (or a link that may be one).
	for p := range seen {
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			if seen[dir] == TypeFile {
				return fmt.Errorf("entry %q: ancestor %q is declared as a file", p, dir)
			}
		}
	}
	return nil
}

// Order returns the entries so that every entry comes after its nearest
// declared ancestor and every symlink after its declared target. Entries
// that take part in no constraint follow, in declared order.
func (l *Layout) Order() ([]Entry, error) {
	byPath := make(map[string]Entry, len(l.Entries))
	for _, e := range l.Entries {
		p, err := cleanPath(e.Path)
		if err != nil {
			return nil, err
		}
		e.Path = p
		if e.Type == TypeSymlink {
			e.Target = path.Clean(e.Target)
		}
		byPath[p] = e
	}

	// Edge is [2]interface{}; element 0 comes before element 1.
	edges := make([]toposort.Edge, 0)
	for _, e := range l.Entries {
		p := path.Clean(e.Path)
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			if _, ok := byPath[dir]; ok {
				edges = append(edges, toposort.Edge{dir, p})
				break
			}
		}
		if e.Type == TypeSymlink {
			target := path.Clean(e.Target)
			if _, ok := byPath[target]; ok {
				edges = append(edges, toposort.Edge{target, p})
			}
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("circular dependency in layout: %w", err)
	}

	ordered := make([]Entry, 0, len(l.Entries))
	placed := make(map[string]bool, len(l.Entries))
	for _, node := range sorted {
		p, ok := node.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected type in topological sort result: %T", node)
		}
		ordered = append(ordered, byPath[p])
		placed[p] = true
	}
	for _, e := range l.Entries {
		p := path.Clean(e.Path)
		if !placed[p] {
			ordered = append(ordered, byPath[p])
			placed[p] = true
		}
	}
	return ordered, nil
}

// Apply creates every entry beneath root using fsys. A relative root is
// resolved once, before the first entry, and link targets are stored as
// absolute paths.
func (l *Layout) Apply(fsys *typedfs.FS, root fspath.DirectoryPath) error {
	root = root.Absolute()
	if err := l.Validate(); err != nil {
		return err
	}
	ifExists, err := core.ParseIfExists(l.IfExists)
	if err != nil {
		return err
	}
	ordered, err := l.Order()
	if err != nil {
		return err
	}

	logger := fsys.Logger()
	logger.Info().
		Str("root", root.AbsoluteString()).
		Int("entries", len(ordered)).
		Stringer("if_exists", ifExists).
		Msg("applying layout")

	for _, e := range ordered {
		if err := applyEntry(fsys, root, e, ifExists); err != nil {
			return fmt.Errorf("layout entry %q: %w", e.Path, err)
		}
		logger.Debug().Str("path", e.Path).Str("type", string(e.Type)).Msg("applied layout entry")
	}
	return nil
}

func applyEntry(fsys *typedfs.FS, root fspath.DirectoryPath, e Entry, ifExists core.IfExists) error {
	switch e.Type {
	case TypeDirectory:
		d, err := fsys.CreateDirectory(root.RelativeDirectory(e.Path), ifExists)
		if err != nil {
			return err
		}
		return d.Close()

	case TypeFile:
		f, err := fsys.CreateFile(root.RelativeFile(e.Path), ifExists)
		if err != nil {
			return err
		}
		defer f.Close()
		// Content converges: an opened file ends up holding exactly Content.
		if err := f.Truncate(0); err != nil {
			return err
		}
		if _, err := f.WriteString(e.Content); err != nil {
			return err
		}
		return f.Close()

	case TypeSymlink:
		return applySymlink(fsys, root, e, ifExists)
	}
	return fmt.Errorf("unknown type %q", e.Type)
}

// applySymlink links to the target as whatever kind it currently is on disk.
func applySymlink(fsys *typedfs.FS, root fspath.DirectoryPath, e Entry, ifExists core.IfExists) error {
	targetPath := root.RelativeFile(e.Target)
	t, err := fsys.Type(targetPath)
	if err != nil {
		return err
	}

	switch {
	case t.IsDirectory():
		target, err := fsys.OpenDirectory(root.RelativeDirectory(e.Target))
		if err != nil {
			return err
		}
		defer target.Close()
		link, err := fsys.CreateDirectorySymlink(root.RelativeDirectory(e.Path), target, ifExists)
		if err != nil {
			return err
		}
		return link.Close()

	case t.IsFile():
		target, err := fsys.OpenFile(targetPath)
		if err != nil {
			return err
		}
		defer target.Close()
		link, err := fsys.CreateFileSymlink(root.RelativeFile(e.Path), target, ifExists)
		if err != nil {
			return err
		}
		return link.Close()
	}
	return core.NewError(core.ErrCodeNotFound, targetPath.AbsoluteString(), nil)
}

// cleanPath normalizes a layout path and rejects anything that is not a
// relative path staying below the root.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("path %q must be relative", p)
	}
	c := path.Clean(p)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("path %q leaves the root", p)
	}
	return c, nil
}
