// Package fspath implements immutable file and directory path values.
//
// A path is either absolute, relative to an explicit base directory, or
// relative to a Workdir. Relative paths are resolved lazily: every call to
// Absolute (and everything derived from it) consults the base or the Workdir
// at that moment, so a path built before the working directory changed
// resolves against the new one. Nothing in this package touches the disk.
package fspath

import (
	"strings"
)

// Separator is the path separator used by every path value.
const Separator = "/"

// Path is implemented by FilePath and DirectoryPath only.
type Path interface {
	// IsDirectory reports whether the path denotes a directory.
	IsDirectory() bool
	// IsAbsolute reports whether the path has neither a base nor a Workdir.
	IsAbsolute() bool
	// Base returns the explicit base directory, if any.
	Base() (DirectoryPath, bool)
	// Segments returns a copy of the path's own normalized components.
	Segments() []string
	// AbsoluteSegments resolves the path and returns its components.
	AbsoluteSegments() []string
	// AbsoluteString resolves the path and returns it as a string.
	AbsoluteString() string
	// RelativeString returns the own components joined, relative to the base
	// (or Workdir). Absolute paths return their absolute string.
	RelativeString() string
	// String returns the path as given: absolute paths in full, relative
	// paths joined onto their base chain.
	String() string
	// Name returns the last component of the path.
	Name() string
	// NameWithoutExtension returns Name with the extension removed.
	NameWithoutExtension() string
	// Extension returns the text after the last dot of Name, without the dot.
	Extension() string
	// Parent returns the containing directory; the root is its own parent.
	Parent() DirectoryPath

	loc() location
}

type location struct {
	segments []string
	base     *DirectoryPath
	wd       Workdir
}

func (l location) isAbsolute() bool {
	return l.base == nil && l.wd == nil
}

func (l location) absoluteSegments() []string {
	var prefix []string
	switch {
	case l.base != nil:
		prefix = l.base.AbsoluteSegments()
	case l.wd != nil:
		prefix = l.wd.Current().AbsoluteSegments()
	}
	joined := make([]string, 0, len(prefix)+len(l.segments))
	joined = append(joined, prefix...)
	joined = append(joined, l.segments...)
	return normalize(joined, true)
}

func (l location) absoluteString() string {
	return Separator + strings.Join(l.absoluteSegments(), Separator)
}

func (l location) relativeString() string {
	if l.isAbsolute() {
		return Separator + strings.Join(l.segments, Separator)
	}
	if len(l.segments) == 0 {
		return "."
	}
	return strings.Join(l.segments, Separator)
}

func (l location) String() string {
	if l.base == nil {
		return l.relativeString()
	}
	if len(l.segments) == 0 {
		return l.base.String()
	}
	base := l.base.String()
	if strings.HasSuffix(base, Separator) {
		return base + l.relativeString()
	}
	return base + Separator + l.relativeString()
}

func (l location) name() string {
	if n := len(l.segments); n > 0 && l.segments[n-1] != ".." {
		return l.segments[n-1]
	}
	abs := l.absoluteSegments()
	if len(abs) == 0 {
		return ""
	}
	return abs[len(abs)-1]
}

func (l location) parent() DirectoryPath {
	n := len(l.segments)
	switch {
	case n > 0 && l.segments[n-1] != "..":
		return DirectoryPath{location{segments: clone(l.segments[:n-1]), base: l.base, wd: l.wd}}
	case l.isAbsolute():
		return Root()
	default:
		return DirectoryPath{location{segments: append(clone(l.segments), ".."), base: l.base, wd: l.wd}}
	}
}

// with returns a location sharing l's base and Workdir with extra components appended.
func (l location) with(name string) location {
	segs := make([]string, 0, len(l.segments)+1)
	segs = append(segs, l.segments...)
	segs = append(segs, split(name)...)
	return location{segments: normalize(segs, l.isAbsolute()), base: l.base, wd: l.wd}
}

func splitExtension(name string) (string, string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// FilePath is a path denoting a file. It never ends in a separator.
type FilePath struct {
	l location
}

// DirectoryPath is a path denoting a directory.
type DirectoryPath struct {
	l location
}

// Root returns the absolute root directory.
func Root() DirectoryPath {
	return DirectoryPath{}
}

// IsDirectory reports false.
func (p FilePath) IsDirectory() bool {
	return false
}

func (p FilePath) loc() location {
	return p.l
}

// IsAbsolute reports whether the path has neither a base nor a Workdir.
func (p FilePath) IsAbsolute() bool {
	return p.l.isAbsolute()
}

// Segments implements Path.
func (p FilePath) Segments() []string {
	return clone(p.l.segments)
}

// AbsoluteSegments implements Path.
func (p FilePath) AbsoluteSegments() []string {
	return p.l.absoluteSegments()
}

// AbsoluteString implements Path.
func (p FilePath) AbsoluteString() string {
	return p.l.absoluteString()
}

// RelativeString implements Path.
func (p FilePath) RelativeString() string {
	return p.l.relativeString()
}

// String implements Path and fmt.Stringer.
func (p FilePath) String() string {
	return p.l.String()
}

// Name implements Path.
func (p FilePath) Name() string {
	return p.l.name()
}

// NameWithoutExtension implements Path.
func (p FilePath) NameWithoutExtension() string {
	name, _ := splitExtension(p.Name())
	return name
}

// Extension implements Path.
func (p FilePath) Extension() string {
	_, ext := splitExtension(p.Name())
	return ext
}

// Parent implements Path.
func (p FilePath) Parent() DirectoryPath {
	return p.l.parent()
}

// Base implements Path.
func (p FilePath) Base() (DirectoryPath, bool) {
	return base(p.l)
}

// Absolute resolves the path against its base or Workdir.
func (p FilePath) Absolute() FilePath {
	return FilePath{location{segments: p.l.absoluteSegments()}}
}

// Equal reports whether other is a FilePath resolving to the same location.
func (p FilePath) Equal(other Path) bool {
	return !other.IsDirectory() && p.AbsoluteString() == other.AbsoluteString()
}

// IsDirectory reports true.
func (p DirectoryPath) IsDirectory() bool {
	return true
}

func (p DirectoryPath) loc() location {
	return p.l
}

// IsAbsolute reports whether the path has neither a base nor a Workdir.
func (p DirectoryPath) IsAbsolute() bool {
	return p.l.isAbsolute()
}

// Segments implements Path.
func (p DirectoryPath) Segments() []string {
	return clone(p.l.segments)
}

// AbsoluteSegments implements Path.
func (p DirectoryPath) AbsoluteSegments() []string {
	return p.l.absoluteSegments()
}

// AbsoluteString implements Path.
func (p DirectoryPath) AbsoluteString() string {
	return p.l.absoluteString()
}

// RelativeString implements Path.
func (p DirectoryPath) RelativeString() string {
	return p.l.relativeString()
}

// String implements Path and fmt.Stringer.
func (p DirectoryPath) String() string {
	return p.l.String()
}

// Name implements Path.
func (p DirectoryPath) Name() string {
	return p.l.name()
}

// NameWithoutExtension implements Path.
func (p DirectoryPath) NameWithoutExtension() string {
	name, _ := splitExtension(p.Name())
	return name
}

// Extension implements Path.
func (p DirectoryPath) Extension() string {
	_, ext := splitExtension(p.Name())
	return ext
}

// Parent implements Path.
func (p DirectoryPath) Parent() DirectoryPath {
	return p.l.parent()
}

// Base implements Path.
func (p DirectoryPath) Base() (DirectoryPath, bool) {
	return base(p.l)
}

// Absolute resolves the path against its base or Workdir.
func (p DirectoryPath) Absolute() DirectoryPath {
	return DirectoryPath{location{segments: p.l.absoluteSegments()}}
}

// Equal reports whether other is a DirectoryPath resolving to the same location.
func (p DirectoryPath) Equal(other Path) bool {
	return other.IsDirectory() && p.AbsoluteString() == other.AbsoluteString()
}

// IsRoot reports whether the path resolves to the root directory.
func (p DirectoryPath) IsRoot() bool {
	return len(p.AbsoluteSegments()) == 0
}

// AppendFile returns the file name inside p. The result keeps p's base or
// Workdir, so appending to an absolute directory yields an absolute path.
// It panics if name does not end in a file component, such as "" or "..".
func (p DirectoryPath) AppendFile(name string) FilePath {
	mustFileName(name)
	return FilePath{p.l.with(name)}
}

// AppendDirectory returns the directory name inside p, keeping p's base or Workdir.
func (p DirectoryPath) AppendDirectory(name string) DirectoryPath {
	return DirectoryPath{p.l.with(name)}
}

// RelativeFile returns rel as a file path whose explicit base is p. It panics
// under the same conditions as AppendFile; ParseRelativeFile reports them as
// errors instead.
func (p DirectoryPath) RelativeFile(rel string) FilePath {
	mustFileName(rel)
	b := p
	return FilePath{location{segments: normalize(split(rel), false), base: &b}}
}

// RelativeDirectory returns rel as a directory path whose explicit base is p.
func (p DirectoryPath) RelativeDirectory(rel string) DirectoryPath {
	b := p
	return DirectoryPath{location{segments: normalize(split(rel), false), base: &b}}
}

// IsAParentOf reports whether other lies strictly below p.
func (p DirectoryPath) IsAParentOf(other Path) bool {
	parent := p.AbsoluteSegments()
	child := other.AbsoluteSegments()
	if len(child) <= len(parent) {
		return false
	}
	for i := range parent {
		if parent[i] != child[i] {
			return false
		}
	}
	return true
}

func base(l location) (DirectoryPath, bool) {
	if l.base == nil {
		return DirectoryPath{}, false
	}
	return *l.base, true
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

// normalize drops empty and "." components and folds "..". Leading ".." are
// kept for relative paths and collapse at the root for absolute ones.
func normalize(segs []string, absolute bool) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case "", ".":
		case "..":
			if n := len(out); n > 0 && out[n-1] != ".." {
				out = out[:n-1]
			} else if !absolute {
				out = append(out, "..")
			}
		default:
			out = append(out, s)
		}
	}
	return out
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
