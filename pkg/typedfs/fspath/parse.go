package fspath

import (
	"fmt"
	"strings"
)

// ParseFile parses s as a file path. A leading separator makes it absolute;
// otherwise it stays relative to wd and is resolved against wd on every use.
func ParseFile(s string, wd Workdir) (FilePath, error) {
	if s == "" {
		return FilePath{}, fmt.Errorf("empty file path")
	}
	if strings.HasSuffix(s, Separator) {
		return FilePath{}, fmt.Errorf("file path %q ends with a separator", s)
	}
	l, err := parse(s, wd)
	if err != nil {
		return FilePath{}, err
	}
	if n := len(l.segments); n == 0 || l.segments[n-1] == ".." {
		return FilePath{}, fmt.Errorf("file path %q does not name a file", s)
	}
	return FilePath{l}, nil
}

// ParseDirectory parses s as a directory path. An empty string is the Workdir itself.
func ParseDirectory(s string, wd Workdir) (DirectoryPath, error) {
	if s == "" {
		s = "."
	}
	l, err := parse(s, wd)
	if err != nil {
		return DirectoryPath{}, err
	}
	return DirectoryPath{l}, nil
}

// AbsoluteFile parses s, which must start with a separator, as a file path.
func AbsoluteFile(s string) (FilePath, error) {
	return ParseFile(s, nil)
}

// AbsoluteDirectory parses s, which must start with a separator, as a directory path.
func AbsoluteDirectory(s string) (DirectoryPath, error) {
	return ParseDirectory(s, nil)
}

// MustFile is like ParseFile but panics on error.
func MustFile(s string, wd Workdir) FilePath {
	p, err := ParseFile(s, wd)
	if err != nil {
		panic(err)
	}
	return p
}

// MustDirectory is like ParseDirectory but panics on error.
func MustDirectory(s string, wd Workdir) DirectoryPath {
	p, err := ParseDirectory(s, wd)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseRelativeFile parses rel as a file path whose explicit base is base.
func ParseRelativeFile(rel string, base DirectoryPath) (FilePath, error) {
	if err := checkFileName(rel); err != nil {
		return FilePath{}, err
	}
	return base.RelativeFile(rel), nil
}

// checkFileName fails unless name, read as a relative path, ends in a file
// component.
func checkFileName(name string) error {
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if strings.HasSuffix(name, Separator) {
		return fmt.Errorf("file name %q ends with a separator", name)
	}
	segs := normalize(split(name), false)
	if n := len(segs); n == 0 || segs[n-1] == ".." {
		return fmt.Errorf("file name %q does not name a file", name)
	}
	return nil
}

func mustFileName(name string) {
	if err := checkFileName(name); err != nil {
		panic(err)
	}
}

func parse(s string, wd Workdir) (location, error) {
	if strings.HasPrefix(s, Separator) {
		return location{segments: normalize(split(s), true)}, nil
	}
	if wd == nil {
		return location{}, fmt.Errorf("relative path %q without a working directory", s)
	}
	return location{segments: normalize(split(s), false), wd: wd}, nil
}
