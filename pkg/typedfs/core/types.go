// Package core holds the leaf types shared by every typedfs package: the
// classification of filesystem entries, the exists policy, and the error
// taxonomy.
package core

import (
	"fmt"
	"strings"
)

// Kind is the classification of a single filesystem entry.
type Kind int

const (
	// KindNone means nothing exists at the path.
	KindNone Kind = iota
	// KindFile is a regular file (or any other non-directory entry).
	KindFile
	// KindDirectory is a directory.
	KindDirectory
	// KindSymlink is a symbolic link.
	KindSymlink
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "none"
	}
}

// FileType classifies whatever currently occupies a path. For symbolic links
// Target is the kind the link chain finally resolves to, KindNone when the
// link dangles.
type FileType struct {
	Kind   Kind
	Target Kind
}

// Common file types.
var (
	TypeNone      = FileType{Kind: KindNone}
	TypeFile      = FileType{Kind: KindFile}
	TypeDirectory = FileType{Kind: KindDirectory}
)

// SymlinkTo returns the type of a symbolic link resolving to target.
func SymlinkTo(target Kind) FileType {
	return FileType{Kind: KindSymlink, Target: target}
}

// Exists reports whether anything, including a dangling link, occupies the path.
func (t FileType) Exists() bool {
	return t.Kind != KindNone
}

// IsSymlink reports whether the entry itself is a symbolic link.
func (t FileType) IsSymlink() bool {
	return t.Kind == KindSymlink
}

// IsFile reports whether the entry is a file or a link resolving to one.
func (t FileType) IsFile() bool {
	return t.resolved() == KindFile
}

// IsDirectory reports whether the entry is a directory or a link resolving to one.
func (t FileType) IsDirectory() bool {
	return t.resolved() == KindDirectory
}

// IsDangling reports whether the entry is a link whose chain resolves to nothing.
func (t FileType) IsDangling() bool {
	return t.Kind == KindSymlink && t.Target == KindNone
}

func (t FileType) resolved() Kind {
	if t.Kind == KindSymlink {
		return t.Target
	}
	return t.Kind
}

// String returns the kind, with the resolved kind for links.
func (t FileType) String() string {
	if t.Kind == KindSymlink {
		return fmt.Sprintf("symlink(%s)", t.Target)
	}
	return t.Kind.String()
}

// IfExists is the policy applied by every creation operation when something
// already occupies the requested path.
type IfExists int

const (
	// IfExistsThrowError fails with ErrCodeAlreadyExists.
	IfExistsThrowError IfExists = iota
	// IfExistsOpen opens the existing entry unchanged.
	IfExistsOpen
	// IfExistsReplace removes the existing entry and creates a fresh one.
	IfExistsReplace
)

// String returns the policy name accepted by ParseIfExists.
func (p IfExists) String() string {
	switch p {
	case IfExistsOpen:
		return "open"
	case IfExistsReplace:
		return "replace"
	default:
		return "error"
	}
}

// ParseIfExists parses "error", "open" or "replace".
func ParseIfExists(s string) (IfExists, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "throw", "":
		return IfExistsThrowError, nil
	case "open":
		return IfExistsOpen, nil
	case "replace":
		return IfExistsReplace, nil
	default:
		return IfExistsThrowError, fmt.Errorf("invalid if-exists policy %q (want error, open or replace)", s)
	}
}
