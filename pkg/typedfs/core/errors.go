package core

import (
	"fmt"

	"emperror.dev/errors"
)

// ErrorCode identifies the kind of failure reported by an *Error.
type ErrorCode string

const (
	// ErrCodeNotFound is returned when nothing exists at the requested path.
	ErrCodeNotFound ErrorCode = "E_NOTFOUND"
	// ErrCodeIsDirectory is returned when a file was requested but a directory exists.
	ErrCodeIsDirectory ErrorCode = "E_ISDIR"
	// ErrCodeNotDirectory is returned when a directory was requested but a file exists.
	ErrCodeNotDirectory ErrorCode = "E_NOTDIR"
	// ErrCodeNotSymlink is returned when a link was requested but a plain entry exists.
	ErrCodeNotSymlink ErrorCode = "E_NOTSYMLINK"
	// ErrCodeAlreadyExists is returned by creation with IfExistsThrowError.
	ErrCodeAlreadyExists ErrorCode = "E_EXISTS"
	// ErrCodeOutsideSandbox is returned when a write targets a path outside the sandbox root.
	ErrCodeOutsideSandbox ErrorCode = "E_SANDBOX"
	// ErrCodeDenied is returned when a write targets a path matched by the sandbox denylist.
	ErrCodeDenied ErrorCode = "E_DENIED"
	// ErrCodeInvalidAccess is returned when a path exists but cannot be used as requested.
	ErrCodeInvalidAccess ErrorCode = "E_ACCESS"
	// ErrCodeCouldNotCreate is returned when the host refused to create an entry.
	ErrCodeCouldNotCreate ErrorCode = "E_CREATE"
	// ErrCodeDeleteWorkdir is returned when deleting the current working directory.
	ErrCodeDeleteWorkdir ErrorCode = "E_DELETEWD"
)

// Error is the typed failure returned by every typedfs operation. The path is
// the absolute path the operation was working on.
type Error struct {
	code    ErrorCode
	path    string
	reading bool
	err     error
}

// Code returns the kind of failure.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Path returns the absolute path the failure relates to.
func (e *Error) Path() string {
	return e.path
}

// Reading reports, for ErrCodeInvalidAccess, whether the denied access was a read.
func (e *Error) Reading() bool {
	return e.reading
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Error implements error.
func (e *Error) Error() string {
	var msg string
	switch e.code {
	case ErrCodeNotFound:
		msg = fmt.Sprintf("typedfs: no such file or directory: %s", e.path)
	case ErrCodeIsDirectory:
		msg = fmt.Sprintf("typedfs: is a directory: %s", e.path)
	case ErrCodeNotDirectory:
		msg = fmt.Sprintf("typedfs: not a directory: %s", e.path)
	case ErrCodeNotSymlink:
		msg = fmt.Sprintf("typedfs: not a symbolic link: %s", e.path)
	case ErrCodeAlreadyExists:
		msg = fmt.Sprintf("typedfs: already exists: %s", e.path)
	case ErrCodeOutsideSandbox:
		msg = fmt.Sprintf("typedfs: path is outside the sandbox: %s", e.path)
	case ErrCodeDenied:
		msg = fmt.Sprintf("typedfs: path is denied by the sandbox: %s", e.path)
	case ErrCodeInvalidAccess:
		mode := "writing"
		if e.reading {
			mode = "reading"
		}
		msg = fmt.Sprintf("typedfs: invalid access for %s: %s", mode, e.path)
	case ErrCodeCouldNotCreate:
		msg = fmt.Sprintf("typedfs: could not create: %s", e.path)
	case ErrCodeDeleteWorkdir:
		msg = fmt.Sprintf("typedfs: refusing to delete the current working directory: %s", e.path)
	default:
		msg = fmt.Sprintf("typedfs: unknown error: %s", e.path)
	}
	if e.err != nil {
		return msg + ": " + e.err.Error()
	}
	return msg
}

// NewError returns a new *Error wrapped with a stack trace.
func NewError(code ErrorCode, path string, cause error) error {
	return errors.WithStack(&Error{code: code, path: path, err: cause})
}

// NewInvalidAccess returns an ErrCodeInvalidAccess error for a read or a write.
func NewInvalidAccess(path string, reading bool, cause error) error {
	return errors.WithStack(&Error{code: ErrCodeInvalidAccess, path: path, reading: reading, err: cause})
}

// IsErrorCode reports whether err, or anything it wraps, is an *Error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}
