package typedfs

import (
	"io"
	"io/fs"
	"os"

	"emperror.dev/errors"
	"github.com/gabriel-vasile/mimetype"

	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// File is an open, read-only file handle. Handles are obtained from an FS
// and are not safe for concurrent use.
type File struct {
	owner  *FS
	path   fspath.FilePath
	handle *os.File
	closed bool
}

// Path returns the path the file was opened with.
func (file *File) Path() fspath.FilePath {
	return file.path
}

// Read implements io.Reader.
func (file *File) Read(b []byte) (int, error) {
	return file.handle.Read(b)
}

// ReadAll returns the whole content of the file, regardless of the current
// offset.
func (file *File) ReadAll() ([]byte, error) {
	if _, err := file.handle.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "typedfs: seek %s", file.path.AbsoluteString())
	}
	return io.ReadAll(file.handle)
}

// Stat returns the file's info, following symlinks.
func (file *File) Stat() (fs.FileInfo, error) {
	return file.handle.Stat()
}

// Mimetype detects the content type from the start of the file. The offset
// is left at the start of the file.
func (file *File) Mimetype() (string, error) {
	if _, err := file.handle.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "typedfs: seek %s", file.path.AbsoluteString())
	}
	m, err := mimetype.DetectReader(file.handle)
	if err != nil {
		return "", errors.Wrapf(err, "typedfs: detect type of %s", file.path.AbsoluteString())
	}
	if _, err := file.handle.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "typedfs: seek %s", file.path.AbsoluteString())
	}
	return m.String(), nil
}

// Close releases the handle. Closing twice is a no-op.
func (file *File) Close() error {
	if file.closed {
		return nil
	}
	file.closed = true
	return file.handle.Close()
}

// Delete removes the file and closes the handle. A refused delete leaves
// the handle open.
func (file *File) Delete() error {
	t, err := file.owner.checkDelete(file.path)
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "typedfs: close %s", file.path.AbsoluteString())
	}
	return file.owner.remove(file.path, t)
}

// EditableFile is a file handle opened for reading and writing.
type EditableFile struct {
	*File
}

// Write implements io.Writer at the current offset.
func (file *EditableFile) Write(b []byte) (int, error) {
	return file.handle.Write(b)
}

// WriteString writes s at the current offset.
func (file *EditableFile) WriteString(s string) (int, error) {
	return file.handle.WriteString(s)
}

// Append writes b at the end of the file.
func (file *EditableFile) Append(b []byte) (int, error) {
	if _, err := file.handle.Seek(0, io.SeekEnd); err != nil {
		return 0, errors.Wrapf(err, "typedfs: seek %s", file.path.AbsoluteString())
	}
	return file.handle.Write(b)
}

// Truncate changes the size of the file and moves the offset to its end.
func (file *EditableFile) Truncate(size int64) error {
	if err := file.handle.Truncate(size); err != nil {
		return errors.Wrapf(err, "typedfs: truncate %s", file.path.AbsoluteString())
	}
	_, err := file.handle.Seek(size, io.SeekStart)
	return err
}
