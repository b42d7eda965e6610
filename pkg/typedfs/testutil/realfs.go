// Package testutil provides helpers for tests that run typedfs against a real
// temporary directory.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/typedfs/pkg/typedfs"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
	"github.com/arthur-debert/typedfs/pkg/typedfs/sandbox"
)

// RealFSTestHelper provides utilities for testing with real filesystem operations.
// This helper is Unix-only (Linux/macOS) as typedfs doesn't officially support Windows.
type RealFSTestHelper struct {
	t       *testing.T
	tempDir string
	root    fspath.DirectoryPath
	wd      *fspath.VirtualWorkdir
	policy  *sandbox.Policy
	fs      *typedfs.FS
}

// NewRealFSTestHelper creates a helper rooted at a fresh temporary directory.
// The FS it returns is sandboxed to that directory and resolves relative
// paths against a virtual working directory starting there.
func NewRealFSTestHelper(t *testing.T) *RealFSTestHelper {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("typedfs does not officially support Windows")
	}

	// The temporary directory may itself live behind a symlink (/var on macOS).
	tempDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	root := fspath.MustDirectory(tempDir, nil)
	h := &RealFSTestHelper{
		t:       t,
		tempDir: tempDir,
		root:    root,
		wd:      fspath.NewVirtualWorkdir(root),
		policy:  sandbox.New(root),
	}
	h.fs = h.FSWith()
	return h
}

// FS returns the sandboxed filesystem.
func (h *RealFSTestHelper) FS() *typedfs.FS {
	return h.fs
}

// FSWith returns a new FS sharing the helper's workdir and sandbox, with opts
// applied on top.
func (h *RealFSTestHelper) FSWith(opts ...typedfs.Option) *typedfs.FS {
	base := []typedfs.Option{
		typedfs.WithWorkdir(h.wd),
		typedfs.WithSandbox(h.policy),
		typedfs.WithLogger(typedfs.NewTestLogger(zerolog.NewTestWriter(h.t), 0)),
	}
	return typedfs.New(append(base, opts...)...)
}

// Root returns the temporary directory as an absolute path.
func (h *RealFSTestHelper) Root() fspath.DirectoryPath {
	return h.root
}

// TempDir returns the temporary directory path.
func (h *RealFSTestHelper) TempDir() string {
	return h.tempDir
}

// Workdir returns the virtual working directory shared by every FS the helper builds.
func (h *RealFSTestHelper) Workdir() *fspath.VirtualWorkdir {
	return h.wd
}

// Sandbox returns the sandbox policy shared by every FS the helper builds.
func (h *RealFSTestHelper) Sandbox() *sandbox.Policy {
	return h.policy
}

// Abs joins rel onto the temporary directory.
func (h *RealFSTestHelper) Abs(rel string) string {
	return filepath.Join(h.tempDir, rel)
}

// WriteFile creates rel with content, bypassing typedfs.
func (h *RealFSTestHelper) WriteFile(rel, content string) {
	h.t.Helper()
	p := h.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		h.t.Fatalf("Failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		h.t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

// Mkdir creates rel and its parents, bypassing typedfs.
func (h *RealFSTestHelper) Mkdir(rel string) {
	h.t.Helper()
	if err := os.MkdirAll(h.Abs(rel), 0o755); err != nil {
		h.t.Fatalf("Failed to create directory %s: %v", rel, err)
	}
}

// CreateSymlink creates a real symlink at linkRel storing target verbatim.
func (h *RealFSTestHelper) CreateSymlink(target, linkRel string) {
	h.t.Helper()
	if err := os.Symlink(target, h.Abs(linkRel)); err != nil {
		h.t.Fatalf("Failed to create symlink %s -> %s: %v", linkRel, target, err)
	}
}

// ReadSymlink reads a real symlink target.
func (h *RealFSTestHelper) ReadSymlink(linkRel string) string {
	h.t.Helper()
	target, err := os.Readlink(h.Abs(linkRel))
	if err != nil {
		h.t.Fatalf("Failed to read symlink %s: %v", linkRel, err)
	}
	return target
}

// AssertSymlinkTarget verifies a symlink points to the expected target.
func (h *RealFSTestHelper) AssertSymlinkTarget(linkRel, expectedTarget string) {
	h.t.Helper()
	actual := h.ReadSymlink(linkRel)
	if actual != expectedTarget {
		h.t.Errorf("Symlink %s target mismatch: expected %q, got %q", linkRel, expectedTarget, actual)
	}
}

// AssertContent verifies the content of a regular file.
func (h *RealFSTestHelper) AssertContent(rel, expected string) {
	h.t.Helper()
	data, err := os.ReadFile(h.Abs(rel))
	if err != nil {
		h.t.Fatalf("Failed to read %s: %v", rel, err)
	}
	if string(data) != expected {
		h.t.Errorf("Content of %s mismatch: expected %q, got %q", rel, expected, string(data))
	}
}

// AssertNotExists verifies nothing, not even a dangling link, occupies rel.
func (h *RealFSTestHelper) AssertNotExists(rel string) {
	h.t.Helper()
	if _, err := os.Lstat(h.Abs(rel)); !os.IsNotExist(err) {
		h.t.Errorf("Expected %s not to exist, got err=%v", rel, err)
	}
}

// BuildListingTree creates the tree the listing tests share:
//
//	file.txt
//	file2.txt
//	dir/file.txt
//	dir/newerdir/
//	link_to_dir -> dir
func (h *RealFSTestHelper) BuildListingTree() {
	h.t.Helper()
	h.WriteFile("file.txt", "one")
	h.WriteFile("file2.txt", "two")
	h.WriteFile("dir/file.txt", "nested")
	h.Mkdir("dir/newerdir")
	h.CreateSymlink("dir", "link_to_dir")
}
