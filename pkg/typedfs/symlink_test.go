package typedfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

func TestFileSymlinkPolicies(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("a.txt", "A")
	h.WriteFile("b.txt", "B")

	a, err := fsys.OpenFile(h.Root().AppendFile("a.txt"))
	require.NoError(t, err)
	defer a.Close()
	b, err := fsys.OpenFile(h.Root().AppendFile("b.txt"))
	require.NoError(t, err)
	defer b.Close()

	link := h.Root().AppendFile("link.txt")

	l, err := fsys.CreateFileSymlink(link, a, core.IfExistsThrowError)
	require.NoError(t, err)
	data, err := l.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))
	require.NoError(t, l.Close())
	h.AssertSymlinkTarget("link.txt", h.Abs("a.txt"))

	t.Run("open with same target", func(t *testing.T) {
		l, err := fsys.CreateFileSymlink(link, a, core.IfExistsOpen)
		require.NoError(t, err)
		defer l.Close()
		assert.True(t, link.Equal(l.Path()))
	})

	t.Run("open with other target", func(t *testing.T) {
		_, err := fsys.CreateFileSymlink(link, b, core.IfExistsOpen)
		requireCode(t, err, core.ErrCodeInvalidAccess)
		h.AssertSymlinkTarget("link.txt", h.Abs("a.txt"))
	})

	t.Run("throwError", func(t *testing.T) {
		_, err := fsys.CreateFileSymlink(link, b, core.IfExistsThrowError)
		requireCode(t, err, core.ErrCodeAlreadyExists)
	})

	t.Run("replace", func(t *testing.T) {
		l, err := fsys.CreateFileSymlink(link, b, core.IfExistsReplace)
		require.NoError(t, err)
		defer l.Close()
		dest, err := fsys.ReadSymlink(link)
		require.NoError(t, err)
		assert.Equal(t, h.Abs("b.txt"), dest)
		h.AssertContent("a.txt", "A")
	})
}

func TestSymlinkStoresRelativeTarget(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("target.txt", "T")

	rel, err := fsys.File("target.txt")
	require.NoError(t, err)
	target, err := fsys.OpenFile(rel)
	require.NoError(t, err)
	defer target.Close()

	link := h.Root().AppendFile("rel_link.txt")
	l, err := fsys.CreateFileSymlink(link, target, core.IfExistsThrowError)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	h.AssertSymlinkTarget("rel_link.txt", "target.txt")

	// The stored relative destination is resolved against the link's directory.
	l, err = fsys.CreateFileSymlink(link, target, core.IfExistsOpen)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestDirectorySymlink(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("real/inner.txt", "inner")

	root, err := fsys.OpenEditableDirectory(h.Root())
	require.NoError(t, err)
	defer root.Close()
	target, err := root.OpenSubdirectory("real")
	require.NoError(t, err)
	defer target.Close()

	link, err := root.CreateDirectorySymlink("links/alias", target, core.IfExistsThrowError)
	require.NoError(t, err)
	defer link.Close()

	typ, err := fsys.Type(link.Path())
	require.NoError(t, err)
	assert.Equal(t, core.SymlinkTo(core.KindDirectory), typ)
	assert.True(t, link.Contains("inner.txt"))
	h.AssertSymlinkTarget("links/alias", h.Abs("real"))

	again, err := root.CreateDirectorySymlink("links/alias", target, core.IfExistsOpen)
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestSymlinkKindMismatch(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("file.txt", "")
	h.Mkdir("dir")
	h.CreateSymlink("file.txt", "link_to_file")

	fileTarget, err := fsys.OpenFile(h.Root().AppendFile("file.txt"))
	require.NoError(t, err)
	defer fileTarget.Close()
	dirTarget, err := fsys.OpenDirectory(h.Root().AppendDirectory("dir"))
	require.NoError(t, err)
	defer dirTarget.Close()

	for _, policy := range []core.IfExists{core.IfExistsThrowError, core.IfExistsOpen, core.IfExistsReplace} {
		t.Run(policy.String(), func(t *testing.T) {
			_, err := fsys.CreateFileSymlink(h.Root().AppendFile("dir"), fileTarget, policy)
			requireCode(t, err, core.ErrCodeIsDirectory)

			_, err = fsys.CreateDirectorySymlink(h.Root().AppendDirectory("file.txt"), dirTarget, policy)
			requireCode(t, err, core.ErrCodeNotDirectory)

			_, err = fsys.CreateDirectorySymlink(h.Root().AppendDirectory("link_to_file"), dirTarget, policy)
			requireCode(t, err, core.ErrCodeNotDirectory)

			_, err = fsys.CreateFileSymlink(h.Root().AppendFile("file.txt"), fileTarget, policy)
			requireCode(t, err, core.ErrCodeNotSymlink)
		})
	}
}

func TestSymlinkReplacesDanglingLink(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("a.txt", "A")
	h.CreateSymlink("nowhere", "dangling")

	a, err := fsys.OpenFile(h.Root().AppendFile("a.txt"))
	require.NoError(t, err)
	defer a.Close()

	_, err = fsys.CreateFileSymlink(h.Root().AppendFile("dangling"), a, core.IfExistsOpen)
	requireCode(t, err, core.ErrCodeInvalidAccess)

	l, err := fsys.CreateFileSymlink(h.Root().AppendFile("dangling"), a, core.IfExistsReplace)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	h.AssertSymlinkTarget("dangling", h.Abs("a.txt"))
}

func TestSymlinkSandbox(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("a.txt", "A")

	a, err := fsys.OpenFile(h.Root().AppendFile("a.txt"))
	require.NoError(t, err)
	defer a.Close()

	_, err = fsys.CreateFileSymlink(h.Root().Parent().AppendFile("outside_link"), a, core.IfExistsThrowError)
	requireCode(t, err, core.ErrCodeOutsideSandbox)
}

func TestReadSymlink(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.WriteFile("plain", "")
	h.CreateSymlink("../somewhere", "link")

	dest, err := fsys.ReadSymlink(h.Root().AppendFile("link"))
	require.NoError(t, err)
	assert.Equal(t, "../somewhere", dest)

	_, err = fsys.ReadSymlink(h.Root().AppendFile("plain"))
	requireCode(t, err, core.ErrCodeNotSymlink)

	_, err = fsys.ReadSymlink(h.Root().AppendFile("missing"))
	requireCode(t, err, core.ErrCodeNotFound)
}
