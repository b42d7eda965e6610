package layout_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/layout"
	"github.com/arthur-debert/typedfs/pkg/typedfs/testutil"
)

const sample = `
if_exists: error
entries:
  - path: current
    type: symlink
    target: releases/v1
  - path: releases/v1/app.txt
    type: file
    content: v1
  - path: releases/v1
    type: directory
  - path: releases
    type: directory
  - path: latest.txt
    type: symlink
    target: releases/v1/app.txt
  - path: README
    type: file
`

func indexOf(entries []layout.Entry, p string) int {
	for i, e := range entries {
		if e.Path == p {
			return i
		}
	}
	return -1
}

func TestParse(t *testing.T) {
	l, err := layout.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "error", l.IfExists)
	require.Len(t, l.Entries, 6)
	assert.Equal(t, layout.TypeSymlink, l.Entries[0].Type)
	assert.Equal(t, "releases/v1", l.Entries[0].Target)
	assert.Equal(t, "v1", l.Entries[1].Content)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := layout.Parse([]byte("entries:\n  - path: a\n    type: file\n    mode: 0644\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		layout  layout.Layout
		wantErr bool
	}{
		{"empty", layout.Layout{}, false},
		{"bad policy", layout.Layout{IfExists: "merge"}, true},
		{"empty path", layout.Layout{Entries: []layout.Entry{{Type: layout.TypeFile}}}, true},
		{"absolute path", layout.Layout{Entries: []layout.Entry{{Path: "/etc/passwd", Type: layout.TypeFile}}}, true},
		{"escaping path", layout.Layout{Entries: []layout.Entry{{Path: "a/../../b", Type: layout.TypeFile}}}, true},
		{"unknown type", layout.Layout{Entries: []layout.Entry{{Path: "a", Type: "fifo"}}}, true},
		{"symlink without target", layout.Layout{Entries: []layout.Entry{{Path: "a", Type: layout.TypeSymlink}}}, true},
		{"file with target", layout.Layout{Entries: []layout.Entry{{Path: "a", Type: layout.TypeFile, Target: "b"}}}, true},
		{"directory with content", layout.Layout{Entries: []layout.Entry{{Path: "a", Type: layout.TypeDirectory, Content: "x"}}}, true},
		{"duplicate after cleaning", layout.Layout{Entries: []layout.Entry{
			{Path: "a/b", Type: layout.TypeFile},
			{Path: "a/./b", Type: layout.TypeFile},
		}}, true},
		{"file ancestor", layout.Layout{Entries: []layout.Entry{
			{Path: "a", Type: layout.TypeFile},
			{Path: "a/b", Type: layout.TypeFile},
		}}, true},
		{"valid", layout.Layout{IfExists: "open", Entries: []layout.Entry{
			{Path: "a", Type: layout.TypeDirectory},
			{Path: "a/b", Type: layout.TypeFile, Content: "x"},
			{Path: "c", Type: layout.TypeSymlink, Target: "a/b"},
		}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.layout.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	l, err := layout.Parse([]byte(sample))
	require.NoError(t, err)

	ordered, err := l.Order()
	require.NoError(t, err)
	require.Len(t, ordered, len(l.Entries))

	before := func(a, b string) {
		t.Helper()
		assert.Less(t, indexOf(ordered, a), indexOf(ordered, b), "%s must come before %s", a, b)
	}
	before("releases", "releases/v1")
	before("releases/v1", "releases/v1/app.txt")
	before("releases/v1", "current")
	before("releases/v1/app.txt", "latest.txt")
	assert.Equal(t, len(ordered)-1, indexOf(ordered, "README"))
}

func TestOrderDetectsCycles(t *testing.T) {
	l := layout.Layout{Entries: []layout.Entry{
		{Path: "a", Type: layout.TypeSymlink, Target: "b"},
		{Path: "b", Type: layout.TypeSymlink, Target: "a"},
	}}
	require.NoError(t, l.Validate())

	_, err := l.Order()
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	h := testutil.NewRealFSTestHelper(t)
	l, err := layout.Parse([]byte(sample))
	require.NoError(t, err)

	require.NoError(t, l.Apply(h.FS(), h.Root()))

	h.AssertContent("releases/v1/app.txt", "v1")
	h.AssertContent("README", "")
	h.AssertSymlinkTarget("current", h.Abs("releases/v1"))
	h.AssertSymlinkTarget("latest.txt", h.Abs("releases/v1/app.txt"))

	typ, err := h.FS().Type(h.Root().AppendDirectory("current"))
	require.NoError(t, err)
	assert.Equal(t, core.SymlinkTo(core.KindDirectory), typ)

	t.Run("applying twice fails with error policy", func(t *testing.T) {
		err := l.Apply(h.FS(), h.Root())
		assert.True(t, core.IsErrorCode(err, core.ErrCodeAlreadyExists), "%v", err)
	})

	t.Run("open policy converges content", func(t *testing.T) {
		require.NoError(t, os.WriteFile(h.Abs("releases/v1/app.txt"), []byte("changed by hand"), 0o644))
		l.IfExists = "open"
		require.NoError(t, l.Apply(h.FS(), h.Root()))
		h.AssertContent("releases/v1/app.txt", "v1")
	})
}

func TestApplyMissingSymlinkTarget(t *testing.T) {
	h := testutil.NewRealFSTestHelper(t)
	l := layout.Layout{Entries: []layout.Entry{
		{Path: "link", Type: layout.TypeSymlink, Target: "missing"},
	}}

	err := l.Apply(h.FS(), h.Root())
	assert.True(t, core.IsErrorCode(err, core.ErrCodeNotFound), "%v", err)
	h.AssertNotExists("link")
}

func TestApplyRespectsSandbox(t *testing.T) {
	h := testutil.NewRealFSTestHelper(t)
	l := layout.Layout{Entries: []layout.Entry{{Path: "escape.txt", Type: layout.TypeFile}}}

	err := l.Apply(h.FS(), h.Root().Parent())
	assert.True(t, core.IsErrorCode(err, core.ErrCodeOutsideSandbox), "%v", err)
}
