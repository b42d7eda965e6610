package typedfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs"
	"github.com/arthur-debert/typedfs/pkg/typedfs/config"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

func TestNewDefaults(t *testing.T) {
	fsys := typedfs.New(typedfs.WithSandbox(nil))

	require.NotNil(t, fsys.Sandbox())
	assert.False(t, fsys.Sandbox().Enabled())
	assert.IsType(t, fspath.OSWorkdir{}, fsys.Workdir())
}

func TestNewFromConfig(t *testing.T) {
	h := newHelper(t)

	cfg := config.Default()
	cfg.Sandbox.Enabled = true
	cfg.Sandbox.Root = h.TempDir()
	cfg.Sandbox.Denylist = []string{"*.key"}
	cfg.Logging.Level = "debug"

	fsys, err := typedfs.NewFromConfig(cfg, typedfs.WithWorkdir(h.Workdir()))
	require.NoError(t, err)

	assert.True(t, fsys.Sandbox().Enabled())
	assert.Equal(t, h.TempDir(), fsys.Sandbox().Root().AbsoluteString())
	assert.Equal(t, []string{"*.key"}, fsys.Sandbox().Denylist())
	assert.Equal(t, "debug", fsys.Logger().GetLevel().String())

	_, err = fsys.CreateFile(h.Root().AppendFile("id.key"), core.IfExistsThrowError)
	requireCode(t, err, core.ErrCodeDenied)

	p, err := fsys.File("relative.txt")
	require.NoError(t, err)
	f, err := fsys.CreateFile(p, core.IfExistsThrowError)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	h.AssertContent("relative.txt", "")
}

func TestNewFromConfigErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"
	_, err := typedfs.NewFromConfig(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Sandbox.Enabled = true
	_, err = typedfs.NewFromConfig(cfg)
	assert.Error(t, err)
}

func TestType(t *testing.T) {
	h := newHelper(t)
	fsys := h.FS()
	h.BuildListingTree()
	h.CreateSymlink("file.txt", "link_to_file")
	h.CreateSymlink("nowhere", "dangling")

	testCases := []struct {
		rel      string
		expected core.FileType
	}{
		{"file.txt", core.TypeFile},
		{"dir", core.TypeDirectory},
		{"link_to_dir", core.SymlinkTo(core.KindDirectory)},
		{"link_to_file", core.SymlinkTo(core.KindFile)},
		{"dangling", core.SymlinkTo(core.KindNone)},
		{"missing", core.TypeNone},
		{"file.txt/below", core.TypeNone},
	}

	for _, tc := range testCases {
		t.Run(tc.rel, func(t *testing.T) {
			typ, err := fsys.Type(h.Root().AppendFile(tc.rel))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, typ)
			assert.Equal(t, tc.expected.Exists(), fsys.Exists(h.Root().AppendFile(tc.rel)))
		})
	}
}
