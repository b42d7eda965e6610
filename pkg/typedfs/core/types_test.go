package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

func TestFileType(t *testing.T) {
	tests := []struct {
		name     string
		typ      core.FileType
		exists   bool
		isFile   bool
		isDir    bool
		dangling bool
		str      string
	}{
		{"none", core.TypeNone, false, false, false, false, "none"},
		{"file", core.TypeFile, true, true, false, false, "file"},
		{"directory", core.TypeDirectory, true, false, true, false, "directory"},
		{"link to file", core.SymlinkTo(core.KindFile), true, true, false, false, "symlink(file)"},
		{"link to directory", core.SymlinkTo(core.KindDirectory), true, false, true, false, "symlink(directory)"},
		{"dangling link", core.SymlinkTo(core.KindNone), true, false, false, true, "symlink(none)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.exists, tt.typ.Exists())
			assert.Equal(t, tt.isFile, tt.typ.IsFile())
			assert.Equal(t, tt.isDir, tt.typ.IsDirectory())
			assert.Equal(t, tt.dangling, tt.typ.IsDangling())
			assert.Equal(t, tt.str, tt.typ.String())
		})
	}
}

func TestParseIfExists(t *testing.T) {
	for in, want := range map[string]core.IfExists{
		"error":   core.IfExistsThrowError,
		"":        core.IfExistsThrowError,
		"Open":    core.IfExistsOpen,
		"replace": core.IfExistsReplace,
	} {
		got, err := core.ParseIfExists(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := core.ParseIfExists("merge")
	assert.Error(t, err)
	assert.Equal(t, "replace", core.IfExistsReplace.String())
}
