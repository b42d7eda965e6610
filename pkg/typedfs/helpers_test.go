package typedfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
	"github.com/arthur-debert/typedfs/pkg/typedfs/testutil"
)

func newHelper(t *testing.T) *testutil.RealFSTestHelper {
	t.Helper()
	return testutil.NewRealFSTestHelper(t)
}

func requireCode(t *testing.T, err error, code core.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.True(t, core.IsErrorCode(err, code), "expected %s, got %v", code, err)
}

func relNames[P fspath.Path](paths []P) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, p.RelativeString())
	}
	return names
}
