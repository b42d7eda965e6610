package typedfs_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/typedfs/pkg/typedfs"
	"github.com/arthur-debert/typedfs/pkg/typedfs/core"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := typedfs.NewLogger(&buf, zerolog.InfoLevel)

	logger.Info().Msg("test message")
	logger.Debug().Msg("hidden")

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.NotContains(t, output, "hidden")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(output), "lib=typedfs"), output)
}

func TestLogLevelFromString(t *testing.T) {
	testCases := []struct {
		levelStr string
		expected zerolog.Level
		wantErr  bool
	}{
		{"trace", zerolog.TraceLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{" info ", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"invalid", zerolog.NoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.levelStr, func(t *testing.T) {
			level, err := typedfs.LogLevelFromString(tc.levelStr)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestNewTestLogger(t *testing.T) {
	testCases := []struct {
		verbose  int
		expected zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tc := range testCases {
		var buf bytes.Buffer
		logger := typedfs.NewTestLogger(&buf, tc.verbose)
		assert.Equal(t, tc.expected, logger.GetLevel(), "verbose=%d", tc.verbose)
	}
}

func TestOperationsAreLogged(t *testing.T) {
	h := newHelper(t)
	var buf bytes.Buffer
	fsys := h.FSWith(typedfs.WithLogger(typedfs.NewLogger(&buf, zerolog.DebugLevel)))

	f, err := fsys.CreateFile(h.Root().AppendFile("logged/a.txt"), core.IfExistsThrowError)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	output := buf.String()
	assert.Contains(t, output, "created directory")
	assert.Contains(t, output, "created file")
	assert.Contains(t, output, "logged/a.txt")
}
