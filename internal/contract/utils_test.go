package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		input    float64
		expected string
	}{
		{9.1, schema.ExcellentValue},
		{8.0, schema.ExcellentValue},
		{6.5, schema.GoodValue},
		{4.0, schema.FairValue},
		{3.99, schema.PoorValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetColorLabel(tt.input))
	}
}

func TestStatusBadge(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	assert.Equal(t, "", StatusBadge(schema.NoStatus, true))
	assert.Equal(t, "", StatusBadge(schema.NoneStatus, false))
	assert.Equal(t, "[Requested]", StatusBadge(schema.RequestedStatus, false))
	assert.Equal(t, "[No Availability]", StatusBadge(schema.NoAvailabilityStatus, true))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".elcfinder_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	historyPath := GetHistoryDBFilePath()
	assert.Contains(t, historyPath, ".elcfinder_history.db")
	assert.NotEqual(t, cachePath, historyPath)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Short", TruncateName("Short", 10))
	assert.Equal(t, "Little ...", TruncateName("Little Oaks Early Learning", 10))
	assert.Equal(t, "abcdef", TruncateName("abcdef", 3))
	assert.Equal(t, "Ünïc...", TruncateName("Ünïcödé Centre", 7))
}

func TestIsRemoteSource(t *testing.T) {
	assert.True(t, IsRemoteSource("https://example.com/schools.json"))
	assert.True(t, IsRemoteSource(" HTTP://example.com"))
	assert.False(t, IsRemoteSource("schools.json"))
	assert.False(t, IsRemoteSource("ftp://example.com/schools.json"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}
