package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/config"
)

func TestLoadIgnoreFilePatterns(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, ".gitignore")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\n*.log\n build/ \n"), 0o600))

	patterns, err := config.LoadIgnoreFilePatterns(path)
	require.NoError(t, err)
	require.Equal(t, []string{"*.log", "build/"}, patterns)

	missing, err := config.LoadIgnoreFilePatterns(filepath.Join(directory, "absent"))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestLoadCombinedIgnorePatterns(t *testing.T) {
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, ".ignore"), []byte("dist/\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(directory, ".gitignore"), []byte("*.log\ndist/\n"), 0o600))

	testCases := []struct {
		name           string
		useIgnoreFiles bool
		exclusions     []string
		expected       []string
	}{
		{name: "flags only", useIgnoreFiles: false, exclusions: []string{"*.tmp", " "}, expected: []string{"*.tmp"}},
		{name: "with ignore files", useIgnoreFiles: true, exclusions: []string{"*.log", "*.tmp"}, expected: []string{"dist/", "*.log", ".git/", "*.tmp"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			patterns, err := config.LoadCombinedIgnorePatterns(directory, testCase.exclusions, testCase.useIgnoreFiles)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, patterns)
		})
	}
}
