package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/config"
)

func writeConfiguration(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(t *testing.T) {
	homeDirectory := t.TempDir()
	workingDirectory := t.TempDir()
	writeConfiguration(t, filepath.Join(homeDirectory, ".svgtree", ".svgtree.yaml"), "render:\n  depth: 5\n  theme: global.toml\n  exclude: [\"*.log\"]\n")
	writeConfiguration(t, filepath.Join(workingDirectory, ".svgtree.yaml"), "render:\n  depth: 3\n  collapsed: true\n")

	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    homeDirectory,
	})
	require.NoError(t, err)
	require.NotNil(t, configuration.Render.Depth)
	require.Equal(t, 3, *configuration.Render.Depth)
	require.Equal(t, "global.toml", configuration.Render.Theme)
	require.Equal(t, []string{"*.log"}, configuration.Render.Exclude)
	require.NotNil(t, configuration.Render.Collapsed)
	require.True(t, *configuration.Render.Collapsed)
	require.Nil(t, configuration.Render.Size)
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	workingDirectory := t.TempDir()
	writeConfiguration(t, filepath.Join(workingDirectory, "custom", "svgtree.yaml"), "render:\n  file_preview: [\"*.go\", \"*.go\"]\n")

	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: filepath.Join("custom", "svgtree.yaml"),
		HomeDirectory:    t.TempDir(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"*.go"}, configuration.Render.FilePreview)
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	workingDirectory := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(workingDirectory, ".svgtree.yaml"), 0o755))

	_, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		HomeDirectory:    t.TempDir(),
	})
	require.Error(t, err)
}
