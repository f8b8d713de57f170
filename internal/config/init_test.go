package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/svgtree/internal/config"
)

func TestInitializeConfigurationLocal(t *testing.T) {
	workingDirectory := t.TempDir()

	path, err := config.InitializeConfiguration(config.InitOptions{WorkingDirectory: workingDirectory})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(workingDirectory, ".svgtree.yaml"), path)

	loaded, err := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, "tree.svg", loaded.Render.Output)
	require.NotNil(t, loaded.Render.Depth)
	require.Equal(t, 2, *loaded.Render.Depth)

	_, err = config.InitializeConfiguration(config.InitOptions{WorkingDirectory: workingDirectory})
	require.Error(t, err, "existing file must not be overwritten without force")

	_, err = config.InitializeConfiguration(config.InitOptions{WorkingDirectory: workingDirectory, Force: true})
	require.NoError(t, err)
}

func TestInitializeConfigurationGlobal(t *testing.T) {
	homeDirectory := t.TempDir()

	path, err := config.InitializeConfiguration(config.InitOptions{Target: config.InitTargetGlobal, HomeDirectory: homeDirectory})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(homeDirectory, ".svgtree", ".svgtree.yaml"), path)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}

func TestInitializeConfigurationUnknownTarget(t *testing.T) {
	_, err := config.InitializeConfiguration(config.InitOptions{Target: "elsewhere", WorkingDirectory: t.TempDir()})
	require.Error(t, err)
}
