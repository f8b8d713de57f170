package utils

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func staticBuildInfo(buildInfo *debug.BuildInfo, available bool) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) { return buildInfo, available }
}

func TestResolveVersion(t *testing.T) {
	develWithRevision := &debug.BuildInfo{
		Main: debug.Module{Version: develModuleVersion},
		Settings: []debug.BuildSetting{
			{Key: revisionSettingKey, Value: "0123456789abcdef0123"},
			{Key: modifiedSettingKey, Value: "false"},
		},
	}
	develDirty := &debug.BuildInfo{
		Main: debug.Module{Version: develModuleVersion},
		Settings: []debug.BuildSetting{
			{Key: revisionSettingKey, Value: "abc123"},
			{Key: modifiedSettingKey, Value: "true"},
		},
	}
	testCases := []struct {
		testName      string
		injected      string
		readBuildInfo func() (*debug.BuildInfo, bool)
		expected      string
	}{
		{testName: "link time version wins", injected: "v1.2.3", readBuildInfo: staticBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "v0.0.1"}}, true), expected: "v1.2.3"},
		{testName: "module version", readBuildInfo: staticBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, true), expected: "v0.4.0"},
		{testName: "devel build uses short revision", readBuildInfo: staticBuildInfo(develWithRevision, true), expected: "devel+0123456789ab"},
		{testName: "devel build marks modified tree", readBuildInfo: staticBuildInfo(develDirty, true), expected: "devel+abc123-dirty"},
		{testName: "devel build without revision", readBuildInfo: staticBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: develModuleVersion}}, true), expected: unknownVersion},
		{testName: "no build info", readBuildInfo: staticBuildInfo(nil, false), expected: unknownVersion},
	}
	for _, testCase := range testCases {
		t.Run(testCase.testName, func(t *testing.T) {
			require.Equal(t, testCase.expected, resolveVersion(testCase.injected, testCase.readBuildInfo))
		})
	}
}

func TestGetApplicationVersionIgnoresWorkingDirectory(t *testing.T) {
	expected := GetApplicationVersion()

	unrelatedRepository := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(unrelatedRepository, GitDirectoryName, "refs", "tags"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(unrelatedRepository, GitDirectoryName, "refs", "tags", "unrelated-project-v9.9.9"), []byte("0123456789abcdef\n"), 0o600))
	t.Chdir(unrelatedRepository)

	require.Equal(t, expected, GetApplicationVersion())
	require.NotEqual(t, "unrelated-project-v9.9.9", GetApplicationVersion())
}
