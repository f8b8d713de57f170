package utils

import (
	"runtime/debug"
)

const (
	unknownVersion      = "unknown"
	develModuleVersion  = "(devel)"
	revisionSettingKey  = "vcs.revision"
	modifiedSettingKey  = "vcs.modified"
	develVersionPrefix  = "devel+"
	dirtyVersionSuffix  = "-dirty"
	shortRevisionLength = 12
)

// Version is injected at link time with
// -ldflags "-X github.com/temirov/svgtree/internal/utils.Version=v1.2.3".
var Version string

// GetApplicationVersion reports the svgtree version from the binary alone: the
// link-time Version, then the module version, then the VCS revision stamped by
// the Go toolchain. It never consults the working directory.
func GetApplicationVersion() string {
	return resolveVersion(Version, debug.ReadBuildInfo)
}

func resolveVersion(injectedVersion string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if injectedVersion != "" {
		return injectedVersion
	}
	buildInfo, buildInfoAvailable := readBuildInfo()
	if !buildInfoAvailable || buildInfo == nil {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develModuleVersion {
		return buildInfo.Main.Version
	}

	var revision string
	var modified bool
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	version := develVersionPrefix + revision
	if modified {
		version += dirtyVersionSuffix
	}
	return version
}
