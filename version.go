/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import "runtime/debug"

// Version information set by build flags. Values left at "unknown" are filled
// from the binary's embedded build info when it has them.
var (
	// Version is the semantic version of kvbridge
	Version = "0.1.0"

	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"

	// BuildDate is the build date (set by build flags)
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = "unknown"
)

const unknown = "unknown"

// VersionInfo contains version information
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fillFromBuildInfo(info, bi)
	}
	return info
}

// fillFromBuildInfo replaces unknown fields with the vcs stamp and toolchain
// recorded by go build.
func fillFromBuildInfo(info VersionInfo, bi *debug.BuildInfo) VersionInfo {
	if info.GoVersion == unknown && bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown && s.Value != "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == unknown && s.Value != "" {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}
