/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package kvbridge

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.22.12",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4f1c2ab"},
			{Key: "vcs.time", Value: "2025-03-01T12:30:00Z"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	got := fillFromBuildInfo(VersionInfo{Version: "0.1.0", GitCommit: unknown, BuildDate: unknown, GoVersion: unknown}, bi)
	assert.Equal(t, VersionInfo{
		Version:   "0.1.0",
		GitCommit: "4f1c2ab",
		BuildDate: "2025-03-01T12:30:00Z",
		GoVersion: "go1.22.12",
	}, got)

	injected := VersionInfo{Version: "0.1.0", GitCommit: "abc", BuildDate: "today", GoVersion: "go1.21"}
	assert.Equal(t, injected, fillFromBuildInfo(injected, bi), "values set by build flags win")
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEqual(t, unknown, info.GoVersion, "test binaries carry build info")
}
