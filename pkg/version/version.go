// Package version reports the build identity of the colordist binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// BinaryVersion is the release version, set with -ldflags at build time.
var BinaryVersion = "dev"

// BinaryGitHash is the Git hash of the colordist binary file which is executing.
var BinaryGitHash = "<unknown>"

// BuildDate is the build timestamp, set with -ldflags at build time.
var BuildDate = "<unknown>"

// String formats the build identity on one line.
func String() string {
	return fmt.Sprintf("colordist %s (commit %s, built %s)", BinaryVersion, gitHash(), BuildDate)
}

// gitHash falls back to the VCS revision embedded by the go tool.
func gitHash() string {
	if BinaryGitHash != "<unknown>" {
		return BinaryGitHash
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return BinaryGitHash
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}

	return BinaryGitHash
}
