package mp3split

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of mp3split.
const Version = "0.3.0"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// String renders the build on one line.
func (v VersionInfo) String() string {
	return fmt.Sprintf("mp3split %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
}

// GetVersionInfo returns detailed version information.
//
// GitCommit and BuildTime are set at build time via -ldflags:
//
//	go build -ldflags="-X github.com/simonhull/mp3split.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/mp3split.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/mp3split
//
// Without ldflags the VCS revision recorded by the Go toolchain is used
// when available.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}

	return info
}

// Variables populated at build time via -ldflags.
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)
