package config

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at link time with -ldflags "-X ...", see SetBuildFlags
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records the values main received from the linker
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
}

// Build returns the build info. A `go install`ed binary has no linker
// flags, so the module version is used instead of "dev".
func Build() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
	}
	return info
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("raffle version %s (commit %s, built %s, %s)", b.Version, b.Commit, b.Date, b.GoVersion)
}
