// Package buildinfo reports which canopy build is running.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/canopy/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/canopy/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/canopy/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds without stamps (go install, go run) fall back to the module version
// and VCS settings the Go toolchain embeds in the binary.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Unstamped values.
const (
	devVersion  = "dev"
	noCommit    = "none"
	unknownDate = "unknown"
)

// Set via ldflags.
var (
	Version = devVersion
	Commit  = noCommit
	Date    = unknownDate
)

// Info is resolved build information.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// Get resolves build information. Stamped values win over embedded ones.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi == nil {
		return info
	}
	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == noCommit:
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == unknownDate:
			info.Date = s.Value
		}
	}
	return info
}

// String formats the information one field per line.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", i.Version, i.Commit, i.Date, i.GoVersion)
}

// Template returns the cobra version template for i.
func (i Info) Template() string {
	return fmt.Sprintf("{{.Name}} version {{.Version}}\ncommit: %s\nbuilt: %s\ngo: %s\n", i.Commit, i.Date, i.GoVersion)
}
