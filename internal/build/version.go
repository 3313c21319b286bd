// Package build provides version and build information for fraglog.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info is a snapshot of the build variables plus the runtime they run on.
type Info struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit"`
	BuildDate string `yaml:"built"`
	GoVersion string `yaml:"go"`
	Platform  string `yaml:"platform"`
}

// IsDevBuild reports whether the binary was built without release ldflags.
func (i Info) IsDevBuild() bool {
	return i.Version == "dev"
}

// Current returns the build information of the running binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
