package version

import (
	"runtime"
	"runtime/debug"
)

// unset marks an ldflags variable that was not injected.
const unset = "none"

// shortCommitLength is how many characters of a VCS revision are printed.
const shortCommitLength = 7

var (
	// Version is the semantic version of the thermostat build. Overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA injected at release time.
	// Plain `go build` falls back to the VCS stamp of the binary.
	Commit = unset
	// BuildTime is the UTC build timestamp injected at release time.
	// Plain `go build` falls back to the commit time of the VCS stamp.
	BuildTime = unset
)

// Info is the build metadata of the running binary.
type Info struct {
	// Version is the semantic version.
	Version string
	// Commit is the short revision, "none" when unknown.
	Commit string
	// BuildTime is the build or commit timestamp, "none" when unknown.
	BuildTime string
	// Modified reports a build from a dirty work tree.
	Modified bool
	// GoVersion is the toolchain the binary was built with.
	GoVersion string
}

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version line printed by `thermostat version`.
func Full() string {
	return Read().String()
}

// Read merges the ldflags variables with the VCS stamp embedded by the Go toolchain.
func Read() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	return info.withSettings(build.Settings)
}

// withSettings fills the fields ldflags left unset from build settings.
func (i Info) withSettings(settings []debug.BuildSetting) Info {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if i.Commit == unset && setting.Value != "" {
				i.Commit = setting.Value[:min(len(setting.Value), shortCommitLength)]
			}
		case "vcs.time":
			if i.BuildTime == unset && setting.Value != "" {
				i.BuildTime = setting.Value
			}
		case "vcs.modified":
			i.Modified = setting.Value == "true"
		}
	}

	return i
}

// String renders the metadata on one line.
func (i Info) String() string {
	commit := i.Commit
	if i.Modified {
		commit += "-dirty"
	}

	return "thermostat " + i.Version + " (commit " + commit + ", built " + i.BuildTime + ", " + i.GoVersion + ")"
}
