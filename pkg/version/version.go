// Package version holds build-time version info, populated from ldflags in main.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// Set stores build-time version info. Empty values keep the defaults.
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// Version returns the build version string.
func Version() string { return version }

// Commit returns the build commit hash.
func Commit() string { return commit }

// BuildDate returns the build date string.
func BuildDate() string { return buildDate }

// IsRelease reports whether the version is a semantic version rather than a dev build.
func IsRelease() bool {
	_, err := semver.StrictNewVersion(trimV(version))
	return err == nil
}

// String renders the full build line.
func String() string {
	s := fmt.Sprintf("mcp-docker %s (commit %s, built %s)", version, commit, buildDate)
	if !IsRelease() {
		s += " [development build]"
	}
	return s
}

func trimV(v string) string {
	if len(v) > 0 && v[0] == 'v' {
		return v[1:]
	}
	return v
}
