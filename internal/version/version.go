// Package version reports the pybun module version.
package version

import (
	"runtime/debug"
	"strings"
)

// String returns the version recorded in build info, or "(devel)" for local
// and dirty builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	v := info.Main.Version
	if v == "" || v == "(devel)" || strings.Contains(v, "+dirty") {
		return "(devel)"
	}
	return v
}
