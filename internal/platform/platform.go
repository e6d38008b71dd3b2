// Package platform enumerates the Bun release targets pybun can repackage
// and maps them to the Python wheel platform tags they ship under.
package platform

import (
	"fmt"
	"strings"
)

// Platform identifies a Bun release target, e.g. "linux-x64".
type Platform string

const (
	DarwinX64   Platform = "darwin-x64"
	DarwinARM64 Platform = "darwin-aarch64"
	LinuxX64    Platform = "linux-x64"
	LinuxARM64  Platform = "linux-aarch64"
	WindowsX64  Platform = "windows-x64"
)

// All returns the supported targets in build order.
func All() []Platform {
	return []Platform{DarwinX64, DarwinARM64, LinuxARM64, LinuxX64, WindowsX64}
}

// Parse validates a platform name from user input.
func Parse(value string) (Platform, error) {
	for _, p := range All() {
		if value == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q (supported: %s)", value, supportedList())
}

func supportedList() string {
	names := make([]string, 0, len(All()))
	for _, p := range All() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// WheelTag returns the Python platform tag the wheel for this target carries.
// The Linux tags claim both glibc and musl compatibility because Bun ships
// static-ish binaries that run on either.
func (p Platform) WheelTag() string {
	switch p {
	case DarwinX64:
		return "macosx_12_0_x86_64"
	case DarwinARM64:
		return "macosx_12_0_arm64"
	case LinuxARM64:
		return "manylinux_2_17_aarch64.manylinux2014_aarch64.musllinux_1_1_aarch64"
	case LinuxX64:
		return "manylinux_2_12_x86_64.manylinux2010_x86_64.musllinux_1_1_x86_64"
	case WindowsX64:
		return "win_amd64"
	}
	return ""
}

// ExecutableName returns the name of the Bun binary inside a release archive.
func (p Platform) ExecutableName() string {
	if p == WindowsX64 {
		return "bun.exe"
	}
	return "bun"
}

// ArchiveName returns the release asset name for this target.
func (p Platform) ArchiveName() string {
	return fmt.Sprintf("bun-%s.zip", p)
}

// ExecutablePath returns the path of the Bun binary within the release archive.
func (p Platform) ExecutablePath() string {
	return fmt.Sprintf("bun-%s/%s", p, p.ExecutableName())
}
