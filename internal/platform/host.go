package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// Info describes the host pybun is running on.
type Info struct {
	OS            string // runtime.GOOS
	Arch          string // runtime.GOARCH
	Distro        string // Linux distribution name, when detectable
	DistroVersion string
}

// ErrUnsupportedHost reports a host that maps to no Bun release target.
type ErrUnsupportedHost struct {
	OS   string
	Arch string
}

func (e *ErrUnsupportedHost) Error() string {
	return fmt.Sprintf("no Bun release target for host %s/%s", e.OS, e.Arch)
}

// DetectHost inspects the running host. On Linux it additionally resolves the
// distribution via gopsutil; distro detection failures are non-fatal and leave
// the distro fields empty.
func DetectHost(ctx context.Context) (Info, error) {
	info := Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if runtime.GOOS == "linux" {
		distro, _, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Info{}, fmt.Errorf("host detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}
		info.Distro = distro
		info.DistroVersion = version
	}

	return info, nil
}

// Target maps the host to the Bun release target that runs on it.
func (i Info) Target() (Platform, error) {
	switch i.OS + "/" + i.Arch {
	case "darwin/amd64":
		return DarwinX64, nil
	case "darwin/arm64":
		return DarwinARM64, nil
	case "linux/amd64":
		return LinuxX64, nil
	case "linux/arm64":
		return LinuxARM64, nil
	case "windows/amd64":
		return WindowsX64, nil
	}
	return "", &ErrUnsupportedHost{OS: i.OS, Arch: i.Arch}
}

func (i Info) String() string {
	if i.Distro != "" {
		return fmt.Sprintf("%s/%s (%s %s)", i.OS, i.Arch, i.Distro, i.DistroVersion)
	}
	return fmt.Sprintf("%s/%s", i.OS, i.Arch)
}
