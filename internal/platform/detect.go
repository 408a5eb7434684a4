package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector by reading the host identification.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reads the kernel and machine names and normalizes them.
// gopsutil supplies the machine name (uname -m) and, on Linux, the
// distribution details; runtime values are used when it cannot.
// Distribution detection failures are not fatal.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	kernel := kernelName(ctx)

	machine, err := host.KernelArch()
	if err != nil || strings.TrimSpace(machine) == "" {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		machine = runtime.GOARCH
	}

	info, err := Normalize(kernel, machine)
	if err != nil {
		return nil, err
	}

	if info.IsLinux() {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}

// kernelName returns the host OS name as gopsutil reports it, falling back
// to runtime.GOOS.
func kernelName(ctx context.Context) string {
	stat, err := host.InfoWithContext(ctx)
	if err != nil || stat == nil || stat.OS == "" {
		return runtime.GOOS
	}
	return stat.OS
}

// StaticDetector returns a fixed kernel and machine pair. It is used when
// the host identification is already known, e.g. for cross-platform installs.
type StaticDetector struct {
	Kernel  string
	Machine string
}

// Detect normalizes the configured kernel and machine names.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Normalize(d.Kernel, d.Machine)
}
