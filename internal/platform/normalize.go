package platform

import (
	"fmt"
	"strings"

	"github.com/terminal-use/sb0-install/internal/fault"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// Normalize maps a kernel name (as printed by `uname -s`) and a machine
// hardware name (as printed by `uname -m`) to platform Info.
// It is pure: the same inputs always produce the same result.
func Normalize(kernel, machine string) (*Info, error) {
	osName, err := normalizeOS(kernel)
	if err != nil {
		return nil, err
	}
	arch, err := normalizeArch(machine)
	if err != nil {
		return nil, err
	}
	return &Info{
		OS:      osName,
		Arch:    arch,
		Kernel:  kernel,
		Machine: machine,
	}, nil
}

// normalizeOS accepts Linux* and Darwin* kernel names. Matching is
// case-insensitive so runtime.GOOS values ("linux", "darwin") map too.
func normalizeOS(kernel string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(kernel))
	switch {
	case strings.HasPrefix(lower, "linux"):
		return OSLinux, nil
	case strings.HasPrefix(lower, "darwin"):
		return OSMacOS, nil
	default:
		return "", fault.New(fault.KindEnvironment, "detect platform",
			fmt.Sprintf("unsupported operating system: %s", kernel))
	}
}

// normalizeArch converts machine names to release architecture names.
func normalizeArch(machine string) (string, error) {
	switch strings.TrimSpace(machine) {
	case "x86_64", "amd64":
		return ArchX64, nil
	case "aarch64", "arm64":
		return ArchARM64, nil
	default:
		return "", fault.New(fault.KindEnvironment, "detect platform",
			fmt.Sprintf("unsupported architecture: %s", machine))
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}
