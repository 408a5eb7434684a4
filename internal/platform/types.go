// Package platform maps the host's kernel name and machine hardware name to
// the normalized {os}-{arch} tag used in sb0 release asset names.
//
// Detection reads host identification through gopsutil and falls back to the
// Go runtime values when gopsutil cannot answer. The mapping itself is the
// pure function Normalize, so every supported and unsupported combination
// can be tested without touching the host.
package platform

import "context"

// Normalized operating system names.
const (
	OSLinux = "linux"
	OSMacOS = "macos"
)

// Normalized architecture names.
const (
	ArchX64   = "x64"
	ArchARM64 = "arm64"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
// It is computed once per run and not modified afterwards.
type Info struct {
	OS      string // "linux" or "macos"
	Arch    string // "x64" or "arm64"
	Kernel  string // raw kernel name, e.g. "Linux", "Darwin"
	Machine string // raw machine name, e.g. "x86_64", "aarch64"

	// Linux only; empty when distribution detection fails.
	Platform string // distro ID, e.g. "ubuntu"
	Family   string // canonical family, e.g. "debian"
	Version  string // distro version, e.g. "22.04"
}

// Tag returns the hyphen-joined platform tag, e.g. "linux-x64".
func (i *Info) Tag() string {
	return i.OS + "-" + i.Arch
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != OSLinux || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == OSLinux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == OSMacOS
}

// IsX64 returns true if the architecture is x86-64.
func (i *Info) IsX64() bool {
	return i.Arch == ArchX64
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == ArchARM64
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == OSMacOS && i.Arch == ArchARM64
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
