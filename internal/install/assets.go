package install

import (
	"fmt"
	"strings"

	"github.com/terminal-use/sb0-install/internal/release"
)

// DefaultDownloadBase is the host serving release downloads.
const DefaultDownloadBase = "https://github.com"

// BinaryFilename returns the binary asset name for a platform tag.
func BinaryFilename(platformTag string) string {
	return fmt.Sprintf("%s-%s", BinaryName, platformTag)
}

// WheelsFilename returns the wheels archive name for a plain version.
func WheelsFilename(version string) string {
	return fmt.Sprintf("%s-wheels-%s.tar.gz", BinaryName, version)
}

// TemplatesFilename returns the templates archive name for a plain version.
func TemplatesFilename(version string) string {
	return fmt.Sprintf("%s-templates-%s.tar.gz", BinaryName, version)
}

// ReleaseURL returns the download URL of filename in release tag of repo.
// Pattern: {base}/{repo}/releases/download/{tag}/{filename}
func ReleaseURL(base, repo, tag, filename string) string {
	if base == "" {
		base = DefaultDownloadBase
	}
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", strings.TrimRight(base, "/"), repo, tag, filename)
}

// releaseAssets returns the three assets of a release in install order.
func releaseAssets(base, repo, tag, platformTag string) []Asset {
	version := release.Plain(tag)
	names := []struct {
		kind     AssetKind
		filename string
	}{
		{AssetBinary, BinaryFilename(platformTag)},
		{AssetWheels, WheelsFilename(version)},
		{AssetTemplates, TemplatesFilename(version)},
	}

	assets := make([]Asset, 0, len(names))
	for _, n := range names {
		assets = append(assets, Asset{
			Kind:     n.kind,
			Filename: n.filename,
			URL:      ReleaseURL(base, repo, tag, n.filename),
		})
	}
	return assets
}
