// Package release resolves the sb0 release tag to install: an explicit
// version is normalized and validated locally, otherwise the latest release
// tag is read from the GitHub releases API.
package release

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/terminal-use/sb0-install/internal/fault"
)

// tagPattern is the accepted release tag format.
var tagPattern = regexp.MustCompile(`^v[0-9]+\.[0-9]+\.[0-9]+([-.][0-9A-Za-z._-]+)?$`)

// Normalize prefixes version with "v" unless it already has one.
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Validate reports a version fault unless tag matches the release pattern.
// tag must already be normalized.
func Validate(tag string) error {
	if !tagPattern.MatchString(tag) {
		return fault.New(fault.KindVersion, "validate version",
			fmt.Sprintf("invalid version format: %q (expected vMAJOR.MINOR.PATCH[-PRERELEASE], e.g. v1.2.3)", tag))
	}
	return nil
}

// Plain returns tag without its leading "v", as used in archive names,
// versioned directories and the marker file.
func Plain(tag string) string {
	return strings.TrimPrefix(tag, "v")
}

// ParseExplicit normalizes and validates a user-requested version.
func ParseExplicit(version string) (string, error) {
	tag := Normalize(version)
	if err := Validate(tag); err != nil {
		return "", err
	}
	return tag, nil
}
