package release

import (
	"github.com/Masterminds/semver/v3"
)

// Change describes how a new install relates to the installed assets.
type Change int

const (
	// ChangeFresh means no assets were installed before.
	ChangeFresh Change = iota
	// ChangeUpgrade means the new version is newer.
	ChangeUpgrade
	// ChangeDowngrade means the new version is older.
	ChangeDowngrade
	// ChangeReinstall means the same version is installed again.
	ChangeReinstall
	// ChangeReplace means the installed version could not be compared.
	ChangeReplace
)

// String returns the verb used in progress output.
func (c Change) String() string {
	switch c {
	case ChangeFresh:
		return "installing"
	case ChangeUpgrade:
		return "upgrading"
	case ChangeDowngrade:
		return "downgrading"
	case ChangeReinstall:
		return "reinstalling"
	default:
		return "replacing"
	}
}

// Compare classifies installing next over installed. Both are plain or
// v-prefixed versions; installed is empty when nothing was installed.
func Compare(installed, next string) Change {
	if installed == "" {
		return ChangeFresh
	}
	if Plain(installed) == Plain(next) {
		return ChangeReinstall
	}

	prev, err := semver.NewVersion(installed)
	if err != nil {
		return ChangeReplace
	}
	cur, err := semver.NewVersion(next)
	if err != nil {
		return ChangeReplace
	}

	switch cur.Compare(prev) {
	case 1:
		return ChangeUpgrade
	case -1:
		return ChangeDowngrade
	default:
		return ChangeReinstall
	}
}
