// Package semver validates version strings against the strict semantic
// versioning grammar: MAJOR.MINOR.PATCH with no leading zeros in numeric
// segments, an optional dot-separated prerelease and optional build metadata.
package semver

import (
	mmsemver "github.com/Masterminds/semver/v3"
)

// Valid reports whether s is a strict semantic version. Partial versions
// ("1.2"), leading zeros in the core or in numeric prerelease segments and a
// leading "v" are all rejected. Leading zeros in build metadata are allowed.
func Valid(s string) bool {
	_, err := mmsemver.StrictNewVersion(s)
	return err == nil
}
