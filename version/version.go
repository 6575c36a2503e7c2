package version // import "github.com/litcircle/litcircle/version"

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version in semantic versioning format.
// DevVersion is appended to the schema version on non-release builds.
var (
	Version    = "0.2.0"
	DevVersion = "dev"
	Mode       = "release"
)

func GetCurrentVersion() string {
	if Mode == "dev" {
		return fmt.Sprintf("%s-%s", Version, DevVersion)
	}
	return Version
}

// GetSchemaVersion returns the version the database schema is tracked under.
// Patch releases never change the schema, so the patch component is zeroed.
func GetSchemaVersion(version string) string {
	return GetMinorVersion(version) + ".0"
}

// GetMinorVersion returns the major.minor part of a version string.
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

// SortVersions sorts a list of versions in ascending semver order.
func SortVersions(versions []string) []string {
	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(canonical(versions[i]), canonical(versions[j])) < 0
	})
	return versions
}

func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) > 0
}

func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) >= 0
}

// canonical prefixes a "v" so plain "1.2.3" strings compare correctly.
func canonical(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
