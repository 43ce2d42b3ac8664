package server

import (
	"github.com/Masterminds/semver/v3"
)

// Version is the server release version.
const Version = "0.1.0"

// APIVersion is the version of the HTTP API contract. Clients built against
// the same major version can talk to this server.
const APIVersion = "1.0.0"

var apiVersionConstraint *semver.Constraints

func init() {
	var err error
	apiVersionConstraint, err = semver.NewConstraint("^" + APIVersion)
	if err != nil {
		panic(err)
	}
}

// IsAPIVersionCompatible reports whether version, as reported by a server,
// is compatible with the API this package implements. Invalid version strings
// are incompatible.
func IsAPIVersionCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return apiVersionConstraint.Check(v)
}
