// Package version holds the build version of the skeleton binary.
package version

// Version is set using `go build -ldflags "-X github.com/NielsdaWheelz/skeleton/internal/version.Version=v1.2.3"`.
// Empty for development builds.
var Version string

// String returns Version, or "dev" when unset.
func String() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
