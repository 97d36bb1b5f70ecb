// Package version provides application version information.
// The version can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/siege-stats/internal/version.Version=v1.2.3" ./cmd/siege-stats
package version

// Version is the application version, "dev" unless set at build time.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// UserAgent is sent to the stats provider with every request.
func UserAgent() string {
	return "siege-stats/" + Version
}
