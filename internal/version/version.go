// Package version provides build version information for the application.
// This is a separate package so cli, api and gui can share it without import cycles.
package version

// Version is the build version string, set by ldflags during build.
// Format: vX.Y.Z or vX.Y.Z-dev for development builds.
var Version = "v0.3.0"

// BuildTime is the build timestamp, set by ldflags during build.
var BuildTime = "unknown"

// UserAgent is sent with every outgoing API request.
func UserAgent() string {
	return "jira-notify/" + Version
}
