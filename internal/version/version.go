// Package version provides build-time version information.
package version

// Set at build time via -ldflags.
var (
	// Version is the service release version reported by /healthz.
	Version = "0.1.0"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)
