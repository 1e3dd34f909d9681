// Package buildinfo carries version metadata stamped in via ldflags.
package buildinfo

var (
	// Version of the cashcast binary.
	Version = "dev"
	// Commit the binary was built from.
	Commit = "none"
	// Date of the build.
	Date = "unknown"
)
