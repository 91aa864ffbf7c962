// Package buildinfo carries the version stamped into boardkit binaries.
//
// Release builds overwrite the defaults via ldflags:
//
//	go build -ldflags "-X github.com/boardkit/boardkit/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/boardkit/boardkit/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/boardkit/boardkit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Set via ldflags; the defaults identify a local development build.
var (
	// Version is the semantic version, "v1.2.3".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the build information as printed by "boardkit --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
