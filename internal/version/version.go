// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/searchretriever/internal/version.Version=v1.2.0
package version

import "fmt"

// Build metadata. Defaults apply to `go run` and tests.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the metadata on one line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
