// Package buildinfo holds version information stamped in by the linker:
//
//	go build -ldflags "-X github.com/matzehuels/jiapu/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/jiapu/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/jiapu/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent is sent by the API client, e.g. "jiapu/v0.3.0 (abc1234)".
func UserAgent() string {
	return fmt.Sprintf("jiapu/%s (%s)", Version, Commit)
}
