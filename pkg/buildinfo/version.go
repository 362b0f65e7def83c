// Package buildinfo holds the version stamped into novelgraph builds.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/novelgraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/novelgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/novelgraph
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the UTC build time.
	Date = "unknown"
)

// Info is the build description reported by the preview server.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build description.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the build description on one line.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
