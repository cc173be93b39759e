package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/mwu/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/mwu/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/mwu/internal/version.Date={{.Date}}
)

// String is the one-line build description printed by `mwu version`
func String() string {
	return fmt.Sprintf("mwu %s (commit %s, built %s)", Version, Commit, Date)
}
