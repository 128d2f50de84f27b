// Package version reports the build of chop. The variables are stamped with
// -ldflags "-X github.com/sadopc/chop/pkg/version.Version=...".
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the one-line build description printed by `chop version`.
func String() string {
	return fmt.Sprintf("chop %s (%s) built %s", Version, Commit, Date)
}
