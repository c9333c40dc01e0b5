// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String renders the metadata for the version subcommands.
func String() string {
	return fmt.Sprintf("namegen version=%s commit=%s build_date=%s go=%s", Version, Commit, BuildDate, runtime.Version())
}
