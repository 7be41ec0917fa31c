package config

import "fmt"

// ModuleName is the name of the module, also used as the service
// identifier in logs and metrics.
const ModuleName = "swapd"

// Build arguments, set via ldflags at compile time.
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetFormattedBuildArgs returns "<module> @ <commit> (<build date>)".
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
