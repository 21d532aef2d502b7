package cmd

import "fmt"

var (
	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records build metadata injected by the linker and exposes
// it through the --version flag.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
	rootCmd.Version = fmt.Sprintf("%s (built %s)", appVersion, appBuildTime)
}
