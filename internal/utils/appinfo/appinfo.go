// Package appinfo reports build information for health checks
package appinfo

import (
	"os"
	"runtime/debug"
)

// Name is the service name reported by the health endpoint
const Name = "linkedout"

// GetVersion returns the application version. VERSION wins, then the main
// module version, then the VCS revision stamped by the Go toolchain.
func GetVersion() string {
	if version := os.Getenv("VERSION"); version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				if len(setting.Value) > 12 {
					return setting.Value[:12]
				}
				return setting.Value
			}
		}
	}

	return "0.0.0-unknown"
}
