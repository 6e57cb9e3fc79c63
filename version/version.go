// Package version exposes build identification for the syrinx binaries.
package version

import (
	"os"
	"path/filepath"
	"runtime/debug"
)

// Name returns the binary name as invoked.
func Name() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return "syrinx"
	}

	return filepath.Base(os.Args[0])
}

// Version returns the module version stamped by the Go toolchain, or
// "devel" for untagged local builds.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}

	return info.Main.Version
}

// Commit returns the VCS revision stamped by the Go toolchain, if any.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}

	return ""
}
