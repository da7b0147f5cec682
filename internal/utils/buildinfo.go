package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develModuleVersion = "(devel)"
)

// ApplicationVersion is injected at link time with
// -ldflags "-X github.com/temirov/gitree/internal/utils.ApplicationVersion=v1.2.3".
var ApplicationVersion = ""

// GetApplicationVersion resolves the version string shown by --version. The
// link-time value wins, then module build information, then git describe run
// from the working directory.
func GetApplicationVersion() string {
	if ApplicationVersion != "" {
		return ApplicationVersion
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develModuleVersion {
		return buildInfo.Main.Version
	}
	// #nosec G204
	describeCommand := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	describeOutput, describeError := describeCommand.Output()
	if describeError == nil {
		if trimmedVersion := strings.TrimSpace(string(describeOutput)); trimmedVersion != "" {
			return trimmedVersion
		}
	}
	return unknownVersion
}
