// Package contracts holds the types shared between the server and its
// clients: version metadata here, JSON DTOs in domain, WebSocket messages in
// events.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// APIVersion is the version of the HTTP and WebSocket contracts
	APIVersion = "v1"
)

// Set at build time with -ldflags "-X rollbook/pkg/contracts.Version=..."
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("rollbook v%s (commit %s)", Version, GitCommit)
}
