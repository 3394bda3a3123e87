// Build information stamped through -ldflags, e.g.
//   go build -ldflags "-X github.com/nobletooth/dlist/pkg/utils.Version=v0.1.0"
// Unset values are reported as "unknown".

package utils

import (
	"log/slog"
	"strconv"
	"time"
)

const unknownBuildInfo = "unknown"

var (
	TestMode   string // Should be true when running tests.
	IsTestMode bool
	Version    string
	Commit     string
	BuildTime  string
	StartTime  time.Time
)

func init() {
	StartTime = time.Now()

	// If build info is not set, make that clear.
	if Version == "" {
		Version = unknownBuildInfo
	}
	if Commit == "" {
		Commit = unknownBuildInfo
	}
	if BuildTime == "" {
		BuildTime = unknownBuildInfo
	}
	if len(TestMode) > 0 {
		if isTestMode, err := strconv.ParseBool(TestMode); err == nil {
			IsTestMode = isTestMode
		} else {
			slog.Warn("Failed to parse TestMode build flag, defaulting to false", "error", err)
		}
	}
}

// BuildInfo returns the stamped build information as slog attributes.
func BuildInfo() []any {
	return []any{"version", Version, "commit", Commit, "build", BuildTime, "uptime", time.Since(StartTime).String()}
}
