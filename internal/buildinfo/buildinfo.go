package buildinfo

import "time"

// Set via -ldflags at build time
var (
	Version    = "dev" // release version or "dev"
	BuildTime  string  // when the binary was compiled
	CommitHash string  // short git commit hash
)

// StartTime is recorded when the process starts
var StartTime = time.Now().UTC().Format(time.RFC3339)

// Uptime returns how long the process has been running
func Uptime() time.Duration {
	start, err := time.Parse(time.RFC3339, StartTime)
	if err != nil {
		return 0
	}
	return time.Since(start).Round(time.Second)
}
