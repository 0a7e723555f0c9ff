package version

// Build information set by ldflags:
// -X github.com/arthur-debert/homesync/internal/version.Version={{.Version}}
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
