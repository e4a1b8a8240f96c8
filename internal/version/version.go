package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/usdtools/usdmerge/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/usdtools/usdmerge/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/usdtools/usdmerge/internal/version.Date={{.Date}}
)
