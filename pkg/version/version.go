package version

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X .../pkg/version.GitCommit=$(git rev-parse HEAD)"
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
