// Package version holds build information injected at link time:
//
//	go build -ldflags "-X github.com/jackzampolin/provlink/version.GitRelease=v0.3.0 ..."
package version

import "runtime"

var (
	// GitRelease is the release tag.
	GitRelease = "dev"
	// GitCommit is the commit hash.
	GitCommit = "unknown"
	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
	// GoInfo is the toolchain the binary was built with.
	GoInfo = runtime.Version()
)
