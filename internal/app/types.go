package app

import "github.com/SomethingGeneric/aurdist/internal/types"

type BuildRequest struct {
	Targets     []string
	TargetsFile string
	BuildRoot   string
	PackagesDir string
	RepoName    string
	SyncDest    string
	ReportPath  string
	Force       bool
	NoCleanup   bool
	Debug       bool
	SkipPublish bool
}

type BuildResult struct {
	Report    types.BatchReport
	Published bool
	Synced    bool
}

type CheckRequest struct {
	Targets     []string
	TargetsFile string
	BuildRoot   string
	PackagesDir string
	NoCleanup   bool
}

// TargetStatus is one row of check-only output.
type TargetStatus struct {
	Target     types.Target
	Local      string
	Upstream   string
	NeedsBuild bool
	Note       string
}

type CheckResult struct {
	Statuses []TargetStatus
}

type PublishRequest struct {
	PackagesDir string
	RepoName    string
	SyncDest    string
}

type PublishResult struct {
	Synced bool
}

type CleanupRequest struct {
	BuildRoot string
}

type CleanupResult struct {
	Removed int
}
