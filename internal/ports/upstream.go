package ports

import "context"

// UpstreamInfo is the upstream source-of-truth view of one package.
type UpstreamInfo struct {
	Name    string
	Version string
	Known   bool
}

// UpstreamPort looks up package metadata in the upstream repository
// and fetches source trees for building.
type UpstreamPort interface {
	Info(ctx context.Context, name string) (UpstreamInfo, error)

	// Clone checks out the source at the given URL into destDir,
	// replacing any stale checkout, and returns the checkout path.
	Clone(ctx context.Context, source string, destDir string) (string, error)
}
