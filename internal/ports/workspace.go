package ports

import "github.com/SomethingGeneric/aurdist/internal/types"

// WorkspacePort manages the build root (per-target source checkouts)
// and the packages directory holding built archives.
type WorkspacePort interface {
	// CheckoutDir returns the per-target checkout path under the
	// build root without creating it.
	CheckoutDir(buildRoot string, name string) string

	// LocalVersion scans packagesDir for archives of the named
	// package and returns the highest built version, or a zero
	// version when none exist.
	LocalVersion(packagesDir string, name string) (types.Version, error)

	// Archives returns the archive paths for the named package at
	// its highest built version.
	Archives(packagesDir string, name string) ([]string, error)

	// Collect copies built artifacts into packagesDir and returns
	// the destination paths in input order.
	Collect(artifacts []string, packagesDir string) ([]string, error)

	RemoveCheckout(buildRoot string, name string) error

	// Cleanup removes every checkout under the build root and
	// returns how many were removed.
	Cleanup(buildRoot string) (int, error)
}
