package ports

import "context"

// IndexPort regenerates the repository database over the archive set
// in repoDir. Re-adding an unchanged archive is a no-op.
type IndexPort interface {
	Rebuild(ctx context.Context, repoDir string, dbName string) error
}

// TransferPort syncs a local directory to a remote destination.
type TransferPort interface {
	Sync(ctx context.Context, localDir string, destination string) error
}
