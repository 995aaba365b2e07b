package app

import (
	"context"
	"strings"

	"github.com/SomethingGeneric/aurdist/internal/adapters"
)

// Publish regenerates the repository index over the current archive
// set and, when a destination is configured, syncs it outward. The
// transfer only runs after a successful index rewrite so the
// published index never points at artifacts that were not shipped.
func (s Service) Publish(ctx context.Context, req PublishRequest) (PublishResult, error) {
	packagesDir := valueOr(req.PackagesDir, defaultPackagesDir)
	repoName := valueOr(req.RepoName, defaultRepoName)

	if err := s.rebuildIndex(ctx, packagesDir, repoName); err != nil {
		return PublishResult{}, err
	}
	dest, err := s.resolveDestination(req.SyncDest)
	if err != nil {
		return PublishResult{}, err
	}
	if dest == "" {
		return PublishResult{}, nil
	}
	if err := s.Transfer.Sync(ctx, packagesDir, dest); err != nil {
		return PublishResult{}, err
	}
	return PublishResult{Synced: true}, nil
}

func (s Service) rebuildIndex(ctx context.Context, packagesDir string, repoName string) error {
	return s.Index.Rebuild(ctx, packagesDir, repoName+".db.tar.zst")
}

// resolveDestination prefers the explicit flag/config value, falling
// back to the conventional .where file. Empty means sync is disabled.
func (s Service) resolveDestination(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return strings.TrimSpace(explicit), nil
	}
	return adapters.DestinationFromFile(adapters.DestinationFile)
}
