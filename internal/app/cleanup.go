package app

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Cleanup removes stale source checkouts left behind by interrupted
// runs. Built archives and the repository index are untouched.
func (s Service) Cleanup(ctx context.Context, req CleanupRequest) (CleanupResult, error) {
	buildRoot := valueOr(req.BuildRoot, defaultBuildRoot)
	removed, err := s.Workspace.Cleanup(buildRoot)
	if err != nil {
		return CleanupResult{}, err
	}
	log.Ctx(ctx).Info().Int("removed", removed).Str("build_root", buildRoot).Msg("cleanup complete")
	return CleanupResult{Removed: removed}, nil
}
