package adapters

import (
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
)

// RepoAddAdapter rewrites the pacman repository database with the
// repo-add tool. repo-add skips archives already present in the
// database, so rebuilding over the full set is idempotent.
type RepoAddAdapter struct{}

func NewRepoAddAdapter() RepoAddAdapter {
	return RepoAddAdapter{}
}

func (a RepoAddAdapter) Rebuild(ctx context.Context, repoDir string, dbName string) error {
	if strings.TrimSpace(repoDir) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository directory is empty")
	}
	if strings.TrimSpace(dbName) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("database name is empty")
	}
	archives, err := filepath.Glob(filepath.Join(repoDir, "*"+shared.ArchiveSuffix))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list archives").
			WithCause(err)
	}
	if len(archives) == 0 {
		log.Ctx(ctx).Warn().Str("dir", repoDir).Msg("no archives to index")
		return nil
	}
	sort.Strings(archives)
	args := []string{"-n", dbName}
	for _, archive := range archives {
		args = append(args, filepath.Base(archive))
	}
	cmd := exec.CommandContext(ctx, "repo-add", args...)
	cmd.Dir = repoDir
	output, runErr := cmd.CombinedOutput()
	if runErr != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("repo-add failed").
			WithCause(shared.CommandError(output, runErr))
	}
	return nil
}

var _ ports.IndexPort = RepoAddAdapter{}
