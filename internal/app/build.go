package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/SomethingGeneric/aurdist/internal/adapters"
	"github.com/SomethingGeneric/aurdist/internal/core"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

const (
	defaultBuildRoot   = "build"
	defaultPackagesDir = "packages"
	defaultRepoName    = "aurdist"
	defaultTargetsFile = "targets.txt"
)

type buildOptions struct {
	BuildRoot   string
	PackagesDir string
	Force       bool
	NoCleanup   bool
	Debug       bool
}

// batchState carries the incrementally built report plus the set of
// targets already processed this run, so a dependency shared by two
// targets is built once.
type batchState struct {
	report types.BatchReport
	done   map[string]types.BuildAttempt
}

func newBatchState() *batchState {
	return &batchState{done: map[string]types.BuildAttempt{}}
}

func (st *batchState) record(attempt types.BuildAttempt) {
	st.report.Add(attempt)
	st.done[attempt.Target.Name] = attempt
}

// Build runs the full pipeline: every target goes through the
// check/resolve/install/build/collect machine independently, then the
// repository index is regenerated once and optionally synced outward.
// Per-target failures land in the report and never abort the batch.
func (s Service) Build(ctx context.Context, req BuildRequest) (BuildResult, error) {
	opts := buildOptions{
		BuildRoot:   valueOr(req.BuildRoot, defaultBuildRoot),
		PackagesDir: valueOr(req.PackagesDir, defaultPackagesDir),
		Force:       req.Force,
		NoCleanup:   req.NoCleanup,
		Debug:       req.Debug,
	}
	assert.NotEmpty(ctx, opts.BuildRoot, "build root must be set")
	assert.NotEmpty(ctx, opts.PackagesDir, "packages directory must be set")

	targets, err := s.resolveTargets(req.Targets, req.TargetsFile)
	if err != nil {
		return BuildResult{}, err
	}
	if len(targets) == 0 {
		return BuildResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no targets to process")
	}

	state := newBatchState()
	for _, target := range targets {
		if _, processed := state.done[target.Name]; processed {
			continue
		}
		attempt := s.processTarget(ctx, target, opts, nil, state)
		state.record(attempt)
	}

	result := BuildResult{}
	if !req.SkipPublish && state.report.Built() > 0 {
		repoName := valueOr(req.RepoName, defaultRepoName)
		if err := s.rebuildIndex(ctx, opts.PackagesDir, repoName); err != nil {
			state.report.PublishError = err.Error()
		} else {
			result.Published = true
			dest, destErr := s.resolveDestination(req.SyncDest)
			if destErr != nil {
				state.report.SyncError = destErr.Error()
			} else if dest != "" {
				if err := s.Transfer.Sync(ctx, opts.PackagesDir, dest); err != nil {
					state.report.SyncError = err.Error()
				} else {
					result.Synced = true
				}
			}
		}
	}

	if strings.TrimSpace(req.ReportPath) != "" {
		if err := s.ReportWriter.Write(req.ReportPath, state.report); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("path", req.ReportPath).Msg("failed to write report")
		}
	}
	result.Report = state.report
	return result, nil
}

// processTarget drives one target through the pipeline state machine
// and returns its finished attempt. Nested upstream dependencies are
// built depth-first through the same machine, bounded by the
// resolution chain.
func (s Service) processTarget(ctx context.Context, target types.Target, opts buildOptions, chain []string, state *batchState) types.BuildAttempt {
	logger := log.Ctx(ctx).With().Str("target", target.Name).Logger()
	ctx = logger.WithContext(ctx)
	attempt := types.BuildAttempt{Target: target, StartedAt: s.Clock()}

	logger.Debug().Str("state", string(types.StateChecking)).Msg("checking")
	inspected, err := s.inspect(ctx, target, opts)
	if err != nil {
		return failed(attempt, types.OutcomeDependencyFailure, err)
	}
	attempt.Local = versionLabel(inspected.local)
	attempt.Upstream = versionLabel(inspected.upstream)

	if !opts.Force && !inspected.dynamic && upToDate(inspected) {
		logger.Info().Str("version", inspected.local.String()).Msg("up to date")
		attempt.Outcome = types.OutcomeSkipped
		s.finishCheckout(ctx, target, opts)
		return attempt
	}
	if inspected.dynamic {
		logger.Warn().Msg("dynamic pkgver; assuming rebuild needed")
	}

	logger.Debug().Str("state", string(types.StateResolving)).Msg("resolving dependencies")
	plan, _, err := s.classifier().Classify(ctx, inspected.descriptor.Dependencies, append(chain, target.Name))
	if err != nil {
		return failed(attempt, types.OutcomeDependencyFailure, err)
	}

	logger.Debug().Str("state", string(types.StateInstalling)).
		Int("official", len(plan.Official)).
		Int("aur", len(plan.AUR)).
		Msg("installing dependencies")
	if len(plan.Official) > 0 {
		if err := s.PackageManager.Install(ctx, plan.Official); err != nil {
			return failed(attempt, types.OutcomeDependencyFailure, err)
		}
	}
	for _, depName := range plan.AUR {
		if err := s.buildDependency(ctx, depName, opts, append(chain, target.Name), state); err != nil {
			return failed(attempt, types.OutcomeDependencyFailure, err)
		}
	}

	logger.Info().Str("state", string(types.StateBuilding)).Msg("building")
	artifacts, output, err := s.BuildTool.Build(ctx, inspected.srcDir)
	if err != nil {
		attempt.Outcome = types.OutcomeBuildFailure
		attempt.Detail = output
		if strings.TrimSpace(attempt.Detail) == "" {
			attempt.Detail = err.Error()
		}
		return attempt
	}
	if opts.Debug && strings.TrimSpace(output) != "" {
		logger.Debug().Msg(output)
	}

	logger.Debug().Str("state", string(types.StateCollecting)).Msg("collecting artifacts")
	collected, err := s.Workspace.Collect(artifacts, opts.PackagesDir)
	if err != nil {
		return failed(attempt, types.OutcomeBuildFailure, err)
	}
	attempt.Artifacts = collected
	s.finishCheckout(ctx, target, opts)
	attempt.Outcome = types.OutcomeSuccess
	logger.Info().Int("artifacts", len(collected)).Msg("build complete")
	return attempt
}

// buildDependency makes one upstream dependency available before its
// dependent proceeds: build it (or reuse this run's earlier attempt),
// then install its archives.
func (s Service) buildDependency(ctx context.Context, name string, opts buildOptions, chain []string, state *batchState) error {
	if prior, ok := state.done[name]; ok {
		if prior.Failed() {
			return errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("dependency %s failed earlier in this run", name))
		}
		return s.installBuilt(ctx, prior, opts)
	}
	depOpts := opts
	depOpts.Force = false
	nested := s.processTarget(ctx, adapters.NormalizeTarget(name), depOpts, chain, state)
	state.record(nested)
	if nested.Failed() {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("dependency %s could not be built: %s", name, nested.Detail))
	}
	return s.installBuilt(ctx, nested, opts)
}

func (s Service) installBuilt(ctx context.Context, attempt types.BuildAttempt, opts buildOptions) error {
	paths := attempt.Artifacts
	if len(paths) == 0 {
		var err error
		paths, err = s.Workspace.Archives(opts.PackagesDir, attempt.Target.Name)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return s.PackageManager.InstallFiles(ctx, paths)
}

// inspection is the result of the Checking phase: source checkout,
// parsed descriptor, and the two versions being compared.
type inspection struct {
	srcDir     string
	descriptor core.Descriptor
	dynamic    bool
	local      types.Version
	upstream   types.Version
}

func (s Service) inspect(ctx context.Context, target types.Target, opts buildOptions) (inspection, error) {
	checkout := s.Workspace.CheckoutDir(opts.BuildRoot, target.Name)
	srcDir, err := s.Upstream.Clone(ctx, target.Source, checkout)
	if err != nil {
		return inspection{}, err
	}
	content, err := os.ReadFile(filepath.Join(srcDir, "PKGBUILD"))
	if err != nil {
		return inspection{}, core.MalformedDescriptorError("PKGBUILD not found", err)
	}
	result := inspection{srcDir: srcDir}
	descriptor, parseErr := core.ParseDescriptor(string(content))
	if parseErr != nil {
		if !core.IsDynamicVersion(parseErr) {
			return inspection{}, parseErr
		}
		result.dynamic = true
	}
	result.descriptor = descriptor

	local, err := s.Workspace.LocalVersion(opts.PackagesDir, target.Name)
	if err != nil {
		return inspection{}, err
	}
	result.local = local

	if target.Kind == types.TargetKindAUR {
		info, err := s.Upstream.Info(ctx, target.Name)
		if err != nil {
			return inspection{}, err
		}
		if info.Known {
			result.upstream = core.ParseVersion(info.Version)
		}
	}
	if result.upstream.IsZero() && !result.dynamic {
		result.upstream = descriptor.Version
	}
	return result, nil
}

func (s Service) finishCheckout(ctx context.Context, target types.Target, opts buildOptions) {
	if opts.NoCleanup {
		return
	}
	if err := s.Workspace.RemoveCheckout(opts.BuildRoot, target.Name); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("target", target.Name).Msg("failed to remove checkout")
	}
}

func (s Service) resolveTargets(names []string, listPath string) ([]types.Target, error) {
	if len(names) > 0 {
		targets := make([]types.Target, 0, len(names))
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			targets = append(targets, adapters.NormalizeTarget(name))
		}
		return targets, nil
	}
	return s.TargetList.Load(valueOr(listPath, defaultTargetsFile))
}

func upToDate(inspected inspection) bool {
	if inspected.local.IsZero() || inspected.upstream.IsZero() {
		return false
	}
	return core.Compare(inspected.local, inspected.upstream) >= 0
}

func failed(attempt types.BuildAttempt, outcome types.Outcome, err error) types.BuildAttempt {
	attempt.Outcome = outcome
	attempt.Detail = err.Error()
	return attempt
}

func versionLabel(version types.Version) string {
	if version.IsZero() {
		return ""
	}
	return version.String()
}

func valueOr(value string, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
