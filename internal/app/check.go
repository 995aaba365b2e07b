package app

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Check runs the Checking phase for every target and reports whether
// a build would be needed, without building anything.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	opts := buildOptions{
		BuildRoot:   valueOr(req.BuildRoot, defaultBuildRoot),
		PackagesDir: valueOr(req.PackagesDir, defaultPackagesDir),
		NoCleanup:   req.NoCleanup,
	}
	targets, err := s.resolveTargets(req.Targets, req.TargetsFile)
	if err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{}
	for _, target := range targets {
		status := TargetStatus{Target: target}
		inspected, err := s.inspect(ctx, target, opts)
		if err != nil {
			status.NeedsBuild = true
			status.Note = err.Error()
			result.Statuses = append(result.Statuses, status)
			continue
		}
		status.Local = versionLabel(inspected.local)
		status.Upstream = versionLabel(inspected.upstream)
		status.NeedsBuild = inspected.dynamic || !upToDate(inspected)
		switch {
		case inspected.dynamic:
			status.Note = "dynamic pkgver; assuming rebuild needed"
		case inspected.local.IsZero():
			status.Note = "not built yet"
		}
		s.finishCheckout(ctx, target, opts)
		result.Statuses = append(result.Statuses, status)
	}
	log.Ctx(ctx).Debug().Int("targets", len(result.Statuses)).Msg("check complete")
	return result, nil
}
