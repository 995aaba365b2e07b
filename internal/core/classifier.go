package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

// Classifier decides, for each declared dependency, whether it is
// already satisfied, installable from the official repositories,
// buildable from upstream, or unresolvable.
type Classifier struct {
	PackageManager ports.PackageManagerPort
	Upstream       ports.UpstreamPort
}

func NewClassifier(packageManager ports.PackageManagerPort, upstream ports.UpstreamPort) Classifier {
	return Classifier{
		PackageManager: packageManager,
		Upstream:       upstream,
	}
}

// Classify resolves the dependency list for one target. chain holds
// the names currently being resolved, outermost first; a dependency
// already on the chain is a cycle and fails that branch immediately
// instead of recursing. Every unresolvable name is gathered before
// failing so the operator sees the full list at once.
//
// The returned plan installs official packages as a single batch and
// lists upstream packages in declaration order; dependency-first
// ordering across nesting levels comes from the orchestrator building
// each upstream dependency to completion before its dependent.
func (c Classifier) Classify(ctx context.Context, constraints []types.Constraint, chain []string) (types.InstallPlan, []types.Dependency, error) {
	plan := types.InstallPlan{}
	classified := make([]types.Dependency, 0, len(constraints))
	var missing []string

	seen := map[string]struct{}{}
	for _, constraint := range constraints {
		name := constraint.Name
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		dep := types.Dependency{Name: name, Constraint: constraint}
		status, err := c.PackageManager.Query(ctx, name)
		if err != nil {
			return types.InstallPlan{}, nil, err
		}
		switch {
		case status.Installed:
			dep.Class = types.DependencyClassInstalled
		case status.Official:
			dep.Class = types.DependencyClassOfficial
			plan.Official = append(plan.Official, name)
		default:
			info, err := c.Upstream.Info(ctx, name)
			if err != nil {
				return types.InstallPlan{}, nil, err
			}
			if !info.Known {
				dep.Class = types.DependencyClassMissing
				missing = append(missing, name)
				classified = append(classified, dep)
				continue
			}
			if onChain(chain, name) {
				return types.InstallPlan{}, nil, DependencyCycleError(append(chain, name))
			}
			dep.Class = types.DependencyClassAUR
			plan.AUR = append(plan.AUR, name)
		}
		classified = append(classified, dep)
	}

	if len(missing) > 0 {
		return types.InstallPlan{}, classified, UnsatisfiedDependencyError(missing)
	}
	log.Ctx(ctx).Debug().
		Int("official", len(plan.Official)).
		Int("aur", len(plan.AUR)).
		Msg("dependencies classified")
	return plan, classified, nil
}

func onChain(chain []string, name string) bool {
	for _, entry := range chain {
		if entry == name {
			return true
		}
	}
	return false
}
