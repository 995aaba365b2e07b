package types

import "time"

// Target is one package tracked for building: either a named AUR
// package or a generic git source URL. Source always holds the clone
// URL; for AUR targets it is derived from the package name.
type Target struct {
	Name   string     `yaml:"name"`
	Kind   TargetKind `yaml:"kind"`
	Source string     `yaml:"source"`
}

// Constraint is a version restriction attached to a declared
// dependency (e.g. "glibc>=2.38"). The restriction is kept for
// display only; classification uses the bare name.
type Constraint struct {
	Name    string       `yaml:"name"`
	Op      ConstraintOp `yaml:"op,omitempty"`
	Version string       `yaml:"version,omitempty"`
	Raw     string       `yaml:"raw"`
}

type Dependency struct {
	Name       string          `yaml:"name"`
	Class      DependencyClass `yaml:"class"`
	Constraint Constraint      `yaml:"constraint"`
}

// InstallPlan orders dependency resolution for one target: official
// repository packages install as a single batch, AUR packages build
// dependency-first before the dependent target proceeds.
type InstallPlan struct {
	Official []string
	AUR      []string
}

// PackageStatus is the package manager's view of one name.
type PackageStatus struct {
	Installed        bool
	InstalledVersion string
	Official         bool
	OfficialVersion  string
}

// BuildAttempt records one target's run through the pipeline. It is
// never mutated once the pipeline finishes.
type BuildAttempt struct {
	Target    Target    `yaml:"target"`
	StartedAt time.Time `yaml:"started_at"`
	Outcome   Outcome   `yaml:"outcome"`
	Local     string    `yaml:"local_version,omitempty"`
	Upstream  string    `yaml:"upstream_version,omitempty"`
	Artifacts []string  `yaml:"artifacts,omitempty"`
	Detail    string    `yaml:"detail,omitempty"`
}

func (a BuildAttempt) Failed() bool {
	return a.Outcome == OutcomeDependencyFailure || a.Outcome == OutcomeBuildFailure
}

// BatchReport is the ordered record of every attempt in one
// invocation plus the publish-stage result.
type BatchReport struct {
	Attempts     []BuildAttempt `yaml:"attempts"`
	PublishError string         `yaml:"publish_error,omitempty"`
	SyncError    string         `yaml:"sync_error,omitempty"`
}

func (r *BatchReport) Add(attempt BuildAttempt) {
	r.Attempts = append(r.Attempts, attempt)
}

// HasFailures reports whether any target failed or the publish stage
// broke; it drives the process exit status.
func (r BatchReport) HasFailures() bool {
	for _, attempt := range r.Attempts {
		if attempt.Failed() {
			return true
		}
	}
	return r.PublishError != "" || r.SyncError != ""
}

func (r BatchReport) Built() int {
	count := 0
	for _, attempt := range r.Attempts {
		if attempt.Outcome == OutcomeSuccess {
			count++
		}
	}
	return count
}
