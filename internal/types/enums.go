package types

type TargetKind string

const (
	TargetKindAUR       TargetKind = "aur"
	TargetKindSourceURL TargetKind = "source-url"
)

type DependencyClass string

const (
	DependencyClassInstalled DependencyClass = "installed"
	DependencyClassOfficial  DependencyClass = "official"
	DependencyClassAUR       DependencyClass = "aur"
	DependencyClassMissing   DependencyClass = "missing"
)

type Outcome string

const (
	OutcomeSkipped           Outcome = "up-to-date"
	OutcomeSuccess           Outcome = "success"
	OutcomeDependencyFailure Outcome = "dependency-failure"
	OutcomeBuildFailure      Outcome = "build-failure"
)

// BuildState tracks a target's progress through the build pipeline.
// Skipped, DependencyFailed, BuildFailed, and Done are terminal.
type BuildState string

const (
	StatePending          BuildState = "pending"
	StateChecking         BuildState = "checking"
	StateSkipped          BuildState = "skipped"
	StateResolving        BuildState = "resolving"
	StateDependencyFailed BuildState = "dependency-failed"
	StateInstalling       BuildState = "installing"
	StateBuilding         BuildState = "building"
	StateBuildFailed      BuildState = "build-failed"
	StateCollecting       BuildState = "collecting"
	StateDone             BuildState = "done"
)

type ConstraintOp string

const (
	ConstraintOpNone ConstraintOp = ""
	ConstraintOpGte  ConstraintOp = ">="
	ConstraintOpLte  ConstraintOp = "<="
	ConstraintOpGt   ConstraintOp = ">"
	ConstraintOpLt   ConstraintOp = "<"
	ConstraintOpEq   ConstraintOp = "="
)
