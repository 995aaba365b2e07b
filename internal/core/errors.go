package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Error message prefixes used to distinguish failure kinds at the
// orchestrator boundary. The CLI maps errbuilder codes to exit
// statuses; these prefixes carry the finer taxonomy.
const (
	msgMalformedDescriptor   = "malformed descriptor"
	msgDynamicVersion        = "dynamic pkgver not supported"
	msgDependencyCycle       = "dependency cycle"
	msgUnsatisfiedDependency = "unsatisfied dependencies"
)

func MalformedDescriptorError(detail string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("%s: %s", msgMalformedDescriptor, detail))
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func DynamicVersionError(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %s declares a pkgver() override", msgDynamicVersion, name))
}

func DependencyCycleError(chain []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %s", msgDependencyCycle, strings.Join(chain, " -> ")))
}

func UnsatisfiedDependencyError(missing []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s: %s", msgUnsatisfiedDependency, strings.Join(missing, ", ")))
}

func IsMalformedDescriptor(err error) bool { return hasPrefix(err, msgMalformedDescriptor) }
func IsDynamicVersion(err error) bool      { return hasPrefix(err, msgDynamicVersion) }
func IsDependencyCycle(err error) bool     { return hasPrefix(err, msgDependencyCycle) }
func IsUnsatisfiedDependency(err error) bool {
	return hasPrefix(err, msgUnsatisfiedDependency)
}

func hasPrefix(err error, prefix string) bool {
	if err == nil {
		return false
	}
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) {
		return strings.HasPrefix(builder.Msg, prefix)
	}
	return strings.HasPrefix(err.Error(), prefix)
}
