package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false
// matches (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
	types.ConstraintOpEq,
}

// ParseConstraint splits a raw "name>=version" dependency entry into a
// Constraint. The version restriction is retained for display only;
// classification always works on the bare name. When no operator is
// found the entry is a bare name with ConstraintOpNone.
func ParseConstraint(raw string) (types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty dependency entry")
	}
	for _, op := range opTokens {
		if strings.Contains(raw, string(op)) {
			parts := strings.SplitN(raw, string(op), 2)
			name := strings.TrimSpace(parts[0])
			version := strings.TrimSpace(parts[1])
			if name == "" || version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid dependency entry: %s", raw))
			}
			return types.Constraint{
				Name:    name,
				Op:      op,
				Version: version,
				Raw:     raw,
			}, nil
		}
	}
	return types.Constraint{
		Name: raw,
		Op:   types.ConstraintOpNone,
		Raw:  raw,
	}, nil
}
