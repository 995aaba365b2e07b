package ports

import "github.com/SomethingGeneric/aurdist/internal/types"

// TargetListPort loads the tracked target list. Blank lines and
// comment lines are skipped; entries are package names or git URLs.
type TargetListPort interface {
	Load(path string) ([]types.Target, error)
}
