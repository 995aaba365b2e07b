package ports

import (
	"context"

	"github.com/SomethingGeneric/aurdist/internal/types"
)

// PackageManagerPort queries and installs packages through the host
// package manager. Install failures report the names that failed.
type PackageManagerPort interface {
	Query(ctx context.Context, name string) (types.PackageStatus, error)
	Install(ctx context.Context, names []string) error
	InstallFiles(ctx context.Context, paths []string) error
}
