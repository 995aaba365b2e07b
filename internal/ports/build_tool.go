package ports

import "context"

// BuildToolPort invokes the native package build tool on a source
// tree. Output is the tool's full combined stdout/stderr; on failure
// it carries the diagnostics the operator needs, untruncated.
type BuildToolPort interface {
	Build(ctx context.Context, srcDir string) (artifacts []string, output string, err error)
}
