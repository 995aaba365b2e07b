package adapters

import (
	"context"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
)

// MakepkgAdapter runs the native build tool over a source checkout.
// The build is the one operation that may run arbitrarily long and is
// never retried; the full combined output is captured for diagnosis.
type MakepkgAdapter struct{}

func NewMakepkgAdapter() MakepkgAdapter {
	return MakepkgAdapter{}
}

func (a MakepkgAdapter) Build(ctx context.Context, srcDir string) ([]string, string, error) {
	if strings.TrimSpace(srcDir) == "" {
		return nil, "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source directory is empty")
	}
	cmd := exec.CommandContext(ctx, "makepkg", "-sf", "--noconfirm")
	cmd.Dir = srcDir
	rawOutput, err := cmd.CombinedOutput()
	output := string(rawOutput)
	if err != nil {
		return nil, output, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("makepkg failed").
			WithCause(shared.CommandError(rawOutput, err))
	}
	artifacts, globErr := filepath.Glob(filepath.Join(srcDir, "*"+shared.ArchiveSuffix))
	if globErr != nil {
		return nil, output, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list built archives").
			WithCause(globErr)
	}
	if len(artifacts) == 0 {
		return nil, output, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("makepkg produced no archives")
	}
	sort.Strings(artifacts)
	return artifacts, output, nil
}

var _ ports.BuildToolPort = MakepkgAdapter{}
