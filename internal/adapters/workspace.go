package adapters

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/SomethingGeneric/aurdist/internal/core"
	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
	"github.com/SomethingGeneric/aurdist/internal/types"
)

// WorkspaceAdapter manages per-target checkouts under the build root
// and the archive set in the packages directory.
type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

func (a WorkspaceAdapter) CheckoutDir(buildRoot string, name string) string {
	return filepath.Join(buildRoot, name)
}

// LocalVersion returns the highest version among built archives of
// the named package. Archives whose filename does not parse are
// ignored rather than trusted.
func (a WorkspaceAdapter) LocalVersion(packagesDir string, name string) (types.Version, error) {
	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Version{}, nil
		}
		return types.Version{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read packages directory").
			WithCause(err)
	}
	best := types.Version{}
	found := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pkgName, rawVersion, ok := shared.SplitArchiveName(entry.Name())
		if !ok || pkgName != name {
			continue
		}
		version := core.ParseVersion(rawVersion)
		if !found || core.Compare(version, best) > 0 {
			best = version
			found = true
		}
	}
	return best, nil
}

// Archives lists the archive files of the named package at its
// highest built version. Multiple files can match when a build
// produced split packages sharing the same version.
func (a WorkspaceAdapter) Archives(packagesDir string, name string) ([]string, error) {
	best, err := a.LocalVersion(packagesDir, name)
	if err != nil {
		return nil, err
	}
	if best.IsZero() {
		return nil, nil
	}
	entries, err := os.ReadDir(packagesDir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read packages directory").
			WithCause(err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pkgName, rawVersion, ok := shared.SplitArchiveName(entry.Name())
		if !ok || pkgName != name {
			continue
		}
		if core.Compare(core.ParseVersion(rawVersion), best) == 0 {
			paths = append(paths, filepath.Join(packagesDir, entry.Name()))
		}
	}
	return paths, nil
}

func (a WorkspaceAdapter) Collect(artifacts []string, packagesDir string) ([]string, error) {
	if err := os.MkdirAll(packagesDir, 0o750); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create packages directory").
			WithCause(err)
	}
	collected := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		destPath := filepath.Join(packagesDir, filepath.Base(artifact))
		if err := copyArchive(artifact, destPath); err != nil {
			return nil, err
		}
		collected = append(collected, destPath)
	}
	return collected, nil
}

func (a WorkspaceAdapter) RemoveCheckout(buildRoot string, name string) error {
	if err := os.RemoveAll(a.CheckoutDir(buildRoot, name)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove checkout").
			WithCause(err)
	}
	return nil
}

func (a WorkspaceAdapter) Cleanup(buildRoot string) (int, error) {
	entries, err := os.ReadDir(buildRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read build root").
			WithCause(err)
	}
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(buildRoot, entry.Name())); err != nil {
			return removed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove checkout").
				WithCause(err)
		}
		removed++
	}
	return removed, nil
}

func copyArchive(srcPath string, destPath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open built archive").
			WithCause(err)
	}
	defer srcFile.Close()
	destFile, err := os.Create(destPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create archive destination").
			WithCause(err)
	}
	defer destFile.Close()
	if _, err := io.Copy(destFile, srcFile); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to copy archive").
			WithCause(err)
	}
	return nil
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
