package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SomethingGeneric/aurdist/internal/types"
	"github.com/SomethingGeneric/aurdist/tests/testutil"
)

func TestWorkspaceLocalVersion(t *testing.T) {
	packagesDir := t.TempDir()
	testutil.TouchArchive(t, packagesDir, "yay-1.9-1-x86_64.pkg.tar.zst")
	testutil.TouchArchive(t, packagesDir, "yay-1.10-1-x86_64.pkg.tar.zst")
	testutil.TouchArchive(t, packagesDir, "paru-2.0-1-x86_64.pkg.tar.zst")
	testutil.TouchArchive(t, packagesDir, "not-an-archive.txt")

	workspace := NewWorkspaceAdapter()
	version, err := workspace.LocalVersion(packagesDir, "yay")
	require.NoError(t, err)
	require.Equal(t, "1.10-1", version.String())
}

func TestWorkspaceLocalVersionAbsent(t *testing.T) {
	workspace := NewWorkspaceAdapter()

	version, err := workspace.LocalVersion(t.TempDir(), "yay")
	require.NoError(t, err)
	require.True(t, version.IsZero())

	version, err = workspace.LocalVersion(filepath.Join(t.TempDir(), "missing"), "yay")
	require.NoError(t, err)
	require.True(t, version.IsZero())
}

func TestWorkspaceArchives(t *testing.T) {
	packagesDir := t.TempDir()
	old := testutil.TouchArchive(t, packagesDir, "demo-1.0-1-x86_64.pkg.tar.zst")
	latest := testutil.TouchArchive(t, packagesDir, "demo-1.1-1-x86_64.pkg.tar.zst")
	latestDocs := testutil.TouchArchive(t, packagesDir, "demo-docs-1.1-1-any.pkg.tar.zst")

	workspace := NewWorkspaceAdapter()
	paths, err := workspace.Archives(packagesDir, "demo")
	require.NoError(t, err)
	require.Equal(t, []string{latest}, paths)
	require.NotContains(t, paths, old)
	require.NotContains(t, paths, latestDocs)
}

func TestWorkspaceCollect(t *testing.T) {
	srcDir := t.TempDir()
	packagesDir := filepath.Join(t.TempDir(), "packages")
	artifact := testutil.WriteFile(t, srcDir, "demo-1.0-1-x86_64.pkg.tar.zst", "archive-bytes")

	workspace := NewWorkspaceAdapter()
	collected, err := workspace.Collect([]string{artifact}, packagesDir)
	require.NoError(t, err)
	require.Len(t, collected, 1)

	content, err := os.ReadFile(collected[0])
	require.NoError(t, err)
	require.Equal(t, "archive-bytes", string(content))

	version, err := workspace.LocalVersion(packagesDir, "demo")
	require.NoError(t, err)
	require.Equal(t, types.Version{Ver: "1.0", Rel: "1"}, version)
}

func TestWorkspaceCleanup(t *testing.T) {
	buildRoot := t.TempDir()
	testutil.WriteFile(t, filepath.Join(buildRoot, "yay"), "PKGBUILD", "pkgver=1.0")
	testutil.WriteFile(t, filepath.Join(buildRoot, "paru"), "PKGBUILD", "pkgver=2.0")
	testutil.WriteFile(t, buildRoot, "stray.log", "")

	workspace := NewWorkspaceAdapter()
	removed, err := workspace.Cleanup(buildRoot)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	entries, err := os.ReadDir(buildRoot)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "stray.log", entries[0].Name())
}

func TestWorkspaceRemoveCheckout(t *testing.T) {
	buildRoot := t.TempDir()
	testutil.WriteFile(t, filepath.Join(buildRoot, "yay"), "PKGBUILD", "pkgver=1.0")

	workspace := NewWorkspaceAdapter()
	require.NoError(t, workspace.RemoveCheckout(buildRoot, "yay"))
	_, err := os.Stat(workspace.CheckoutDir(buildRoot, "yay"))
	require.True(t, os.IsNotExist(err))
}
