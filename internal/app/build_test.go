package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SomethingGeneric/aurdist/internal/adapters"
	"github.com/SomethingGeneric/aurdist/internal/core"
	"github.com/SomethingGeneric/aurdist/internal/ports"
	"github.com/SomethingGeneric/aurdist/internal/shared"
	"github.com/SomethingGeneric/aurdist/internal/types"
	"github.com/SomethingGeneric/aurdist/tests/testutil"
)

type fakePackageManager struct {
	statuses       map[string]types.PackageStatus
	installed      [][]string
	installedFiles [][]string
}

func (f *fakePackageManager) Query(_ context.Context, name string) (types.PackageStatus, error) {
	return f.statuses[name], nil
}

func (f *fakePackageManager) Install(_ context.Context, names []string) error {
	f.installed = append(f.installed, names)
	return nil
}

func (f *fakePackageManager) InstallFiles(_ context.Context, paths []string) error {
	f.installedFiles = append(f.installedFiles, paths)
	return nil
}

// fakeUpstream serves canned metadata and materializes checkouts from
// in-memory recipes, keyed by target name.
type fakeUpstream struct {
	versions  map[string]string
	pkgbuilds map[string]string
	cloned    []string
}

func (f *fakeUpstream) Info(_ context.Context, name string) (ports.UpstreamInfo, error) {
	version, ok := f.versions[name]
	return ports.UpstreamInfo{Name: name, Version: version, Known: ok}, nil
}

func (f *fakeUpstream) Clone(_ context.Context, _ string, destDir string) (string, error) {
	name := filepath.Base(destDir)
	content, ok := f.pkgbuilds[name]
	if !ok {
		return "", fmt.Errorf("no recipe for %s", name)
	}
	if err := os.RemoveAll(destDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(destDir, "PKGBUILD"), []byte(content), 0o644); err != nil {
		return "", err
	}
	f.cloned = append(f.cloned, name)
	return destDir, nil
}

// fakeBuildTool drops a correctly named archive into the source tree
// so the collect and local-version paths run against real files.
type fakeBuildTool struct {
	versions map[string]string
	failures map[string]string
	calls    []string
}

func (f *fakeBuildTool) Build(_ context.Context, srcDir string) ([]string, string, error) {
	name := filepath.Base(srcDir)
	f.calls = append(f.calls, name)
	if output, ok := f.failures[name]; ok {
		return nil, output, errors.New("build tool exited 4")
	}
	filename := fmt.Sprintf("%s-%s-x86_64%s", name, f.versions[name], shared.ArchiveSuffix)
	archivePath := filepath.Join(srcDir, filename)
	if err := os.WriteFile(archivePath, []byte("archive"), 0o644); err != nil {
		return nil, "", err
	}
	return []string{archivePath}, "==> Finished making: " + name, nil
}

type fakeIndex struct {
	err   error
	calls []string
}

func (f *fakeIndex) Rebuild(_ context.Context, _ string, dbName string) error {
	f.calls = append(f.calls, dbName)
	return f.err
}

type fakeTransfer struct {
	err   error
	calls []string
}

func (f *fakeTransfer) Sync(_ context.Context, _ string, destination string) error {
	f.calls = append(f.calls, destination)
	return f.err
}

type fixture struct {
	pm          *fakePackageManager
	upstream    *fakeUpstream
	buildTool   *fakeBuildTool
	index       *fakeIndex
	transfer    *fakeTransfer
	service     Service
	buildRoot   string
	packagesDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		pm:          &fakePackageManager{statuses: map[string]types.PackageStatus{}},
		upstream:    &fakeUpstream{versions: map[string]string{}, pkgbuilds: map[string]string{}},
		buildTool:   &fakeBuildTool{versions: map[string]string{}, failures: map[string]string{}},
		index:       &fakeIndex{},
		transfer:    &fakeTransfer{},
		buildRoot:   t.TempDir(),
		packagesDir: t.TempDir(),
	}
	f.service = Service{
		PackageManager: f.pm,
		Upstream:       f.upstream,
		BuildTool:      f.buildTool,
		Index:          f.index,
		Transfer:       f.transfer,
		TargetList:     adapters.NewTargetsFileAdapter(),
		Workspace:      adapters.NewWorkspaceAdapter(),
		ReportWriter:   adapters.NewReportFileAdapter(),
		Clock:          func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

// trackPackage registers a package the fake upstream knows about,
// with a recipe that builds the given version.
func (f *fixture) trackPackage(name string, ver string, rel string, deps ...string) {
	full := ver + "-" + rel
	f.upstream.versions[name] = full
	f.upstream.pkgbuilds[name] = recipe(name, ver, rel, deps...)
	f.buildTool.versions[name] = full
}

func (f *fixture) seedArchive(t *testing.T, name string, version string) {
	t.Helper()
	testutil.TouchArchive(t, f.packagesDir, fmt.Sprintf("%s-%s-x86_64%s", name, version, shared.ArchiveSuffix))
}

func (f *fixture) request(targets ...string) BuildRequest {
	return BuildRequest{
		Targets:     targets,
		BuildRoot:   f.buildRoot,
		PackagesDir: f.packagesDir,
	}
}

func recipe(name string, ver string, rel string, deps ...string) string {
	content := fmt.Sprintf("pkgname=%s\npkgver=%s\npkgrel=%s\narch=('x86_64')\n", name, ver, rel)
	if len(deps) > 0 {
		content += "depends=("
		for i, dep := range deps {
			if i > 0 {
				content += " "
			}
			content += "'" + dep + "'"
		}
		content += ")\n"
	}
	return content
}

func TestBuildSkipsUpToDate(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("yay", "12.3.5", "1")
	f.seedArchive(t, "yay", "12.3.5-1")

	result, err := f.service.Build(context.Background(), f.request("yay"))
	require.NoError(t, err)

	require.Len(t, result.Report.Attempts, 1)
	require.Equal(t, types.OutcomeSkipped, result.Report.Attempts[0].Outcome)
	require.Empty(t, f.buildTool.calls)
	require.Empty(t, f.index.calls)
	require.False(t, result.Published)
}

func TestBuildForceRebuildsUpToDate(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("yay", "12.3.5", "1")
	f.seedArchive(t, "yay", "12.3.5-1")

	req := f.request("yay")
	req.Force = true
	req.SkipPublish = true
	result, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, []string{"yay"}, f.buildTool.calls)
	require.Equal(t, types.OutcomeSuccess, result.Report.Attempts[0].Outcome)
	require.Len(t, result.Report.Attempts[0].Artifacts, 1)
}

func TestBuildOutdatedPublishesAndSyncs(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("yay", "12.3.5", "1")
	f.seedArchive(t, "yay", "12.3.4-1")

	req := f.request("yay")
	req.SyncDest = "user@mirror.example.org:/srv/repo"
	req.ReportPath = filepath.Join(t.TempDir(), "report.yaml")
	result, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)

	attempt := result.Report.Attempts[0]
	require.Equal(t, types.OutcomeSuccess, attempt.Outcome)
	require.Equal(t, "12.3.4-1", attempt.Local)
	require.Equal(t, "12.3.5-1", attempt.Upstream)

	require.Equal(t, []string{"aurdist.db.tar.zst"}, f.index.calls)
	require.Equal(t, []string{"user@mirror.example.org:/srv/repo"}, f.transfer.calls)
	require.True(t, result.Published)
	require.True(t, result.Synced)

	_, statErr := os.Stat(req.ReportPath)
	require.NoError(t, statErr)
}

// One target failing must not stop the rest of the batch, and the
// successful remainder still publishes.
func TestBuildIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("broken", "1.0", "1")
	f.buildTool.failures["broken"] = "==> ERROR: A failure occurred in build()"
	f.trackPackage("fresh", "2.0", "1")

	result, err := f.service.Build(context.Background(), f.request("broken", "fresh"))
	require.NoError(t, err)

	require.Len(t, result.Report.Attempts, 2)
	require.Equal(t, types.OutcomeBuildFailure, result.Report.Attempts[0].Outcome)
	require.Equal(t, "==> ERROR: A failure occurred in build()", result.Report.Attempts[0].Detail)
	require.Equal(t, types.OutcomeSuccess, result.Report.Attempts[1].Outcome)
	require.True(t, result.Report.HasFailures())
	require.True(t, result.Published)
}

// An upstream dependency is built depth-first, installed, and reused
// when a second dependent needs it in the same run.
func TestBuildNestedDependency(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("libfoo", "0.5", "1")
	f.trackPackage("app-one", "1.0", "1", "libfoo", "jq")
	f.trackPackage("app-two", "1.0", "1", "libfoo")
	f.pm.statuses["jq"] = types.PackageStatus{Official: true}

	req := f.request("app-one", "app-two")
	req.SkipPublish = true
	result, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, []string{"libfoo", "app-one", "app-two"}, f.buildTool.calls)
	require.Equal(t, [][]string{{"jq"}}, f.pm.installed)
	require.Len(t, f.pm.installedFiles, 2)
	for _, batch := range f.pm.installedFiles {
		require.Len(t, batch, 1)
		require.Contains(t, batch[0], "libfoo-0.5-1")
	}

	require.Len(t, result.Report.Attempts, 3)
	require.Equal(t, "libfoo", result.Report.Attempts[0].Target.Name)
	for _, attempt := range result.Report.Attempts {
		require.Equal(t, types.OutcomeSuccess, attempt.Outcome)
	}
}

func TestBuildDependencyCycleFailsBranch(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("pkga", "1.0", "1", "pkgb")
	f.trackPackage("pkgb", "1.0", "1", "pkga")

	result, err := f.service.Build(context.Background(), f.request("pkga"))
	require.NoError(t, err)

	require.Empty(t, f.buildTool.calls)
	require.Len(t, result.Report.Attempts, 2)
	require.Equal(t, "pkgb", result.Report.Attempts[0].Target.Name)
	require.Equal(t, types.OutcomeDependencyFailure, result.Report.Attempts[0].Outcome)
	require.Contains(t, result.Report.Attempts[0].Detail, "dependency cycle: pkga -> pkgb -> pkga")
	require.Equal(t, types.OutcomeDependencyFailure, result.Report.Attempts[1].Outcome)
}

func TestBuildReportsAllMissingDependencies(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("wanting", "1.0", "1", "ghost-one", "ghost-two")

	result, err := f.service.Build(context.Background(), f.request("wanting"))
	require.NoError(t, err)

	require.Empty(t, f.buildTool.calls)
	attempt := result.Report.Attempts[0]
	require.Equal(t, types.OutcomeDependencyFailure, attempt.Outcome)
	require.Contains(t, attempt.Detail, "ghost-one")
	require.Contains(t, attempt.Detail, "ghost-two")
}

// A pkgver() override makes the declared version untrustworthy, so the
// target rebuilds even when the archive set looks current.
func TestBuildDynamicVersionAlwaysRebuilds(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("vcs-demo", "r120.abc1234", "1")
	f.upstream.pkgbuilds["vcs-demo"] += "\npkgver() {\n  git describe --long\n}\n"
	f.seedArchive(t, "vcs-demo", "r120.abc1234-1")

	req := f.request("vcs-demo")
	req.SkipPublish = true
	result, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, []string{"vcs-demo"}, f.buildTool.calls)
	require.Equal(t, types.OutcomeSuccess, result.Report.Attempts[0].Outcome)
}

func TestBuildRemovesCheckoutUnlessAsked(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("yay", "12.3.5", "1")

	req := f.request("yay")
	req.SkipPublish = true
	_, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(f.buildRoot, "yay"))
	require.True(t, os.IsNotExist(statErr))

	req.NoCleanup = true
	req.Force = true
	_, err = f.service.Build(context.Background(), req)
	require.NoError(t, err)
	_, statErr = os.Stat(filepath.Join(f.buildRoot, "yay", "PKGBUILD"))
	require.NoError(t, statErr)
}

func TestBuildLoadsTargetsFromFile(t *testing.T) {
	f := newFixture(t)
	f.trackPackage("yay", "12.3.5", "1")
	listPath := testutil.WriteFile(t, t.TempDir(), "targets.txt", "# tracked\nyay\n")

	req := BuildRequest{
		TargetsFile: listPath,
		BuildRoot:   f.buildRoot,
		PackagesDir: f.packagesDir,
		SkipPublish: true,
	}
	result, err := f.service.Build(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Report.Attempts, 1)
	require.Equal(t, "yay", result.Report.Attempts[0].Target.Name)
}

func TestBuildRejectsEmptyTargetSet(t *testing.T) {
	f := newFixture(t)
	listPath := testutil.WriteFile(t, t.TempDir(), "targets.txt", "# nothing tracked\n")

	_, err := f.service.Build(context.Background(), BuildRequest{
		TargetsFile: listPath,
		BuildRoot:   f.buildRoot,
		PackagesDir: f.packagesDir,
	})
	require.Error(t, err)
}

func TestBuildMalformedRecipeFails(t *testing.T) {
	f := newFixture(t)
	f.upstream.versions["broken"] = "1.0-1"
	f.upstream.pkgbuilds["broken"] = "pkgname=broken\ndepends=('glibc')\n"

	result, err := f.service.Build(context.Background(), f.request("broken"))
	require.NoError(t, err)

	attempt := result.Report.Attempts[0]
	require.Equal(t, types.OutcomeDependencyFailure, attempt.Outcome)
	require.True(t, core.IsMalformedDescriptor(errors.New(attempt.Detail)))
}
