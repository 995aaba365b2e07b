package adapters

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/SomethingGeneric/aurdist/internal/types"
	"github.com/SomethingGeneric/aurdist/tests/testutil"
)

func TestTargetsFileLoad(t *testing.T) {
	dir := t.TempDir()
	listPath := testutil.WriteFile(t, dir, "targets.txt", `# tracked packages
yay

https://github.com/example/custom-tool.git
git@git.example.org:infra/agent.git
`)

	targets, err := NewTargetsFileAdapter().Load(listPath)
	require.NoError(t, err)

	want := []types.Target{
		{Name: "yay", Kind: types.TargetKindAUR, Source: "https://aur.archlinux.org/yay.git"},
		{Name: "custom-tool", Kind: types.TargetKindSourceURL, Source: "https://github.com/example/custom-tool.git"},
		{Name: "agent", Kind: types.TargetKindSourceURL, Source: "git@git.example.org:infra/agent.git"},
	}
	if diff := cmp.Diff(want, targets); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}
}

func TestTargetsFileLoadMissing(t *testing.T) {
	_, err := NewTargetsFileAdapter().Load(t.TempDir() + "/absent.txt")
	require.Error(t, err)
}

func TestNormalizeTarget(t *testing.T) {
	target := NormalizeTarget("paru")
	require.Equal(t, types.TargetKindAUR, target.Kind)
	require.Equal(t, "paru", target.Name)
	require.Equal(t, "https://aur.archlinux.org/paru.git", target.Source)

	target = NormalizeTarget("https://example.org/pkgs/widget")
	require.Equal(t, types.TargetKindSourceURL, target.Kind)
	require.Equal(t, "widget", target.Name)
}
