package ligi

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/stretchr/testify/require"
)

// newHomeSandboxedRuntime returns a Runtime whose home directory is a fresh
// temp dir, for tests that touch ~/.ligi (GlobalArtRoot) and must never read
// or write the real developer home directory.
func newHomeSandboxedRuntime(t *testing.T) *toolkit.Runtime {
	t.Helper()
	home := t.TempDir()
	rt, err := toolkit.NewTestRuntime(t.TempDir(), home, "testuser")
	require.NoError(t, err)
	return rt
}

func TestFindWorkspaceRoot_FromNestedDir(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	root := filepath.Join(dir, "ws")
	nested := filepath.Join(root, "notes", "deep")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "art"), 0o755))
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindWorkspaceRoot(rt, nested)
	require.NoError(t, err)
	require.Equal(t, root, found)
}

func TestFindWorkspaceRoot_NotFound(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()

	_, err := FindWorkspaceRoot(rt, dir)
	require.True(t, errors.Is(err, ErrArtNotFound))
}

func TestResolveWorkspaceContext_RepoUnderOrg(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	orgRoot := filepath.Join(dir, "org")
	repoRoot := filepath.Join(orgRoot, "repo")

	require.NoError(t, os.MkdirAll(filepath.Join(orgRoot, "art", "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(orgRoot, "art", "config", "ligi.toml"),
		[]byte("[workspace]\ntype = \"org\"\n"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(repoRoot, "art", "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoRoot, "art", "config", "ligi.toml"),
		[]byte("[workspace]\ntype = \"repo\"\n"), 0o644))

	ctx, err := ResolveWorkspaceContext(rt, repoRoot)
	require.NoError(t, err)
	require.Equal(t, KindRepoWorkspace, ctx.Kind)
	require.NotNil(t, ctx.Org)
	require.Equal(t, orgRoot, ctx.Org.Root)
	require.Len(t, ctx.TemplatePaths, 3)
	require.Equal(t, filepath.Join(repoRoot, "art", "template"), ctx.TemplatePaths[0])
	require.Equal(t, filepath.Join(orgRoot, "art", "template"), ctx.TemplatePaths[1])
}

func TestResolveWorkspaceContext_MissingTypeDefaultsToRepo(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	root := filepath.Join(dir, "ws")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "art"), 0o755))

	ctx, err := ResolveWorkspaceContext(rt, root)
	require.NoError(t, err)
	require.Equal(t, KindRepoWorkspace, ctx.Kind)
	require.Nil(t, ctx.Org)
}

func TestRegisterWorkspace_DeduplicatesRoot(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	root := filepath.Join(dir, "ws")
	require.NoError(t, os.MkdirAll(root, 0o755))

	require.NoError(t, RegisterWorkspace(rt, root))
	require.NoError(t, RegisterWorkspace(rt, root))

	globalRoot, err := GlobalArtRoot(rt)
	require.NoError(t, err)
	reg, err := ReadWorkspaceRegistry(rt, filepath.Join(globalRoot, "index", "ligi_global_index.md"))
	require.NoError(t, err)
	require.Equal(t, []string{root}, reg.Roots)
}

func TestRegisterRepoUnderOrg_AppendsAndDeduplicates(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	orgArt := filepath.Join(dir, "org", "art")
	require.NoError(t, os.MkdirAll(filepath.Join(orgArt, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(orgArt, "config", "ligi.toml"),
		[]byte("[workspace]\ntype = \"org\"\n"), 0o644))

	require.NoError(t, RegisterRepoUnderOrg(rt, orgArt, "team-a"))
	require.NoError(t, RegisterRepoUnderOrg(rt, orgArt, "team-a"))

	cfg, err := LoadConfig(rt, orgArt)
	require.NoError(t, err)
	require.Equal(t, []string{"team-a"}, cfg.Workspace.Repos)
}
