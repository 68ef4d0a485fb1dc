package ligi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunIndex_BasicScenario(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("hello [[t/proj]] world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "b.md"), []byte("[[t/proj]] [[t/urgent]]"), 0o644))

	summary, err := RunIndex(context.Background(), rt, artPath, IndexOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TagCount)
	require.Equal(t, 2, summary.FileCount)
	require.Equal(t, 3, summary.LinksFilled)

	projBody, err := os.ReadFile(filepath.Join(artPath, "index", "tags", "proj.md"))
	require.NoError(t, err)
	require.Contains(t, string(projBody), "art/a.md")
	require.Contains(t, string(projBody), "art/b.md")

	aBody, err := os.ReadFile(filepath.Join(artPath, "a.md"))
	require.NoError(t, err)
	require.Contains(t, string(aBody), "[[t/proj]](index/tags/proj.md)")

	master, err := os.ReadFile(filepath.Join(artPath, "index", MasterTagIndexFilename))
	require.NoError(t, err)
	require.Contains(t, string(master), "proj")
	require.Contains(t, string(master), "urgent")
}

func TestRunIndex_IsIdempotentOnSecondRun(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("[[t/proj]]"), 0o644))

	_, err := RunIndex(context.Background(), rt, artPath, IndexOptions{})
	require.NoError(t, err)

	summary2, err := RunIndex(context.Background(), rt, artPath, IndexOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, summary2.LinksFilled)
	require.Equal(t, 0, summary2.LocalWritten)
}

func TestRunCheck_ReportsStaleAndPrunesOnRequest(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("[[t/proj]]"), 0o644))

	summary, err := RunCheck(context.Background(), rt, artPath, CheckOptions{})
	require.NoError(t, err)
	require.True(t, summary.Stale)

	require.NoError(t, RegisterWorkspace(rt, dir))
	_, err = RunIndex(context.Background(), rt, artPath, IndexOptions{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(artPath, "a.md")))

	checkSummary, err := RunCheck(context.Background(), rt, artPath, CheckOptions{Prune: true})
	require.NoError(t, err)
	require.Equal(t, 1, checkSummary.Prune.PrunedLocalTagEntries)
	require.Equal(t, 1, checkSummary.Prune.PrunedGlobalTagEntries)
	require.Equal(t, 2, checkSummary.Prune.PrunedTags)
}

func TestRunIndex_FileScope(t *testing.T) {
	rt := newHomeSandboxedRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("[[t/proj]]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "b.md"), []byte("[[t/other]]"), 0o644))

	_, err := RunIndex(context.Background(), rt, artPath, IndexOptions{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("[[t/changed]]"), 0o644))
	_, err = RunIndex(context.Background(), rt, artPath, IndexOptions{File: "art/a.md"})
	require.NoError(t, err)

	master, err := os.ReadFile(filepath.Join(artPath, "index", MasterTagIndexFilename))
	require.NoError(t, err)
	require.Contains(t, string(master), "changed")
	require.Contains(t, string(master), "other")
	require.NotContains(t, string(master), "proj")
}
