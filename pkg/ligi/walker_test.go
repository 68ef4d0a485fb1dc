package ligi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jlrickert/ligi/pkg/log"
	"github.com/stretchr/testify/require"
)

func TestWalkSources_FollowsSymlinkedDirectory(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "external"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "external", "x.md"), []byte("hi"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "external"), filepath.Join(artPath, "linked")))

	lg, _ := log.NewTestLogger(t, -999)
	files, err := WalkSources(context.Background(), rt, artPath, WalkOptions{FollowSymlinks: true}, lg)
	require.NoError(t, err)
	require.Contains(t, files, "art/linked/x.md")
}

func TestWalkSources_SymlinksSkippedByDefault(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "external"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "external", "x.md"), []byte("hi"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "external"), filepath.Join(artPath, "linked")))

	lg, th := log.NewTestLogger(t, -999)
	files, err := WalkSources(context.Background(), rt, artPath, WalkOptions{}, lg)
	require.NoError(t, err)
	require.NotContains(t, files, "art/linked/x.md")

	entries := log.FindEntries(th, func(e log.LoggedEntry) bool { return e.Msg == "skipping symlink" })
	require.Len(t, entries, 1)
}

func TestWalkSources_BreaksSymlinkCycle(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(artPath, "a.md"), []byte("hi"), 0o644))
	// art/loop points back at art itself: following it naively recurses
	// into art/loop/loop/loop/... forever.
	require.NoError(t, os.Symlink(artPath, filepath.Join(artPath, "loop")))

	lg, th := log.NewTestLogger(t, -999)
	files, err := WalkSources(context.Background(), rt, artPath, WalkOptions{FollowSymlinks: true}, lg)
	require.NoError(t, err)
	require.Contains(t, files, "art/a.md")
	require.Contains(t, files, "art/loop/a.md")

	log.RequireEntry(t, th, func(e log.LoggedEntry) bool {
		return e.Msg == "symlink cycle detected, skipping"
	}, time.Second)
}
