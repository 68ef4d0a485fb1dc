package ligi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) *toolkit.Runtime {
	t.Helper()
	rt, err := toolkit.NewRuntime()
	require.NoError(t, err)
	return rt
}

func TestWriteIfChanged_WritesWhenMissing(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "f.md")

	res, err := WriteIfChanged(rt, path, []byte("hello"))
	require.NoError(t, err)
	require.True(t, res.Written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestWriteIfChanged_SkipsIdenticalContent(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")

	_, err := WriteIfChanged(rt, path, []byte("same"))
	require.NoError(t, err)

	info1, err := os.Stat(path)
	require.NoError(t, err)
	mtime1 := info1.ModTime()

	time.Sleep(10 * time.Millisecond)

	res, err := WriteIfChanged(rt, path, []byte("same"))
	require.NoError(t, err)
	require.False(t, res.Written)

	info2, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, mtime1, info2.ModTime())
}

func TestWriteIfChanged_RewritesOnChange(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")

	_, err := WriteIfChanged(rt, path, []byte("v1"))
	require.NoError(t, err)

	res, err := WriteIfChanged(rt, path, []byte("v2"))
	require.NoError(t, err)
	require.True(t, res.Written)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))
}
