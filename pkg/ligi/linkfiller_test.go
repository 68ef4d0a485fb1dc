package ligi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillLinks_InsertsRelativeTarget(t *testing.T) {
	out, n := FillLinks("/ws/art", "art/notes/a.md", []byte("hello [[t/proj]] world\n"))
	require.Equal(t, 1, n)
	require.Equal(t, "hello [[t/proj]](../index/tags/proj.md) world\n", string(out))
}

func TestFillLinks_SkipsAlreadyLinked(t *testing.T) {
	input := []byte("see [[t/proj]](../index/tags/proj.md) here\n")
	out, n := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 0, n)
	require.Equal(t, string(input), string(out))
}

func TestFillLinks_IsIdempotent(t *testing.T) {
	input := []byte("hello [[t/proj]] world\n")
	first, n1 := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 1, n1)

	second, n2 := FillLinks("/ws/art", "art/notes/a.md", first)
	require.Equal(t, 0, n2)
	require.Equal(t, string(first), string(second))
}

func TestFillLinks_SkipsFencedCode(t *testing.T) {
	input := []byte("```\n[[t/proj]]\n```\n")
	out, n := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 0, n)
	require.Equal(t, string(input), string(out))
}

func TestFillLinks_SkipsInlineCode(t *testing.T) {
	input := []byte("see `[[t/proj]]` here\n")
	out, n := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 0, n)
	require.Equal(t, string(input), string(out))
}

func TestFillLinks_SkipsHTMLComment(t *testing.T) {
	input := []byte("<!-- [[t/proj]] -->\n")
	out, n := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 0, n)
	require.Equal(t, string(input), string(out))
}

func TestFillLinks_NestedDirRelativePath(t *testing.T) {
	out, n := FillLinks("/ws/art", "art/notes/sub/a.md", []byte("[[t/proj]]"))
	require.Equal(t, 1, n)
	require.Equal(t, "[[t/proj]](../../index/tags/proj.md)", string(out))
}

func TestFillLinks_InvalidTagNotRewritten(t *testing.T) {
	input := []byte("[[t/]]")
	out, n := FillLinks("/ws/art", "art/notes/a.md", input)
	require.Equal(t, 0, n)
	require.Equal(t, string(input), string(out))
}

func TestFillLinksInFile_WritesOnlyWhenFilled(t *testing.T) {
	rt := newTestRuntime(t)
	dir := t.TempDir()
	artPath := dir + "/art"
	require.NoError(t, os.MkdirAll(artPath+"/notes", 0o755))
	require.NoError(t, os.WriteFile(artPath+"/notes/a.md", []byte("[[t/proj]]\n"), 0o644))

	res, err := FillLinksInFile(rt, artPath, "art/notes/a.md")
	require.NoError(t, err)
	require.Equal(t, 1, res.Filled)
	require.True(t, res.Written)

	res2, err := FillLinksInFile(rt, artPath, "art/notes/a.md")
	require.NoError(t, err)
	require.Equal(t, 0, res2.Filled)
	require.False(t, res2.Written)
}
