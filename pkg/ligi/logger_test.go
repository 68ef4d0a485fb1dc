package ligi

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogAction_AppendsJSONLLine(t *testing.T) {
	dir := t.TempDir()
	artPath := filepath.Join(dir, "art")
	require.NoError(t, os.MkdirAll(artPath, 0o755))

	LogAction(artPath, LogEntry{Ts: 100, Cmd: "index", Action: "write_local_index"}.WithCount(3))
	LogAction(artPath, LogEntry{Ts: 101, Cmd: "index", Action: "write_local_index_skip"})

	data, err := os.ReadFile(filepath.Join(artPath, ".ligi_log.jsonl"))
	require.NoError(t, err)

	var lines []map[string]any
	for _, raw := range splitLines(data) {
		if len(raw) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	require.Equal(t, "write_local_index", lines[0]["action"])
	require.Equal(t, float64(3), lines[0]["count"])
	require.NotContains(t, lines[1], "count")
}

func TestLogAction_SilentlyIgnoresUnwritableTarget(t *testing.T) {
	require.NotPanics(t, func() {
		LogAction("/nonexistent-root/nope/art", LogEntry{Ts: 1, Cmd: "index", Action: "noop"})
	})
}

func splitLines(data []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range data {
		if c == '\n' {
			out = append(out, data[start:i])
			start = i + 1
		}
	}
	return out
}
