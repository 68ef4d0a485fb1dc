package ligi

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// IsStale implements the staleness oracle (spec §4.8): the master local tag
// index is stale if it does not exist, or if any source .md file under
// art/ (excluding art/index/) has an mtime newer than it. Contents are
// never read — only mtimes are compared.
func IsStale(ctx context.Context, rt *toolkit.Runtime, artPath string, opts WalkOptions) (bool, error) {
	masterPath := filepath.Join(artPath, "index", MasterTagIndexFilename)
	info, err := rt.Stat(masterPath, false)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, NewFilesystemError("IsStale", err)
	}
	threshold := info.ModTime()

	files, err := WalkSources(ctx, rt, artPath, opts, slog.New(slog.DiscardHandler))
	if err != nil {
		return false, err
	}
	for _, rel := range files {
		full := filepath.Join(filepath.Dir(artPath), filepath.FromSlash(rel))
		fi, err := rt.Stat(full, false)
		if err != nil {
			continue
		}
		if fi.ModTime().After(threshold) {
			return true, nil
		}
	}
	return false, nil
}
