package ligi

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// WriteResult reports whether WriteIfChanged actually touched the file.
type WriteResult struct {
	Written bool
}

// WriteIfChanged is the content-comparison writer (spec §4.4): it reads the
// existing file at path (if any) and only writes when the bytes differ. A
// changed write goes through rt.AtomicWriteFile, which writes a sibling temp
// file, fsyncs it, and renames it over the target — the rename is the commit
// point, so readers always observe either the old or the new content, never
// a torn write (spec §5).
//
// This is the only path in the package that mutates a managed file; every
// renderer, the link filler, and the pruner route their writes through it so
// that unchanged content never bumps the file's mtime, which is what makes
// the staleness oracle (§4.8) trustworthy.
func WriteIfChanged(rt *toolkit.Runtime, path string, data []byte) (WriteResult, error) {
	existing, err := rt.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return WriteResult{Written: false}, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return WriteResult{}, NewFilesystemError("WriteIfChanged", err)
	}

	dir := filepath.Dir(path)
	if err := rt.Mkdir(dir, 0o755, true); err != nil {
		return WriteResult{}, NewFilesystemError("WriteIfChanged", err)
	}
	if err := rt.AtomicWriteFile(path, data, 0o644); err != nil {
		return WriteResult{}, NewFilesystemError("WriteIfChanged", err)
	}
	return WriteResult{Written: true}, nil
}

// ReadIfExists returns the file's bytes, or (nil, false, nil) if it does not
// exist. Any other error is returned classified.
func ReadIfExists(rt *toolkit.Runtime, path string) ([]byte, bool, error) {
	data, err := rt.ReadFile(path)
	if err == nil {
		return data, true, nil
	}
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	return nil, false, NewFilesystemError("ReadIfExists", err)
}
