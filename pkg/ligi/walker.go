package ligi

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// WalkOptions configures the tree walker (spec §4.2).
type WalkOptions struct {
	// IgnoreGlobs are glob patterns (matched against the file's base name)
	// that exclude a file from the walk. Defaults to {"*.tmp", "*.bak"}
	// when nil (spec §6.5's [index].ignore_patterns default).
	IgnoreGlobs []string
	// FollowSymlinks, when true, follows symlinked files/directories and
	// tracks visited inode identities to avoid cycles. When false (the
	// default), symlinks are skipped with a warning.
	FollowSymlinks bool
}

// DefaultIgnoreGlobs is the built-in ignore list used when WalkOptions
// carries none, per spec §6.5.
var DefaultIgnoreGlobs = []string{"*.tmp", "*.bak"}

// WalkSources enumerates every Markdown source file under artPath, excluding
// art/index/, honoring opts.IgnoreGlobs and the symlink policy. The returned
// list is sorted lexicographically by its path relative to artPath's parent
// (i.e. "art/notes/a.md"). Unreadable entries produce a warning via lg and
// are skipped; the walk continues (spec §4.2).
func WalkSources(ctx context.Context, rt *toolkit.Runtime, artPath string, opts WalkOptions, lg *slog.Logger) ([]string, error) {
	if lg == nil {
		lg = slog.Default()
	}
	globs := opts.IgnoreGlobs
	if globs == nil {
		globs = DefaultIgnoreGlobs
	}

	root := filepath.Clean(artPath)

	var out []string
	visited := make(map[string]struct{})

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := rt.ReadDir(dir)
		if err != nil {
			lg.Warn("unreadable directory, skipping", "path", dir, "error", err)
			return nil
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			name := e.Name()
			full := filepath.Join(dir, name)

			if dir == root && name == "index" {
				continue
			}

			isSymlink := e.Type()&fs.ModeSymlink != 0
			if isSymlink {
				if !opts.FollowSymlinks {
					lg.Warn("skipping symlink", "path", full)
					continue
				}
				info, statErr := rt.Stat(full, true)
				if statErr != nil {
					lg.Warn("unreadable symlink target, skipping", "path", full, "error", statErr)
					continue
				}
				key, keyErr := symlinkTargetKey(full)
				if keyErr != nil {
					lg.Warn("unresolvable symlink target, skipping", "path", full, "error", keyErr)
					continue
				}
				if _, seen := visited[key]; seen {
					lg.Warn("symlink cycle detected, skipping", "path", full)
					continue
				}
				visited[key] = struct{}{}
				if info.IsDir() {
					if err := walk(full); err != nil {
						return err
					}
					continue
				}
			}

			if e.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}

			if !strings.HasSuffix(name, ".md") {
				continue
			}
			if matchesAnyGlob(globs, name) {
				continue
			}
			out = append(out, full)
		}
		return nil
	}

	if _, err := rt.Stat(root, false); err != nil {
		return nil, NewFilesystemError("WalkSources", err)
	}
	if err := walk(root); err != nil {
		return nil, NewFilesystemError("WalkSources", err)
	}

	rel := make([]string, 0, len(out))
	for _, p := range out {
		r, err := filepath.Rel(filepath.Dir(root), p)
		if err != nil {
			r = p
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel, nil
}

// symlinkTargetKey resolves full to its real underlying target and returns a
// key identifying that target's device+inode, so a symlink loop is
// recognized by what it points at rather than by the path used to reach it
// (a traversal path is unique per step and never repeats on its own). Falls
// back to the resolved path string on platforms without syscall.Stat_t.
func symlinkTargetKey(full string) (string, error) {
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return fmt.Sprintf("%d:%d", st.Dev, st.Ino), nil
	}
	return resolved, nil
}

func matchesAnyGlob(globs []string, name string) bool {
	for _, g := range globs {
		if ok, err := path.Match(g, name); err == nil && ok {
			return true
		}
	}
	return false
}
