package ligi

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// GlobalArtRoot resolves ~/.ligi/art, the root of the cross-workspace global
// index (spec §6.2), expanding "~" the same way the teacher's filesystem
// repository resolves its fallback config directory.
func GlobalArtRoot(rt *toolkit.Runtime) (string, error) {
	expanded, err := toolkit.ExpandPath(rt, "~/.ligi/art")
	if err != nil {
		return "", NewFilesystemError("GlobalArtRoot", err)
	}
	return expanded, nil
}

// loadGlobalEntries loads every per-tag global file into tag -> set<absolute
// path>, along with the tag names recorded in the global master list.
func loadGlobalEntries(rt *toolkit.Runtime, globalArtPath string) (map[string]map[string]struct{}, error) {
	masterPath := filepath.Join(globalArtPath, "index", MasterTagIndexFilename)
	data, exists, err := ReadIfExists(rt, masterPath)
	if err != nil {
		return nil, err
	}
	entries := map[string]map[string]struct{}{}
	if !exists {
		return entries, nil
	}
	links, err := ParseMasterIndexLinks(data)
	if err != nil {
		return entries, nil
	}
	for _, link := range links {
		tagFile := filepath.Join(globalArtPath, "index", "tags", filepath.FromSlash(TagIndexRelPath(link.Tag)))
		fdata, fexists, err := ReadIfExists(rt, tagFile)
		if err != nil {
			return nil, err
		}
		set := map[string]struct{}{}
		if fexists {
			bullets, err := ParseFileListBullets(fdata)
			if err == nil {
				for _, b := range bullets {
					set[b.Path] = struct{}{}
				}
			}
		}
		entries[link.Tag] = set
	}
	return entries, nil
}

// RenderGlobal merges the current workspace's TagMap into the global index
// under globalArtPath (spec §4.7). workspaceArtRoot is the current
// workspace's absolute art/ path, used both to compute absolute source paths
// and to identify which existing global entries belong to this workspace
// (and should therefore be purged and replaced rather than merged with).
func RenderGlobal(rt *toolkit.Runtime, globalArtPath, workspaceArtRoot string, tm *TagMap) (RenderResult, error) {
	tagsDir := filepath.Join(globalArtPath, "index", "tags")
	if err := rt.Mkdir(tagsDir, 0o755, true); err != nil {
		return RenderResult{}, NewFilesystemError("RenderGlobal", err)
	}

	entries, err := loadGlobalEntries(rt, globalArtPath)
	if err != nil {
		return RenderResult{}, err
	}

	workspaceRoot := filepath.Clean(workspaceArtRoot)

	for _, set := range entries {
		for p := range set {
			if underRoot(p, workspaceRoot) {
				delete(set, p)
			}
		}
	}
	for _, tag := range tm.Tags() {
		set, ok := entries[tag]
		if !ok {
			set = map[string]struct{}{}
			entries[tag] = set
		}
		for _, rel := range tm.Paths(tag) {
			abs := filepath.Join(filepath.Dir(workspaceArtRoot), filepath.FromSlash(rel))
			set[abs] = struct{}{}
		}
	}

	return renderGlobalFiles(rt, globalArtPath, entries)
}

// renderGlobalFiles writes the global per-tag files and master list from
// entries using the content-comparison writer, shared by RenderGlobal and
// the authoritative rebuild path (index --global).
func renderGlobalFiles(rt *toolkit.Runtime, globalArtPath string, entries map[string]map[string]struct{}) (RenderResult, error) {
	tagsDir := filepath.Join(globalArtPath, "index", "tags")
	var res RenderResult
	var withEntries []string

	for tag, set := range entries {
		paths := make([]string, 0, len(set))
		for p := range set {
			paths = append(paths, p)
		}
		sort.Strings(paths)

		body := RenderPerTagFile(tag, paths)
		filePath := filepath.Join(tagsDir, filepath.FromSlash(TagIndexRelPath(tag)))
		wr, err := WriteIfChanged(rt, filePath, body)
		if err != nil {
			return RenderResult{}, err
		}
		if wr.Written {
			res.WrittenFiles = append(res.WrittenFiles, filePath)
		} else {
			res.SkippedFiles = append(res.SkippedFiles, filePath)
		}
		if len(paths) > 0 {
			withEntries = append(withEntries, tag)
		}
	}

	sort.Strings(withEntries)
	masterBody := RenderMasterIndex(withEntries)
	masterPath := filepath.Join(globalArtPath, "index", MasterTagIndexFilename)
	wr, err := WriteIfChanged(rt, masterPath, masterBody)
	if err != nil {
		return RenderResult{}, err
	}
	if wr.Written {
		res.WrittenFiles = append(res.WrittenFiles, masterPath)
	} else {
		res.SkippedFiles = append(res.SkippedFiles, masterPath)
	}
	return res, nil
}

// RebuildGlobalAuthoritative re-runs the parser over every registered
// workspace's art/ tree and rebuilds the entire global index from scratch
// (spec §4.7's "Authoritative rebuild variant", driven by `index --global`).
// Workspaces whose art/ no longer exists produce a warning (via the caller's
// logger, since this function returns the skipped roots instead) and are
// skipped rather than aborting the rebuild.
func RebuildGlobalAuthoritative(rt *toolkit.Runtime, globalArtPath string, workspaceRoots []string, opts WalkOptions) (RenderResult, []string, error) {
	entries := map[string]map[string]struct{}{}
	var skipped []string

	for _, root := range workspaceRoots {
		artPath := filepath.Join(root, "art")
		if _, err := rt.Stat(artPath, false); err != nil {
			skipped = append(skipped, root)
			continue
		}
		tm, _, err := BuildTagMap(context.Background(), rt, artPath, opts, nil)
		if err != nil {
			skipped = append(skipped, root)
			continue
		}
		for _, tag := range tm.Tags() {
			set, ok := entries[tag]
			if !ok {
				set = map[string]struct{}{}
				entries[tag] = set
			}
			for _, rel := range tm.Paths(tag) {
				abs := filepath.Join(root, filepath.FromSlash(rel))
				set[abs] = struct{}{}
			}
		}
	}

	res, err := renderGlobalFiles(rt, globalArtPath, entries)
	return res, skipped, err
}

func underRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return len(rel) < 3 || rel[:3] != ".."+string(filepath.Separator)
}
