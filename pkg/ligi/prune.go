package ligi

import (
	"path/filepath"
	"sort"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// PruneSummary reports the counts spec §4.10 requires check --prune to
// surface to the caller.
type PruneSummary struct {
	PrunedRepos            int
	PrunedLocalTagEntries  int
	PrunedGlobalTagEntries int
	PrunedTags             int
}

// PruneLocal drops per-tag file entries whose path, resolved against the
// workspace root (artPath's parent), no longer names an existing file, drops tags that become empty from
// the master list, and rewrites both through the content-comparison writer
// (spec §4.10's "Local prune").
func PruneLocal(rt *toolkit.Runtime, artPath string) (PruneSummary, error) {
	masterPath := filepath.Join(artPath, "index", MasterTagIndexFilename)
	data, exists, err := ReadIfExists(rt, masterPath)
	if err != nil {
		return PruneSummary{}, err
	}
	if !exists {
		return PruneSummary{}, nil
	}
	links, err := ParseMasterIndexLinks(data)
	if err != nil {
		return PruneSummary{}, nil
	}

	var summary PruneSummary
	var survivingTags []string

	for _, link := range links {
		tagFile := filepath.Join(artPath, "index", "tags", filepath.FromSlash(TagIndexRelPath(link.Tag)))
		fdata, fexists, err := ReadIfExists(rt, tagFile)
		if err != nil {
			return PruneSummary{}, err
		}
		if !fexists {
			continue
		}
		entries, err := ParseFileListBullets(fdata)
		if err != nil {
			continue
		}

		var kept []string
		for _, e := range entries {
			full := filepath.Join(filepath.Dir(artPath), filepath.FromSlash(e.Path))
			if _, err := rt.Stat(full, false); err == nil {
				kept = append(kept, e.Path)
			} else {
				summary.PrunedLocalTagEntries++
			}
		}
		sort.Strings(kept)

		body := RenderPerTagFile(link.Tag, kept)
		if _, err := WriteIfChanged(rt, tagFile, body); err != nil {
			return PruneSummary{}, err
		}
		if len(kept) > 0 {
			survivingTags = append(survivingTags, link.Tag)
		} else {
			summary.PrunedTags++
		}
	}

	sort.Strings(survivingTags)
	masterBody := RenderMasterIndex(survivingTags)
	if _, err := WriteIfChanged(rt, masterPath, masterBody); err != nil {
		return PruneSummary{}, err
	}
	return summary, nil
}

// WorkspaceRegistry is the parsed content of ligi_global_index.md: the
// sorted list of registered workspace roots plus a verbatim-preserved
// Notes section (spec §3, §4.10).
type WorkspaceRegistry struct {
	Roots []string
	Notes string
}

// PruneGlobal drops registry entries whose root or whose <root>/art no
// longer exists, then drops global per-tag entries whose path does not
// exist or is not under any surviving workspace root, and drops now-empty
// tags from the global master list (spec §4.10's "Global prune").
func PruneGlobal(rt *toolkit.Runtime, globalArtPath string) (PruneSummary, error) {
	var summary PruneSummary

	registryPath := filepath.Join(globalArtPath, "index", "ligi_global_index.md")
	registry, err := ReadWorkspaceRegistry(rt, registryPath)
	if err != nil {
		return PruneSummary{}, err
	}

	var survivingRoots []string
	for _, root := range registry.Roots {
		artPath := filepath.Join(root, "art")
		if _, err := rt.Stat(artPath, false); err == nil {
			survivingRoots = append(survivingRoots, root)
		} else {
			summary.PrunedRepos++
		}
	}
	registry.Roots = survivingRoots
	if err := WriteWorkspaceRegistry(rt, registryPath, registry); err != nil {
		return PruneSummary{}, err
	}

	entries, err := loadGlobalEntries(rt, globalArtPath)
	if err != nil {
		return PruneSummary{}, err
	}

	for _, set := range entries {
		for p := range set {
			if !pathExistsUnderAnyRoot(rt, p, survivingRoots) {
				delete(set, p)
				summary.PrunedGlobalTagEntries++
			}
		}
		if len(set) == 0 {
			summary.PrunedTags++
		}
	}

	if _, err := renderGlobalFiles(rt, globalArtPath, entries); err != nil {
		return PruneSummary{}, err
	}

	return summary, nil
}

func pathExistsUnderAnyRoot(rt *toolkit.Runtime, path string, roots []string) bool {
	under := false
	for _, root := range roots {
		if underRoot(path, filepath.Join(root, "art")) {
			under = true
			break
		}
	}
	if !under {
		return false
	}
	_, err := rt.Stat(path, false)
	return err == nil
}

const workspaceRegistryNotesMarker = "## Notes"

// ReadWorkspaceRegistry parses ligi_global_index.md, preserving the
// freeform ## Notes section verbatim for later rewrite.
func ReadWorkspaceRegistry(rt *toolkit.Runtime, path string) (WorkspaceRegistry, error) {
	data, exists, err := ReadIfExists(rt, path)
	if err != nil {
		return WorkspaceRegistry{}, err
	}
	if !exists {
		return WorkspaceRegistry{}, nil
	}

	body := string(data)
	notes := ""
	if idx := indexOfString(body, workspaceRegistryNotesMarker); idx >= 0 {
		rest := body[idx+len(workspaceRegistryNotesMarker):]
		notes = trimLeadingBlankLines(rest)
	}

	links, err := ParseRepositoryBullets(data)
	if err != nil {
		return WorkspaceRegistry{Notes: notes}, nil
	}
	return WorkspaceRegistry{Roots: links, Notes: notes}, nil
}

// WriteWorkspaceRegistry renders and writes ligi_global_index.md via the
// content-comparison writer, preserving reg.Notes verbatim.
func WriteWorkspaceRegistry(rt *toolkit.Runtime, path string, reg WorkspaceRegistry) error {
	roots := append([]string(nil), reg.Roots...)
	sort.Strings(roots)

	var b []byte
	b = append(b, []byte("# Ligi Global Index\n\n")...)
	b = append(b, []byte("This file is auto-maintained by ligi. It tracks all repositories initialized with ligi.\n\n")...)
	b = append(b, []byte("## Repositories\n\n")...)
	for _, r := range roots {
		b = append(b, []byte("- "+r+"\n")...)
	}
	if reg.Notes != "" {
		b = append(b, []byte("\n## Notes\n\n")...)
		b = append(b, []byte(reg.Notes)...)
		if len(reg.Notes) == 0 || reg.Notes[len(reg.Notes)-1] != '\n' {
			b = append(b, '\n')
		}
	}

	if err := rt.Mkdir(filepath.Dir(path), 0o755, true); err != nil {
		return NewFilesystemError("WriteWorkspaceRegistry", err)
	}
	_, err := WriteIfChanged(rt, path, b)
	return err
}

func indexOfString(s, sub string) int {
	return indexOfBytes([]byte(s), []byte(sub))
}

func indexOfBytes(s, sub []byte) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if string(s[i:i+m]) == string(sub) {
			return i
		}
	}
	return -1
}

func trimLeadingBlankLines(s string) string {
	for len(s) > 0 && (s[0] == '\n' || s[0] == '\r') {
		s = s[1:]
	}
	return s
}
