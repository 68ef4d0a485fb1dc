package ligi

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

const tagFileDocLine = "This file is auto-maintained by ligi."
const masterIndexDocLine = "This file is auto-maintained by ligi. Each tag links to its index file."

// MasterTagIndexFilename is the path of the local master tag list, relative
// to art/index/.
const MasterTagIndexFilename = "ligi_tags.md"

// RenderResult summarizes one render pass for logging (spec §4.5.4).
type RenderResult struct {
	WrittenFiles []string
	SkippedFiles []string
}

// RenderPerTagFile renders the canonical per-tag index file body for tag
// given its sorted list of repo-relative source paths (spec §4.5 / §6.3).
// An empty paths list renders the placeholder form: a valid file with an
// empty ## Files section, used to keep stale per-tag links from dangling
// (spec §3, §9 Open Questions).
func RenderPerTagFile(tag string, paths []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Tag: %s\n\n%s\n\n## Files\n\n", tag, tagFileDocLine)
	for _, p := range paths {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return []byte(b.String())
}

// RenderMasterIndex renders the master tag index body (spec §4.5.3, §6.3)
// listing tagsWithEntries in the order given; callers pass only tags whose
// paths list is non-empty, already sorted.
func RenderMasterIndex(tagsWithEntries []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ligi Tag Index\n\n%s\n\n## Tags\n\n", masterIndexDocLine)
	for _, tag := range tagsWithEntries {
		fmt.Fprintf(&b, "- [%s](tags/%s.md)\n", tag, tag)
	}
	return []byte(b.String())
}

// RenderLocal writes art/index/ligi_tags.md and art/index/tags/<tag>.md for
// every tag in tm, and preserves placeholder files for tags that were
// present in the previous on-disk master list but are absent from tm (spec
// §4.5.2). It returns the set of written/skipped file paths for the caller
// to log (component 4.12).
func RenderLocal(rt *toolkit.Runtime, artPath string, tm *TagMap) (RenderResult, error) {
	indexDir := filepath.Join(artPath, "index")
	tagsDir := filepath.Join(indexDir, "tags")

	if err := rt.Mkdir(tagsDir, 0o755, true); err != nil {
		return RenderResult{}, NewFilesystemError("RenderLocal", err)
	}

	prevTags, err := readMasterTagNames(rt, filepath.Join(indexDir, MasterTagIndexFilename))
	if err != nil {
		return RenderResult{}, err
	}

	allTags := map[string]struct{}{}
	for _, t := range tm.Tags() {
		allTags[t] = struct{}{}
	}
	for _, t := range prevTags {
		allTags[t] = struct{}{}
	}

	var res RenderResult
	var withEntries []string
	for tag := range allTags {
		paths := tm.Paths(tag)
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

	sortedTags := make([]string, len(withEntries))
	copy(sortedTags, withEntries)
	sort.Strings(sortedTags)

	masterBody := RenderMasterIndex(sortedTags)
	masterPath := filepath.Join(indexDir, MasterTagIndexFilename)
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

// readMasterTagNames returns the tag names currently listed in the master
// index at masterPath, or nil if the file does not exist. Used by RenderLocal
// to detect tags that disappeared from the current TagMap so their per-tag
// file can be kept as a placeholder instead of deleted.
func readMasterTagNames(rt *toolkit.Runtime, masterPath string) ([]string, error) {
	data, exists, err := ReadIfExists(rt, masterPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	entries, err := ParseMasterIndexLinks(data)
	if err != nil {
		return nil, nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Tag)
	}
	return out, nil
}
