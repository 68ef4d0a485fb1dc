package ligi

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// TagMap is the in-memory mapping from tag name to the ordered, deduplicated
// set of source paths that carry it (spec §3). Paths are repo-relative
// (e.g. "art/notes/a.md").
type TagMap struct {
	data map[string]map[string]struct{}
}

// NewTagMap returns an empty TagMap.
func NewTagMap() *TagMap {
	return &TagMap{data: map[string]map[string]struct{}{}}
}

// Add records that path carries tag, deduplicating by set membership.
func (m *TagMap) Add(tag, path string) {
	if m.data == nil {
		m.data = map[string]map[string]struct{}{}
	}
	set, ok := m.data[tag]
	if !ok {
		set = map[string]struct{}{}
		m.data[tag] = set
	}
	set[path] = struct{}{}
}

// RemovePath drops path from every tag's set, used when re-indexing a single
// file (spec §4.3, §9 Open Questions: --file recompute merges by removing
// stale entries for that file only before re-adding what the file now has).
func (m *TagMap) RemovePath(path string) {
	for tag, set := range m.data {
		delete(set, path)
		if len(set) == 0 {
			delete(m.data, tag)
		}
	}
}

// Tags returns every known tag, sorted lexicographically.
func (m *TagMap) Tags() []string {
	out := make([]string, 0, len(m.data))
	for tag := range m.data {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Paths returns the sorted set of source paths for tag. Returns nil if the
// tag is unknown.
func (m *TagMap) Paths(tag string) []string {
	set, ok := m.data[tag]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Has reports whether tag has at least one path.
func (m *TagMap) Has(tag string) bool {
	return len(m.data[tag]) > 0
}

// BuildTagMap walks artPath and parses every source file, composing the
// walker (§4.2) and parser (§4.1) into a TagMap (§4.3). Walker and
// unreadable-file warnings are emitted via lg; parse warnings (invalid tag
// names) are returned to the caller. Neither aborts the build.
func BuildTagMap(ctx context.Context, rt *toolkit.Runtime, artPath string, opts WalkOptions, lg *slog.Logger) (*TagMap, []string, error) {
	if lg == nil {
		lg = slog.Default()
	}
	files, err := WalkSources(ctx, rt, artPath, opts, lg)
	if err != nil {
		return nil, nil, err
	}

	tm := NewTagMap()
	var warnings []string
	for _, rel := range files {
		full := filepath.Join(filepath.Dir(artPath), filepath.FromSlash(rel))
		data, err := rt.ReadFile(full)
		if err != nil {
			lg.Warn("unreadable source file, skipping", "path", rel, "error", err)
			continue
		}
		tags, w := ParseTags(rel, data)
		warnings = append(warnings, w...)
		for _, t := range tags {
			tm.Add(t, rel)
		}
	}
	return tm, warnings, nil
}

// BuildTagMapForFile recomputes the TagMap entries contributed by a single
// file, merging into base (which should be loaded from the existing on-disk
// index state, as RunIndex does via loadTagMapFromLocalIndex). Per spec §9's recommended policy for
// --file, existing entries referencing the file are removed before the
// file's current tags are re-added, so a file that no longer carries any tag
// has its stale entries pruned rather than left dangling.
func BuildTagMapForFile(ctx context.Context, rt *toolkit.Runtime, artPath, relPath string, base *TagMap, lg *slog.Logger) ([]string, error) {
	if lg == nil {
		lg = slog.Default()
	}
	if base == nil {
		base = NewTagMap()
	}
	base.RemovePath(relPath)

	full := filepath.Join(filepath.Dir(artPath), filepath.FromSlash(relPath))
	data, err := rt.ReadFile(full)
	if err != nil {
		lg.Warn("unreadable source file, skipping", "path", relPath, "error", err)
		return nil, nil
	}
	tags, warnings := ParseTags(relPath, data)
	for _, t := range tags {
		base.Add(t, relPath)
	}
	return warnings, nil
}
