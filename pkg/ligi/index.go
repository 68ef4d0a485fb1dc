package ligi

import (
	"context"
	"time"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// IndexOptions configures the top-level `index` operation (spec §6.4).
type IndexOptions struct {
	// File, when non-empty, restricts indexing to a single repo-relative
	// source file rather than the whole tree.
	File string
	// Global additionally runs the authoritative global rebuild across
	// every registered workspace, instead of the incremental per-workspace
	// merge.
	Global bool
	Walk   WalkOptions
	Cmd    string // command name for log entries ("index")
}

// IndexSummary reports what a RunIndex call did, for CLI-layer reporting.
type IndexSummary struct {
	TagCount       int
	FileCount      int
	LinksFilled    int
	LocalWritten   int
	GlobalWritten  int
	Warnings       []string
	SkippedGlobals []string
}

// RunIndex drives the canonical `index` control flow (spec §2): tree walk +
// parser build the TagMap, the link filler rewrites bare markers in place,
// the local renderer then writes master/per-tag files (so the master index is
// never older than the sources the filler just rewrote), and the global
// renderer folds the workspace's tags into the cross-repo index — each
// stage's per-file outcome is appended to the action log.
func RunIndex(ctx context.Context, rt *toolkit.Runtime, artPath string, opts IndexOptions) (IndexSummary, error) {
	cmd := opts.Cmd
	if cmd == "" {
		cmd = "index"
	}
	var summary IndexSummary

	var tm *TagMap
	var warnings []string
	var filesTouched []string

	if opts.File != "" {
		existing, _, err := loadTagMapFromLocalIndex(rt, artPath)
		if err != nil {
			return summary, err
		}
		w, err := BuildTagMapForFile(ctx, rt, artPath, opts.File, existing, nil)
		if err != nil {
			return summary, err
		}
		tm = existing
		warnings = w
		filesTouched = []string{opts.File}
	} else {
		built, w, err := BuildTagMap(ctx, rt, artPath, opts.Walk, nil)
		if err != nil {
			return summary, err
		}
		tm = built
		warnings = w
		filesTouched = walkAllTaggedFiles(tm)
	}

	summary.Warnings = warnings
	summary.TagCount = len(tm.Tags())
	summary.FileCount = len(filesTouched)

	for _, rel := range filesTouched {
		fr, err := FillLinksInFile(rt, artPath, rel)
		if err != nil {
			return summary, err
		}
		summary.LinksFilled += fr.Filled
		action := "fill_tag_links_skip"
		if fr.Filled > 0 {
			action = "fill_tag_links"
		}
		LogAction(artPath, LogEntry{
			Ts:     nowUnix(),
			Cmd:    cmd,
			Action: action,
			Detail: rel,
		}.WithCount(fr.Filled))
	}

	localRes, err := RenderLocal(rt, artPath, tm)
	if err != nil {
		return summary, err
	}
	summary.LocalWritten = len(localRes.WrittenFiles)
	logRenderResult(artPath, cmd, "write_local_index", "write_local_index_skip", localRes)

	globalRoot, err := GlobalArtRoot(rt)
	if err != nil {
		return summary, err
	}

	if opts.Global {
		roots, err := registeredWorkspaceRoots(rt, globalRoot)
		if err != nil {
			return summary, err
		}
		globalRes, skipped, err := RebuildGlobalAuthoritative(rt, globalRoot, roots, opts.Walk)
		if err != nil {
			return summary, err
		}
		summary.GlobalWritten = len(globalRes.WrittenFiles)
		summary.SkippedGlobals = skipped
		logRenderResult(artPath, cmd, "write_global_index", "write_global_index_skip", globalRes)
	} else {
		globalRes, err := RenderGlobal(rt, globalRoot, artPath, tm)
		if err != nil {
			return summary, err
		}
		summary.GlobalWritten = len(globalRes.WrittenFiles)
		logRenderResult(artPath, cmd, "write_global_index", "write_global_index_skip", globalRes)
	}

	return summary, nil
}

// CheckOptions configures the `check` operation (spec §6.4).
type CheckOptions struct {
	Prune bool
	Root  string
	Cmd   string
}

// CheckSummary reports what a RunCheck call found/did.
type CheckSummary struct {
	Stale bool
	Prune PruneSummary
}

// RunCheck drives the `check [--prune]` control flow (spec §2: (2)→(11)→
// (6/8 for rewrite)): it reports staleness and, when --prune is set, runs
// the local and global pruners and rewrites the affected index files.
func RunCheck(ctx context.Context, rt *toolkit.Runtime, artPath string, opts CheckOptions) (CheckSummary, error) {
	var summary CheckSummary

	stale, err := IsStale(ctx, rt, artPath, WalkOptions{})
	if err != nil {
		return summary, err
	}
	summary.Stale = stale

	if !opts.Prune {
		return summary, nil
	}

	localSummary, err := PruneLocal(rt, artPath)
	if err != nil {
		return summary, err
	}

	globalRoot, err := GlobalArtRoot(rt)
	if err != nil {
		return summary, err
	}
	globalSummary, err := PruneGlobal(rt, globalRoot)
	if err != nil {
		return summary, err
	}

	summary.Prune = PruneSummary{
		PrunedRepos:            globalSummary.PrunedRepos,
		PrunedLocalTagEntries:  localSummary.PrunedLocalTagEntries,
		PrunedGlobalTagEntries: globalSummary.PrunedGlobalTagEntries,
		PrunedTags:             localSummary.PrunedTags + globalSummary.PrunedTags,
	}

	cmd := opts.Cmd
	if cmd == "" {
		cmd = "check"
	}
	LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: "prune"}.
		WithCount(summary.Prune.PrunedLocalTagEntries + summary.Prune.PrunedGlobalTagEntries))

	return summary, nil
}

func loadTagMapFromLocalIndex(rt *toolkit.Runtime, artPath string) (*TagMap, []string, error) {
	masterPath := artPath + "/index/" + MasterTagIndexFilename
	data, exists, err := ReadIfExists(rt, masterPath)
	if err != nil {
		return nil, nil, err
	}
	tm := NewTagMap()
	if !exists {
		return tm, nil, nil
	}
	links, err := ParseMasterIndexLinks(data)
	if err != nil {
		return tm, nil, nil
	}
	var tags []string
	for _, link := range links {
		tagFile := artPath + "/index/tags/" + TagIndexRelPath(link.Tag)
		fdata, fexists, err := ReadIfExists(rt, tagFile)
		if err != nil {
			return nil, nil, err
		}
		if !fexists {
			continue
		}
		entries, err := ParseFileListBullets(fdata)
		if err != nil {
			continue
		}
		for _, e := range entries {
			tm.Add(link.Tag, e.Path)
		}
		tags = append(tags, link.Tag)
	}
	return tm, tags, nil
}

func walkAllTaggedFiles(tm *TagMap) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tag := range tm.Tags() {
		for _, p := range tm.Paths(tag) {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}

func registeredWorkspaceRoots(rt *toolkit.Runtime, globalArtPath string) ([]string, error) {
	registryPath := globalArtPath + "/index/ligi_global_index.md"
	reg, err := ReadWorkspaceRegistry(rt, registryPath)
	if err != nil {
		return nil, err
	}
	return reg.Roots, nil
}

func logRenderResult(artPath, cmd, writeAction, skipAction string, res RenderResult) {
	for _, f := range res.WrittenFiles {
		LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: writeAction, Detail: f})
	}
	for _, f := range res.SkippedFiles {
		LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: skipAction, Detail: f})
	}
}

func nowUnix() int64 {
	return time.Now().Unix()
}
