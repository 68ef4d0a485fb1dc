package ligi

import (
	"context"
	"strings"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// QueryRunOptions configures the top-level `query <expr>` operation (spec
// §4.9, §6.4).
type QueryRunOptions struct {
	// AutoIndex runs the full index pipeline first when the staleness oracle
	// reports the local index is out of date. Defaults to true at the CLI
	// layer; tests that want to observe a stale index directly pass false.
	AutoIndex bool
	Absolute  bool
	Walk      WalkOptions
	Cmd       string
}

// QueryRunResult is the outcome of a RunQuery call.
type QueryRunResult struct {
	Expr        string
	Results     []string
	AutoIndexed bool
}

// RunQuery drives the canonical `query` control flow (spec §4.9): resolve
// the workspace art path, auto-reindex when the oracle reports staleness,
// evaluate the left-to-right tag expression against art/index/tags/*.md,
// and return the sorted (optionally absolutized) result set.
func RunQuery(ctx context.Context, rt *toolkit.Runtime, artPath, workspaceRoot string, args []string, opts QueryRunOptions) (QueryRunResult, error) {
	cmd := opts.Cmd
	if cmd == "" {
		cmd = "query"
	}
	var result QueryRunResult
	result.Expr = strings.Join(args, " ")

	if opts.AutoIndex {
		stale, err := IsStale(ctx, rt, artPath, opts.Walk)
		if err != nil {
			return result, err
		}
		if stale {
			if _, err := RunIndex(ctx, rt, artPath, IndexOptions{Walk: opts.Walk, Cmd: cmd}); err != nil {
				return result, err
			}
			result.AutoIndexed = true
			LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: "auto_reindex"})
		}
	}

	tokens := TokenizeQuery(args)
	set, err := EvalQuery(tokens, func(tag string) (map[string]struct{}, error) {
		return ReadTagSetFromFile(rt, artPath, tag)
	})
	if err != nil {
		return result, err
	}

	paths := SortedPaths(set)
	if opts.Absolute {
		paths = AbsolutizeResults(workspaceRoot, paths)
	}
	result.Results = paths

	LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: "query"}.WithCount(len(paths)))

	return result, nil
}

// QueryListRunOptions configures the `query list` variant (spec §4.9's
// merged-tag-list output).
type QueryListRunOptions struct {
	Cmd string
}

// RunQueryList merges the workspace's local master tag list with the global
// one, annotating each tag's provenance ([G], [L], or [G][L]).
func RunQueryList(rt *toolkit.Runtime, artPath, globalArtPath string, opts QueryListRunOptions) ([]MergedListEntry, error) {
	localPath := artPath + "/index/" + MasterTagIndexFilename
	localData, exists, err := ReadIfExists(rt, localPath)
	if err != nil {
		return nil, err
	}
	var localTags []string
	if exists {
		links, err := ParseMasterIndexLinks(localData)
		if err == nil {
			for _, l := range links {
				localTags = append(localTags, l.Tag)
			}
		}
	}

	globalPath := globalArtPath + "/index/" + MasterTagIndexFilename
	globalData, exists, err := ReadIfExists(rt, globalPath)
	if err != nil {
		return nil, err
	}
	var globalTags []string
	if exists {
		links, err := ParseMasterIndexLinks(globalData)
		if err == nil {
			for _, l := range links {
				globalTags = append(globalTags, l.Tag)
			}
		}
	}

	cmd := opts.Cmd
	if cmd == "" {
		cmd = "query"
	}
	merged := MergeTagLists(globalTags, localTags)
	LogAction(artPath, LogEntry{Ts: nowUnix(), Cmd: cmd, Action: "query_list"}.WithCount(len(merged)))
	return merged, nil
}
