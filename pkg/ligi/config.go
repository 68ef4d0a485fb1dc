package ligi

import (
	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/pelletier/go-toml/v2"
)

// WorkspaceKind enumerates the kinds a workspace's art/config/ligi.toml can
// declare (spec §4.11, §6.5).
type WorkspaceKind string

const (
	KindGlobalWorkspace WorkspaceKind = "global"
	KindOrgWorkspace    WorkspaceKind = "org"
	KindRepoWorkspace   WorkspaceKind = "repo"
)

// Config is the decoded form of art/config/ligi.toml (spec §6.5). Unknown
// or missing sections take the defaults documented per field; a config
// file that omits [workspace].type is treated as "repo" for legacy
// compatibility.
type Config struct {
	Version   string          `toml:"version"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Index     IndexConfig     `toml:"index"`
	Query     QueryConfig     `toml:"query"`
	AutoTags  AutoTagsConfig  `toml:"auto_tags"`
}

type WorkspaceConfig struct {
	Type  WorkspaceKind `toml:"type"`
	Repos []string      `toml:"repos"`
	Name  string        `toml:"name"`
}

type IndexConfig struct {
	IgnorePatterns []string `toml:"ignore_patterns"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
}

type QueryConfig struct {
	DefaultFormat string `toml:"default_format"`
}

type AutoTagsConfig struct {
	Enabled bool     `toml:"enabled"`
	Tags    []string `toml:"tags"`
}

// DefaultConfig returns the configuration spec §6.5 documents as the
// defaults used when art/config/ligi.toml is absent or omits a section.
func DefaultConfig() Config {
	return Config{
		Version: "0.2.0",
		Workspace: WorkspaceConfig{
			Type: KindRepoWorkspace,
		},
		Index: IndexConfig{
			IgnorePatterns: append([]string(nil), DefaultIgnoreGlobs...),
			FollowSymlinks: false,
		},
		Query: QueryConfig{
			DefaultFormat: "text",
		},
		AutoTags: AutoTagsConfig{
			Enabled: true,
			Tags:    []string{"{{org}}", "{{repo}}"},
		},
	}
}

// LoadConfig reads and decodes art/config/ligi.toml under artPath, merging
// onto DefaultConfig so any field the file omits keeps its default value. A
// missing file returns DefaultConfig() with no error.
func LoadConfig(rt *toolkit.Runtime, artPath string) (Config, error) {
	cfg := DefaultConfig()

	data, exists, err := ReadIfExists(rt, artPath+"/config/ligi.toml")
	if err != nil {
		return cfg, err
	}
	if !exists {
		return cfg, nil
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, NewUsageError("LoadConfig", err)
	}
	if cfg.Workspace.Type == "" {
		cfg.Workspace.Type = KindRepoWorkspace
	}
	if len(cfg.Index.IgnorePatterns) == 0 {
		cfg.Index.IgnorePatterns = append([]string(nil), DefaultIgnoreGlobs...)
	}
	if cfg.Query.DefaultFormat == "" {
		cfg.Query.DefaultFormat = "text"
	}
	return cfg, nil
}

// writeConfig re-encodes cfg as TOML and writes it back to
// art/config/ligi.toml through the content-comparison writer. Used by the
// "single art/ per organization" repo-registration path (spec §4.11), the
// only place the core mutates configuration rather than just reading it.
func writeConfig(rt *toolkit.Runtime, artPath string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return NewInternalError("writeConfig", err)
	}
	_, err = WriteIfChanged(rt, artPath+"/config/ligi.toml", data)
	return err
}
