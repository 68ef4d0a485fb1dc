package ligi

import (
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// MaxWorkspaceSearchDepth bounds the ancestor walk in FindWorkspaceRoot
// against symlink loops (spec §4.11).
const MaxWorkspaceSearchDepth = 10

// WorkspaceContext is the transient value computed once at each command
// entry (spec §3): the resolved art/ root, its kind, optional org parent,
// the global root, and the ordered template search path.
type WorkspaceContext struct {
	Root          string
	Kind          WorkspaceKind
	Name          string
	Org           *WorkspaceContext
	GlobalRoot    string
	TemplatePaths []string
	ArtPath       string
}

// FindWorkspaceRoot walks ancestors of start looking for a directory
// containing art/, giving up after MaxWorkspaceSearchDepth hops. Returns
// ErrArtNotFound if none is found.
func FindWorkspaceRoot(rt *toolkit.Runtime, start string) (string, error) {
	dir := filepath.Clean(start)
	for depth := 0; depth < MaxWorkspaceSearchDepth; depth++ {
		artPath := filepath.Join(dir, "art")
		if info, err := rt.Stat(artPath, false); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrArtNotFound
}

// ResolveWorkspaceContext builds a WorkspaceContext for start (spec §4.11):
// it finds the nearest art/, reads its config to determine kind (defaulting
// to repo when the config omits workspace.type), and — when the workspace
// is a repo — continues walking ancestors for an org-kind workspace to
// record as parent. Template search paths are ordered repo, org (when
// present), global; built-in templates are not part of the list.
func ResolveWorkspaceContext(rt *toolkit.Runtime, start string) (*WorkspaceContext, error) {
	root, err := FindWorkspaceRoot(rt, start)
	if err != nil {
		return nil, err
	}
	artPath := filepath.Join(root, "art")
	cfg, err := LoadConfig(rt, artPath)
	if err != nil {
		return nil, err
	}

	globalRoot, err := GlobalArtRoot(rt)
	if err != nil {
		return nil, err
	}

	ctx := &WorkspaceContext{
		Root:       root,
		Kind:       cfg.Workspace.Type,
		Name:       cfg.Workspace.Name,
		GlobalRoot: globalRoot,
		ArtPath:    artPath,
	}

	var templatePaths []string
	templatePaths = append(templatePaths, filepath.Join(artPath, "template"))

	if ctx.Kind == KindRepoWorkspace {
		if orgRoot, orgArt, ok := findOrgAncestor(rt, filepath.Dir(root)); ok {
			orgCfg, err := LoadConfig(rt, orgArt)
			if err == nil {
				ctx.Org = &WorkspaceContext{
					Root:    orgRoot,
					Kind:    orgCfg.Workspace.Type,
					Name:    orgCfg.Workspace.Name,
					ArtPath: orgArt,
				}
				templatePaths = append(templatePaths, filepath.Join(orgArt, "template"))
			}
		}
	}

	templatePaths = append(templatePaths, filepath.Join(globalRoot, "template"))
	ctx.TemplatePaths = templatePaths

	return ctx, nil
}

// findOrgAncestor continues the ancestor walk from dir (already past the
// repo's own root) looking for an art/ whose config declares type=org.
func findOrgAncestor(rt *toolkit.Runtime, dir string) (root, artPath string, ok bool) {
	cur := filepath.Clean(dir)
	for depth := 0; depth < MaxWorkspaceSearchDepth; depth++ {
		candidateArt := filepath.Join(cur, "art")
		if info, err := rt.Stat(candidateArt, false); err == nil && info.IsDir() {
			cfg, err := LoadConfig(rt, candidateArt)
			if err == nil && cfg.Workspace.Type == KindOrgWorkspace {
				return cur, candidateArt, true
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return "", "", false
}

// RegisterWorkspace appends root to the global workspace registry
// (ligi_global_index.md), de-duplicated, through the content-comparison
// writer. This is the only part of `ligi init` the core is responsible for
// per spec §1 — art/ scaffolding itself is out of scope.
func RegisterWorkspace(rt *toolkit.Runtime, root string) error {
	globalRoot, err := GlobalArtRoot(rt)
	if err != nil {
		return err
	}
	registryPath := filepath.Join(globalRoot, "index", "ligi_global_index.md")

	reg, err := ReadWorkspaceRegistry(rt, registryPath)
	if err != nil {
		return err
	}

	root = filepath.Clean(root)
	for _, r := range reg.Roots {
		if r == root {
			return nil
		}
	}
	reg.Roots = append(reg.Roots, root)
	return WriteWorkspaceRegistry(rt, registryPath, reg)
}

// RegisterRepoUnderOrg appends repoName (relative to the org root) to the
// org's config.repos list, de-duplicated, instead of creating a new art/ —
// the "single art/ per organization" invariant spec §4.11 requires.
func RegisterRepoUnderOrg(rt *toolkit.Runtime, orgArtPath, repoName string) error {
	cfg, err := LoadConfig(rt, orgArtPath)
	if err != nil {
		return err
	}
	for _, r := range cfg.Workspace.Repos {
		if r == repoName {
			return nil
		}
	}
	cfg.Workspace.Repos = append(cfg.Workspace.Repos, repoName)
	return writeConfig(rt, orgArtPath, cfg)
}
