package ligi

import (
	"strings"

	"github.com/yuin/goldmark"
	gm_ast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileEntry is one "- <path>" bullet under a per-tag index's ## Files
// section (spec §4.5, §4.9).
type FileEntry struct {
	Path string
}

// TagLinkEntry is one "- [<tag>](tags/<tag>.md)" bullet under the master
// index's ## Tags section (spec §4.5.3).
type TagLinkEntry struct {
	Tag  string
	Href string
}

// ParseFileListBullets walks the goldmark AST of a per-tag index file and
// returns the repo-relative paths listed under its ## Files heading. Bullets
// outside that section are ignored; within it, each bullet's inline content
// is flattened to its plain text, so a bullet written as a markdown link
// yields its link text rather than its destination.
func ParseFileListBullets(data []byte) ([]FileEntry, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var entries []FileEntry
	inFiles := false

	err := gm_ast.Walk(doc, func(n gm_ast.Node, entering bool) (gm_ast.WalkStatus, error) {
		if !entering {
			return gm_ast.WalkContinue, nil
		}
		switch n.Kind() {
		case gm_ast.KindHeading:
			h := n.(*gm_ast.Heading)
			text := headingText(h, data)
			inFiles = strings.EqualFold(strings.TrimSpace(text), "Files")
		case gm_ast.KindListItem:
			if !inFiles {
				return gm_ast.WalkContinue, nil
			}
			line := strings.TrimSpace(inlineText(n, data))
			if line == "" {
				return gm_ast.WalkContinue, nil
			}
			entries = append(entries, FileEntry{Path: line})
			return gm_ast.WalkSkipChildren, nil
		}
		return gm_ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseMasterIndexLinks walks the goldmark AST of the master tag index and
// returns the tag name / href pairs listed under its ## Tags heading.
func ParseMasterIndexLinks(data []byte) ([]TagLinkEntry, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var entries []TagLinkEntry
	inTags := false

	err := gm_ast.Walk(doc, func(n gm_ast.Node, entering bool) (gm_ast.WalkStatus, error) {
		if !entering {
			return gm_ast.WalkContinue, nil
		}
		switch n.Kind() {
		case gm_ast.KindHeading:
			h := n.(*gm_ast.Heading)
			text := headingText(h, data)
			inTags = strings.EqualFold(strings.TrimSpace(text), "Tags")
		case gm_ast.KindListItem:
			if !inTags {
				return gm_ast.WalkContinue, nil
			}
			tag, href, ok := firstLink(n, data)
			if !ok {
				return gm_ast.WalkSkipChildren, nil
			}
			entries = append(entries, TagLinkEntry{Tag: tag, Href: href})
			return gm_ast.WalkSkipChildren, nil
		}
		return gm_ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseRepositoryBullets walks the goldmark AST of ligi_global_index.md and
// returns the absolute workspace roots listed under its ## Repositories
// heading (spec §3's workspace registry). Stops collecting once it leaves
// that section, so a trailing ## Notes section is never mistaken for an
// entry.
func ParseRepositoryBullets(data []byte) ([]string, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	doc := md.Parser().Parse(reader)

	var roots []string
	inRepos := false

	err := gm_ast.Walk(doc, func(n gm_ast.Node, entering bool) (gm_ast.WalkStatus, error) {
		if !entering {
			return gm_ast.WalkContinue, nil
		}
		switch n.Kind() {
		case gm_ast.KindHeading:
			h := n.(*gm_ast.Heading)
			text := headingText(h, data)
			inRepos = strings.EqualFold(strings.TrimSpace(text), "Repositories")
		case gm_ast.KindListItem:
			if !inRepos {
				return gm_ast.WalkContinue, nil
			}
			line := strings.TrimSpace(inlineText(n, data))
			if line == "" {
				return gm_ast.WalkContinue, nil
			}
			roots = append(roots, line)
			return gm_ast.WalkSkipChildren, nil
		}
		return gm_ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

func headingText(h *gm_ast.Heading, source []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		b.Write(c.Text(source))
	}
	return b.String()
}

func inlineText(n gm_ast.Node, source []byte) string {
	var b strings.Builder
	var walk func(gm_ast.Node)
	walk = func(node gm_ast.Node) {
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if c.Kind() == gm_ast.KindText || c.Kind() == gm_ast.KindString {
				b.Write(c.Text(source))
			}
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// firstLink returns the tag name (link text) and href of the first markdown
// link found within n, if any.
func firstLink(n gm_ast.Node, source []byte) (tag, href string, ok bool) {
	var found *gm_ast.Link
	var walk func(gm_ast.Node)
	walk = func(node gm_ast.Node) {
		if found != nil {
			return
		}
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if l, isLink := c.(*gm_ast.Link); isLink {
				found = l
				return
			}
			walk(c)
		}
	}
	walk(n)
	if found == nil {
		return "", "", false
	}
	return strings.TrimSpace(inlineText(found, source)), string(found.Destination), true
}
