package ligi

import (
	"bytes"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// FillResult reports how many tag markers a FillLinks pass rewrote.
type FillResult struct {
	Filled  int
	Written bool
}

// FillLinks rewrites every bare "[[t/x]]" marker in data into
// "[[t/x]](relative)" where relative is the path from the directory
// containing srcRelPath to art/index/tags/x.md (spec §4.6). Markers already
// followed by a Markdown link target ("](...)") are left untouched, and
// markers inside fenced code, inline code, or HTML comments are never
// rewritten — this walks the identical state machine as ParseTags so the
// two never disagree about what counts as a marker.
//
// Idempotent: running FillLinks again over its own output finds every
// marker already followed by "](...)" and rewrites nothing.
func FillLinks(artPath, srcRelPath string, data []byte) ([]byte, int) {
	srcDir := filepath.Dir(filepath.Join(filepath.Dir(artPath), filepath.FromSlash(srcRelPath)))

	bom := bytes.HasPrefix(data, utf8BOM)
	body := bytes.TrimPrefix(data, utf8BOM)

	out := make([]byte, 0, len(body)+32)
	if bom {
		out = append(out, utf8BOM...)
	}

	state := stateNormal
	filled := 0
	n := len(body)
	i := 0
	atLineStart := true

	for i < n {
		if atLineStart && (state == stateNormal || state == stateFencedCode) {
			j := i
			for j < n && isLineLeadingSpace(body[j]) {
				j++
			}
			if j+3 <= n && body[j] == '`' && body[j+1] == '`' && body[j+2] == '`' {
				if state == stateNormal {
					state = stateFencedCode
				} else {
					state = stateNormal
				}
				end := advanceToLineEnd(body, j)
				out = append(out, body[i:end]...)
				i = end
				atLineStart = false
				continue
			}
		}
		atLineStart = false

		c := body[i]
		switch state {
		case stateFencedCode:
			if c == '\n' {
				atLineStart = true
			}
			out = append(out, c)
			i++
		case stateInlineCode:
			if c == '`' {
				state = stateNormal
			}
			if c == '\n' {
				atLineStart = true
			}
			out = append(out, c)
			i++
		case stateHTMLComment:
			if hasPrefixAt(body, i, "-->") {
				out = append(out, body[i:i+3]...)
				i += 3
				state = stateNormal
				continue
			}
			if c == '\n' {
				atLineStart = true
			}
			out = append(out, c)
			i++
		case stateNormal:
			switch {
			case c == '\n':
				atLineStart = true
				out = append(out, c)
				i++
			case c == '`':
				state = stateInlineCode
				out = append(out, c)
				i++
			case hasPrefixAt(body, i, "<!--"):
				state = stateHTMLComment
				out = append(out, body[i:i+4]...)
				i += 4
			case hasPrefixAt(body, i, "[[t/"):
				start := i + 4
				idx := bytes.Index(body[start:], []byte("]]"))
				if idx < 0 {
					out = append(out, body[i:]...)
					i = n
					continue
				}
				markerEnd := start + idx + 2
				candidate := string(body[start : start+idx])
				ok, _ := ValidateTag(candidate)
				out = append(out, body[i:markerEnd]...)
				if ok && !hasPrefixAt(body, markerEnd, "](") {
					rel := relTagIndexPath(artPath, srcDir, candidate)
					out = append(out, []byte("("+rel+")")...)
					filled++
				}
				i = markerEnd
			default:
				out = append(out, c)
				i++
			}
		}
	}

	return out, filled
}

func relTagIndexPath(artPath, srcDir, tag string) string {
	tagIndexPath := filepath.Join(artPath, "index", "tags", filepath.FromSlash(TagIndexRelPath(tag)))
	rel, err := filepath.Rel(srcDir, tagIndexPath)
	if err != nil {
		rel = tagIndexPath
	}
	return filepath.ToSlash(rel)
}

// FillLinksInFile reads srcRelPath (repo-relative), rewrites it via
// FillLinks, and writes it back through the content-comparison writer. The
// caller is responsible for emitting the fill_tag_links / fill_tag_links_skip
// log entry using the returned count.
func FillLinksInFile(rt *toolkit.Runtime, artPath, srcRelPath string) (FillResult, error) {
	full := filepath.Join(filepath.Dir(artPath), filepath.FromSlash(srcRelPath))
	data, err := rt.ReadFile(full)
	if err != nil {
		return FillResult{}, NewFilesystemError("FillLinksInFile", err)
	}

	rewritten, filled := FillLinks(artPath, srcRelPath, data)
	wr, err := WriteIfChanged(rt, full, rewritten)
	if err != nil {
		return FillResult{}, err
	}
	return FillResult{Filled: filled, Written: wr.Written}, nil
}
