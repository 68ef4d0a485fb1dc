package ligi

import (
	"fmt"
	"strings"
)

// MaxTagLength is the maximum byte length of a valid tag name (spec §3).
const MaxTagLength = 255

// ValidateTag reports whether name is a syntactically valid tag per spec §3:
// a non-empty ASCII string over [A-Za-z0-9_.\-/], length <= 255, no ".."
// segment, no leading or trailing "/". On failure it returns a reason string
// drawn from {empty, contains '..', length>255, invalid character '<c>'}.
func ValidateTag(name string) (ok bool, reason string) {
	if name == "" {
		return false, "empty"
	}
	if len(name) > MaxTagLength {
		return false, "length>255"
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return false, "invalid character '/'"
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isTagChar(c) {
			return false, fmt.Sprintf("invalid character '%c'", c)
		}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return false, "contains '..'"
		}
	}
	return true, ""
}

func isTagChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-' || c == '/':
		return true
	default:
		return false
	}
}

// TagSegments splits a tag's logical path into directory segments, used by
// the renderer (spec §4.5) to lay out art/index/tags/<segment>/.../<tag>.md.
func TagSegments(tag string) []string {
	return strings.Split(tag, "/")
}

// TagIndexRelPath returns the path of tag's per-tag index file relative to
// art/index/tags/, e.g. "proj/urgent" -> "proj/urgent.md".
func TagIndexRelPath(tag string) string {
	return tag + ".md"
}
