package jinja

import (
	"regexp"
	"strings"
)

// TagType classifies a block-control tag occurrence on a line.
type TagType int

const (
	TagIf TagType = iota
	TagElif
	TagElse
	TagEndif
	TagFor
	TagEndfor
)

// String returns the tag keyword as written in templates.
func (t TagType) String() string {
	switch t {
	case TagIf:
		return "if"
	case TagElif:
		return "elif"
	case TagElse:
		return "else"
	case TagEndif:
		return "endif"
	case TagFor:
		return "for"
	case TagEndfor:
		return "endfor"
	}
	return "unknown"
}

// Tag is one recognized block-control tag.
type Tag struct {
	Type TagType

	// Expr is the condition or loop expression captured between the
	// keyword and the closing delimiter, surrounding whitespace removed.
	// Empty for else and close tags, and for tags with nothing to capture.
	Expr string
}

// The patterns tolerate extra whitespace and the whitespace-control
// markers Jinja2 allows inside delimiters ({%- ... -%}).
var (
	reIf     = regexp.MustCompile(`\{%-?\s*if\s+(.*?)\s*-?%\}`)
	reElif   = regexp.MustCompile(`\{%-?\s*elif\s+(.*?)\s*-?%\}`)
	reElse   = regexp.MustCompile(`\{%-?\s*else\s*-?%\}`)
	reEndif  = regexp.MustCompile(`\{%-?\s*endif\s*-?%\}`)
	reFor    = regexp.MustCompile(`\{%-?\s*for\s+(.*?)\s*-?%\}`)
	reEndfor = regexp.MustCompile(`\{%-?\s*endfor\s*-?%\}`)
)

// MatchTag classifies a single line as at most one block-control tag.
// When a line carries syntax for more than one shape, the first match in
// the fixed order if, elif, else, endif, for, endfor wins regardless of
// position in the line; the order is a documented policy, not an error.
// Lines without a recognizable tag return ok false. Classification is
// pure: no state, no failures.
func MatchTag(line string) (Tag, bool) {
	if m := reIf.FindStringSubmatch(line); m != nil {
		return Tag{Type: TagIf, Expr: strings.TrimSpace(m[1])}, true
	}
	if m := reElif.FindStringSubmatch(line); m != nil {
		return Tag{Type: TagElif, Expr: strings.TrimSpace(m[1])}, true
	}
	if reElse.MatchString(line) {
		return Tag{Type: TagElse}, true
	}
	if reEndif.MatchString(line) {
		return Tag{Type: TagEndif}, true
	}
	if m := reFor.FindStringSubmatch(line); m != nil {
		return Tag{Type: TagFor, Expr: strings.TrimSpace(m[1])}, true
	}
	if reEndfor.MatchString(line) {
		return Tag{Type: TagEndfor}, true
	}
	return Tag{}, false
}
