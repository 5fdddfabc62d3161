package jinja

import "strings"

// previewLines caps how many body lines a block preview collects.
const previewLines = 3

// Parse splits src into lines and extracts its block structure in one
// top-to-bottom pass. It never fails: stray branch or close tags and
// blocks left open at end of input degrade to a partial forest.
func Parse(src string) *Template {
	return ParseLines(SplitLines(src))
}

// SplitLines splits template text on CR?LF boundaries. Empty lines keep
// their index so block line numbers stay aligned with the source; text
// ending in a newline yields a final empty line.
func SplitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ParseLines runs the stack pass over an already-split line slice. The
// returned Template keeps the slice and must not be mutated afterwards.
//
// Per line, exactly one transition applies:
//
//	if/for     open a scope: the block attaches to the innermost open
//	           scope (or becomes a root) and is pushed.
//	elif/else  close the innermost scope at the previous line, then open
//	           a sibling scope one level up. The elif of a root-level if
//	           is itself a root. With no open scope at all, the line is
//	           ignored.
//	endif/endfor  close the innermost scope at the previous line. Stray
//	           closers are ignored; closers are not matched against the
//	           kind they close.
//
// Scopes still open at end of input stay in the forest unclosed.
func ParseLines(lines []string) *Template {
	t := &Template{Lines: lines}

	// The stack holds working references to the currently open scopes,
	// innermost last. Every block is owned by a Children slice or by
	// t.Blocks from the moment it is created; the stack only aliases.
	var stack []*Block

	for i, line := range lines {
		tag, ok := MatchTag(line)
		if !ok {
			continue
		}
		switch tag.Type {
		case TagIf, TagFor:
			kind := KindIf
			if tag.Type == TagFor {
				kind = KindFor
			}
			b := &Block{Kind: kind, Condition: tag.Expr, Line: i, EndLine: i, Depth: len(stack)}
			t.attach(stack, b)
			stack = append(stack, b)
		case TagElif, TagElse:
			if len(stack) == 0 {
				continue
			}
			stack = closeTop(stack, i)
			kind := KindElif
			if tag.Type == TagElse {
				kind = KindElse
			}
			b := &Block{Kind: kind, Condition: tag.Expr, Line: i, EndLine: i, Depth: len(stack)}
			t.attach(stack, b)
			stack = append(stack, b)
		case TagEndif, TagEndfor:
			if len(stack) == 0 {
				continue
			}
			stack = closeTop(stack, i)
		}
	}

	t.fillPreviews()
	return t
}

// attach appends b to the innermost open scope's children, or to the root
// list when no scope is open.
func (t *Template) attach(stack []*Block, b *Block) {
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		top.Children = append(top.Children, b)
		return
	}
	t.Blocks = append(t.Blocks, b)
}

// closeTop resolves the end line of the innermost open scope and pops it.
// The closing line itself is not part of the body.
func closeTop(stack []*Block, closeLine int) []*Block {
	top := stack[len(stack)-1]
	top.EndLine = closeLine - 1
	top.Closed = true
	return stack[:len(stack)-1]
}

// fillPreviews computes every block's body preview after the structure
// pass. The scan starts one line below the opening tag, skips blank lines
// and lines opening a statement or comment tag, collects up to
// previewLines trimmed lines, and stops only at end of input.
func (t *Template) fillPreviews() {
	t.Walk(func(b *Block) {
		var got []string
		for j := b.Line + 1; j < len(t.Lines) && len(got) < previewLines; j++ {
			s := strings.TrimSpace(t.Lines[j])
			if s == "" || strings.HasPrefix(s, "{%") || strings.HasPrefix(s, "{#") {
				continue
			}
			got = append(got, s)
		}
		if len(got) == 0 {
			b.Preview = PreviewPlaceholder
			return
		}
		b.Preview = strings.Join(got, "\n")
	})
}
