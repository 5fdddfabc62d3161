// Package jinja extracts the conditional and loop block structure of
// Jinja2 template text. It recognizes {% if %}, {% elif %}, {% else %},
// {% endif %}, {% for %} and {% endfor %} tags line by line and builds an
// ordered forest of blocks annotated with line ranges, nesting depth, and
// a short preview of the body text. Expressions are never evaluated, and
// malformed input degrades to a partial forest instead of an error.
package jinja

// Kind identifies the tag that opened a block. Close tags end a block and
// never become blocks themselves.
type Kind string

const (
	KindIf   Kind = "if"
	KindElif Kind = "elif"
	KindElse Kind = "else"
	KindFor  Kind = "for"
)

// PreviewPlaceholder is the preview text of a block with no body content.
const PreviewPlaceholder = "(empty)"

// Block is a single conditional or loop region of a template.
type Block struct {
	Kind Kind

	// Condition is the raw text between the tag keyword and the closing
	// delimiter, surrounding whitespace removed. Empty for else blocks and
	// for tags whose condition could not be captured.
	Condition string

	// Line is the 0-based index of the line carrying the opening tag.
	// It never changes after the block is created.
	Line int

	// EndLine is the 0-based index of the last line of the block's body,
	// one line before the tag that closed it. It stays equal to Line until
	// the block is closed, and is resolved exactly once.
	EndLine int

	// Closed reports whether EndLine was resolved. A block left open at
	// end of input keeps Closed false; consumers treat it as running to
	// the last input line.
	Closed bool

	// Depth is the nesting level at creation time: the number of scopes
	// open when this block started. Root-level blocks have depth 0.
	Depth int

	// Preview holds up to three non-blank, non-tag body lines following
	// the opening line, trimmed and newline-joined, or
	// PreviewPlaceholder when the block has no such lines.
	Preview string

	// Children are the blocks nested directly inside this one, in source
	// order. Each block belongs to exactly one Children slice (or to the
	// template's root list) for its entire life.
	Children []*Block
}

// Template is the result of a parse: the root-level blocks in source order
// together with the source lines they index into. The line slice is needed
// by consumers for highlighting and previews; the parser does not own it
// beyond the parse.
type Template struct {
	Blocks []*Block
	Lines  []string
}

// Walk visits every block in depth-first source order.
func (t *Template) Walk(fn func(*Block)) {
	for _, b := range t.Blocks {
		walkBlock(b, fn)
	}
}

func walkBlock(b *Block, fn func(*Block)) {
	fn(b)
	for _, c := range b.Children {
		walkBlock(c, fn)
	}
}

// Count returns the total number of blocks in the forest.
func (t *Template) Count() int {
	n := 0
	t.Walk(func(*Block) { n++ })
	return n
}

// Extent returns the 0-based index of the last line covered by the block:
// EndLine when the block was closed, otherwise the final input line.
func (t *Template) Extent(b *Block) int {
	if b.Closed {
		return b.EndLine
	}
	if len(t.Lines) == 0 {
		return b.Line
	}
	return len(t.Lines) - 1
}

// Path returns the chain of blocks enclosing the given 0-based line, from
// the outermost to the innermost. Lines outside every block return nil.
func (t *Template) Path(line int) []*Block {
	var path []*Block
	blocks := t.Blocks
	for {
		var next *Block
		for _, b := range blocks {
			if b.Line <= line && line <= t.Extent(b) {
				next = b
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		blocks = next.Children
	}
}

// At returns the innermost block whose span contains the 0-based line, or
// nil when the line lies outside every block.
func (t *Template) At(line int) *Block {
	path := t.Path(line)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// FirstNonSpace returns the 0-based column of the first non-whitespace
// character of line, or 0 for a blank line. Hosts select from that column
// through end of line to highlight a block's opening tag.
func FirstNonSpace(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return 0
}
