// Package export projects a parsed template forest into serializable
// representations: a nested document for structured output and a Mermaid
// flowchart for diagram tooling. Projectors are pure and read-only; they
// perform no validation because the parser has already normalized
// malformed input.
package export

import (
	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
)

// Node is one block in the document projection. Lines are 1-based so the
// output matches editor conventions rather than the parser's internal
// indices. Children is always an array, never null.
type Node struct {
	Type      string  `json:"type" yaml:"type"`
	Line      int     `json:"line" yaml:"line"`
	Condition string  `json:"condition,omitempty" yaml:"condition,omitempty"`
	Children  []*Node `json:"children" yaml:"children"`
}

// Document maps the forest to nested plain data suitable for serialization.
func Document(t *jinja.Template) []*Node {
	nodes := make([]*Node, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		nodes = append(nodes, documentNode(b))
	}
	return nodes
}

func documentNode(b *jinja.Block) *Node {
	n := &Node{
		Type:      string(b.Kind),
		Line:      b.Line + 1,
		Condition: b.Condition,
		Children:  make([]*Node, 0, len(b.Children)),
	}
	for _, c := range b.Children {
		n.Children = append(n.Children, documentNode(c))
	}
	return n
}
