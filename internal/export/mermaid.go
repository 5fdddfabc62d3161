package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
)

// DefaultDirection is the flowchart orientation used when none is configured.
const DefaultDirection = "TD"

// ValidDirection reports whether dir is an orientation Mermaid accepts.
func ValidDirection(dir string) bool {
	switch dir {
	case "TD", "TB", "LR", "RL", "BT":
		return true
	}
	return false
}

// Mermaid renders the forest as a Mermaid flowchart. Vertex identifiers are
// derived from tree position (roots n0, n1, ...; children parentID_index),
// so the same forest always produces identical text. Conditional blocks
// render as decision vertices, loops as stadium vertices, and every edge is
// labeled with the child's position under its parent.
func Mermaid(t *jinja.Template, direction string) string {
	var sb strings.Builder
	sb.WriteString("flowchart " + direction + "\n")
	for i, b := range t.Blocks {
		writeVertex(&sb, b, "n"+strconv.Itoa(i))
	}
	return sb.String()
}

func writeVertex(sb *strings.Builder, b *jinja.Block, id string) {
	if b.Kind == jinja.KindFor {
		fmt.Fprintf(sb, "    %s([\"%s\"])\n", id, vertexLabel(b))
	} else {
		fmt.Fprintf(sb, "    %s{\"%s\"}\n", id, vertexLabel(b))
	}
	for j, c := range b.Children {
		childID := fmt.Sprintf("%s_%d", id, j)
		writeVertex(sb, c, childID)
		fmt.Fprintf(sb, "    %s -->|%d| %s\n", id, j, childID)
	}
}

func vertexLabel(b *jinja.Block) string {
	label := string(b.Kind)
	if b.Condition != "" {
		label += " " + b.Condition
	}
	return strings.ReplaceAll(label, `"`, "#quot;")
}
