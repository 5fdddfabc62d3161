package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/export"
	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
	"github.com/mannubhai1/jinja2visualiser/internal/output"
)

var treePreview bool

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Print the template block structure as a tree",
	Long: `Print the if/elif/else/for structure of a Jinja2 template as a tree.

Each entry shows the block kind, its condition, and the 1-based line
range of its body. Unclosed blocks extend to the end of the input and
are marked as such. With --preview, the first body lines of each block
are shown inline.

Examples:
  j2v tree layout.j2
  j2v tree layout.j2 --preview
  cat layout.j2 | j2v tree`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treePreview, "preview", false, "Show body preview for each block")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	src, err := readTemplateSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tpl := jinja.Parse(src)

	if GetOutputFormat() == output.FormatTable {
		return printStructured(blockRows(tpl))
	}
	if structuredOutputRequested() {
		return printStructured(export.Document(tpl))
	}

	out := stdoutFromContext(cmd.Context())
	if len(tpl.Blocks) == 0 {
		if !output.QuietFromContext(cmd.Context()) {
			fmt.Fprintln(out, "No blocks found")
		}
		return nil
	}
	renderTree(out, tpl, treePreview)
	return nil
}

func renderTree(out io.Writer, t *jinja.Template, withPreview bool) {
	for _, root := range t.Blocks {
		fmt.Fprintln(out, blockLabel(root, withPreview))
		renderSubtree(out, root, "", withPreview)
	}
}

func renderSubtree(out io.Writer, b *jinja.Block, prefix string, withPreview bool) {
	for i, c := range b.Children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(b.Children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		fmt.Fprintln(out, prefix+connector+blockLabel(c, withPreview))
		renderSubtree(out, c, childPrefix, withPreview)
	}
}

func blockLabel(b *jinja.Block, withPreview bool) string {
	label := string(b.Kind)
	if b.Condition != "" {
		label += " " + b.Condition
	}
	if b.Closed {
		label += fmt.Sprintf("  (lines %d-%d)", b.Line+1, b.EndLine+1)
	} else {
		label += fmt.Sprintf("  (lines %d-end, unclosed)", b.Line+1)
	}
	if withPreview {
		label += `  "` + strings.ReplaceAll(b.Preview, "\n", " / ") + `"`
	}
	return label
}
