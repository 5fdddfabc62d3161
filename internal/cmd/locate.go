package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
)

var locateLine int

var locateCmd = &cobra.Command{
	Use:   "locate [file]",
	Short: "Find the blocks enclosing a line",
	Long: `Find the chain of blocks that encloses a given line, outermost first.

The selection reported for the innermost block covers its opening tag:
from the first non-whitespace column through the end of that line.
Columns and lines are 1-based.

Examples:
  j2v locate layout.j2 --line 12
  cat layout.j2 | j2v locate --line 3 --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().IntVar(&locateLine, "line", 0, "1-based line number to locate (required)")
	rootCmd.AddCommand(locateCmd)
}

// LocateSpan is the selectable range for a block's opening tag.
type LocateSpan struct {
	Line        int `json:"line"`
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
}

// LocateResult is the enclosing chain for a line, outermost first.
type LocateResult struct {
	Line      int        `json:"line"`
	Chain     []BlockRow `json:"chain"`
	Selection LocateSpan `json:"selection"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	if locateLine < 1 {
		return fmt.Errorf("--line must be 1 or greater")
	}

	src, err := readTemplateSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tpl := jinja.Parse(src)
	if locateLine > len(tpl.Lines) {
		return fmt.Errorf("line %d out of range (input has %d lines)", locateLine, len(tpl.Lines))
	}

	chain := tpl.Path(locateLine - 1)
	if len(chain) == 0 {
		return fmt.Errorf("no block contains line %d", locateLine)
	}

	innermost := chain[len(chain)-1]
	opening := tpl.Lines[innermost.Line]
	selection := LocateSpan{
		Line:        innermost.Line + 1,
		StartColumn: jinja.FirstNonSpace(opening) + 1,
		EndColumn:   len(opening),
	}

	if structuredOutputRequested() {
		result := LocateResult{
			Line:      locateLine,
			Selection: selection,
		}
		result.Chain = make([]BlockRow, 0, len(chain))
		for _, b := range chain {
			result.Chain = append(result.Chain, BlockRow{
				Kind:      string(b.Kind),
				Line:      b.Line + 1,
				End:       tpl.Extent(b) + 1,
				Depth:     b.Depth,
				Condition: b.Condition,
				Unclosed:  !b.Closed,
			})
		}
		return printStructured(result)
	}

	out := stdoutFromContext(cmd.Context())
	fmt.Fprintf(out, "Line %d is inside:\n", locateLine)
	for i, b := range chain {
		fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", i+1), blockLabel(b, false))
	}
	fmt.Fprintf(out, "Select: line %d, columns %d-%d\n", selection.Line, selection.StartColumn, selection.EndColumn)
	return nil
}
