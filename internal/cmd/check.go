package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
	"github.com/mannubhai1/jinja2visualiser/internal/output"
)

// ProblemsFoundError indicates check discovered malformed block structure.
type ProblemsFoundError struct {
	Problems int
	Files    int
}

func (e ProblemsFoundError) Error() string {
	return fmt.Sprintf("found %d problem(s) in %d file(s)", e.Problems, e.Files)
}

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Check templates for malformed block structure",
	Long: `Check Jinja2 templates for malformed block structure.

Reports unclosed blocks, stray branch and close tags, closers that do
not match the block they close, and tags missing their condition. The
parse itself never fails on these; check is the diagnostic pass.

Exits non-zero when any problem is found. With no arguments, reads a
single template from stdin.

Examples:
  j2v check layout.j2 partials/*.j2
  cat layout.j2 | j2v check
  j2v check layout.j2 --output json`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// ProblemRow is one diagnostic in check output. Line is 1-based.
type ProblemRow struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		files = []string{""}
	}

	rows := make([]ProblemRow, 0)
	filesWithProblems := 0
	for _, path := range files {
		var fileArgs []string
		label := path
		if path == "" {
			label = "-"
		} else {
			fileArgs = []string{path}
		}

		content, err := readTemplateSource(fileArgs, cmd.InOrStdin())
		if err != nil {
			return err
		}

		problems := jinja.Lint(jinja.SplitLines(content))
		debugf("%s: %d problem(s)", label, len(problems))
		if len(problems) > 0 {
			filesWithProblems++
		}
		for _, p := range problems {
			rows = append(rows, ProblemRow{
				Path:    label,
				Line:    p.Line + 1,
				Code:    p.Code,
				Message: p.Message,
			})
		}
	}

	if structuredOutputRequested() || GetOutputFormat() == output.FormatTable {
		if err := printStructured(rows); err != nil {
			return err
		}
	} else {
		out := stdoutFromContext(cmd.Context())
		for _, r := range rows {
			fmt.Fprintf(out, "%s:%d: %s\n", r.Path, r.Line, r.Message)
		}
		if len(rows) == 0 && !output.QuietFromContext(cmd.Context()) {
			fmt.Fprintln(out, "No problems found")
		}
	}

	if len(rows) > 0 {
		return ProblemsFoundError{Problems: len(rows), Files: filesWithProblems}
	}
	return nil
}
