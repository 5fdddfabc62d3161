package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/export"
	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
	"github.com/mannubhai1/jinja2visualiser/internal/output"
)

var (
	exportOut       string
	exportDirection string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the parsed block structure",
	Long: `Export the parsed block structure of a Jinja2 template.

Two projections are available: 'document' emits the nested block
structure as data, and 'mermaid' emits a Mermaid flowchart whose vertex
ids are stable across runs for the same input.`,
}

var exportDocumentCmd = &cobra.Command{
	Use:     "document [file]",
	Aliases: []string{"json"},
	Short:   "Export the block structure as a nested document",
	Long: `Export the nested block structure as a document.

On stdout the document follows --output (JSON by default); with --out
it is written to the given file as pretty-printed JSON.

Examples:
  j2v export document layout.j2
  j2v export document layout.j2 --out layout.json
  cat layout.j2 | j2v export json --output yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportDocument,
}

var exportMermaidCmd = &cobra.Command{
	Use:     "mermaid [file]",
	Aliases: []string{"diagram"},
	Short:   "Export the block structure as a Mermaid flowchart",
	Long: `Export the block structure as a Mermaid flowchart.

Conditional blocks become decision vertices and loops become stadium
vertices; edges are labeled with the child's position. The diagram text
is emitted as-is, to stdout or to --out.

Examples:
  j2v export mermaid layout.j2
  j2v export mermaid layout.j2 --direction LR --out layout.mmd`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportMermaid,
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportOut, "out", "", "Write output to file instead of stdout")
	exportMermaidCmd.Flags().StringVar(&exportDirection, "direction", export.DefaultDirection, "Diagram direction (TD|TB|LR|RL|BT)")

	exportCmd.AddCommand(exportDocumentCmd)
	exportCmd.AddCommand(exportMermaidCmd)
	rootCmd.AddCommand(exportCmd)
}

func runExportDocument(cmd *cobra.Command, args []string) error {
	src, err := readTemplateSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	doc := export.Document(jinja.Parse(src))

	if exportOut != "" {
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return export.SerializationError{Format: "json", Err: err}
		}
		raw = append(raw, '\n')
		if err := os.WriteFile(exportOut, raw, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		return confirmExport(cmd.Context(), exportOut, len(raw))
	}

	if structuredOutputRequested() {
		return printStructured(doc)
	}

	// Text and table output fall back to readable JSON; the document is
	// inherently nested data.
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return export.SerializationError{Format: "json", Err: err}
	}
	fmt.Fprintln(stdoutFromContext(cmd.Context()), string(raw))
	return nil
}

func runExportMermaid(cmd *cobra.Command, args []string) error {
	src, err := readTemplateSource(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	direction, err := resolveDirection(cmd, exportDirection)
	if err != nil {
		return err
	}

	diagram := export.Mermaid(jinja.Parse(src), direction)

	if exportOut != "" {
		if err := os.WriteFile(exportOut, []byte(diagram), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		return confirmExport(cmd.Context(), exportOut, len(diagram))
	}

	fmt.Fprint(stdoutFromContext(cmd.Context()), diagram)
	return nil
}

func confirmExport(ctx context.Context, path string, size int) error {
	if structuredOutputRequested() {
		return printStructured(map[string]interface{}{
			"status": "written",
			"path":   path,
			"bytes":  size,
		})
	}
	if !output.QuietFromContext(ctx) {
		fmt.Fprintf(stdoutFromContext(ctx), "Wrote %s (%d bytes)\n", path, size)
	}
	return nil
}
