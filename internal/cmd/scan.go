package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/jinja"
	"github.com/mannubhai1/jinja2visualiser/internal/output"
)

var scanExtensions []string

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a directory tree and summarize every template",
	Long: `Scan a directory tree for Jinja2 templates and summarize each one.

Files matching the configured extensions (default .j2, .jinja, .jinja2)
are parsed concurrently. Each summary reports block and problem counts;
unreadable files are skipped with a warning on stderr.

Examples:
  j2v scan templates/
  j2v scan templates/ --ext .tpl --output table
  j2v scan --output json --result-sort-by problems --result-desc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "Template extensions to include (default from config)")
	rootCmd.AddCommand(scanCmd)
}

// FileSummary is the parse summary for one scanned template.
type FileSummary struct {
	Path     string    `json:"path"`
	Blocks   int       `json:"blocks"`
	MaxDepth int       `json:"max_depth"`
	Unclosed int       `json:"unclosed,omitempty"`
	Problems int       `json:"problems,omitempty"`
	Modified time.Time `json:"modified"`
}

// ScanReport is the aggregate result of a directory scan.
type ScanReport struct {
	Root    string        `json:"root"`
	Files   int           `json:"files"`
	Results []FileSummary `json:"results"`
}

func runScan(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	exts := resolveExtensions(scanExtensions)
	ctx := cmd.Context()

	// Phase 1: collect template paths.
	var files []string
	var walkWarnings []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			walkWarnings = append(walkWarnings, fmt.Sprintf("skipping %s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if hasTemplateExtension(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	debugf("found %d template(s) under %s", len(files), root)

	// Phase 2: parse concurrently.
	summaries, warnings := summarizeTemplates(files)

	warnings = append(walkWarnings, warnings...)
	if !output.QuietFromContext(ctx) {
		for _, warn := range warnings {
			fmt.Fprintln(stderrFromContext(ctx), warn)
		}
	}

	report := &ScanReport{Root: root, Files: len(summaries), Results: summaries}

	if GetOutputFormat() == output.FormatTable {
		return printStructured(report.Results)
	}
	if structuredOutputRequested() {
		return printStructured(report)
	}

	out := stdoutFromContext(ctx)
	fmt.Fprintf(out, "Scanned %d template(s) under %s\n", report.Files, root)
	for _, s := range report.Results {
		fmt.Fprintf(out, "%s: blocks=%d depth=%d unclosed=%d problems=%d\n",
			s.Path, s.Blocks, s.MaxDepth, s.Unclosed, s.Problems)
	}
	return nil
}

// summarizeTemplates parses the given files on a worker per CPU core and
// returns summaries sorted by path plus warnings for unreadable files.
func summarizeTemplates(paths []string) ([]FileSummary, []string) {
	summaries := make([]FileSummary, 0, len(paths))
	if len(paths) == 0 {
		return summaries, nil
	}

	numWorkers := max(runtime.NumCPU(), 1)
	jobs := make(chan string, len(paths))

	var mu sync.Mutex
	var warnings []string
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				summary, err := summarizeTemplate(path)
				mu.Lock()
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("skipping %s: %v", path, err))
				} else {
					summaries = append(summaries, summary)
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Path < summaries[j].Path })
	sort.Strings(warnings)
	return summaries, warnings
}

func summarizeTemplate(path string) (FileSummary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileSummary{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return FileSummary{}, err
	}

	lines := jinja.SplitLines(string(content))
	tpl := jinja.ParseLines(lines)
	return FileSummary{
		Path:     filepath.ToSlash(path),
		Blocks:   tpl.Count(),
		MaxDepth: maxDepth(tpl),
		Unclosed: unclosedCount(tpl),
		Problems: len(jinja.Lint(lines)),
		Modified: info.ModTime(),
	}, nil
}

func hasTemplateExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
