package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestCLIHarnessParseJSON(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := &bytes.Buffer{}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tplPath := filepath.Join(dir, "page.j2")
	tpl := "{% if logged_in %}\n{% for item in cart %}\nrow\n{% endfor %}\n{% endif %}\n"
	if err := os.WriteFile(tplPath, []byte(tpl), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "parse", tplPath})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var doc []struct {
		Type      string `json:"type"`
		Line      int    `json:"line"`
		Condition string `json:"condition"`
		Children  []struct {
			Type      string `json:"type"`
			Condition string `json:"condition"`
		} `json:"children"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("parse output: %v\nOutput was: %s", err, out.String())
	}
	if len(doc) != 1 {
		t.Fatalf("expected 1 root block, got %d", len(doc))
	}
	if doc[0].Type != "if" || doc[0].Condition != "logged_in" || doc[0].Line != 1 {
		t.Fatalf("unexpected root block: %+v", doc[0])
	}
	if len(doc[0].Children) != 1 || doc[0].Children[0].Type != "for" {
		t.Fatalf("unexpected children: %+v", doc[0].Children)
	}
	if errBuf.Len() != 0 {
		t.Fatalf("expected empty stderr, got %q", errBuf.String())
	}
}

func TestCLIHarnessCheckReportsProblems(t *testing.T) {
	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := &bytes.Buffer{}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tplPath := filepath.Join(dir, "broken.j2")
	if err := os.WriteFile(tplPath, []byte("{% if a %}\nbody\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	rootCmd.SetArgs([]string{"--config", cfgPath, "--output", "json", "check", tplPath})

	err := Execute()
	if err == nil {
		t.Fatal("expected error for template with problems")
	}

	var problemsErr ProblemsFoundError
	if !errors.As(err, &problemsErr) {
		t.Fatalf("expected ProblemsFoundError, got %T: %v", err, err)
	}
	if problemsErr.Problems != 1 || problemsErr.Files != 1 {
		t.Fatalf("unexpected counts: %+v", problemsErr)
	}

	var rows []struct {
		Path    string `json:"path"`
		Line    int    `json:"line"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("parse output: %v\nOutput was: %s", err, out.String())
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 problem row, got %d", len(rows))
	}
	if rows[0].Path != tplPath || rows[0].Line != 1 {
		t.Fatalf("unexpected problem row: %+v", rows[0])
	}
	if rows[0].Code != "unclosed-block" {
		t.Fatalf("expected unclosed-block code, got %q", rows[0].Code)
	}

	if !strings.Contains(errBuf.String(), "found 1 problem(s) in 1 file(s)") {
		t.Fatalf("expected problem summary on stderr, got %q", errBuf.String())
	}
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevDebug := debug
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevResultLimit := resultLimit
	prevResultSort := resultSort
	prevResultDesc := resultDesc
	prevActiveConfig := activeConfig
	prevTreePreview := treePreview
	prevExportOut := exportOut
	prevExportDirection := exportDirection
	prevLocateLine := locateLine
	prevScanExtensions := scanExtensions

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		debug = prevDebug
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		resultLimit = prevResultLimit
		resultSort = prevResultSort
		resultDesc = prevResultDesc
		activeConfig = prevActiveConfig
		treePreview = prevTreePreview
		exportOut = prevExportOut
		exportDirection = prevExportDirection
		locateLine = prevLocateLine
		scanExtensions = prevScanExtensions

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetCommandTree(rootCmd)
	}
}

func resetCommandTree(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	resetFlagChanges(cmd)
	for _, sub := range cmd.Commands() {
		resetCommandTree(sub)
	}
}

func resetFlagChanges(cmdFlagSet interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
},
) {
	if cmdFlagSet == nil {
		return
	}
	cmdFlagSet.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}
