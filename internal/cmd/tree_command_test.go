package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mannubhai1/jinja2visualiser/internal/output"
)

func TestTreeCommand_Text(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	path := writeTemplate(t, "page.j2",
		"{% if a %}\n{% for x in xs %}\nbody\n{% endfor %}\n{% else %}\nalt\n{% endif %}\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	want := "if a  (lines 1-4)\n" +
		"└── for x in xs  (lines 2-3)\n" +
		"else  (lines 5-6)\n"
	if out.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestTreeCommand_TextBranchConnectors(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	path := writeTemplate(t, "page.j2",
		"{% if a %}\n{% if b %}\n{% endif %}\n{% for y in ys %}\n{% endfor %}\n{% endif %}\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "├── if b") {
		t.Errorf("expected mid connector for first child:\n%s", got)
	}
	if !strings.Contains(got, "└── for y in ys") {
		t.Errorf("expected end connector for last child:\n%s", got)
	}
}

func TestTreeCommand_TextUnclosed(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	path := writeTemplate(t, "page.j2", "{% if a %}\nbody\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	if !strings.Contains(out.String(), "if a  (lines 1-end, unclosed)") {
		t.Errorf("expected unclosed marker:\n%s", out.String())
	}
}

func TestTreeCommand_TextEmpty(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	path := writeTemplate(t, "page.j2", "just text\nno tags here\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	if strings.TrimSpace(out.String()) != "No blocks found" {
		t.Errorf("got %q, want 'No blocks found'", out.String())
	}
}

func TestTreeCommand_TextEmptyQuiet(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, true)
	defer cleanup()

	path := writeTemplate(t, "page.j2", "just text\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", out.String())
	}
}

func TestTreeCommand_Preview(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	prevPreview := treePreview
	treePreview = true
	t.Cleanup(func() { treePreview = prevPreview })

	path := writeTemplate(t, "page.j2", "{% if a %}\nhello\nworld\n{% endif %}\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	if !strings.Contains(out.String(), `if a  (lines 1-3)  "hello / world"`) {
		t.Errorf("expected inline preview:\n%s", out.String())
	}
}

func TestTreeCommand_PreviewPlaceholder(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatText, false)
	defer cleanup()

	prevPreview := treePreview
	treePreview = true
	t.Cleanup(func() { treePreview = prevPreview })

	path := writeTemplate(t, "page.j2", "{% if a %}\n{% endif %}\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}

	if !strings.Contains(out.String(), `"(empty)"`) {
		t.Errorf("expected placeholder preview:\n%s", out.String())
	}
}

func TestTreeCommand_JSONMatchesParse(t *testing.T) {
	out, _, cleanup := withTestContext(t, output.FormatJSON, true)
	defer cleanup()

	path := writeTemplate(t, "page.j2", "{% if a %}\n{% endif %}\n")

	cmd := &cobra.Command{}
	setCmdContext(cmd)

	if err := runTree(cmd, []string{path}); err != nil {
		t.Fatalf("runTree: %v", err)
	}
	treeOut := out.String()
	out.Reset()

	if err := runParse(cmd, []string{path}); err != nil {
		t.Fatalf("runParse: %v", err)
	}

	if treeOut != out.String() {
		t.Errorf("tree and parse disagree on structured output:\n%s\nvs\n%s", treeOut, out.String())
	}
}
