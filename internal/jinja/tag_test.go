package jinja

import "testing"

func TestMatchTagShapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		typ  TagType
		expr string
	}{
		{"if", "{% if user.admin %}", TagIf, "user.admin"},
		{"if with trim markers", "{%- if user.admin -%}", TagIf, "user.admin"},
		{"if extra whitespace", "{%   if   a == 1   %}", TagIf, "a == 1"},
		{"if indented", "    {% if a %}", TagIf, "a"},
		{"if missing condition", "{% if %}", TagIf, ""},
		{"if surrounded by text", "<p>{% if a %}</p>", TagIf, "a"},
		{"elif", "{% elif b %}", TagElif, "b"},
		{"elif with trim markers", "{%- elif b -%}", TagElif, "b"},
		{"else", "{% else %}", TagElse, ""},
		{"else with trim markers", "{%- else -%}", TagElse, ""},
		{"endif", "{% endif %}", TagEndif, ""},
		{"endif with trim markers", "{%- endif -%}", TagEndif, ""},
		{"for", "{% for x in items %}", TagFor, "x in items"},
		{"for with trim markers", "{%- for x in items -%}", TagFor, "x in items"},
		{"for missing expression", "{% for %}", TagFor, ""},
		{"endfor", "{% endfor %}", TagEndfor, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := MatchTag(tt.line)
			if !ok {
				t.Fatalf("expected a tag match for %q", tt.line)
			}
			if tag.Type != tt.typ {
				t.Fatalf("expected type %s, got %s", tt.typ, tag.Type)
			}
			if tag.Expr != tt.expr {
				t.Fatalf("expected expr %q, got %q", tt.expr, tag.Expr)
			}
		})
	}
}

func TestMatchTagNone(t *testing.T) {
	lines := []string{
		"plain text",
		"",
		"{{ user.name }}",
		"{# just a comment #}",
		"{% set x = 1 %}",
		"{% if%}",
		"{% endif",
		"{ % if a % }",
	}
	for _, line := range lines {
		if tag, ok := MatchTag(line); ok {
			t.Fatalf("expected no tag in %q, got %s", line, tag.Type)
		}
	}
}

func TestMatchTagPrecedence(t *testing.T) {
	// At most one tag is recognized per line; the fixed testing order
	// if, elif, else, endif, for, endfor decides ties regardless of
	// position in the line.
	tests := []struct {
		line string
		typ  TagType
		expr string
	}{
		{"{% endif %}{% if a %}", TagIf, "a"},
		{"{% for x in y %}{% endif %}", TagEndif, ""},
		{"{% else %}{% elif b %}", TagElif, "b"},
		{"{% endfor %}{% endif %}", TagEndif, ""},
	}
	for _, tt := range tests {
		tag, ok := MatchTag(tt.line)
		if !ok {
			t.Fatalf("expected a tag match for %q", tt.line)
		}
		if tag.Type != tt.typ || tag.Expr != tt.expr {
			t.Fatalf("line %q: expected %s %q, got %s %q",
				tt.line, tt.typ, tt.expr, tag.Type, tag.Expr)
		}
	}
}

func TestTagTypeString(t *testing.T) {
	want := map[TagType]string{
		TagIf:     "if",
		TagElif:   "elif",
		TagElse:   "else",
		TagEndif:  "endif",
		TagFor:    "for",
		TagEndfor: "endfor",
	}
	for typ, name := range want {
		if got := typ.String(); got != name {
			t.Fatalf("expected %q, got %q", name, got)
		}
	}
}
