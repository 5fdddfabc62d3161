package jinja

import "fmt"

// Problem codes reported by Lint.
const (
	CodeUnclosedBlock   = "unclosed-block"
	CodeStrayBranch     = "stray-branch"
	CodeStrayClose      = "stray-close"
	CodeMismatchedClose = "mismatched-close"
	CodeEmptyCondition  = "empty-condition"
)

// Problem is a single structural issue found in a template. Line is
// 0-based, matching Block line numbers.
type Problem struct {
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Lint reports the malformed constructs the parser absorbs silently:
// branch and close tags with no open block, closers that do not match the
// block they close, tags with a missing condition, and blocks still open
// at end of input. It runs its own scan over the lines and never changes
// how parsing behaves.
//
// An else continuing a for is flagged even though Jinja2 allows for/else:
// this tool models every else as a conditional branch, so the structure it
// reports for such templates is approximate.
func Lint(lines []string) []Problem {
	var problems []Problem

	// Each open scope remembers the tag that started its chain, so a
	// later elif or closer can be checked against it, plus the most
	// recent branch, which is what an unclosed report should point at.
	// A branch replaces the scope it continues but keeps the chain's
	// origin.
	type scope struct {
		origin TagType
		last   TagType
		line   int
	}
	var stack []scope

	for i, line := range lines {
		tag, ok := MatchTag(line)
		if !ok {
			continue
		}
		switch tag.Type {
		case TagIf, TagFor:
			if tag.Expr == "" {
				problems = append(problems, emptyCondition(i, tag.Type))
			}
			stack = append(stack, scope{origin: tag.Type, last: tag.Type, line: i})
		case TagElif, TagElse:
			if tag.Type == TagElif && tag.Expr == "" {
				problems = append(problems, emptyCondition(i, tag.Type))
			}
			if len(stack) == 0 {
				problems = append(problems, Problem{
					Line:    i,
					Code:    CodeStrayBranch,
					Message: fmt.Sprintf("%s without an open block", tag.Type),
				})
				continue
			}
			top := stack[len(stack)-1]
			if top.origin == TagFor {
				problems = append(problems, Problem{
					Line: i,
					Code: CodeMismatchedClose,
					Message: fmt.Sprintf("%s continues the for block opened on line %d",
						tag.Type, top.line+1),
				})
			}
			stack[len(stack)-1] = scope{origin: top.origin, last: tag.Type, line: i}
		case TagEndif, TagEndfor:
			if len(stack) == 0 {
				problems = append(problems, Problem{
					Line:    i,
					Code:    CodeStrayClose,
					Message: fmt.Sprintf("%s without an open block", tag.Type),
				})
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if (tag.Type == TagEndif) != (top.origin == TagIf) {
				problems = append(problems, Problem{
					Line: i,
					Code: CodeMismatchedClose,
					Message: fmt.Sprintf("%s closes the %s block opened on line %d",
						tag.Type, top.origin, top.line+1),
				})
			}
		}
	}

	for _, open := range stack {
		problems = append(problems, Problem{
			Line:    open.line,
			Code:    CodeUnclosedBlock,
			Message: fmt.Sprintf("%s block is never closed", open.last),
		})
	}
	return problems
}

func emptyCondition(line int, tag TagType) Problem {
	what := "condition"
	if tag == TagFor {
		what = "loop expression"
	}
	return Problem{
		Line:    line,
		Code:    CodeEmptyCondition,
		Message: fmt.Sprintf("%s tag has no %s", tag, what),
	}
}
