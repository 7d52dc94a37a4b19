// Package program executes the multi-line assignment programs attached to a
// plan: one `identifier = expression` statement per line, comments opened
// with '#', blanks ignored. Programs mutate the supplied variable map in
// place, one statement at a time, so later lines observe earlier bindings.
package program

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/plansim/internal/expr"
)

// Statement is one executable line of a program after preprocessing.
type Statement struct {
	LineNo int // 1-based line number in the original text
	Name   string
	Expr   string
}

// StatementError reports the line that stopped a program invocation. All
// statements before it have already been applied to the context; none after
// it run.
type StatementError struct {
	LineNo int
	Line   string
	Err    error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.LineNo, e.Line, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Parse preprocesses program text into its executable statements: lines are
// trimmed, blanks and '#' comments dropped, and each survivor split on its
// first '='. A line with no '=' or an invalid assignment target fails the
// parse; loaders use this to reject broken programs before a run starts.
func Parse(text string) ([]Statement, error) {
	var statements []Statement
	for i, raw := range strings.Split(text, "\n") {
		st, skip, err := parseLine(i+1, raw)
		if err != nil {
			return nil, err
		}
		if !skip {
			statements = append(statements, st)
		}
	}
	return statements, nil
}

// Run executes program text against vars, mutating it in place. Evaluation
// is strict: the first malformed line or failed expression aborts the rest
// of this invocation and is returned as a *StatementError. Bindings made by
// earlier lines are kept — a program is a sequence, not a transaction.
func Run(text string, vars map[string]float64) error {
	for i, raw := range strings.Split(text, "\n") {
		st, skip, err := parseLine(i+1, raw)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		value, err := expr.EvaluateStrict(st.Expr, vars)
		if err != nil {
			return &StatementError{LineNo: st.LineNo, Line: strings.TrimSpace(raw), Err: err}
		}
		vars[st.Name] = value
	}
	return nil
}

func parseLine(lineNo int, raw string) (Statement, bool, error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Statement{}, true, nil
	}

	name, rhs, found := strings.Cut(line, "=")
	if !found {
		return Statement{}, false, &StatementError{LineNo: lineNo, Line: line, Err: fmt.Errorf("not an assignment")}
	}
	name = strings.TrimSpace(name)
	if !identPattern.MatchString(name) {
		return Statement{}, false, &StatementError{LineNo: lineNo, Line: line, Err: fmt.Errorf("invalid assignment target %q", name)}
	}
	return Statement{LineNo: lineNo, Name: name, Expr: strings.TrimSpace(rhs)}, false, nil
}
