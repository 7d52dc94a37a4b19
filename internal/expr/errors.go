package expr

import (
	"errors"
	"fmt"
)

// ErrNonFinite reports a computation whose result is NaN or infinite, such
// as a division by zero. Strict callers receive it wrapped with the
// offending expression.
var ErrNonFinite = errors.New("expression result is not finite")

// SanitizationError reports an expression that uses a character or form the
// language forbids. The expression never reaches the parser.
type SanitizationError struct {
	Expr   string
	Reason string
}

func (e *SanitizationError) Error() string {
	return fmt.Sprintf("expression %q rejected: %s", e.Expr, e.Reason)
}

// UnboundVariableError reports an identifier with no value in the supplied
// variable map.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable %q", e.Name)
}

// ParseError reports an expression that passed sanitization but does not
// match the grammar.
type ParseError struct {
	Expr   string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q at offset %d: %s", e.Expr, e.Pos, e.Reason)
}
