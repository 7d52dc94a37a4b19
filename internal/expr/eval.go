package expr

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/plansim/internal/ctxlog"
)

var decimalLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// EvaluateStrict evaluates one expression against the given variable
// snapshot. It never mutates vars. Sanitization violations, grammar errors,
// unbound identifiers and non-finite results are all returned as errors.
func EvaluateStrict(input string, vars map[string]float64) (float64, error) {
	return evaluate(input, vars, true)
}

// Evaluate is the lenient variant for one-off, read-only probes: every
// failure mode degrades to 0 and is logged at warn level instead of being
// returned. An empty expression is 0 by definition, not a failure.
func Evaluate(ctx context.Context, input string, vars map[string]float64) float64 {
	result, err := evaluate(input, vars, false)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("expression degraded to 0", "expr", input, "reason", err)
		return 0
	}
	return result
}

func evaluate(input string, vars map[string]float64, strict bool) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, nil
	}

	// A bare decimal literal short-circuits the whole pipeline and is
	// returned verbatim. strconv.ParseFloat alone is too permissive here
	// ("inf", "NaN" and "1." all parse), so the shape is checked first.
	if decimalLiteral.MatchString(trimmed) {
		value, err := strconv.ParseFloat(trimmed, 64)
		if err == nil {
			return value, nil
		}
	}

	if serr := sanitize(input); serr != nil {
		return 0, serr
	}
	root, perr := parse(input)
	if perr != nil {
		return 0, perr
	}

	result, err := evalNode(root, vars, strict)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%q: %w", input, ErrNonFinite)
	}
	return result, nil
}

func evalNode(n node, vars map[string]float64, strict bool) (float64, error) {
	switch v := n.(type) {
	case literal:
		return v.value, nil
	case variable:
		value, ok := vars[v.name]
		if !ok {
			if strict {
				return 0, &UnboundVariableError{Name: v.name}
			}
			return 0, nil
		}
		return value, nil
	case grouping:
		return evalNode(v.inner, vars, strict)
	case unaryMinus:
		operand, err := evalNode(v.operand, vars, strict)
		if err != nil {
			return 0, err
		}
		return -operand, nil
	case binaryOp:
		lhs, err := evalNode(v.lhs, vars, strict)
		if err != nil {
			return 0, err
		}
		rhs, err := evalNode(v.rhs, vars, strict)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case '+':
			return lhs + rhs, nil
		case '-':
			return lhs - rhs, nil
		case '*':
			return lhs * rhs, nil
		case '/':
			return lhs / rhs, nil
		case '^':
			return math.Pow(lhs, rhs), nil
		}
	}
	// Unreachable: the node set is closed and the parser emits nothing else.
	return 0, fmt.Errorf("internal error: unknown node %T", n)
}
