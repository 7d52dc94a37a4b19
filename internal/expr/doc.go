// Package expr implements the arithmetic expression language that plan
// programs are written in.
//
// The language is deliberately tiny: decimal literals, identifiers resolved
// against a variable map, the operators + - * / and ** (right-associative,
// binding tighter than unary minus), and parentheses. There are no function
// calls, comparisons, conditionals, strings or collections. A sanitization
// pass rejects the characters that would be needed to express any of those
// before parsing even starts, so the capability boundary holds regardless of
// parser bugs.
//
// Evaluation comes in two modes. Strict evaluation (used for every statement
// inside a plan program) surfaces sanitization violations, parse errors,
// unbound identifiers and non-finite results as errors. Lenient evaluation
// (for one-off, read-only expression probes) degrades all of those to 0 and
// logs instead.
package expr
