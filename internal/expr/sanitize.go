package expr

import (
	"strings"
	"unicode"
)

// bannedRunes are reserved so the language can never grow structural or
// member-access syntax: braces, brackets, quoting of any kind, escapes,
// colons and comment markers. Note that a single '/' is division and is
// allowed; the "//" sequence is rejected separately.
const bannedRunes = "{}[]'\"`\\:#"

// sanitize rejects expressions that step outside plain arithmetic. It runs
// before the parser so that the capability boundary does not depend on
// parser behavior.
func sanitize(input string) *SanitizationError {
	for _, r := range input {
		if strings.ContainsRune(bannedRunes, r) {
			return &SanitizationError{Expr: input, Reason: "disallowed character " + string(r)}
		}
	}
	if strings.Contains(input, "//") {
		return &SanitizationError{Expr: input, Reason: `disallowed sequence "//"`}
	}

	// With whitespace removed, every '.' must begin the fractional part of a
	// number. This admits 3.14 while banning anything member-access shaped
	// like a.b or a trailing "1.".
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	for i, r := range stripped {
		if r != '.' {
			continue
		}
		if i+1 >= len(stripped) || !isDigit(rune(stripped[i+1])) {
			return &SanitizationError{Expr: input, Reason: "'.' not followed by a digit"}
		}
	}
	return nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
