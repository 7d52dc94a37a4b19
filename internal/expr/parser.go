package expr

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower // "**"
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer produces the token stream for one expression. Sanitization has
// already run, so the only characters left to reject are ones outside the
// alphabet entirely (e.g. '%', ',').
type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, *ParseError) {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	switch {
	case isDigit(r) || r == '.':
		for l.pos < len(l.input) && (isDigit(rune(l.input[l.pos])) || l.input[l.pos] == '.') {
			l.pos++
		}
		return token{kind: tokNumber, text: l.input[start:l.pos], pos: start}, nil
	case isIdentStart(r):
		for l.pos < len(l.input) && isIdentPart(rune(l.input[l.pos])) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
	}

	l.pos += size
	switch r {
	case '+':
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case '-':
		return token{kind: tokMinus, text: "-", pos: start}, nil
	case '*':
		if l.pos < len(l.input) && l.input[l.pos] == '*' {
			l.pos++
			return token{kind: tokPower, text: "**", pos: start}, nil
		}
		return token{kind: tokStar, text: "*", pos: start}, nil
	case '/':
		return token{kind: tokSlash, text: "/", pos: start}, nil
	case '(':
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		return token{kind: tokRParen, text: ")", pos: start}, nil
	}
	return token{}, &ParseError{Expr: l.input, Pos: start, Reason: "unexpected character " + strconv.QuoteRune(r)}
}

// parser is a plain recursive-descent parser over the grammar
//
//	expression := term (("+"|"-") term)*
//	term       := unary (("*"|"/") unary)*
//	unary      := "-" unary | power
//	power      := base ("**" unary)?
//	base       := number | identifier | "(" expression ")"
//
// "**" is right-associative and binds tighter than unary minus, so
// -2**2 evaluates to -4 and 2**-3 is legal.
type parser struct {
	lex  *lexer
	cur  token
	expr string
}

func parse(input string) (node, *ParseError) {
	p := &parser{lex: &lexer{input: input}, expr: input}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.errorf("unexpected %q after expression", p.cur.text)
	}
	return root, nil
}

func (p *parser) advance() *ParseError {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Expr: p.expr, Pos: p.cur.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) parseExpression() (node, *ParseError) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := byte('+')
		if p.cur.kind == tokMinus {
			op = '-'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, lhs: left, rhs: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, *ParseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		op := byte('*')
		if p.cur.kind == tokSlash {
			op = '/'
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryOp{op: op, lhs: left, rhs: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, *ParseError) {
	if p.cur.kind == tokMinus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryMinus{operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, *ParseError) {
	base, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokPower {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	// Right-associative, and the exponent may itself carry a unary minus.
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binaryOp{op: '^', lhs: base, rhs: exponent}, nil
}

func (p *parser) parseBase() (node, *ParseError) {
	switch p.cur.kind {
	case tokNumber:
		value, err := strconv.ParseFloat(p.cur.text, 64)
		if err != nil {
			return nil, p.errorf("malformed number %q", p.cur.text)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return literal{value: value}, nil
	case tokIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return variable{name: name}, nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, p.errorf("expected ')'")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return grouping{inner: inner}, nil
	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	default:
		return nil, p.errorf("unexpected %q", p.cur.text)
	}
}
