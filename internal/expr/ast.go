package expr

// node is the closed AST of the expression language. Exactly five forms
// exist; the parser can produce nothing else, so evaluation is a total
// switch with no dynamic dispatch into user-controlled code.
type node interface {
	isNode()
}

type literal struct {
	value float64
}

type variable struct {
	name string
}

// binaryOp holds one of '+', '-', '*', '/' or the exponent pseudo-op '^'
// (lexed from "**").
type binaryOp struct {
	op  byte
	lhs node
	rhs node
}

type unaryMinus struct {
	operand node
}

type grouping struct {
	inner node
}

func (literal) isNode()    {}
func (variable) isNode()   {}
func (binaryOp) isNode()   {}
func (unaryMinus) isNode() {}
func (grouping) isNode()   {}
