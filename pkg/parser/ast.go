package parser

import (
	"bytes"
	"strconv"

	"github.com/nooga/x666/pkg/lexer"
)

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	String() string // linear reconstruction of the node (trace)
}

// Expression is the closed set of expression nodes: *Literal, *UnaryOp,
// *BinaryOp, *Bracket and *Indexing.
type Expression interface {
	Node
	expressionNode()
}

// --- Expression Nodes ---

// Literal is an identifier, integer or string token used as a value.
type Literal struct {
	Token lexer.Token // IDENT, INT or STRING
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string {
	switch l.Token.Type {
	case lexer.INT:
		return strconv.FormatInt(l.Token.Value, 10)
	case lexer.STRING:
		return `"` + lexer.Escape(l.Token.Literal) + `"`
	}
	return l.Token.Literal
}

// IsNegativeInt reports whether the literal is an integer below zero, the
// shape negative-literal fusion produces.
func (l *Literal) IsNegativeInt() bool {
	return l.Token.Type == lexer.INT && l.Token.Value < 0
}

// UnaryOp is a prefix operator applied to one operand.
type UnaryOp struct {
	Token   lexer.Token // the operator token
	Op      lexer.Operator
	Operand Expression
}

func (u *UnaryOp) expressionNode() {}
func (u *UnaryOp) String() string {
	return u.Op.String() + traceOperand(u.Operand)
}

// BinaryOp is an infix operator with two operands.
//
// For left-associative operators A holds the operand that came first in the
// source and B the second. Right-associative operators store them the other
// way round. Use Left and Right for source order.
type BinaryOp struct {
	Token lexer.Token // the operator token; zero for implicit operators
	Op    lexer.Operator
	A, B  Expression
}

func (b *BinaryOp) expressionNode() {}

// Left returns the operand written before the operator.
func (b *BinaryOp) Left() Expression {
	if rightAssoc(b.Op) {
		return b.B
	}
	return b.A
}

// Right returns the operand written after the operator.
func (b *BinaryOp) Right() Expression {
	if rightAssoc(b.Op) {
		return b.A
	}
	return b.B
}

func (b *BinaryOp) String() string {
	var out bytes.Buffer
	out.WriteString(traceOperand(b.Left()))
	out.WriteString(" " + b.Op.String() + " ")
	out.WriteString(traceOperand(b.Right()))
	return out.String()
}

// Bracket is a parenthesised or square-bracketed group. Inner is nil for an
// empty pair.
type Bracket struct {
	Token lexer.Token    // the opening bracket
	Kind  lexer.Operator // LeftBracket or LeftSBracket
	Inner Expression
	// Adjacent is set on a square group opened directly after an operand,
	// which makes it an index rather than a factor.
	Adjacent bool
}

func (b *Bracket) expressionNode() {}
func (b *Bracket) String() string {
	var out bytes.Buffer
	out.WriteString(b.Kind.String())
	if b.Inner != nil {
		out.WriteString(b.Inner.String())
	}
	out.WriteString(b.Kind.Closer().String())
	return out.String()
}

// Indexing is a value followed directly by a square-bracketed group.
type Indexing struct {
	Token lexer.Token // the '[' token
	Base  Expression
	Index Expression // nil for base[]
}

func (ix *Indexing) expressionNode() {}
func (ix *Indexing) String() string {
	var out bytes.Buffer
	out.WriteString(traceOperand(ix.Base))
	out.WriteString("[")
	if ix.Index != nil {
		out.WriteString(ix.Index.String())
	}
	out.WriteString("]")
	return out.String()
}

// traceOperand parenthesizes binary subtrees so the printed grouping matches
// the tree.
func traceOperand(e Expression) string {
	if e == nil {
		return ""
	}
	if _, ok := e.(*BinaryOp); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// --- Statement ---

// Statement is one logical line: an expression, optionally tagged by a
// leading statement keyword. Expr is nil only for keywords that take no
// expression.
type Statement struct {
	Token lexer.Token    // the keyword token when HasOp
	Op    lexer.Operator // IfStmt, WhileStmt, ...
	HasOp bool
	Expr  Expression
}

func (s Statement) String() string {
	var out bytes.Buffer
	if s.HasOp {
		out.WriteString(s.Op.String())
		if s.Expr != nil {
			out.WriteString(" ")
		}
	}
	if s.Expr != nil {
		out.WriteString(s.Expr.String())
	}
	return out.String()
}
