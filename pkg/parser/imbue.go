package parser

import (
	"fmt"

	"github.com/nooga/x666/pkg/lexer"
)

// incoming is an operator arriving at a tree that was already built.
type incoming struct {
	Token lexer.Token
	Op    lexer.Operator
	Rank  int
}

// rankOfNode is the rank a binary node was built with.
func rankOfNode(b *BinaryOp) int {
	return rankOf(b.Op, false)
}

// setRight replaces the operand written after the operator.
func (b *BinaryOp) setRight(e Expression) {
	if rightAssoc(b.Op) {
		b.A = e
	} else {
		b.B = e
	}
}

// setLeft replaces the operand written before the operator.
func (b *BinaryOp) setLeft(e Expression) {
	if rightAssoc(b.Op) {
		b.B = e
	} else {
		b.A = e
	}
}

func (ar *ASTArena) binary(in incoming, a, b Expression) *BinaryOp {
	n := ar.NewBinaryOp()
	n.Token = in.Token
	n.Op = in.Op
	n.A = a
	n.B = b
	return n
}

func (ar *ASTArena) unary(in incoming, operand Expression) *UnaryOp {
	n := ar.NewUnaryOp()
	n.Token = in.Token
	n.Op = in.Op
	n.Operand = operand
	return n
}

// imbue splices a left-associative operator and its right operand leaf into
// the tree rooted at recv and returns the new root.
//
//	    recv.Op       <- in.Op
//	   /       \             \
//	 left     right          leaf
//
// If recv binds at least as tightly as in, in becomes the root with recv as
// its left operand. Otherwise in belongs deeper: it is spliced into recv's
// right operand and recv stays the root.
func (ar *ASTArena) imbue(recv Expression, in incoming, leaf Expression) Expression {
	switch n := recv.(type) {
	case *BinaryOp:
		if rankOfNode(n) >= in.Rank {
			return ar.binary(in, n, leaf)
		}
		n.setRight(ar.imbue(n.Right(), in, leaf))
		return n
	case *Literal, *UnaryOp, *Bracket, *Indexing:
		return ar.binary(in, recv, leaf)
	default:
		panic(fmt.Sprintf("imbue: unexpected node %T", recv))
	}
}

// imbueLeft is imbue for right-associative operators. The new node stores
// leaf in its A slot and the existing tree in B. Descent runs down the same
// right spine as imbue but also continues through nodes of equal rank, so
// a <- b <- c groups as a <- (b <- c).
func (ar *ASTArena) imbueLeft(recv Expression, in incoming, leaf Expression) Expression {
	switch n := recv.(type) {
	case *BinaryOp:
		if rankOfNode(n) > in.Rank {
			return ar.binary(in, leaf, n)
		}
		n.setRight(ar.imbueLeft(n.Right(), in, leaf))
		return n
	case *Literal, *UnaryOp, *Bracket, *Indexing:
		return ar.binary(in, leaf, recv)
	default:
		panic(fmt.Sprintf("imbueLeft: unexpected node %T", recv))
	}
}

// imbueUnary applies a prefix operator to recv. A binary tree that binds
// looser than the operator only gets its leftmost operand wrapped.
func (ar *ASTArena) imbueUnary(recv Expression, in incoming) Expression {
	switch n := recv.(type) {
	case *BinaryOp:
		if rankOfNode(n) >= in.Rank {
			return ar.unary(in, n)
		}
		n.setLeft(ar.imbueUnary(n.Left(), in))
		return n
	case *Literal, *UnaryOp, *Bracket, *Indexing:
		return ar.unary(in, recv)
	default:
		panic(fmt.Sprintf("imbueUnary: unexpected node %T", recv))
	}
}

// imbueIndex attaches a square group to the operand written last in recv.
// Indexing binds tighter than every operator, prefix ones included.
func (ar *ASTArena) imbueIndex(recv Expression, br *Bracket) Expression {
	switch n := recv.(type) {
	case *BinaryOp:
		n.setRight(ar.imbueIndex(n.Right(), br))
		return n
	case *UnaryOp:
		n.Operand = ar.imbueIndex(n.Operand, br)
		return n
	case *Literal, *Bracket, *Indexing:
		ix := ar.NewIndexing()
		ix.Token = br.Token
		ix.Base = recv
		ix.Index = br.Inner
		return ix
	default:
		panic(fmt.Sprintf("imbueIndex: unexpected node %T", recv))
	}
}
