package lexer

import (
	"strconv"

	"github.com/nooga/x666/pkg/errors"
)

// TokenType represents the type of a token.
type TokenType string

const (
	ILLEGAL  TokenType = "ILLEGAL"  // Lexical error, see Token.Code
	EOF      TokenType = "EOF"      // End Of File
	NEWLINE  TokenType = "NEWLINE"  // '\n', ';' or a comment line
	IDENT    TokenType = "IDENT"    // abc
	INT      TokenType = "INT"      // 123, -0h1F
	STRING   TokenType = "STRING"   // "hello"
	OPERATOR TokenType = "OPERATOR" // see Operator
)

// Token represents a lexical token. Which of Literal, Value, Op and Code is
// meaningful depends on Type.
type Token struct {
	Type    TokenType
	Literal string          // identifier name or unescaped string content
	Value   int64           // INT value
	Op      Operator        // OPERATOR kind
	Code    errors.Code     // ILLEGAL diagnostic
	Pos     errors.Position // cursor after the token; Pos.Start is where it began
}

// Err turns an ILLEGAL token into its diagnostic.
func (t Token) Err() *errors.SyntaxError {
	if t.Type != ILLEGAL {
		return nil
	}
	return errors.New(t.Code, t.Pos)
}

// IsOp reports whether t is the operator o.
func (t Token) IsOp(o Operator) bool {
	return t.Type == OPERATOR && t.Op == o
}

// Terminates reports whether t ends a logical line.
func (t Token) Terminates() bool {
	return t.Type == NEWLINE || t.Type == EOF
}

func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return "Identifier " + t.Literal
	case STRING:
		return "String literal " + strconv.Quote(t.Literal)
	case INT:
		return "Integer literal " + strconv.FormatInt(t.Value, 10)
	case OPERATOR:
		return "Operator " + t.Op.String()
	case NEWLINE:
		return "Newline"
	case EOF:
		return "End of file"
	case ILLEGAL:
		return "Error " + t.Code.String()
	}
	return string(t.Type)
}
