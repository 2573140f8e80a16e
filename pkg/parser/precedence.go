package parser

import "github.com/nooga/x666/pkg/lexer"

// Category says how the builder treats an operator token.
type Category int

const (
	OpenBracket Category = iota
	CloseBracket
	StatementOnly
	ExprOperator
)

// Assoc is the associativity/arity tag of an expression operator.
type Assoc int

const (
	BinaryLeft Assoc = iota
	BinaryRight
	UnaryPrefix
	BinaryOrUnary // binary when a left operand is available, else unary prefix
)

// Precedence levels, higher binds tighter.
const (
	_ int = iota
	COMMA
	TERNARY     // ? :
	LOGICAL     // ! & | |* # #>
	CONCAT      // ~ and unary -
	COMPARISON  // = /= < > <= >= <-
	SUM         // + -
	PRODUCT     // * / %
	POSTFIX     // [index], binds tighter than any operator
)

// OpInfo is an operator's entry in the precedence table.
type OpInfo struct {
	Category Category
	Assoc    Assoc
	Rank     int
}

var precedences = map[lexer.Operator]OpInfo{
	lexer.LeftBracket:   {Category: OpenBracket},
	lexer.LeftSBracket:  {Category: OpenBracket},
	lexer.RightBracket:  {Category: CloseBracket},
	lexer.RightSBracket: {Category: CloseBracket},

	lexer.IfStmt:     {Category: StatementOnly},
	lexer.IfThenStmt: {Category: StatementOnly},
	lexer.ElseStmt:   {Category: StatementOnly},
	lexer.EndStmt:    {Category: StatementOnly},
	lexer.WhileStmt:  {Category: StatementOnly},
	lexer.RepeatStmt: {Category: StatementOnly},
	lexer.ForStmt:    {Category: StatementOnly},

	lexer.Comma: {ExprOperator, BinaryLeft, COMMA},

	lexer.QuestionMark: {ExprOperator, BinaryRight, TERNARY},
	lexer.Colon:        {ExprOperator, BinaryRight, TERNARY},

	lexer.Not:    {ExprOperator, UnaryPrefix, LOGICAL},
	lexer.Print:  {ExprOperator, UnaryPrefix, LOGICAL},
	lexer.And:    {ExprOperator, BinaryOrUnary, LOGICAL},
	lexer.Or:     {ExprOperator, BinaryOrUnary, LOGICAL},
	lexer.Xor:    {ExprOperator, BinaryOrUnary, LOGICAL},
	lexer.Length: {ExprOperator, BinaryOrUnary, LOGICAL},

	lexer.Concat: {ExprOperator, BinaryLeft, CONCAT},

	lexer.Assign:       {ExprOperator, BinaryRight, COMPARISON},
	lexer.Equal:        {ExprOperator, BinaryLeft, COMPARISON},
	lexer.NotEqual:     {ExprOperator, BinaryLeft, COMPARISON},
	lexer.Less:         {ExprOperator, BinaryLeft, COMPARISON},
	lexer.Greater:      {ExprOperator, BinaryLeft, COMPARISON},
	lexer.LessEqual:    {ExprOperator, BinaryLeft, COMPARISON},
	lexer.GreaterEqual: {ExprOperator, BinaryLeft, COMPARISON},

	lexer.Plus:  {ExprOperator, BinaryLeft, SUM},
	lexer.Minus: {ExprOperator, BinaryOrUnary, SUM},

	lexer.Times:  {ExprOperator, BinaryLeft, PRODUCT},
	lexer.Divide: {ExprOperator, BinaryLeft, PRODUCT},
	lexer.Modulo: {ExprOperator, BinaryLeft, PRODUCT},
}

// unaryMinusRank is the rank of '-' when it has no left operand.
const unaryMinusRank = CONCAT

// Lookup returns the table entry for o.
func Lookup(o lexer.Operator) OpInfo {
	return precedences[o]
}

// rankOf is the rank o binds with in a node of the given arity.
func rankOf(o lexer.Operator, unary bool) int {
	if unary && o == lexer.Minus {
		return unaryMinusRank
	}
	return precedences[o].Rank
}

// rightAssoc reports whether a binary node built from o stores its operands
// reversed (physically-second operand in slot A).
func rightAssoc(o lexer.Operator) bool {
	return precedences[o].Assoc == BinaryRight
}
