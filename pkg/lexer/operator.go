package lexer

import "fmt"

// Operator is every punctuation form the language knows, brackets and
// statement keywords included.
type Operator int

const (
	LeftBracket   Operator = iota // (
	RightBracket                  // )
	LeftSBracket                  // [
	RightSBracket                 // ]
	Plus                          // +
	Minus                         // -
	Times                         // *
	Divide                        // /
	Modulo                        // %
	Concat                        // ~
	Assign                        // <-
	Equal                         // =
	Less                          // <
	Greater                       // >
	NotEqual                      // /=
	LessEqual                     // <=
	GreaterEqual                  // >=
	IfStmt                        // ??
	IfThenStmt                    // ?&
	ElseStmt                      // !!
	EndStmt                       // &>
	QuestionMark                  // ?
	Colon                         // :
	WhileStmt                     // @
	RepeatStmt                    // @@
	ForStmt                       // @#
	Not                           // !
	And                           // &
	Or                            // |
	Xor                           // |*
	Length                        // #
	Comma                         // ,
	Print                         // #>

	numOperators
)

var opsAsStrings = [numOperators]string{
	"(", ")", "[", "]",
	"+", "-", "*", "/", "%",
	"~", "<-", "=", "<", ">",
	"/=", "<=", ">=", "??", "?&",
	"!!", "&>", "?", ":", "@", "@@",
	"@#", "!", "&", "|", "|*", "#", ",",
	"#>",
}

// String returns the operator's canonical lexical form.
func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return opsAsStrings[o]
}

// Valid reports whether o names a real operator.
func (o Operator) Valid() bool {
	return o >= 0 && o < numOperators
}

// Operators returns all operators in declaration order.
func Operators() []Operator {
	ops := make([]Operator, numOperators)
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// LookupOperator maps a lexical form back to its operator.
func LookupOperator(s string) (Operator, bool) {
	for i, form := range opsAsStrings {
		if form == s {
			return Operator(i), true
		}
	}
	return 0, false
}

// Closer returns the bracket that pairs with an opening bracket.
func (o Operator) Closer() Operator {
	switch o {
	case LeftBracket:
		return RightBracket
	case LeftSBracket:
		return RightSBracket
	}
	return o
}
