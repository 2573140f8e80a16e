package errors

import (
	"fmt"
	"io"
)

// Code identifies a kind of diagnostic.
type Code int

const (
	IntegerOverflow Code = iota
	UnknownOperator
	InvalidOpInExpr
	MultipleExpressions
	NoLeftOperand
	NoRightOperand
	MismatchedBrackets
	StatementNeedsExpression
	StatementHasExpression
)

var messages = [...]string{
	IntegerOverflow:          "Integer is too big to fit type",
	UnknownOperator:          "Unknown operator",
	InvalidOpInExpr:          "Operator doesn't belong in an expression",
	MultipleExpressions:      "Multiple expressions on a line",
	NoLeftOperand:            "Left operand missing",
	NoRightOperand:           "Right operand missing",
	MismatchedBrackets:       "Mismatched brackets",
	StatementNeedsExpression: "This statement needs an expression after it",
	StatementHasExpression:   "This statement doesn't take an expression but got one",
}

var names = [...]string{
	IntegerOverflow:          "integerOverflow",
	UnknownOperator:          "unknownOperator",
	InvalidOpInExpr:          "invalidOpInExpr",
	MultipleExpressions:      "multipleExpressions",
	NoLeftOperand:            "noLeftOperand",
	NoRightOperand:           "noRightOperand",
	MismatchedBrackets:       "mismatchedBrackets",
	StatementNeedsExpression: "statementNeedsExpression",
	StatementHasExpression:   "statementHasExpression",
}

// Message returns the human-readable text for the code.
func (c Code) Message() string {
	if c < 0 || int(c) >= len(messages) {
		return fmt.Sprintf("unknown error %d", int(c))
	}
	return messages[c]
}

func (c Code) String() string {
	if c < 0 || int(c) >= len(names) {
		return fmt.Sprintf("Code(%d)", int(c))
	}
	return names[c]
}

// Error lets a bare Code act as a target for errors.Is.
func (c Code) Error() string { return c.Message() }

// SyntaxError represents an error during lexing or parsing.
type SyntaxError struct {
	Position
	Code  Code
	Cause error // Underlying cause, if any
}

// New builds a SyntaxError at pos.
func New(code Code, pos Position) *SyntaxError {
	return &SyntaxError{Position: pos, Code: code}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line+1, e.CaretColumn()+1, e.Code.Message())
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Code.Message() }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// Is reports whether target is the same diagnostic code.
func (e *SyntaxError) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// DisplayErrors renders every error against stream and writes the result to w,
// separating entries with a blank line. The stream offset is left untouched.
func DisplayErrors(w io.Writer, stream io.ReadSeeker, errs []*SyntaxError) {
	for _, err := range errs {
		fmt.Fprint(w, Render(err, stream))
		fmt.Fprintln(w)
	}
}
