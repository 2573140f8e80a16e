package lexer

import (
	"math"
	"strconv"
	"testing"

	"github.com/nooga/x666/pkg/errors"
)

func TestNextToken(t *testing.T) {
	input := `x <- 5 + ten
?? x /= -3; "foo bar"
arr[0h1F] ## a comment
!! &>`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
		expectedLine  int
	}{
		{IDENT, "x", 0},
		{OPERATOR, "<-", 0},
		{INT, "5", 0},
		{OPERATOR, "+", 0},
		{IDENT, "ten", 0},
		{NEWLINE, "", 1}, // the cursor is past the newline
		{OPERATOR, "??", 1},
		{IDENT, "x", 1},
		{OPERATOR, "/=", 1},
		{INT, "-3", 1},
		{NEWLINE, "", 1},
		{STRING, "foo bar", 1},
		{NEWLINE, "", 2},
		{IDENT, "arr", 2},
		{OPERATOR, "[", 2},
		{INT, "31", 2},
		{OPERATOR, "]", 2},
		{NEWLINE, "", 3},
		{OPERATOR, "!!", 3},
		{OPERATOR, "&>", 3},
		{EOF, "", 3},
	}

	l := NewLexerFromString(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%s)", i, tt.expectedType, tok.Type, tok)
		}
		if got := tokenValue(tok); got != tt.expectedValue {
			t.Fatalf("tests[%d] - value wrong. expected=%q, got=%q", i, tt.expectedValue, got)
		}
		if tok.Pos.Line != tt.expectedLine {
			t.Errorf("tests[%d] - line wrong. expected=%d, got=%d", i, tt.expectedLine, tok.Pos.Line)
		}
	}
}

func tokenValue(tok Token) string {
	switch tok.Type {
	case IDENT, STRING:
		return tok.Literal
	case INT:
		return strconv.FormatInt(tok.Value, 10)
	case OPERATOR:
		return tok.Op.String()
	}
	return ""
}

func TestOperators(t *testing.T) {
	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			l := NewLexerFromString(op.String())
			tok := l.NextToken()
			if !tok.IsOp(op) {
				t.Fatalf("expected operator %s, got %s", op, tok)
			}
			if tok.Pos.Start != 0 || tok.Pos.Offset != len(op.String()) {
				t.Errorf("wrong extent for %s: %d -- %d", op, tok.Pos.Start, tok.Pos.Offset)
			}
			if next := l.NextToken(); next.Type != EOF {
				t.Errorf("expected EOF after %s, got %s", op, next)
			}
		})
	}
}

func TestLookupOperator(t *testing.T) {
	for _, op := range Operators() {
		got, ok := LookupOperator(op.String())
		if !ok || got != op {
			t.Errorf("LookupOperator(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := LookupOperator("=="); ok {
		t.Errorf("LookupOperator(\"==\") should fail")
	}
}

func TestIntegerLiterals(t *testing.T) {
	tests := []struct {
		input string
		value int64
	}{
		{"0", 0},
		{"42", 42},
		{"0h1F", 31},
		{"0hff", 255},
		{"0dA", 10},
		{"0d10", 12},
		{"0o17", 15},
		{"0b101", 5},
		{"-7", -7},
		{"-0h10", -16},
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexerFromString(tt.input).NextToken()
			if tok.Type != INT {
				t.Fatalf("expected INT, got %s", tok)
			}
			if tok.Value != tt.value {
				t.Errorf("expected %d, got %d", tt.value, tok.Value)
			}
			if tok.Pos.Offset != len(tt.input) {
				t.Errorf("literal not fully consumed: offset %d", tok.Pos.Offset)
			}
		})
	}
}

func TestIntegerOverflow(t *testing.T) {
	for _, input := range []string{"9223372036854775808", "-9223372036854775809", "0h10000000000000000"} {
		tok := NewLexerFromString(input).NextToken()
		if tok.Type != ILLEGAL || tok.Code != errors.IntegerOverflow {
			t.Errorf("%s: expected integer overflow, got %s", input, tok)
		}
		if err := tok.Err(); err == nil || err.Code != errors.IntegerOverflow {
			t.Errorf("%s: Err() = %v", input, err)
		}
	}
}

func TestNumberStopsAtForeignDigit(t *testing.T) {
	l := NewLexerFromString("0b12")
	first := l.NextToken()
	second := l.NextToken()
	if first.Type != INT || first.Value != 1 {
		t.Fatalf("expected 1, got %s", first)
	}
	if second.Type != INT || second.Value != 2 {
		t.Fatalf("expected 2, got %s", second)
	}
}

func TestMinus(t *testing.T) {
	tests := []struct {
		input string
		types []TokenType
	}{
		{"-5", []TokenType{INT, EOF}},
		{"- 5", []TokenType{OPERATOR, INT, EOF}},
		{"-x", []TokenType{OPERATOR, IDENT, EOF}},
		{"a -5", []TokenType{IDENT, INT, EOF}},
		{"-", []TokenType{OPERATOR, EOF}},
	}
	for _, tt := range tests {
		l := NewLexerFromString(tt.input)
		for i, want := range tt.types {
			if tok := l.NextToken(); tok.Type != want {
				t.Errorf("%q token %d: expected %s, got %s", tt.input, i, want, tok)
			}
		}
	}
}

func TestComments(t *testing.T) {
	l := NewLexerFromString("## whole line\na ## trailing\n# b")
	want := []string{"Newline", "Identifier a", "Newline", "Operator #", "Identifier b", "End of file"}
	for i, w := range want {
		if got := l.NextToken().String(); got != w {
			t.Errorf("token %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		next     TokenType
	}{
		{`"plain"`, "plain", EOF},
		{`"a\nb\\c"`, "a\nb\\c", EOF},
		{`"say \"hi\""`, `say "hi"`, EOF},
		{`"\q"`, "q", EOF},
		{"\"unterminated\nx", "unterminated", NEWLINE},
		{`"open`, "open", EOF},
	}
	for _, tt := range tests {
		l := NewLexerFromString(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING || tok.Literal != tt.expected {
			t.Errorf("%q: expected string %q, got %s", tt.input, tt.expected, tok)
		}
		if next := l.NextToken(); next.Type != tt.next {
			t.Errorf("%q: expected %s after the literal, got %s", tt.input, tt.next, next)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	content := "a\nb\\c\"d"
	tok := NewLexerFromString(`"` + Escape(content) + `"`).NextToken()
	if tok.Literal != content {
		t.Errorf("expected %q, got %q", content, tok.Literal)
	}
}

func TestUnknownOperator(t *testing.T) {
	l := NewLexerFromString("a $ b")
	l.NextToken()
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Code != errors.UnknownOperator {
		t.Fatalf("expected unknown operator, got %s", tok)
	}
	if tok.Pos.Start != 2 || tok.Pos.Offset != 3 {
		t.Errorf("wrong extent: %d -- %d", tok.Pos.Start, tok.Pos.Offset)
	}
	if next := l.NextToken(); next.Type != IDENT {
		t.Errorf("lexing should resume after the bad byte, got %s", next)
	}
}

func TestPositions(t *testing.T) {
	l := NewLexerFromString("ab + 12\n  c")
	want := []errors.Position{
		{Line: 0, Column: 2, Offset: 2, Start: 0},
		{Line: 0, Column: 4, Offset: 4, Start: 3},
		{Line: 0, Column: 7, Offset: 7, Start: 5},
		{Line: 1, Column: 0, Offset: 8, Start: 7},
		{Line: 1, Column: 3, Offset: 11, Start: 10},
		{Line: 1, Column: 3, Offset: 11, Start: 11},
	}
	for i, w := range want {
		if got := l.NextToken().Pos; got != w {
			t.Errorf("token %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := NewLexerFromString("a")
	l.NextToken()
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		if tok.Type != EOF {
			t.Fatalf("call %d: expected EOF, got %s", i, tok)
		}
		if tok.Pos.Offset != 1 {
			t.Errorf("call %d: cursor moved to %d", i, tok.Pos.Offset)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok      Token
		expected string
	}{
		{Token{Type: ILLEGAL, Code: errors.UnknownOperator}, "Error unknownOperator"},
		{Token{Type: ILLEGAL, Code: errors.IntegerOverflow}, "Error integerOverflow"},
		{Token{Type: STRING, Literal: "a\nb"}, `String literal "a\nb"`},
		{Token{Type: OPERATOR, Op: Assign}, "Operator <-"},
	}
	for i, tt := range tests {
		if got := tt.tok.String(); got != tt.expected {
			t.Errorf("tests[%d] - expected %q, got %q", i, tt.expected, got)
		}
	}
}

func TestOperatorValid(t *testing.T) {
	for _, op := range Operators() {
		if !op.Valid() {
			t.Errorf("%s should be valid", op)
		}
	}
	bad := Operator(99)
	if bad.Valid() {
		t.Errorf("Operator(99) should not be valid")
	}
	if got := bad.String(); got != "Operator(99)" {
		t.Errorf("expected Operator(99), got %q", got)
	}
}
