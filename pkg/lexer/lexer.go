package lexer

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/nooga/x666/pkg/errors"
)

// --- Debug Flag ---
const debugLexer = false

func debugPrint(format string, args ...interface{}) {
	if debugLexer {
		fmt.Printf("[Lexer Debug] "+format+"\n", args...)
	}
}

// Stream is the input the lexer consumes: a forward byte cursor that can also
// be repositioned, so diagnostics can be rendered from the same bytes.
// *bytes.Reader and *strings.Reader satisfy it.
type Stream interface {
	io.Reader
	io.ByteScanner
	io.Seeker
}

// Lexer holds the state of the scanner.
type Lexer struct {
	in    Stream
	pos   errors.Position // cursor; pos.Start marks the token being built
	atEOF bool
}

// NewLexer creates a new Lexer reading from the current offset of in.
func NewLexer(in Stream) *Lexer {
	return &Lexer{in: in}
}

// NewLexerFromString is a convenience for tests and the REPL.
func NewLexerFromString(src string) *Lexer {
	return NewLexer(strings.NewReader(src))
}

// Position returns the current cursor.
func (l *Lexer) Position() errors.Position {
	return l.pos
}

// readChar consumes one byte and advances line, column and offset.
func (l *Lexer) readChar() (byte, bool) {
	c, err := l.in.ReadByte()
	if err != nil {
		l.atEOF = true
		return 0, false
	}
	if c == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}
	l.pos.Offset++
	return c, true
}

// peekChar looks at the next byte without consuming it.
func (l *Lexer) peekChar() (byte, bool) {
	c, err := l.in.ReadByte()
	if err != nil {
		return 0, false
	}
	if err := l.in.UnreadByte(); err != nil {
		return 0, false
	}
	return c, true
}

// peekIs consumes the next byte only if it equals want.
func (l *Lexer) peekIs(want byte) bool {
	if c, ok := l.peekChar(); ok && c == want {
		l.readChar()
		return true
	}
	return false
}

func (l *Lexer) token(t TokenType) Token {
	return Token{Type: t, Pos: l.pos}
}

func (l *Lexer) op(o Operator) Token {
	tok := l.token(OPERATOR)
	tok.Op = o
	return tok
}

func (l *Lexer) illegal(code errors.Code) Token {
	tok := l.token(ILLEGAL)
	tok.Code = code
	return tok
}

// NextToken scans the stream and returns the next token. Once the stream is
// exhausted every call returns EOF.
func (l *Lexer) NextToken() Token {
	tok := l.nextToken()
	debugPrint("%s @ bytes %d -- %d", tok, tok.Pos.Start, tok.Pos.Offset)
	return tok
}

func (l *Lexer) nextToken() Token {
	var c byte
	for {
		var ok bool
		if l.atEOF {
			l.pos.Start = l.pos.Offset
			return l.token(EOF)
		}
		c, ok = l.readChar()
		if !ok {
			l.pos.Start = l.pos.Offset
			return l.token(EOF)
		}
		l.pos.Start = l.pos.Offset - 1
		if c == '\n' || c == ';' {
			return l.token(NEWLINE)
		}
		if c == '#' {
			if next, ok := l.peekChar(); ok && next == '#' {
				l.skipComment()
				return l.token(NEWLINE)
			}
		}
		if !isSpace(c) {
			break
		}
	}

	negative := false
	if c == '-' { // Negative integers are fused here
		next, ok := l.peekChar()
		if !ok || !isDigit(next) {
			return l.op(Minus)
		}
		c, _ = l.readChar()
		negative = true
	}

	switch {
	case isDigit(c):
		return l.readNumber(c, negative)
	case isLetter(c):
		return l.readIdentifier(c)
	case c == '"':
		tok := l.token(STRING)
		tok.Literal = l.readString()
		tok.Pos = l.pos
		return tok
	}

	switch c {
	case '+':
		return l.op(Plus)
	case '*':
		return l.op(Times)
	case '%':
		return l.op(Modulo)
	case '~':
		return l.op(Concat)
	case '(':
		return l.op(LeftBracket)
	case ')':
		return l.op(RightBracket)
	case '[':
		return l.op(LeftSBracket)
	case ']':
		return l.op(RightSBracket)
	case '=':
		return l.op(Equal)
	case ':':
		return l.op(Colon)
	case ',':
		return l.op(Comma)
	case '#':
		if l.peekIs('>') {
			return l.op(Print)
		}
		return l.op(Length)
	case '/':
		if l.peekIs('=') {
			return l.op(NotEqual)
		}
		return l.op(Divide)
	case '<':
		if l.peekIs('=') {
			return l.op(LessEqual)
		}
		if l.peekIs('-') {
			return l.op(Assign)
		}
		return l.op(Less)
	case '>':
		if l.peekIs('=') {
			return l.op(GreaterEqual)
		}
		return l.op(Greater)
	case '?':
		if l.peekIs('?') {
			return l.op(IfStmt)
		}
		if l.peekIs('&') {
			return l.op(IfThenStmt)
		}
		return l.op(QuestionMark)
	case '@':
		if l.peekIs('#') {
			return l.op(ForStmt)
		}
		if l.peekIs('@') {
			return l.op(RepeatStmt)
		}
		return l.op(WhileStmt)
	case '&':
		if l.peekIs('>') {
			return l.op(EndStmt)
		}
		return l.op(And)
	case '|':
		if l.peekIs('*') {
			return l.op(Xor)
		}
		return l.op(Or)
	case '!':
		if l.peekIs('!') {
			return l.op(ElseStmt)
		}
		return l.op(Not)
	}
	return l.illegal(errors.UnknownOperator)
}

// skipComment consumes everything through the end of the line, newline included.
func (l *Lexer) skipComment() {
	for {
		c, ok := l.readChar()
		if !ok || c == '\n' {
			return
		}
	}
}

// readNumber reads an integer literal whose first digit is first. A leading
// 0 followed by h, d, o or b switches to base 16, 12, 8 or 2; the marker is
// consumed. The literal ends at the first byte that is not a digit of the
// base.
func (l *Lexer) readNumber(first byte, negative bool) Token {
	n := int64(first - '0')
	prefixChecked := n != 0 // "00h" must not match, so only the first digit counts
	if negative {
		n = -n
	}
	base := int64(10)
	for {
		c, ok := l.peekChar()
		if !ok {
			break
		}
		if !prefixChecked {
			prefixChecked = true
			if b := baseMarker(c); b != 0 {
				base = b
				l.readChar()
				continue
			}
		}
		d := digitValue(c)
		if d < 0 || d >= base {
			break
		}
		if negative {
			d = -d
		}
		next, ok := mulAdd(n, base, d)
		if !ok {
			return l.illegal(errors.IntegerOverflow)
		}
		n = next
		l.readChar()
	}
	tok := l.token(INT)
	tok.Value = n
	return tok
}

// readIdentifier reads a run of letters starting with first.
func (l *Lexer) readIdentifier(first byte) Token {
	var b strings.Builder
	b.WriteByte(first)
	for {
		c, ok := l.peekChar()
		if !ok || !isLetter(c) {
			break
		}
		b.WriteByte(c)
		l.readChar()
	}
	tok := l.token(IDENT)
	tok.Literal = b.String()
	return tok
}

// readString reads the body of a string literal after its opening quote and
// returns the unescaped content. The literal ends at an unescaped quote
// (consumed), an unescaped newline (left for the next token) or end of input.
func (l *Lexer) readString() string {
	var b strings.Builder
	for {
		c, ok := l.peekChar()
		if !ok || c == '\n' {
			return b.String()
		}
		l.readChar()
		switch c {
		case '"':
			return b.String()
		case '\\':
			esc, ok := l.readChar()
			if !ok {
				return b.String()
			}
			switch esc {
			case 'n':
				b.WriteByte('\n')
			default: // \\, \" and anything else pass through
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

// Escape is the inverse of string unescaping: it renders content the way it
// would be written inside a literal.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// mulAdd computes n*base + d, reporting false on int64 overflow.
func mulAdd(n, base, d int64) (int64, bool) {
	if n > math.MaxInt64/base || n < math.MinInt64/base {
		return 0, false
	}
	m := n * base
	s := m + d
	if (d > 0 && s < m) || (d < 0 && s > m) {
		return 0, false
	}
	return s, true
}

func baseMarker(c byte) int64 {
	switch c {
	case 'h':
		return 16
	case 'd':
		return 12
	case 'o':
		return 8
	case 'b':
		return 2
	}
	return 0
}

// digitValue maps 0-9 to 0..9 and letters to 10..35, -1 otherwise.
func digitValue(c byte) int64 {
	switch {
	case isDigit(c):
		return int64(c - '0')
	case 'a' <= c && c <= 'z':
		return int64(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int64(c-'A') + 10
	}
	return -1
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}
