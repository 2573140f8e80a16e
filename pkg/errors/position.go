package errors

// Position is a snapshot of the lexer cursor. All fields are zero-based.
// Offset counts the bytes consumed so far, so it is one past the last byte of
// the token just read; Start is the byte offset where that token began.
type Position struct {
	Line   int // line of the cursor
	Column int // bytes consumed on the cursor's line
	Offset int // bytes consumed in the stream
	Start  int // byte offset of the start of the current token
}

// Span is the underline width: Offset - Start + 1. It is zero or negative
// when Start lies past the cursor, which the renderer draws as an underline
// leading up to the caret.
func (p Position) Span() int {
	return p.Offset - p.Start + 1
}

// CaretColumn is the zero-based column the renderer places its caret on: the
// start of the span when it lies on the cursor's line, else the cursor itself.
func (p Position) CaretColumn() int {
	span := p.Span()
	if span <= 0 {
		return p.Column
	}
	return p.Column - min(span, p.Column)
}
