package parser

import (
	"fmt"
	"math"

	"github.com/nooga/x666/pkg/errors"
	"github.com/nooga/x666/pkg/lexer"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// maxErrors caps the diagnostic log for pathological inputs.
const maxErrors = 1000

// Parser pulls tokens from a lexer and builds one statement per logical line.
// Operators are spliced into the tree built so far as they arrive, so no
// token lookahead beyond the operand being materialized is needed.
type Parser struct {
	l          *lexer.Lexer
	arena      *ASTArena
	errors     []*errors.SyntaxError
	statements []Statement

	// Per-line state, reset at every NEWLINE/EOF.
	operands  []Expression
	positions []errors.Position // parallel to operands
	brackets  []bracketEntry
	floor     int          // operands below this index belong to an outer scope
	stmtTok   *lexer.Token // leading statement keyword, if any
	exprBegun bool         // an expression token has been seen on this line
	skipping  bool         // the line already failed; drop tokens until it ends

	pending *lexer.Token // one token of pushback
}

// bracketEntry is the snapshot taken when a bracket opens.
type bracketEntry struct {
	tok      lexer.Token
	height   int  // len(operands) at open
	floor    int  // enclosing floor, restored at close
	adjacent bool // an operand sat directly before the bracket
}

// NewParser creates a new Parser with its own arena.
func NewParser(l *lexer.Lexer) *Parser {
	return NewParserWithArena(l, NewASTArena())
}

// NewParserWithArena creates a Parser that allocates nodes from arena.
func NewParserWithArena(l *lexer.Lexer, arena *ASTArena) *Parser {
	return &Parser{l: l, arena: arena}
}

// Errors returns the diagnostics recorded so far.
func (p *Parser) Errors() []*errors.SyntaxError {
	return p.errors
}

// ParseProgram consumes the whole stream. Diagnostics never stop the parse:
// a failed line is dropped and parsing resumes on the next one.
func (p *Parser) ParseProgram() ([]Statement, []*errors.SyntaxError) {
	for {
		tok := p.nextToken()
		if tok.Terminates() {
			p.commitLine()
			if tok.Type == lexer.EOF {
				break
			}
			continue
		}
		if p.skipping {
			continue
		}
		if err := p.accept(tok); err != nil {
			p.fail(err)
		}
	}
	return p.statements, p.errors
}

// nextToken returns the pushed-back token if there is one.
func (p *Parser) nextToken() lexer.Token {
	if p.pending != nil {
		tok := *p.pending
		p.pending = nil
		return tok
	}
	tok := p.l.NextToken()
	debugPrint("nextToken(): %s, operands=%d, brackets=%d", tok, len(p.operands), len(p.brackets))
	return tok
}

func (p *Parser) unread(tok lexer.Token) {
	p.pending = &tok
}

// accept applies one token to the parser state and folds juxtaposed operands.
func (p *Parser) accept(tok lexer.Token) error {
	switch tok.Type {
	case lexer.IDENT, lexer.INT, lexer.STRING:
		p.exprBegun = true
		lit := p.arena.NewLiteral()
		lit.Token = tok
		p.push(lit, tok.Pos)
	case lexer.OPERATOR:
		if err := p.acceptOperator(tok); err != nil {
			return err
		}
	case lexer.ILLEGAL:
		return tok.Err()
	default:
		return errors.New(errors.InvalidOpInExpr, tok.Pos)
	}
	p.fold()
	return nil
}

func (p *Parser) acceptOperator(tok lexer.Token) error {
	info := Lookup(tok.Op)
	if info.Category == StatementOnly {
		if p.stmtTok != nil || p.exprBegun {
			return errors.New(errors.InvalidOpInExpr, tok.Pos)
		}
		p.stmtTok = &tok
		return nil
	}
	p.exprBegun = true

	switch info.Category {
	case OpenBracket:
		p.brackets = append(p.brackets, bracketEntry{
			tok:      tok,
			height:   len(p.operands),
			floor:    p.floor,
			adjacent: p.leftAvailable(),
		})
		p.floor = len(p.operands)
		return nil
	case CloseBracket:
		return p.closeBracket(tok)
	}

	unary := info.Assoc == UnaryPrefix || (info.Assoc == BinaryOrUnary && !p.leftAvailable())
	if unary {
		return p.acceptUnary(tok)
	}
	return p.acceptBinary(tok, info)
}

// leftAvailable reports whether an operand in the current scope can serve as
// a left operand.
func (p *Parser) leftAvailable() bool {
	return len(p.operands) > p.floor
}

func (p *Parser) acceptBinary(tok lexer.Token, info OpInfo) error {
	if !p.leftAvailable() {
		return errors.New(errors.NoLeftOperand, tok.Pos)
	}
	a, aPos := p.pop()
	b, bPos, err := p.materialize(tok)
	if err != nil {
		return err
	}
	in := incoming{Token: tok, Op: tok.Op, Rank: info.Rank}
	var ex Expression
	if info.Assoc == BinaryRight {
		ex = p.arena.imbueLeft(a, in, b)
	} else {
		ex = p.arena.imbue(a, in, b)
	}
	p.push(ex, span(aPos, bPos))
	return nil
}

func (p *Parser) acceptUnary(tok lexer.Token) error {
	b, bPos, err := p.materialize(tok)
	if err != nil {
		return err
	}
	in := incoming{Token: tok, Op: tok.Op, Rank: rankOf(tok.Op, true)}
	p.push(p.arena.imbueUnary(b, in), span(tok.Pos, bPos))
	return nil
}

// materialize pulls tokens until exactly one new operand exists in the scope
// the operator op was found in, and pops it.
func (p *Parser) materialize(op lexer.Token) (Expression, errors.Position, error) {
	base, depth, savedFloor := len(p.operands), len(p.brackets), p.floor
	p.floor = base
	defer func() { p.floor = savedFloor }()

	for {
		tok := p.nextToken()
		if tok.Terminates() {
			p.unread(tok)
			return nil, errors.Position{}, errors.New(errors.NoRightOperand, expectedAfter(op))
		}
		if tok.Type == lexer.OPERATOR && Lookup(tok.Op).Category == CloseBracket && len(p.brackets) == depth {
			return nil, errors.Position{}, errors.New(errors.NoRightOperand, expectedAfter(op))
		}
		if err := p.accept(tok); err != nil {
			return nil, errors.Position{}, err
		}
		if len(p.brackets) == depth && len(p.operands) == base+1 {
			ex, pos := p.pop()
			return ex, pos, nil
		}
	}
}

func (p *Parser) closeBracket(tok lexer.Token) error {
	if len(p.brackets) == 0 {
		return errors.New(errors.MismatchedBrackets, tok.Pos)
	}
	entry := p.brackets[len(p.brackets)-1]
	p.brackets = p.brackets[:len(p.brackets)-1]
	if entry.tok.Op.Closer() != tok.Op {
		return errors.New(errors.MismatchedBrackets, span(entry.tok.Pos, tok.Pos))
	}
	p.floor = entry.floor

	br := p.arena.NewBracket()
	br.Token = entry.tok
	br.Kind = entry.tok.Op
	br.Adjacent = entry.adjacent && entry.tok.Op == lexer.LeftSBracket
	switch delta := len(p.operands) - entry.height; {
	case delta == 0:
	case delta == 1:
		br.Inner, _ = p.pop()
	default:
		return errors.New(errors.MultipleExpressions, span(entry.tok.Pos, tok.Pos))
	}
	p.push(br, span(entry.tok.Pos, tok.Pos))
	return nil
}

// fold combines operands that ended up side by side with no operator between
// them, right to left.
func (p *Parser) fold() {
	for len(p.operands)-p.floor > 1 {
		right, rPos := p.pop()
		left, lPos := p.pop()
		p.push(p.juxtapose(left, right), span(lPos, rPos))
	}
}

// juxtapose resolves two adjacent operands: an adjacent square group indexes,
// a fused negative literal subtracts, anything else multiplies.
func (p *Parser) juxtapose(left, right Expression) Expression {
	switch r := right.(type) {
	case *Bracket:
		if r.Adjacent {
			return p.arena.imbueIndex(left, r)
		}
	case *Literal:
		if r.IsNegativeInt() && r.Token.Value != math.MinInt64 {
			abs := p.arena.NewLiteral()
			abs.Token = r.Token
			abs.Token.Value = -r.Token.Value
			in := incoming{Token: implicitOp(lexer.Minus, r.Token.Pos), Op: lexer.Minus, Rank: rankOf(lexer.Minus, false)}
			return p.arena.imbue(left, in, abs)
		}
	}
	in := incoming{Token: implicitOp(lexer.Times, errors.Position{}), Op: lexer.Times, Rank: rankOf(lexer.Times, false)}
	return p.arena.imbue(left, in, right)
}

// commitLine turns the operand left on the line into a statement and resets
// the per-line state.
func (p *Parser) commitLine() {
	defer p.resetLine()
	if p.skipping {
		return
	}
	if n := len(p.brackets); n > 0 {
		p.addError(errors.New(errors.MismatchedBrackets, p.brackets[n-1].tok.Pos))
		return
	}

	var stmt Statement
	if p.stmtTok != nil {
		stmt.Token = *p.stmtTok
		stmt.Op = p.stmtTok.Op
		stmt.HasOp = true
	}

	if len(p.operands) == 0 {
		if !stmt.HasOp {
			return
		}
		if needsExpression(stmt.Op) {
			p.addError(errors.New(errors.StatementNeedsExpression, stmt.Token.Pos))
			return
		}
		p.statements = append(p.statements, stmt)
		return
	}

	ex, pos := p.pop()
	if len(p.operands) > 0 {
		_, extra := p.pop()
		p.addError(errors.New(errors.MultipleExpressions, extra))
	}
	if stmt.HasOp && !takesExpression(stmt.Op) {
		p.addError(errors.New(errors.StatementHasExpression, span(stmt.Token.Pos, pos)))
		return
	}
	stmt.Expr = ex
	p.statements = append(p.statements, stmt)
}

func (p *Parser) resetLine() {
	p.operands = p.operands[:0]
	p.positions = p.positions[:0]
	p.brackets = p.brackets[:0]
	p.floor = 0
	p.stmtTok = nil
	p.exprBegun = false
	p.skipping = false
}

// fail records err and drops the rest of the line.
func (p *Parser) fail(err error) {
	if se, ok := err.(*errors.SyntaxError); ok {
		p.addError(se)
	} else {
		p.addError(errors.New(errors.InvalidOpInExpr, p.l.Position()).CausedBy(err))
	}
	p.skipping = true
}

// addError appends to the log, stopping at maxErrors.
func (p *Parser) addError(err *errors.SyntaxError) {
	if len(p.errors) >= maxErrors {
		return
	}
	debugPrint("addError(): %s", err)
	p.errors = append(p.errors, err)
}

func (p *Parser) push(ex Expression, pos errors.Position) {
	p.operands = append(p.operands, ex)
	p.positions = append(p.positions, pos)
}

func (p *Parser) pop() (Expression, errors.Position) {
	n := len(p.operands) - 1
	ex, pos := p.operands[n], p.positions[n]
	p.operands[n] = nil
	p.operands = p.operands[:n]
	p.positions = p.positions[:n]
	return ex, pos
}

// span covers from the start of from to the cursor of to.
func span(from, to errors.Position) errors.Position {
	to.Start = from.Start
	return to
}

// expectedAfter points just past op, underlining the operator itself.
func expectedAfter(op lexer.Token) errors.Position {
	pos := op.Pos
	pos.Start = pos.Offset + (pos.Offset - op.Pos.Start) + 1
	return pos
}

func implicitOp(o lexer.Operator, pos errors.Position) lexer.Token {
	return lexer.Token{Type: lexer.OPERATOR, Op: o, Pos: pos}
}

// needsExpression reports whether a statement keyword must be followed by an
// expression on its line.
func needsExpression(o lexer.Operator) bool {
	switch o {
	case lexer.IfStmt, lexer.IfThenStmt, lexer.WhileStmt, lexer.RepeatStmt, lexer.ForStmt:
		return true
	}
	return false
}

// takesExpression reports whether a statement keyword may carry an expression.
func takesExpression(o lexer.Operator) bool {
	switch o {
	case lexer.ElseStmt, lexer.EndStmt:
		return false
	}
	return true
}
