package parser

// ASTArena provides arena-style allocation for AST nodes.
// Nodes are allocated from pre-grown slices, reducing GC pressure.
// Call Reset() between parses to reuse the arena's backing memory; nodes
// handed out before a Reset must not be used afterwards.
type ASTArena struct {
	literals  []Literal
	unaryOps  []UnaryOp
	binaryOps []BinaryOp
	brackets  []Bracket
	indexings []Indexing
}

// NewASTArena creates a new arena with pre-allocated capacity.
func NewASTArena() *ASTArena {
	return &ASTArena{
		literals:  make([]Literal, 0, 256),
		unaryOps:  make([]UnaryOp, 0, 32),
		binaryOps: make([]BinaryOp, 0, 128),
		brackets:  make([]Bracket, 0, 64),
		indexings: make([]Indexing, 0, 32),
	}
}

// Reset clears the arena for reuse, keeping backing memory allocated.
func (a *ASTArena) Reset() {
	a.literals = a.literals[:0]
	a.unaryOps = a.unaryOps[:0]
	a.binaryOps = a.binaryOps[:0]
	a.brackets = a.brackets[:0]
	a.indexings = a.indexings[:0]
}

// Len is the number of nodes handed out since the last Reset.
func (a *ASTArena) Len() int {
	return len(a.literals) + len(a.unaryOps) + len(a.binaryOps) + len(a.brackets) + len(a.indexings)
}

// Allocation methods - each returns a pointer to a zeroed node in the arena

func (a *ASTArena) NewLiteral() *Literal {
	a.literals = append(a.literals, Literal{})
	return &a.literals[len(a.literals)-1]
}

func (a *ASTArena) NewUnaryOp() *UnaryOp {
	a.unaryOps = append(a.unaryOps, UnaryOp{})
	return &a.unaryOps[len(a.unaryOps)-1]
}

func (a *ASTArena) NewBinaryOp() *BinaryOp {
	a.binaryOps = append(a.binaryOps, BinaryOp{})
	return &a.binaryOps[len(a.binaryOps)-1]
}

func (a *ASTArena) NewBracket() *Bracket {
	a.brackets = append(a.brackets, Bracket{})
	return &a.brackets[len(a.brackets)-1]
}

func (a *ASTArena) NewIndexing() *Indexing {
	a.indexings = append(a.indexings, Indexing{})
	return &a.indexings[len(a.indexings)-1]
}
