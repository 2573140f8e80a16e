package driver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nooga/x666/pkg/errors"
	"github.com/nooga/x666/pkg/lexer"
	"github.com/nooga/x666/pkg/parser"
	"github.com/nooga/x666/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Options controls the optional output of a run.
// The AST dump is global, see parser.DumpASTEnabled.
type Options struct {
	DumpTokens bool // token listing before parsing
}

// ParseFile parses the whole stream into statements. The diagnostics are
// complete: parsing never stops early.
func ParseFile(stream lexer.Stream) ([]parser.Statement, []*errors.SyntaxError) {
	return parser.NewParser(lexer.NewLexer(stream)).ParseProgram()
}

// ParseString is ParseFile over an in-memory source.
func ParseString(src string) ([]parser.Statement, []*errors.SyntaxError) {
	return ParseFile(strings.NewReader(src))
}

// DisplayResult prints a success banner and one trace per statement, or a
// failure banner and every rendered diagnostic. Returns true on success.
func DisplayResult(w io.Writer, stream io.ReadSeeker, stmts []parser.Statement, errs []*errors.SyntaxError) bool {
	if len(errs) > 0 {
		fmt.Fprintf(w, "Parsing failed with %d error(s):\n\n", len(errs))
		errors.DisplayErrors(w, stream, errs)
		return false
	}
	fmt.Fprintf(w, "Parsed %d statement(s):\n", len(stmts))
	for _, stmt := range stmts {
		fmt.Fprintln(w, stmt.String())
	}
	return true
}

// Session parses successive inputs, reusing one node arena. Statements from
// a previous Run are invalid once the next Run starts.
type Session struct {
	arena   *parser.ASTArena
	options Options
}

// NewSession creates a session with the given options.
func NewSession(options Options) *Session {
	return &Session{arena: parser.NewASTArena(), options: options}
}

// Run parses sf and writes the outcome to w. Returns true if sf parsed
// without diagnostics.
func (s *Session) Run(w io.Writer, sf *source.SourceFile) bool {
	s.arena.Reset()
	if s.options.DumpTokens {
		DumpTokens(w, sf.Reader())
	}

	stream := sf.Reader()
	p := parser.NewParserWithArena(lexer.NewLexer(stream), s.arena)
	stmts, errs := p.ParseProgram()
	debugPrintf("[Driver] %s: %d statements, %d errors, %d nodes\n", sf.DisplayPath(), len(stmts), len(errs), s.arena.Len())

	parser.DumpAST(w, stmts, sf.DisplayPath())
	return DisplayResult(w, stream, stmts, errs)
}

// RunFile loads and parses a file. Returns false if the file could not be
// read or did not parse.
func RunFile(w io.Writer, filename string, options Options) bool {
	sf, err := source.Load(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file '%s': %s\n", filename, err.Error())
		return false
	}
	return NewSession(options).Run(w, sf)
}

// RunString parses source code given on the command line.
func RunString(w io.Writer, src string, options Options) bool {
	return NewSession(options).Run(w, source.NewEvalSource(src))
}

// RunStdin reads r to the end and parses it as standard input.
func RunStdin(w io.Writer, r io.Reader, options Options) bool {
	content, err := source.Decode(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read standard input: %s\n", err.Error())
		return false
	}
	return NewSession(options).Run(w, source.NewStdinSource(content))
}

// DumpTokens lists every token of stream with its byte range and source
// text. The stream offset is restored afterwards.
func DumpTokens(w io.Writer, stream lexer.Stream) {
	saved, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		fmt.Fprintf(w, "cannot dump tokens: %v\n", err)
		return
	}
	defer stream.Seek(saved, io.SeekStart)

	l := lexer.NewLexer(stream)
	for i := 0; ; i++ {
		tok := l.NextToken()
		fmt.Fprintf(w, "%d %s", i, tok)
		if tok.Type == lexer.EOF {
			fmt.Fprintln(w)
			return
		}
		text := sliceStream(stream, tok.Pos.Start, tok.Pos.Offset)
		fmt.Fprintf(w, " @ bytes %d -- %d (%q)\n", tok.Pos.Start, tok.Pos.Offset, text)
	}
}

// sliceStream reads bytes [from, to) and puts the offset back where it was.
func sliceStream(stream io.ReadSeeker, from, to int) string {
	if to <= from {
		return ""
	}
	cur, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return ""
	}
	defer stream.Seek(cur, io.SeekStart)
	if _, err := stream.Seek(int64(from), io.SeekStart); err != nil {
		return ""
	}
	buf := make([]byte, to-from)
	n, _ := io.ReadFull(stream, buf)
	return string(buf[:n])
}
