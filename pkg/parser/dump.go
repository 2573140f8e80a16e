package parser

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// DumpASTEnabled turns on DumpAST. The CLI sets it from -ast.
var DumpASTEnabled = false

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
}

// DumpAST writes a structural dump of stmts to w when DumpASTEnabled is set.
func DumpAST(w io.Writer, stmts []Statement, label string) {
	if !DumpASTEnabled {
		return
	}
	fmt.Fprintf(w, "=== AST Dump (%s) ===\n", label)
	for i, stmt := range stmts {
		fmt.Fprintf(w, "--- statement %d: %s\n", i, stmt)
		dumpConfig.Fdump(w, stmt)
	}
	fmt.Fprintln(w, "=== End AST Dump ===")
}
