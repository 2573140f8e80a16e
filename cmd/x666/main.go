package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nooga/x666/pkg/driver"
	"github.com/nooga/x666/pkg/parser"
	"github.com/nooga/x666/pkg/source"
	"github.com/peterh/liner"
)

const historyFile = ".x666_history"

func main() {
	// Define flags
	exprFlag := flag.String("e", "", "Parse the given source and exit")
	tokensFlag := flag.Bool("tokens", false, "List tokens before parsing")
	astDumpFlag := flag.Bool("ast", false, "Show AST dump before the result")

	flag.Usage = usage
	flag.Parse()

	parser.DumpASTEnabled = *astDumpFlag
	options := driver.Options{DumpTokens: *tokensFlag}

	if *exprFlag != "" {
		if !driver.RunString(os.Stdout, *exprFlag, options) {
			os.Exit(70) // Exit code 70: internal software error
		}
		return
	}

	switch flag.NArg() {
	case 0:
		runRepl(options)
	case 1:
		runFile(flag.Arg(0), options)
	default:
		if !driver.RunFiles(context.Background(), os.Stdout, flag.Args(), options) {
			os.Exit(70)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: x666 [-tokens] [-ast] [script... | -] or x666 -e \"source\"\n")
	flag.PrintDefaults()
	os.Exit(64) // Exit code 64: command line usage error
}

// runFile parses a script file and prints its statements or diagnostics.
// The name "-" reads standard input.
func runFile(filename string, options driver.Options) {
	if filename == "-" {
		if !driver.RunStdin(os.Stdout, os.Stdin, options) {
			os.Exit(70)
		}
		return
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "No such file '%s'\n", filename)
		if guess, ok := driver.SuggestFile(filepath.Dir(filename), filename); ok {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", guess)
		}
		os.Exit(66) // Exit code 66: cannot open input
	}
	if !driver.RunFile(os.Stdout, filename, options) {
		os.Exit(70)
	}
}

// runRepl parses one line at a time until EOF.
func runRepl(options driver.Options) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := driver.NewSession(options)
	fmt.Println("x666 (Ctrl+D to exit)")
	for {
		line, err := ln.Prompt("> ")
		switch {
		case err == liner.ErrPromptAborted:
			continue
		case err == io.EOF:
			fmt.Println("\nGoodbye!")
			return
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		_ = session.Run(os.Stdout, source.NewReplSource(line))
	}
}
