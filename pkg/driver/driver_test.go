package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/x666/pkg/source"
)

const scriptsDebug = false

// Expectation is what a script says its parse should produce.
type Expectation struct {
	Traces []string // one per statement, in order
	Errors []string // diagnostic code names, in order
}

var expectRegex = regexp2.MustCompile(`^##\s*(expect(?:_error)?):\s*(.*?)[ \t]*$`, regexp2.Multiline)

// parseExpectation collects the expectation comments of a script:
//
//	## expect: <statement trace>
//	## expect_error: <diagnostic name>
func parseExpectation(scriptContent string) (*Expectation, error) {
	exp := &Expectation{}
	m, err := expectRegex.FindStringMatch(scriptContent)
	for ; m != nil && err == nil; m, err = expectRegex.FindNextMatch(m) {
		value := m.GroupByNumber(2).String()
		switch m.GroupByNumber(1).String() {
		case "expect":
			exp.Traces = append(exp.Traces, value)
		case "expect_error":
			exp.Errors = append(exp.Errors, value)
		}
	}
	return exp, err
}

func TestScripts(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	files, err := os.ReadDir(scriptDir)
	require.NoError(t, err)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".x6") {
			continue
		}
		scriptPath := filepath.Join(scriptDir, file.Name())
		t.Run(file.Name(), func(t *testing.T) {
			sf, err := source.Load(scriptPath)
			require.NoError(t, err)

			expectation, err := parseExpectation(sf.Content)
			require.NoError(t, err)
			if len(expectation.Traces)+len(expectation.Errors) == 0 {
				t.Skipf("no expectation comments in %s", scriptPath)
			}

			stmts, errs := ParseFile(sf.Reader())

			traces := make([]string, len(stmts))
			for i, stmt := range stmts {
				traces[i] = stmt.String()
			}
			codes := make([]string, len(errs))
			for i, e := range errs {
				codes[i] = e.Code.String()
			}
			if scriptsDebug {
				t.Logf("%s: traces=%q errors=%q", file.Name(), traces, codes)
			}

			assert.Equal(t, expectation.Traces, nilIfEmpty(traces), "statement traces")
			assert.Equal(t, expectation.Errors, nilIfEmpty(codes), "diagnostics")
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestParseExpectation(t *testing.T) {
	exp, err := parseExpectation("## expect: a * b\nx\n##expect_error: noLeftOperand  \n## not an expectation\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a * b"}, exp.Traces)
	assert.Equal(t, []string{"noLeftOperand"}, exp.Errors)
}

func TestDisplayResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		ok := RunString(&buf, "a b\n?? c", Options{})
		assert.True(t, ok)
		assert.Equal(t, "Parsed 2 statement(s):\na * b\n?? c\n", buf.String())
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		ok := RunString(&buf, "1 +", Options{})
		assert.False(t, ok)
		assert.Equal(t, "Parsing failed with 1 error(s):\n\n"+
			"1 +\n"+
			"  ~^\n"+
			"Syntax Error at 1:4: Right operand missing\n\n", buf.String())
	})
}

func TestSessionReuse(t *testing.T) {
	session := NewSession(Options{})
	var buf bytes.Buffer
	assert.True(t, session.Run(&buf, source.NewReplSource("x <- 1")))
	assert.False(t, session.Run(&buf, source.NewReplSource("(")))
	assert.True(t, session.Run(&buf, source.NewReplSource("y")))
	assert.True(t, strings.HasSuffix(buf.String(), "Parsed 1 statement(s):\ny\n"))
}

func TestRunStdin(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, RunStdin(&buf, strings.NewReader("\xef\xbb\xbf?? a b\n"), Options{}))
	assert.Equal(t, "Parsed 1 statement(s):\n?? a * b\n", buf.String())

	buf.Reset()
	assert.False(t, RunStdin(&buf, strings.NewReader("a $"), Options{}))
	assert.Contains(t, buf.String(), "Unknown operator")
}

func TestDumpTokens(t *testing.T) {
	stream := strings.NewReader("a <- 1")
	var buf bytes.Buffer
	DumpTokens(&buf, stream)

	assert.Equal(t, ""+
		"0 Identifier a @ bytes 0 -- 1 (\"a\")\n"+
		"1 Operator <- @ bytes 2 -- 4 (\"<-\")\n"+
		"2 Integer literal 1 @ bytes 5 -- 6 (\"1\")\n"+
		"3 End of file\n", buf.String())

	// The listing must not disturb a later parse of the same stream.
	stmts, errs := ParseFile(stream)
	assert.Empty(t, errs)
	require.Len(t, stmts, 1)
	assert.Equal(t, "a <- 1", stmts[0].String())
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.x6")
	require.NoError(t, os.WriteFile(path, []byte("@ n > 0\n"), 0o644))

	var buf bytes.Buffer
	assert.True(t, RunFile(&buf, path, Options{DumpTokens: true}))
	assert.Contains(t, buf.String(), "0 Operator @ @ bytes 0 -- 1")
	assert.Contains(t, buf.String(), "Parsed 1 statement(s):\n@ n > 0\n")

	assert.False(t, RunFile(&buf, filepath.Join(dir, "nope.x6"), Options{}))
}

func TestSuggestFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fibonacci.x6", "hello.x6", "sort.x6"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, ok := SuggestFile(dir, filepath.Join(dir, "fib"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "fibonacci.x6"), got)

	got, ok = SuggestFile(dir, "helo.x6")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "hello.x6"), got)

	_, ok = SuggestFile(dir, "completely-unrelated-name.txt")
	assert.False(t, ok)

	_, ok = SuggestFile(filepath.Join(dir, "missing"), "x")
	assert.False(t, ok)
}
