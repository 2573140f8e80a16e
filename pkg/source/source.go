package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile represents a source file with its content and metadata
type SourceFile struct {
	Name    string // Display name (e.g., "script.x6", "<stdin>", "<eval>")
	Path    string // Full file path (empty for REPL/eval)
	Content string // The source code content, always UTF-8
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for -e input
func NewEvalSource(content string) *SourceFile {
	return &SourceFile{Name: "<eval>", Content: content}
}

// NewReplSource creates a source file for REPL input
func NewReplSource(content string) *SourceFile {
	return &SourceFile{Name: "<repl>", Content: content}
}

// NewStdinSource creates a source file for stdin input
func NewStdinSource(content string) *SourceFile {
	return &SourceFile{Name: "<stdin>", Content: content}
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Load reads a file from disk. A UTF-8 or UTF-16 byte order mark is honoured
// and stripped, so the lexer always sees plain UTF-8 bytes.
func Load(filePath string) (*SourceFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return FromFile(filePath, content), nil
}

// Decode reads r to the end, converting BOM-marked UTF-16 to UTF-8 and
// dropping a UTF-8 BOM. Input without a BOM passes through byte for byte,
// invalid UTF-8 included.
func Decode(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(transform.Nop)
	b, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Reader returns a fresh seekable stream over the content. Each call gets its
// own cursor.
func (sf *SourceFile) Reader() *bytes.Reader {
	return bytes.NewReader([]byte(sf.Content))
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
