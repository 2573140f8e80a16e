package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"plain", []byte("a <- 1\n"), "a <- 1\n"},
		{"utf8 bom", []byte("\xef\xbb\xbfa <- 1"), "a <- 1"},
		{"utf16le bom", []byte{0xff, 0xfe, 'a', 0, ' ', 0, '+', 0, ' ', 0, '1', 0}, "a + 1"},
		{"utf16be bom", []byte{0xfe, 0xff, 0, 'x', 0, '\n', 0, 'y'}, "x\ny"},
		{"empty", nil, ""},
		{"invalid utf8 kept", []byte("a \xff b\n\"caf\xe9\""), "a \xff b\n\"caf\xe9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(string(tt.input)))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.x6")
	require.NoError(t, os.WriteFile(path, []byte("\xef\xbb\xbf?? x\n"), 0o644))

	sf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prog.x6", sf.Name)
	assert.Equal(t, path, sf.DisplayPath())
	assert.True(t, sf.IsFile())
	assert.Equal(t, "?? x\n", sf.Content)

	raw := []byte("a \xff b\n\"caf\xe9\"\n")
	rawPath := filepath.Join(dir, "latin1.x6")
	require.NoError(t, os.WriteFile(rawPath, raw, 0o644))
	sf, err = Load(rawPath)
	require.NoError(t, err)
	assert.Equal(t, string(raw), sf.Content, "bytes without a BOM must not be rewritten")

	_, err = Load(filepath.Join(dir, "missing.x6"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderIsIndependent(t *testing.T) {
	sf := NewEvalSource("abc")
	r1 := sf.Reader()
	b, err := r1.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	r2 := sf.Reader()
	b, err = r2.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	assert.False(t, sf.IsFile())
	assert.Equal(t, "<eval>", sf.DisplayPath())
	assert.Equal(t, "<repl>", NewReplSource("").Name)
}
