package errors

import (
	"fmt"
	"io"
	"strings"
)

// Render reconstructs the source lines an error spans from stream, draws an
// underline beneath them, and appends the message. The stream offset is
// restored before returning, so rendering can happen while a lexer still owns
// the stream.
func Render(e *SyntaxError, stream io.ReadSeeker) string {
	var out strings.Builder

	saved, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		fmt.Fprintf(&out, "%s\n", e.Error())
		return out.String()
	}
	defer stream.Seek(saved, io.SeekStart)

	snippet, err := readLines(stream, e.Position)
	if err != nil {
		fmt.Fprintf(&out, "%s\n", e.Error())
		return out.String()
	}
	for _, line := range snippet {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString(underline(e.Position))
	out.WriteByte('\n')
	fmt.Fprintf(&out, "%s Error at %d:%d: %s\n", e.Kind(), e.Line+1, e.CaretColumn()+1, e.Message())
	return out.String()
}

// underline draws the marker line. A positive span draws a caret and trails
// tildes up to the last consumed byte; a zero or reversed span leads up to a
// caret at the cursor.
func underline(pos Position) string {
	span := pos.Span()
	length := span
	if length < 0 {
		length = -length
	}
	length = min(length, pos.Column)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", pos.Column-length))
	if span <= 0 {
		b.WriteString(strings.Repeat("~", length))
		b.WriteByte('^')
	} else {
		b.WriteByte('^')
		if length > 0 {
			b.WriteString(strings.Repeat("~", length-1))
		}
	}
	return b.String()
}

// readLines returns every physical line from the one holding the start of the
// span through the one holding the last consumed byte.
func readLines(stream io.ReadSeeker, pos Position) ([]string, error) {
	size, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	lo := clamp(int64(min(pos.Start, pos.Offset)), size)
	last := clamp(int64(pos.Offset-1), size)
	if last < lo {
		last = lo
	}

	var one [1]byte
	byteAt := func(off int64) (byte, error) {
		if _, err := stream.Seek(off, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(stream, one[:]); err != nil {
			return 0, err
		}
		return one[0], nil
	}

	start := lo
	for start > 0 {
		c, err := byteAt(start - 1)
		if err != nil {
			return nil, err
		}
		if c == '\n' {
			break
		}
		start--
	}

	end := last
	for end < size {
		c, err := byteAt(end)
		if err != nil {
			return nil, err
		}
		if c == '\n' {
			break
		}
		end++
	}

	if _, err := stream.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, end-start)
	if _, err := io.ReadFull(stream, buf); err != nil {
		return nil, err
	}
	return strings.Split(string(buf), "\n"), nil
}

func clamp(off, size int64) int64 {
	if off < 0 {
		return 0
	}
	if off > size {
		return size
	}
	return off
}
