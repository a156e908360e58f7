package cpu

import (
	"io"
	"iter"
	"strings"
)

// Line is a single assembled line of source.
type Line struct {
	LineNo    int      // Source line number.
	Addr      int      // Address of the first byte.
	Words     []string // Source words, after equate expansion.
	Bytes     []byte   // Assembled bytes.
	LinkLabel string   // Label patched into the last byte, if any.
}

type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the source line that assembled the byte at addr.
// The embedded Line is nil if no line covers addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

func (prog *Program) Binary() (image []byte) {
	for _, value := range prog.Bytes() {
		image = append(image, value)
	}

	return
}

func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}

// WriteImage writes the program in image format, with each line's source
// as a comment on its first byte.
func (prog *Program) WriteImage(w io.Writer) (err error) {
	comment := func(addr int) string {
		dbg := prog.Debug(addr)
		if dbg.Line == nil || dbg.Index != 0 {
			return ""
		}
		return strings.Join(dbg.Words, " ")
	}

	err = WriteImage(w, prog.Binary(), comment)
	return
}
