package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Line is a single source line, and the bytes it occupies in memory.
type Line struct {
	LineNo int      // Source line number.
	Addr   int      // Memory address of the first code byte.
	Words  []string // Source words.
	Codes  []byte   // Emitted bytes.
}

// Program is a memory image with its source listing.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the source line covering a memory address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if int(addr) >= line.Addr && int(addr) < line.Addr+len(line.Codes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr) - line.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the memory image, starting at address zero.
func (prog *Program) Binary() (bins []byte) {
	for addr, code := range prog.Codes() {
		for len(bins) < int(addr) {
			bins = append(bins, 0)
		}
		bins = append(bins, code)
	}

	return
}

// Codes iterates over every emitted byte with its address.
func (prog *Program) Codes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, code byte) bool) {
		for _, line := range prog.Lines {
			addr := uint16(line.Addr)
			for n, code := range line.Codes {
				if !yield(addr+uint16(n), code) {
					return
				}
			}
		}
	}
}

// WriteTo writes the program as .ls8 text: one 8 bit binary literal per line,
// with the source of each line as a trailing comment.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	out := bufio.NewWriter(w)
	for _, line := range prog.Lines {
		for index, code := range line.Codes {
			var text string
			if index == 0 && len(line.Words) != 0 {
				text = fmt.Sprintf("%08b # %v\n", code, strings.Join(line.Words, " "))
			} else {
				text = fmt.Sprintf("%08b\n", code)
			}
			var count int
			count, err = out.WriteString(text)
			n += int64(count)
			if err != nil {
				return
			}
		}
	}

	err = out.Flush()
	return
}
