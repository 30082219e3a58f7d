package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Load parses .ls8 program text. Each line is blank, a '#' comment, or an 8
// digit binary literal, optionally followed by a comment. Literals are placed
// at sequential addresses from zero.
//
// The whole text is parsed before anything is returned, so a failed load
// never yields a partial image.
func Load(in io.Reader) (prog *Program, err error) {
	prog = &Program{}

	scanner := bufio.NewScanner(in)
	var addr int
	var lineno int
	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		word, _, _ := strings.Cut(text, "#")
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}

		var value uint64
		value, err = parseBinary(word)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
			prog = nil
			return
		}

		if addr >= MEMORY_SIZE {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: ErrProgramSize}
			prog = nil
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Addr:   addr,
			Words:  []string{word},
			Codes:  []byte{byte(value)},
		})
		addr++
	}

	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}

func parseBinary(word string) (value uint64, err error) {
	if len(word) != 8 {
		err = ErrBinaryInvalid
		return
	}

	value, err = strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrBinaryInvalid
	}
	return
}
