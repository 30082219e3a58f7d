// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"STACK_TOP": fmt.Sprintf("%#02x", STACK_TOP),
	"SP":        fmt.Sprintf("r%d", REG_SP),
}

// Assembler is a single pass assembler for the LS-8 system.
//
// Labels may be referenced before they are defined as instruction
// operands; they are linked once the whole source has been read.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to memory addresses.
	Equate    map[string]string // Map of equates.

	links []link // Operands awaiting a label address.
}

// link is an operand byte to be patched with a label address.
type link struct {
	line  int // Index into Lines.
	code  int // Index into Codes.
	label string
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap maps register names to register indexes.
var regMap = map[string]byte{
	"r0": 0, "r1": 1, "r2": 2, "r3": 3,
	"r4": 4, "r5": 5, "r6": 6, "r7": 7,
}

var reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var reChar = regexp.MustCompile(`^'\\?[^']'`)

// stripComment removes a ';' or '#' comment, ignoring markers inside
// character literals.
func stripComment(text string) string {
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\'':
			quoted := reChar.FindString(text[n:])
			if len(quoted) != 0 {
				n += len(quoted) - 1
			}
		case ';', '#':
			return text[:n]
		}
	}

	return text
}

// valueOf returns the byte value of a simple word.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xff || v64 < -0x80 {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	if invert {
		value = ^value
	}

	return
}

// register returns the register index named by word.
func (asm *Assembler) register(word string) (reg byte, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value byte, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0xff || st_int64 < -0x80 {
		err = ErrValueRange
		return
	}
	value = byte(st_int64)
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// currentAddr gets the address of the next emitted byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Codes)
}

// immediate encodes an immediate operand, deferring unknown labels to
// link time.
func (asm *Assembler) immediate(word string) (value byte, label string, err error) {
	addr, ok := asm.Label[word]
	if ok {
		if addr > 0xff {
			err = ErrValueRange
			return
		}
		value = byte(addr)
		return
	}

	value, err = asm.valueOf(word)
	if err != nil && reLabel.MatchString(word) {
		label = word
		err = nil
	}

	return
}

// parseWords emits the bytes of a single expanded line.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	line := Line{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Words:  slices.Clone(words),
	}

	var labels []string

	if strings.EqualFold(words[0], "DB") {
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value byte
			var label string
			value, label, err = asm.immediate(word)
			if err != nil {
				return
			}
			line.Codes = append(line.Codes, value)
			labels = append(labels, label)
		}
	} else {
		ins, ok := Lookup(words[0])
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		args := words[1:]
		if len(args) < len(ins.Args) {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > len(ins.Args) {
			err = ErrOpcodeExtraArgs
			return
		}

		line.Codes = append(line.Codes, byte(ins.Opcode))
		labels = append(labels, "")
		for n, kind := range ins.Args {
			var value byte
			var label string
			switch kind {
			case ARG_REG:
				value, err = asm.register(args[n])
			case ARG_IMM:
				value, label, err = asm.immediate(args[n])
			}
			if err != nil {
				return
			}
			line.Codes = append(line.Codes, value)
			labels = append(labels, label)
		}
	}

	if line.Addr+len(line.Codes) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	for n, label := range labels {
		if len(label) != 0 {
			asm.links = append(asm.links, link{line: len(asm.Lines), code: n, label: label})
		}
	}

	if asm.Verbose {
		log.Printf("asm: %02x: % x", line.Addr, line.Codes)
	}

	asm.Lines = append(asm.Lines, line)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.links = asm.links[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, ln := range asm.links {
		target := &asm.Lines[ln.line]
		lineno = target.LineNo
		line = strings.Join(target.Words, " ")

		addr, ok := asm.Label[ln.label]
		if !ok {
			err = ErrLabelMissing(ln.label)
			return
		}
		if addr > 0xff {
			err = ErrValueRange
			return
		}
		target.Codes[ln.code] = byte(addr)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
