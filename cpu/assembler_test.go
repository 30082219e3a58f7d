package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, asm *Assembler, program []string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal("0xf4", asm.Equate["STACK_TOP"])
	assert.Equal("r7", asm.Equate["SP"])
}

func TestAssemblerMultiply(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; mult.asm",
		"        LDI R0,8",
		"        LDI R1, 9",
		"        MUL R0, R1   ; R0 = 72",
		"        prn r0",
		"        HLT",
	}

	prog := assemble(t, asm, program)

	assert.Equal([]byte{
		0x82, 0, 8,
		0x82, 1, 9,
		0xa2, 0, 1,
		0x47, 0,
		0x01,
	}, prog.Binary())

	assert.Equal(5, len(prog.Lines))
	assert.Equal(2, prog.Lines[0].LineNo)
	assert.Equal(9, prog.Lines[3].Addr)
	assert.Equal([]string{"MUL", "R0", "R1"}, prog.Lines[2].Words)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"        LDI R2, END",
		"        JMP R2",
		"        HLT",
		"END:",
		"        PRN R0",
		"AGAIN:  LDI R3, AGAIN",
		"        HLT",
	}

	prog := assemble(t, asm, program)

	assert.Equal(6, asm.Label["END"])
	assert.Equal(8, asm.Label["AGAIN"])
	assert.Equal([]byte{
		0x82, 2, 6,
		0x54, 2,
		0x01,
		0x47, 0,
		0x82, 3, 8,
		0x01,
	}, prog.Binary())
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SEVEN", "7")

	program := []string{
		".equ COUNT 3",
		".equ COUNTER r2",
		"        LDI COUNTER, $(COUNT * 4)",
		"        LDI R0, SEVEN",
		"        LDI SP, $(STACK_TOP - 4)",
		"        LDI R1, $(LINENO)",
		"DATA:   DB 'A', 0x10, -1, ~0x0f",
		"        LDI R4, $(DATA + 1)",
	}

	prog := assemble(t, asm, program)

	assert.Equal([]byte{
		0x82, 2, 12,
		0x82, 0, 7,
		0x82, 7, 0xf0,
		0x82, 1, 6,
		'A', 0x10, 0xff, 0xf0,
		0x82, 4, 13,
	}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source []string
		err    error
		lineno int
	}){
		{"opcode", []string{"HLT", "FOO R0"}, ErrOpcodeInvalid, 2},
		{"register", []string{"LDI R8, 1"}, ErrRegisterInvalid, 1},
		{"register_imm", []string{"PRN 3"}, ErrRegisterInvalid, 1},
		{"missing", []string{"LDI R0"}, ErrOpcodeValueMissing, 1},
		{"extra", []string{"LDI R0, 1, 2"}, ErrOpcodeExtraArgs, 1},
		{"range", []string{"LDI R0, 300"}, ErrValueRange, 1},
		{"expr_range", []string{"LDI R0, $(16 * 16)"}, ErrValueRange, 1},
		{"db_empty", []string{"DB"}, ErrOpcodeValueMissing, 1},
		{"label", []string{"A:", "A: HLT"}, ErrLabelDuplicate, 2},
		{"equ", []string{".equ X 1", ".equ X 2"}, ErrEquateDuplicate, 2},
		{"equ_syntax", []string{".equ X"}, ErrEquateSyntax, 1},
		{"link", []string{"HLT", "LDI R0, NOWHERE", "HLT"}, ErrLabelMissing("NOWHERE"), 2},
		{"size", []string{"DB " + strings.Repeat("0 ", MEMORY_SIZE+1)}, ErrProgramSize, 1},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.source, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpressionInvalid(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader(`LDI R0, $("text")`))
	assert.ErrorIs(err, ErrParseExpression(`"text"`))
}

func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"        LDI R0, 8",
		"        PRN R0",
		"        HLT",
	}
	prog := assemble(t, asm, program)

	cpu, tape := newTestCpu(t, prog.Binary()...)
	assert.NoError(cpu.Run())
	assert.Equal([]byte{8}, printed(tape))
}

func TestAssemblerCharacterComments(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"        LDI R0, '#'   # hash",
		"        LDI R1, ';'   ; semicolon",
		"        DB ',', '\\n' ; comma, newline",
	}

	prog := assemble(t, asm, program)

	assert.Equal([]byte{
		0x82, 0, '#',
		0x82, 1, ';',
		',', '\n',
	}, prog.Binary())
	assert.Equal([]string{"LDI", "R0", "35"}, prog.Lines[0].Words)
}
