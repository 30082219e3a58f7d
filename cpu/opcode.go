package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

// Opcode is an instruction byte.
type Opcode byte

const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_RET  = Opcode(0b00010001) // RET
	OP_PUSH = Opcode(0b01000101) // PUSH
	OP_POP  = Opcode(0b01000110) // POP
	OP_PRN  = Opcode(0b01000111) // PRN
	OP_CALL = Opcode(0b01010000) // CALL
	OP_JMP  = Opcode(0b01010100) // JMP
	OP_JEQ  = Opcode(0b01010101) // JEQ
	OP_JNE  = Opcode(0b01010110) // JNE
	OP_LDI  = Opcode(0b10000010) // LDI
	OP_ADD  = Opcode(0b10100000) // ADD
	OP_MUL  = Opcode(0b10100010) // MUL
	OP_CMP  = Opcode(0b10100111) // CMP
	OP_AND  = Opcode(0b10101000) // AND
	OP_OR   = Opcode(0b10101010) // OR
	OP_XOR  = Opcode(0b10101011) // XOR
)

const (
	OPCODE_OPERANDS_SHIFT = 6           // Operand count lives in the top two bits.
	OPCODE_SETS_PC        = 0b0001_0000 // Instruction writes the PC itself.
)

// Flow describes who moves the PC after an instruction executes.
type Flow int

const (
	FLOW_ADVANCE = Flow(0) // Execution loop advances the PC by the instruction length.
	FLOW_SETS_PC = Flow(1) // Handler has already set the PC.
)

// Arg is the kind of an instruction operand byte.
type Arg int

const (
	ARG_REG = Arg(0) // Register index.
	ARG_IMM = Arg(1) // Immediate value.
)

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// Length returns the total instruction length in bytes.
func (op Opcode) Length() int {
	return op.Operands() + 1
}

// Flow returns the PC advance policy encoded in the opcode.
func (op Opcode) Flow() Flow {
	if op&OPCODE_SETS_PC != 0 {
		return FLOW_SETS_PC
	}
	return FLOW_ADVANCE
}

// String returns the mnemonic, or the hex value for unknown opcodes.
func (op Opcode) String() string {
	ins, ok := dispatch[op]
	if !ok {
		return fmt.Sprintf("0x%02x", byte(op))
	}
	return ins.Mnemonic
}

// Handler executes one instruction given its two operand bytes.
type Handler func(cpu *Cpu, operand_a byte, operand_b byte) error

// Instruction is a dispatch table entry.
type Instruction struct {
	Opcode   Opcode
	Mnemonic string
	Args     []Arg
	Flow     Flow
	Handler  Handler
}

var (
	dispatch   map[Opcode]*Instruction
	byMnemonic map[string]*Instruction
)

func init() {
	dispatch, byMnemonic = newDispatch()
}

// newDispatch builds the opcode table. The PC advance policy of each
// instruction is fixed here, not recomputed per cycle.
func newDispatch() (table map[Opcode]*Instruction, names map[string]*Instruction) {
	rr := []Arg{ARG_REG, ARG_REG}
	entries := []struct {
		op      Opcode
		args    []Arg
		handler Handler
	}{
		{OP_LDI, []Arg{ARG_REG, ARG_IMM}, opLdi},
		{OP_PRN, []Arg{ARG_REG}, opPrn},
		{OP_HLT, nil, opHlt},
		{OP_ADD, rr, aluHandler(ALU_OP_ADD)},
		{OP_MUL, rr, aluHandler(ALU_OP_MUL)},
		{OP_AND, rr, aluHandler(ALU_OP_AND)},
		{OP_OR, rr, aluHandler(ALU_OP_OR)},
		{OP_XOR, rr, aluHandler(ALU_OP_XOR)},
		{OP_CMP, rr, aluHandler(ALU_OP_CMP)},
		{OP_PUSH, []Arg{ARG_REG}, opPush},
		{OP_POP, []Arg{ARG_REG}, opPop},
		{OP_CALL, []Arg{ARG_REG}, opCall},
		{OP_RET, nil, opRet},
		{OP_JMP, []Arg{ARG_REG}, opJmp},
		{OP_JEQ, []Arg{ARG_REG}, opJeq},
		{OP_JNE, []Arg{ARG_REG}, opJne},
	}

	table = make(map[Opcode]*Instruction, len(entries))
	names = make(map[string]*Instruction, len(entries))
	for _, entry := range entries {
		ins := &Instruction{
			Opcode:   entry.op,
			Mnemonic: mnemonicOf(entry.op),
			Args:     entry.args,
			Flow:     entry.op.Flow(),
			Handler:  entry.handler,
		}
		table[entry.op] = ins
		names[ins.Mnemonic] = ins
	}

	return
}

var _mnemonics = map[Opcode]string{
	OP_HLT: "HLT", OP_RET: "RET", OP_PUSH: "PUSH", OP_POP: "POP",
	OP_PRN: "PRN", OP_CALL: "CALL", OP_JMP: "JMP", OP_JEQ: "JEQ",
	OP_JNE: "JNE", OP_LDI: "LDI", OP_ADD: "ADD", OP_MUL: "MUL",
	OP_CMP: "CMP", OP_AND: "AND", OP_OR: "OR", OP_XOR: "XOR",
}

func mnemonicOf(op Opcode) string {
	return _mnemonics[op]
}

// Decode returns the dispatch table entry for an opcode.
func Decode(op Opcode) (ins *Instruction, ok bool) {
	ins, ok = dispatch[op]
	return
}

// Lookup returns the dispatch table entry for a mnemonic, in any case.
func Lookup(mnemonic string) (ins *Instruction, ok bool) {
	ins, ok = byMnemonic[strings.ToUpper(mnemonic)]
	return
}

// Opcodes returns the supported opcodes as assembler defines, ie OP_LDI.
func Opcodes() iter.Seq2[string, string] {
	defines := make(map[string]string, len(_mnemonics))
	for op, name := range _mnemonics {
		defines["OP_"+name] = fmt.Sprintf("%#02x", byte(op))
	}
	return maps.All(defines)
}
