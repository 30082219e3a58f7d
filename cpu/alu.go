package cpu

import (
	"log"
)

// AluOp is an ALU operation type.
type AluOp int

//go:generate go tool stringer -linecomment -type=AluOp
const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(1) // mul
	ALU_OP_AND = AluOp(2) // and
	ALU_OP_OR  = AluOp(3) // or
	ALU_OP_XOR = AluOp(4) // xor
	ALU_OP_CMP = AluOp(5) // cmp
)

// Alu performs op on registers reg_a and reg_b.
//
// Arithmetic and logic results are written back to reg_a, modulo 256.
// ALU_OP_CMP only updates the flags register.
func (cpu *Cpu) Alu(op AluOp, reg_a byte, reg_b byte) (err error) {
	a, err := cpu.GetRegister(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.GetRegister(reg_b)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: alu %v r%d(%#02x) r%d(%#02x)", op, reg_a, a, reg_b, b)
	}

	var output byte
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_MUL:
		output = a * b
	case ALU_OP_AND:
		output = a & b
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_XOR:
		output = a ^ b
	case ALU_OP_CMP:
		cpu.Fl = compare(a, b)
		return
	default:
		err = ErrAluUnsupported
		return
	}

	cpu.Register[reg_a] = output
	return
}

func compare(a byte, b byte) byte {
	switch {
	case a == b:
		return FL_EQUAL
	case a < b:
		return FL_LESS
	default:
		return FL_GREATER
	}
}
