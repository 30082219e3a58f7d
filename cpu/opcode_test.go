package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcode_Shape(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     Opcode
		name   string
		length int
		flow   Flow
	}){
		{OP_LDI, "LDI", 3, FLOW_ADVANCE},
		{OP_PRN, "PRN", 2, FLOW_ADVANCE},
		{OP_HLT, "HLT", 1, FLOW_ADVANCE},
		{OP_ADD, "ADD", 3, FLOW_ADVANCE},
		{OP_MUL, "MUL", 3, FLOW_ADVANCE},
		{OP_AND, "AND", 3, FLOW_ADVANCE},
		{OP_OR, "OR", 3, FLOW_ADVANCE},
		{OP_XOR, "XOR", 3, FLOW_ADVANCE},
		{OP_PUSH, "PUSH", 2, FLOW_ADVANCE},
		{OP_POP, "POP", 2, FLOW_ADVANCE},
		{OP_CALL, "CALL", 2, FLOW_SETS_PC},
		{OP_RET, "RET", 1, FLOW_SETS_PC},
		{OP_CMP, "CMP", 3, FLOW_ADVANCE},
		{OP_JMP, "JMP", 2, FLOW_SETS_PC},
		{OP_JEQ, "JEQ", 2, FLOW_SETS_PC},
		{OP_JNE, "JNE", 2, FLOW_SETS_PC},
	}

	for _, entry := range table {
		assert.Equal(entry.name, entry.op.String())
		assert.Equal(entry.length, entry.op.Length(), entry.name)
		assert.Equal(entry.flow, entry.op.Flow(), entry.name)

		ins, ok := Decode(entry.op)
		assert.True(ok, entry.name)
		assert.Equal(entry.flow, ins.Flow, entry.name)
		assert.Equal(entry.op.Operands(), len(ins.Args), entry.name)
		assert.NotNil(ins.Handler, entry.name)

		named, ok := Lookup(entry.name)
		assert.True(ok, entry.name)
		assert.Same(ins, named, entry.name)
	}

	assert.Equal(len(table), len(dispatch))
}

func TestOpcode_Unknown(t *testing.T) {
	assert := assert.New(t)

	op := Opcode(0b11000000)
	_, ok := Decode(op)
	assert.False(ok)
	assert.Equal("0xc0", op.String())
	assert.Equal(4, op.Length())

	_, ok = Lookup("NOP")
	assert.False(ok)

	ins, ok := Lookup("ldi")
	assert.True(ok)
	assert.Equal(OP_LDI, ins.Opcode)
}

func TestOpcode_Defines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range Opcodes() {
		defines[key] = value
	}

	assert.Equal(len(dispatch), len(defines))
	assert.Equal("0x82", defines["OP_LDI"])
	assert.Equal("0x01", defines["OP_HLT"])
}
