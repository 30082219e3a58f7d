// Package cpu implements the processor, program loader and assembler for the
// LS-8 system.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (r0-r7, with r7 holding the stack pointer), a flags register (FL)
// written only by CMP, and 256 bytes of memory shared by program text and a
// downward growing stack.
//
// Each opcode byte describes its own shape: the top two bits hold the operand
// count, and bit 4 marks instructions that set the PC themselves.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, data bytes and compile-time expression
// evaluation.
package cpu
