package cpu

// Push decrements the stack pointer, then stores value at the new top of
// stack.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := cpu.Register[REG_SP] - 1
	cpu.Register[REG_SP] = sp

	err = cpu.RamWrite(uint16(sp), value)
	return
}

// Pop reads the value at the top of stack, then increments the stack pointer.
func (cpu *Cpu) Pop() (value byte, err error) {
	sp := cpu.Register[REG_SP]

	value, err = cpu.RamRead(uint16(sp))
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp + 1
	return
}

// Peek returns the value at the top of stack without moving the stack pointer.
func (cpu *Cpu) Peek() (value byte, ok bool) {
	sp := cpu.Register[REG_SP]
	if sp >= STACK_TOP {
		return
	}

	return cpu.Ram[sp], true
}
