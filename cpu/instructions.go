package cpu

func opLdi(cpu *Cpu, reg byte, value byte) error {
	return cpu.SetRegister(reg, value)
}

func opPrn(cpu *Cpu, reg byte, _ byte) (err error) {
	value, err := cpu.GetRegister(reg)
	if err != nil {
		return
	}

	if cpu.Output != nil {
		err = cpu.Output.Send(value)
	}
	return
}

func opHlt(cpu *Cpu, _ byte, _ byte) error {
	cpu.Running = false
	return nil
}

func aluHandler(op AluOp) Handler {
	return func(cpu *Cpu, reg_a byte, reg_b byte) error {
		return cpu.Alu(op, reg_a, reg_b)
	}
}

// opPush decrements the stack pointer before reading reg, so PUSH r7
// stores the decremented stack pointer.
func opPush(cpu *Cpu, reg byte, _ byte) (err error) {
	if int(reg) >= REGISTER_COUNT {
		return ErrRegisterRange
	}

	sp := cpu.Register[REG_SP] - 1
	cpu.Register[REG_SP] = sp

	return cpu.RamWrite(uint16(sp), cpu.Register[reg])
}

// opPop writes reg before incrementing the stack pointer, so POP r7
// leaves the popped value plus one.
func opPop(cpu *Cpu, reg byte, _ byte) (err error) {
	if int(reg) >= REGISTER_COUNT {
		return ErrRegisterRange
	}

	value, err := cpu.RamRead(uint16(cpu.Register[REG_SP]))
	if err != nil {
		return
	}

	cpu.Register[reg] = value
	cpu.Register[REG_SP]++
	return
}

// opCall pushes the address of the following instruction, then jumps.
func opCall(cpu *Cpu, reg byte, _ byte) (err error) {
	if int(reg) >= REGISTER_COUNT {
		return ErrRegisterRange
	}

	next_pc := cpu.Pc + uint16(OP_CALL.Length())
	if next_pc >= MEMORY_SIZE {
		return ErrAddressRange
	}

	err = cpu.Push(byte(next_pc))
	if err != nil {
		return
	}

	cpu.Pc = uint16(cpu.Register[reg])
	return
}

func opRet(cpu *Cpu, _ byte, _ byte) (err error) {
	value, err := cpu.Pop()
	if err != nil {
		return
	}

	cpu.Pc = uint16(value)
	return
}

// opJmp always sets the PC; it is never advanced past.
func opJmp(cpu *Cpu, reg byte, _ byte) (err error) {
	target, err := cpu.GetRegister(reg)
	if err != nil {
		return
	}

	cpu.Pc = uint16(target)
	return
}

func opJeq(cpu *Cpu, reg byte, _ byte) error {
	return cpu.jumpIf(OP_JEQ, reg, cpu.Fl&FL_EQUAL != 0)
}

func opJne(cpu *Cpu, reg byte, _ byte) error {
	return cpu.jumpIf(OP_JNE, reg, cpu.Fl&FL_EQUAL == 0)
}

// jumpIf moves the PC to the target in reg when taken, otherwise past the
// conditional jump instruction op.
func (cpu *Cpu) jumpIf(op Opcode, reg byte, taken bool) (err error) {
	target, err := cpu.GetRegister(reg)
	if err != nil {
		return
	}

	if taken {
		cpu.Pc = uint16(target)
	} else {
		cpu.Pc += uint16(op.Length())
	}
	return
}
