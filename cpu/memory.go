package cpu

const (
	MEMORY_SIZE    = 256  // Bytes of addressable memory.
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register holding the stack pointer.
	STACK_TOP      = 0xf4 // Stack pointer value of an empty stack.
)

// Flags register bits, as set by CMP. Pattern is 00000LGE.
const (
	FL_EQUAL   = byte(0b001)
	FL_GREATER = byte(0b010)
	FL_LESS    = byte(0b100)
)

// RamRead returns the byte stored at address.
func (cpu *Cpu) RamRead(address uint16) (value byte, err error) {
	if int(address) >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	value = cpu.Ram[address]
	return
}

// RamWrite stores value at address.
func (cpu *Cpu) RamWrite(address uint16, value byte) (err error) {
	if int(address) >= len(cpu.Ram) {
		err = ErrAddressRange
		return
	}

	cpu.Ram[address] = value
	return
}

// GetRegister returns the value of register index.
func (cpu *Cpu) GetRegister(index byte) (value byte, err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterRange
		return
	}

	value = cpu.Register[index]
	return
}

// SetRegister sets register index to value.
func (cpu *Cpu) SetRegister(index byte, value byte) (err error) {
	if int(index) >= len(cpu.Register) {
		err = ErrRegisterRange
		return
	}

	cpu.Register[index] = value
	return
}

// peek reads memory for diagnostics, with out of range addresses reading as zero.
func (cpu *Cpu) peek(address uint16) byte {
	value, err := cpu.RamRead(address)
	if err != nil {
		return 0
	}
	return value
}
