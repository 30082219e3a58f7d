package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/ls8/io"
)

// Channel is an output channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"STACK_TOP":   fmt.Sprintf("%#02x", STACK_TOP),
	"SP":          fmt.Sprintf("r%d", REG_SP),
	"FL_EQUAL":    fmt.Sprintf("%#v", FL_EQUAL),
	"FL_GREATER":  fmt.Sprintf("%#v", FL_GREATER),
	"FL_LESS":     fmt.Sprintf("%#v", FL_LESS),
}

// Cpu is the simulation context of the LS-8 processor.
type Cpu struct {
	Verbose bool    // Set to enable verbose logging.
	Output  Channel // Destination of PRN values.

	Pc       uint16               // Current program counter.
	Fl       byte                 // Flags register, 00000LGE.
	Register [REGISTER_COUNT]byte // Register bank, REG_SP is the stack pointer.
	Ram      [MEMORY_SIZE]byte    // Program text and stack.
	Running  bool                 // Cleared by HLT.

	Ticks   int // Executed instruction counter.
	Invalid int // Unknown opcode counter.
}

// NewCpu creates a new CPU, ready to run from address zero.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"stack",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "fl":
			strval = fmt.Sprintf("%03b", cpu.Fl)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			strval = fmt.Sprintf("%02X", cpu.Register[byte(reg[1]-'0')])
		case "stack":
			val, ok := cpu.Peek()
			if ok {
				strval = fmt.Sprintf("%02X", val)
			} else {
				strval = "--"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a single line dump of the PC, flags, the next three
// memory bytes and all registers.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X %02X | %02X %02X %02X |",
		cpu.Pc, cpu.Fl,
		cpu.peek(cpu.Pc), cpu.peek(cpu.Pc+1), cpu.peek(cpu.Pc+2))
	for _, reg := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", reg)
	}

	return sb.String()
}

// Reset the CPU state.
// - Clears the registers, memory and flags.
// - Sets the stack pointer to an empty stack.
// - Zeros statistics counters.
// - Rewinds the output channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Ram[:])
	cpu.Register[REG_SP] = STACK_TOP
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.Running = true
	cpu.Ticks = 0
	cpu.Invalid = 0

	if cpu.Output != nil {
		cpu.Output.Rewind()
	}
}

// Load copies a program image into memory at address zero.
// Memory is untouched if the image does not fit.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > len(cpu.Ram) {
		err = ErrProgramSize
		return
	}

	copy(cpu.Ram[:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// fetchOperands reads the two bytes following the opcode. Bytes the
// instruction does not use read as zero when past the end of memory.
func (cpu *Cpu) fetchOperands(op Opcode) (operand_a byte, operand_b byte, err error) {
	var operands [2]byte
	for n := range operands {
		address := cpu.Pc + 1 + uint16(n)
		if n >= op.Operands() && int(address) >= len(cpu.Ram) {
			continue
		}
		operands[n], err = cpu.RamRead(address)
		if err != nil {
			return
		}
	}

	operand_a, operand_b = operands[0], operands[1]
	return
}

// Tick executes a single instruction cycle.
//
// Unknown opcodes are reported and skipped by their apparent length, even
// when bit 4 is set, so a bad byte cannot stall the loop.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	ir, err := cpu.RamRead(cpu.Pc)
	if err != nil {
		return
	}

	op := Opcode(ir)
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
		}
	}()

	operand_a, operand_b, err := cpu.fetchOperands(op)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %v %v", cpu.Trace(), op)
	}

	cpu.Ticks++

	ins, ok := dispatch[op]
	if !ok {
		// Unknown opcodes are skipped by their apparent length.
		cpu.Invalid++
		log.Printf("cpu: invalid instruction 0x%02x at 0x%02x", ir, cpu.Pc)
		cpu.Pc += uint16(op.Length())
		return
	}

	err = ins.Handler(cpu, operand_a, operand_b)
	if err != nil {
		return
	}

	if ins.Flow == FLOW_ADVANCE {
		cpu.Pc += uint16(op.Length())
	}

	return
}

// Run executes instructions until HLT, or the first error.
func (cpu *Cpu) Run() (err error) {
	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}
