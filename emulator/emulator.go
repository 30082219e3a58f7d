// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

const (
	TAPE_CAPACITY = 4096 // Maximum PRN values recorded per run.
)

var _emulator_defines = map[string]string{
	"TAPE_CAPACITY": fmt.Sprintf("%v", TAPE_CAPACITY),
}

// Emulator state. CPU + program + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Tape io.Tape // PRN output channel.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Tape.Capacity = TAPE_CAPACITY
	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		cpu.Opcodes(),
	)
}

// Reset the machine, and load the program into memory.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())

	return
}

// Printed returns the values printed since the last reset.
func (emu *Emulator) Printed() (values []byte) {
	for value := range emu.Tape.Receive() {
		values = append(values, value)
	}
	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if !emu.Cpu.Running {
		done = true
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = !emu.Cpu.Running
	if done && emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Cpu.Ticks)
	}

	return
}

// Run ticks the emulator until it halts.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			if emu.Verbose {
				log.Printf("emulator: %v\n%v", err, emu.Cpu.String())
			}
			return
		}
	}

	return
}
