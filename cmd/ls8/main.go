// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

var (
	errNoInput    = errors.New(translate.From("one of -p or -c is required"))
	errBothInputs = errors.New(translate.From("-p and -c are exclusive"))
)

// readProgram loads the .ls8 image, or compiles the .asm source, named by
// the command line.
func readProgram(emu *emulator.Emulator, program string, compile string) (prog *cpu.Program, err error) {
	switch {
	case len(program) != 0 && len(compile) != 0:
		err = errBothInputs
		return
	case len(program) == 0 && len(compile) == 0:
		err = errNoInput
		return
	}

	// Load a program image.
	if len(program) != 0 {
		var inf *os.File
		inf, err = os.Open(program)
		if err != nil {
			return
		}
		defer inf.Close()

		prog, err = cpu.Load(inf)
		return
	}

	// Compile a new program.
	inf, err := os.Open(compile)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err = asm.Parse(inf)
	return
}

func main() {
	var program string
	var compile string
	var save bool
	var output string
	var verbose bool

	flag.StringVar(&program, "p", "", ".ls8 program image to run")
	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.BoolVar(&save, "s", false, "Save compiled program as .ls8, do not execute")
	flag.StringVar(&output, "o", "-", "Output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog, err := readProgram(emu, program, compile)
	if errors.Is(err, errNoInput) || errors.Is(err, errBothInputs) {
		flag.Usage()
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if err != nil {
		log.Fatal(err)
	}

	var out io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		out = ouf
	}

	if save {
		_, err := prog.WriteTo(out)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	emu.Program = prog
	emu.Tape.Output = out

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}
}
