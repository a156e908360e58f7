// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
)

var _emulator_defines = map[string]string{
	"KEY_ESCAPE": fmt.Sprintf("%d", cpu.KEY_ESCAPE),
	"MAX_MEM":    fmt.Sprintf("%d", cpu.MAX_MEM),
}

// Emulator state. CPU + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Trace    bool         // If set, logs a trace line before every tick.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the assembled program, nil for images.
	Name     string       // Name of the loaded program.

	Predefine map[string]string // Extra assembler equates.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		maps.All(emu.Predefine),
	)
}

// wrap locates err in the loaded program.
func (emu *Emulator) wrap(err error) error {
	if err == nil {
		return nil
	}

	pc := emu.Cpu.Pc()
	var inv *cpu.ErrInvariant
	if errors.As(err, &inv) {
		pc = inv.Pc
	}

	return &ErrRuntime{Name: emu.Name, Pc: pc, LineNo: emu.lineNoAt(pc), Err: err}
}

// Load loads a program image, leaving the CPU ready to Tick.
func (emu *Emulator) Load(name string, r io.Reader) (err error) {
	emu.Name = name
	emu.Program = nil
	emu.Cpu.Verbose = emu.Verbose

	err = emu.wrap(emu.Cpu.Load(r))
	if err != nil {
		return
	}

	emu.Cpu.Start()
	return
}

// Assemble assembles source text, then loads the resulting program and
// leaves the CPU ready to Tick.
func (emu *Emulator) Assemble(name string, r io.Reader) (err error) {
	emu.Name = name
	emu.Program = nil
	emu.Cpu.Verbose = emu.Verbose

	asm := &cpu.Assembler{Verbose: emu.Verbose}
	defines := internal.Collect(internal.Concat2(maps.All(_emulator_defines), maps.All(emu.Predefine)))
	for _, key := range internal.SortedKeys(defines) {
		if emu.Verbose {
			log.Printf("%v: .equ %v %v", name, key, defines[key])
		}
		asm.Predefine(key, defines[key])
	}

	prog, err := asm.Parse(r)
	if err != nil {
		err = &ErrRuntime{Name: name, Err: err}
		return
	}

	err = emu.Cpu.LoadBytes(prog.Binary())
	if err != nil {
		err = emu.wrap(err)
		return
	}

	emu.Program = prog
	emu.Cpu.Start()
	return
}

// lineNoAt returns the source line number for an address, or 0.
func (emu *Emulator) lineNoAt(addr int) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(addr)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.lineNoAt(emu.Cpu.Pc())
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Trace {
		log.Print(emu.Cpu.Trace())
	}

	err = emu.wrap(emu.Cpu.Tick())
	done = err != nil || !emu.Cpu.Running()
	return
}

// Run executes the loaded program until it halts, ctx is cancelled, or a
// runtime error occurs.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.Cpu.Start()
	defer emu.Cpu.Halt()

	for done := false; !done; {
		select {
		case <-ctx.Done():
			return
		default:
		}

		done, err = emu.Tick()
	}

	if emu.Verbose {
		log.Printf("%v: stopped after %d ticks", emu.Name, emu.Cpu.Ticks)
	}

	return
}

// Result is the outcome of one program of a batch.
type Result struct {
	Name  string // Program name.
	Ticks int    // Ticks executed.
	Fault error  // Recoverable fault that halted the program, if any.
	Err   error  // Runtime error, as an *ErrRuntime.
}

// Batch loads and runs each named image from fsys in order. Failures are
// logged and collected; they do not stop the batch. Cancelling ctx stops
// the batch after the running image.
func (emu *Emulator) Batch(ctx context.Context, fsys fs.FS, names ...string) (results []Result) {
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		result := Result{Name: name}
		result.Err = emu.runImage(ctx, fsys, name)
		result.Ticks = emu.Cpu.Ticks
		result.Fault = emu.Cpu.Fault

		if result.Err != nil {
			log.Print(result.Err)
		}

		results = append(results, result)
	}

	return
}

// runImage loads and runs a single image from fsys.
func (emu *Emulator) runImage(ctx context.Context, fsys fs.FS, name string) (err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		emu.Cpu.Reset()
		err = &ErrRuntime{Name: name, Err: err}
		return
	}
	defer inf.Close()

	err = emu.Load(name, inf)
	if err != nil {
		return
	}

	err = emu.Run(ctx)
	return
}
