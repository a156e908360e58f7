package cpu

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
	"strings"

	ls8io "github.com/ezrec/ls8/io"
)

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Log      *log.Logger    // Diagnostics logger; log.Default() if nil.
	Output   io.Writer      // Sink for PRN and PRA.
	Timer    ls8io.Poller   // Raises TIMER_INTERRUPT when it fires.
	Keyboard ls8io.Keyboard // Raises KEYBOARD_INTERRUPT on keypress, if set.

	Memory    Memory    // Main memory.
	Interrupt Interrupt // Interrupt controller.

	Fault error // Last recoverable fault, cleared on reset.
	Ticks int   // CPU ticks counter.

	reg [REGISTERS]byte // Register bank.
	pc  byte            // Program counter.
	ir  byte            // Instruction register.
	fl  byte            // Flags.
	opA Operand         // Decoded operand A.
	opB Operand         // Decoded operand B.

	running bool
}

// NewCpu creates a new CPU writing to stdout, with a one second timer.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output: os.Stdout,
		Timer:  &ls8io.Timer{Period: ls8io.TIMER_PERIOD},
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

func (cpu *Cpu) logger() *log.Logger {
	if cpu.Log != nil {
		return cpu.Log
	}
	return log.Default()
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Sets SP to STACK_BASE and PC to 0.
// - Seeds the null interrupt handler with IRET.
// - Points every interrupt vector at the null interrupt handler.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.reg[:])
	cpu.reg[SP_REG] = STACK_BASE
	cpu.pc = 0
	cpu.ir = 0
	cpu.fl = 0
	cpu.opA = OPERAND_NONE
	cpu.opB = OPERAND_NONE
	cpu.running = false
	cpu.Fault = nil
	cpu.Ticks = 0

	cpu.Memory.Reset()
	cpu.Memory.Write(NULL_INTERRUPT, IRET_OPCODE)
	for n := range INTERRUPTS {
		cpu.Memory.Write(VECTOR_TABLE+n, NULL_INTERRUPT)
	}

	cpu.Interrupt.Reset()
}

// Running returns true while the execution loop should continue.
func (cpu *Cpu) Running() bool {
	return cpu.running
}

// Halt stops the execution loop at the end of the current cycle.
func (cpu *Cpu) Halt() {
	cpu.running = false
}

// pollDevices raises interrupts for the timer and keyboard.
// Returns stop set if the keyboard requested cancellation.
func (cpu *Cpu) pollDevices() (stop bool, err error) {
	if cpu.Timer != nil && cpu.Timer.Poll() {
		err = cpu.Raise(TIMER_INTERRUPT)
		if err != nil {
			return
		}
	}

	if cpu.Keyboard != nil && cpu.Keyboard.Poll() {
		key, ok := cpu.Keyboard.ReadKey()
		if !ok {
			return
		}
		if key == KEY_ESCAPE {
			cpu.running = false
			stop = true
			return
		}
		cpu.Memory.Write(KEY_BUFFER, int(key))
		err = cpu.Raise(KEYBOARD_INTERRUPT)
	}

	return
}

// Tick executes a single CPU cycle: device poll, interrupt check, fetch,
// decode, execute and PC advance.
func (cpu *Cpu) Tick() (err error) {
	cpu.Ticks++

	stop, err := cpu.pollDevices()
	if err != nil || stop {
		return
	}

	err = cpu.checkInterrupts()
	if err != nil {
		return
	}

	err = cpu.SetIr(cpu.Memory.Read(int(cpu.pc)))
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.pc, Disassemble(cpu.ir, cpu.opA, cpu.opB))
	}

	if IsAlu(cpu.ir) {
		op, ok := aluTable[cpu.ir]
		if !ok {
			err = cpu.invariant(ErrAluInvalid, int(cpu.ir))
			return
		}
		err = cpu.doAlu(op, cpu.opA, cpu.opB)
	} else {
		err = cpu.execute(opcodeTable[cpu.ir])
	}
	if err != nil {
		return
	}

	if !SetsPc(cpu.ir) {
		err = cpu.SetPc(int(cpu.pc) + 1 + Arity(cpu.ir))
	}

	return
}

// Start rewinds the devices and marks the CPU as running.
func (cpu *Cpu) Start() {
	if cpu.Timer != nil {
		cpu.Timer.Rewind()
	}
	if cpu.Keyboard != nil {
		cpu.Keyboard.Rewind()
	}

	cpu.running = true
}

// Run executes cycles until the CPU halts, ctx is cancelled, or an invariant
// is violated. Halting and cancellation are clean stops.
func (cpu *Cpu) Run(ctx context.Context) (err error) {
	cpu.Start()
	for cpu.running {
		select {
		case <-ctx.Done():
			cpu.running = false
			return
		default:
		}

		err = cpu.Tick()
		if err != nil {
			cpu.running = false
			return
		}
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "ir", "fl",
		"r0", "r1", "r2", "r3", "r4", "im", "is", "sp",
		"mar", "mdr", "int",
	}
	for n, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.pc)
		case "ir":
			strval = fmt.Sprintf("%08b %v", cpu.ir, Disassemble(cpu.ir, cpu.opA, cpu.opB))
		case "fl":
			strval = fmt.Sprintf("%08b", cpu.fl)
		case "r0", "r1", "r2", "r3", "r4", "im", "is", "sp":
			strval = fmt.Sprintf("%02X", cpu.reg[n-3])
		case "mar":
			strval = fmt.Sprintf("%02X", cpu.Memory.Mar())
		case "mdr":
			strval = fmt.Sprintf("%02X", cpu.Memory.Mdr())
		case "int":
			strval = cpu.Interrupt.State.String()
			if cpu.Interrupt.State == INTERRUPT_IN_SERVICE {
				strval += fmt.Sprintf(" %d mask %08b", cpu.Interrupt.Line, cpu.Interrupt.SavedMask)
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a one line summary of PC, the bytes at PC and the registers.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	pc := int(cpu.pc)
	fmt.Fprintf(&sb, "TRACE: %02X | %02X %02X %02X |", pc,
		cpu.Memory.Peek(pc), cpu.Memory.Peek(pc+1), cpu.Memory.Peek(pc+2))
	for _, value := range cpu.reg {
		fmt.Fprintf(&sb, " %02X", value)
	}

	return sb.String()
}
