package cpu

import (
	"log"
)

// InterruptState is the interrupt controller state.
type InterruptState int

const (
	INTERRUPT_IDLE       = InterruptState(0) // No handler running.
	INTERRUPT_IN_SERVICE = InterruptState(1) // A handler is running.
)

func (is InterruptState) String() string {
	if is == INTERRUPT_IN_SERVICE {
		return "in-service"
	}
	return "idle"
}

// Interrupt is the interrupt controller context.
type Interrupt struct {
	State     InterruptState
	Line      int  // Line in service, valid when State is INTERRUPT_IN_SERVICE.
	SavedMask byte // Interrupt mask at dispatch, restored by IRET.
}

// Reset returns the controller to idle.
func (it *Interrupt) Reset() {
	*it = Interrupt{}
}

// Raise sets the pending bit of an interrupt line.
func (cpu *Cpu) Raise(line int) (err error) {
	if line < 0 || line >= INTERRUPTS {
		err = cpu.invariant(ErrInterruptInvalid, line)
		return
	}

	cpu.SetIs(int(cpu.Is()) | (1 << line))
	return
}

// checkInterrupts dispatches the lowest numbered interrupt that is both
// pending and unmasked. Only considered while idle.
//
// Dispatch saves and clears the mask, clears the pending bit, then pushes PC,
// FL and R0..R6 before jumping through the vector table.
func (cpu *Cpu) checkInterrupts() (err error) {
	if cpu.Interrupt.State != INTERRUPT_IDLE {
		return
	}

	pending := cpu.Im() & cpu.Is()
	if pending == 0 {
		return
	}

	for line := range INTERRUPTS {
		bit := byte(1 << line)
		if (pending & bit) == 0 {
			continue
		}

		if cpu.Verbose {
			log.Printf("cpu: interrupt %d at %02x", line, cpu.pc)
		}

		cpu.Interrupt = Interrupt{
			State:     INTERRUPT_IN_SERVICE,
			Line:      line,
			SavedMask: cpu.Im(),
		}
		cpu.SetIm(0)
		cpu.SetIs(int(cpu.Is() &^ bit))

		err = cpu.push(int(cpu.pc))
		if err != nil {
			return
		}
		err = cpu.push(int(cpu.fl))
		if err != nil {
			return
		}
		for n := range REGISTERS - 1 {
			err = cpu.push(int(cpu.reg[n]))
			if err != nil {
				return
			}
		}

		err = cpu.SetPc(int(cpu.Memory.Read(VECTOR_TABLE + line)))
		return
	}

	return
}

// interruptReturn pops R6..R0, FL and PC in the reverse of dispatch order,
// then restores the interrupt mask saved at dispatch.
func (cpu *Cpu) interruptReturn() (err error) {
	if cpu.Interrupt.State != INTERRUPT_IN_SERVICE {
		err = cpu.invariant(ErrInterruptIdle, int(cpu.ir))
		return
	}

	for n := REGISTERS - 2; n >= 0; n-- {
		var value byte
		value, err = cpu.pop()
		if err != nil {
			return
		}
		cpu.reg[n] = value
	}

	var flags byte
	flags, err = cpu.pop()
	if err != nil {
		return
	}
	cpu.SetFlags(int(flags))

	err = cpu.popPc()
	if err != nil {
		return
	}

	cpu.SetIm(int(cpu.Interrupt.SavedMask))
	if cpu.Verbose {
		log.Printf("cpu: return from interrupt %d to %02x", cpu.Interrupt.Line, cpu.pc)
	}
	cpu.Interrupt.Reset()

	return
}
