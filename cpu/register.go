package cpu

// Operand is a decoded operand byte, or OPERAND_NONE when the instruction
// does not carry that operand.
type Operand int16

// OPERAND_NONE marks an operand absent for the instruction's arity.
const OPERAND_NONE = Operand(-1)

// None returns true if the operand is absent.
func (op Operand) None() bool {
	return op < 0
}

// invariant builds a fatal invariant violation at the current PC.
func (cpu *Cpu) invariant(kind error, value int) error {
	return &ErrInvariant{Err: kind, Value: value, Pc: int(cpu.pc)}
}

// Register returns the value of register index.
func (cpu *Cpu) Register(index int) (value byte, err error) {
	if index < 0 || index >= REGISTERS {
		err = cpu.invariant(ErrRegisterInvalid, index)
		return
	}

	value = cpu.reg[index]
	return
}

// SetRegister sets register index to value, masked to the word width.
// Writes to SP_REG are checked as for SetSp.
func (cpu *Cpu) SetRegister(index int, value int) (err error) {
	if index < 0 || index >= REGISTERS {
		err = cpu.invariant(ErrRegisterInvalid, index)
		return
	}

	if index == SP_REG {
		return cpu.SetSp(value)
	}

	cpu.reg[index] = byte(value & WORD_MASK)
	return
}

// Sp returns the stack pointer.
func (cpu *Cpu) Sp() int {
	return int(cpu.reg[SP_REG])
}

// SetSp sets the stack pointer. The new value must lie in [0, STACK_BASE],
// and must stay above the operands of the most recently decoded instruction
// unless PC is at the null interrupt handler.
func (cpu *Cpu) SetSp(value int) (err error) {
	value &= WORD_MASK
	if value > STACK_BASE {
		err = cpu.invariant(ErrStackRange, value)
		return
	}

	end := int(cpu.pc) + Arity(cpu.ir)
	if end >= value && int(cpu.pc) != NULL_INTERRUPT {
		err = cpu.invariant(ErrStackOverlap, value)
		return
	}

	cpu.reg[SP_REG] = byte(value)
	return
}

// Pc returns the program counter.
func (cpu *Cpu) Pc() int {
	return int(cpu.pc)
}

// SetPc sets the program counter. The new value must be below the stack
// pointer, or be the null interrupt handler.
func (cpu *Cpu) SetPc(value int) (err error) {
	value &= WORD_MASK
	if value >= cpu.Sp() && value != NULL_INTERRUPT {
		err = cpu.invariant(ErrPcRange, value)
		return
	}

	cpu.pc = byte(value)
	return
}

// Im returns the interrupt mask.
func (cpu *Cpu) Im() byte {
	return cpu.reg[IM_REG]
}

// SetIm sets the interrupt mask.
func (cpu *Cpu) SetIm(value int) {
	cpu.reg[IM_REG] = byte(value & WORD_MASK)
}

// Is returns the interrupt status.
func (cpu *Cpu) Is() byte {
	return cpu.reg[IS_REG]
}

// SetIs sets the interrupt status.
func (cpu *Cpu) SetIs(value int) {
	cpu.reg[IS_REG] = byte(value & WORD_MASK)
}

// Flags returns the 00000LGE flags register.
func (cpu *Cpu) Flags() byte {
	return cpu.fl
}

// SetFlags sets the flags register.
func (cpu *Cpu) SetFlags(value int) {
	cpu.fl = byte(value & WORD_MASK)
}

// Ir returns the instruction register.
func (cpu *Cpu) Ir() byte {
	return cpu.ir
}

// Operands returns the decoded operands of the instruction register.
func (cpu *Cpu) Operands() (a, b Operand) {
	return cpu.opA, cpu.opB
}

// push decrements SP, then stores value at the new top of stack.
func (cpu *Cpu) push(value int) (err error) {
	err = cpu.SetSp(cpu.Sp() - 1)
	if err != nil {
		return
	}

	cpu.Memory.Write(cpu.Sp(), value)
	return
}

// pop loads the top of stack, then increments SP.
func (cpu *Cpu) pop() (value byte, err error) {
	value = cpu.Memory.Read(cpu.Sp())
	err = cpu.SetSp(cpu.Sp() + 1)
	return
}
