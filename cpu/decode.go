package cpu

// SetIr loads opcode into the instruction register and decodes its operands
// from the bytes following PC.
//
// The opcode must belong to the ALU or general instruction table. Operand
// bytes may not be fetched from the stack region. Operand A is always a
// register index; operand B is a register index for ALU operations and an
// arbitrary byte otherwise.
func (cpu *Cpu) SetIr(opcode byte) (err error) {
	if !Valid(opcode) {
		err = cpu.invariant(ErrOpcodeInvalid, int(opcode))
		return
	}

	cpu.ir = opcode
	cpu.opA = OPERAND_NONE
	cpu.opB = OPERAND_NONE

	pc := int(cpu.pc)
	arity := Arity(opcode)
	if arity > 0 && pc+arity >= cpu.Sp() {
		err = cpu.invariant(ErrOperandStack, pc+arity)
		return
	}

	switch arity {
	case 1:
		cpu.opA = Operand(cpu.Memory.Read(pc + 1))
	case 2:
		cpu.opA = Operand(cpu.Memory.Read(pc + 1))
		cpu.opB = Operand(cpu.Memory.Read(pc + 2))
	}

	if !cpu.opA.None() && cpu.opA >= REGISTERS {
		err = cpu.invariant(ErrOperandA, int(cpu.opA))
		return
	}

	if !cpu.opB.None() && IsAlu(opcode) && cpu.opB >= REGISTERS {
		err = cpu.invariant(ErrOperandB, int(cpu.opB))
		return
	}

	return
}
