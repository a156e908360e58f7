package cpu

import (
	"fmt"
)

// registerB checks that operand B of a general instruction names a register.
func (cpu *Cpu) registerB() (index int, err error) {
	if cpu.opB.None() || cpu.opB >= REGISTERS {
		err = cpu.invariant(ErrOperandB, int(cpu.opB))
		return
	}

	index = int(cpu.opB)
	return
}

// popPc pops the top of stack into PC.
func (cpu *Cpu) popPc() (err error) {
	err = cpu.SetPc(int(cpu.Memory.Read(cpu.Sp())))
	if err != nil {
		return
	}

	err = cpu.SetSp(cpu.Sp() + 1)
	return
}

// branch jumps to register A if taken, otherwise steps past the instruction.
func (cpu *Cpu) branch(taken bool) error {
	if taken {
		return cpu.SetPc(int(cpu.reg[cpu.opA]))
	}

	return cpu.SetPc(int(cpu.pc) + 1 + Arity(cpu.ir))
}

// execute performs a general (non-ALU) operation against the CPU state.
func (cpu *Cpu) execute(op Op) (err error) {
	a := cpu.opA

	switch op {
	case OP_HLT:
		cpu.running = false
	case OP_NOP:
		// pass
	case OP_LDI:
		err = cpu.SetRegister(int(a), int(cpu.opB))
	case OP_LD:
		var b int
		b, err = cpu.registerB()
		if err != nil {
			return
		}
		err = cpu.SetRegister(int(a), int(cpu.Memory.Read(int(cpu.reg[b]))))
	case OP_ST:
		var b int
		b, err = cpu.registerB()
		if err != nil {
			return
		}
		cpu.Memory.Write(int(cpu.reg[a]), int(cpu.reg[b]))
	case OP_ADDI:
		err = cpu.SetRegister(int(a), int(cpu.reg[a])+int(cpu.opB))
	case OP_PUSH:
		err = cpu.SetSp(cpu.Sp() - 1)
		if err != nil {
			return
		}
		cpu.Memory.Write(cpu.Sp(), int(cpu.reg[a]))
	case OP_POP:
		var value byte
		value, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.SetRegister(int(a), int(value))
	case OP_PRN:
		_, err = fmt.Fprintf(cpu.Output, "%d\n", cpu.reg[a])
	case OP_PRA:
		_, err = fmt.Fprintf(cpu.Output, "%c", rune(cpu.reg[a]))
	case OP_CALL:
		err = cpu.push(int(cpu.pc) + 2)
		if err != nil {
			return
		}
		err = cpu.SetPc(int(cpu.reg[a]))
	case OP_RET:
		err = cpu.popPc()
	case OP_JMP:
		err = cpu.branch(true)
	case OP_JEQ:
		err = cpu.branch((cpu.fl & FLAG_EQUAL) != 0)
	case OP_JNE:
		err = cpu.branch((cpu.fl & FLAG_EQUAL) == 0)
	case OP_JGT:
		err = cpu.branch((cpu.fl & FLAG_GREATER) != 0)
	case OP_JLT:
		err = cpu.branch((cpu.fl & FLAG_LESS) != 0)
	case OP_JGE:
		err = cpu.branch((cpu.fl & (FLAG_GREATER | FLAG_EQUAL)) != 0)
	case OP_JLE:
		err = cpu.branch((cpu.fl & (FLAG_LESS | FLAG_EQUAL)) != 0)
	case OP_INT:
		err = cpu.Raise(int(cpu.reg[a]))
		if err != nil {
			return
		}
		err = cpu.SetPc(int(cpu.pc) + 1 + Arity(cpu.ir))
	case OP_IRET:
		err = cpu.interruptReturn()
	default:
		err = cpu.invariant(ErrOpcodeInvalid, int(cpu.ir))
	}

	return
}
