package cpu

// compare returns the CMP condition code for x against y.
func compare(x, y uint) uint {
	switch {
	case x == y:
		return FLAG_EQUAL
	case x > y:
		return FLAG_GREATER
	default:
		return FLAG_LESS
	}
}

// doAlu performs the requested ALU action on register indexes a and b.
//
// CMP only updates the flags register. Division or modulo by zero is a
// recoverable fault: it is logged, recorded in Fault, and halts the CPU.
func (cpu *Cpu) doAlu(op AluOp, a, b Operand) (err error) {
	x := uint(cpu.reg[a])
	var y uint
	if !b.None() {
		y = uint(cpu.reg[b])
	}

	var output uint
	switch op {
	case ALU_OP_ADD:
		output = x + y
	case ALU_OP_SUB:
		output = x - y
	case ALU_OP_MUL:
		output = x * y
	case ALU_OP_DIV, ALU_OP_MOD:
		if y == 0 {
			cpu.divideByZero(op)
			return
		}
		if op == ALU_OP_DIV {
			output = x / y
		} else {
			output = x % y
		}
	case ALU_OP_INC:
		output = x + 1
	case ALU_OP_DEC:
		output = x - 1
	case ALU_OP_CMP:
		cpu.SetFlags(int(compare(x, y)))
		return
	case ALU_OP_AND:
		output = x & y
	case ALU_OP_NOT:
		output = ^x
	case ALU_OP_OR:
		output = x | y
	case ALU_OP_XOR:
		output = x ^ y
	case ALU_OP_SHL:
		output = x << y
	case ALU_OP_SHR:
		output = x >> y
	default:
		err = cpu.invariant(ErrAluInvalid, int(op))
		return
	}

	err = cpu.SetRegister(int(a), int(output&WORD_MASK))
	return
}

// divideByZero reports the fault and stops the execution loop.
func (cpu *Cpu) divideByZero(op AluOp) {
	cpu.Fault = &ErrAluFault{Op: op, Pc: int(cpu.pc)}
	cpu.logger().Print(cpu.Fault)
	cpu.running = false
}
