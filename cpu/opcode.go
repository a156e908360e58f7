package cpu

import (
	"fmt"
	"strings"
)

// Op is a general (non-ALU) operation.
type Op int

const (
	OP_NOP  = Op(0)  // NOP
	OP_HLT  = Op(1)  // HLT
	OP_RET  = Op(2)  // RET
	OP_IRET = Op(3)  // IRET
	OP_PUSH = Op(4)  // PUSH
	OP_POP  = Op(5)  // POP
	OP_PRN  = Op(6)  // PRN
	OP_PRA  = Op(7)  // PRA
	OP_CALL = Op(8)  // CALL
	OP_INT  = Op(9)  // INT
	OP_JMP  = Op(10) // JMP
	OP_JEQ  = Op(11) // JEQ
	OP_JNE  = Op(12) // JNE
	OP_JGT  = Op(13) // JGT
	OP_JLT  = Op(14) // JLT
	OP_JLE  = Op(15) // JLE
	OP_JGE  = Op(16) // JGE
	OP_ADDI = Op(17) // ADDI
	OP_LDI  = Op(18) // LDI
	OP_LD   = Op(19) // LD
	OP_ST   = Op(20) // ST
)

var _op_names = [...]string{
	"NOP", "HLT", "RET", "IRET", "PUSH", "POP", "PRN", "PRA", "CALL", "INT",
	"JMP", "JEQ", "JNE", "JGT", "JLT", "JLE", "JGE", "ADDI", "LDI", "LD", "ST",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(_op_names) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return _op_names[op]
}

// AluOp is an ALU operation.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0)  // ADD
	ALU_OP_SUB = AluOp(1)  // SUB
	ALU_OP_MUL = AluOp(2)  // MUL
	ALU_OP_DIV = AluOp(3)  // DIV
	ALU_OP_MOD = AluOp(4)  // MOD
	ALU_OP_INC = AluOp(5)  // INC
	ALU_OP_DEC = AluOp(6)  // DEC
	ALU_OP_CMP = AluOp(7)  // CMP
	ALU_OP_AND = AluOp(8)  // AND
	ALU_OP_NOT = AluOp(9)  // NOT
	ALU_OP_OR  = AluOp(10) // OR
	ALU_OP_XOR = AluOp(11) // XOR
	ALU_OP_SHL = AluOp(12) // SHL
	ALU_OP_SHR = AluOp(13) // SHR
)

var _alu_names = [...]string{
	"ADD", "SUB", "MUL", "DIV", "MOD", "INC", "DEC",
	"CMP", "AND", "NOT", "OR", "XOR", "SHL", "SHR",
}

func (op AluOp) String() string {
	if op < 0 || int(op) >= len(_alu_names) {
		return fmt.Sprintf("AluOp(%d)", int(op))
	}
	return _alu_names[op]
}

// opcodeTable maps general opcode bytes to their operation.
var opcodeTable = map[byte]Op{
	0b0000_0000: OP_NOP,
	0b0000_0001: OP_HLT,
	0b0001_0001: OP_RET,
	0b0001_0011: OP_IRET,
	0b0100_0101: OP_PUSH,
	0b0100_0110: OP_POP,
	0b0100_0111: OP_PRN,
	0b0100_1000: OP_PRA,
	0b0101_0000: OP_CALL,
	0b0101_0010: OP_INT,
	0b0101_0100: OP_JMP,
	0b0101_0101: OP_JEQ,
	0b0101_0110: OP_JNE,
	0b0101_0111: OP_JGT,
	0b0101_1000: OP_JLT,
	0b0101_1001: OP_JLE,
	0b0101_1010: OP_JGE,
	0b1000_0000: OP_ADDI,
	0b1000_0010: OP_LDI,
	0b1000_0011: OP_LD,
	0b1000_0100: OP_ST,
}

// aluTable maps ALU opcode bytes to their operation.
var aluTable = map[byte]AluOp{
	0b1010_0000: ALU_OP_ADD,
	0b1010_0001: ALU_OP_SUB,
	0b1010_0010: ALU_OP_MUL,
	0b1010_0011: ALU_OP_DIV,
	0b1010_0100: ALU_OP_MOD,
	0b0110_0101: ALU_OP_INC,
	0b0110_0110: ALU_OP_DEC,
	0b1010_0111: ALU_OP_CMP,
	0b1010_1000: ALU_OP_AND,
	0b0110_1001: ALU_OP_NOT,
	0b1010_1010: ALU_OP_OR,
	0b1010_1011: ALU_OP_XOR,
	0b1010_1100: ALU_OP_SHL,
	0b1010_1101: ALU_OP_SHR,
}

// _mnemonics maps assembly mnemonics to opcode bytes.
var _mnemonics = func() map[string]byte {
	names := make(map[string]byte, len(opcodeTable)+len(aluTable))
	for code, op := range opcodeTable {
		names[op.String()] = code
	}
	for code, alu := range aluTable {
		names[alu.String()] = code
	}
	return names
}()

// Lookup returns the opcode byte of an assembly mnemonic.
func Lookup(name string) (opcode byte, ok bool) {
	opcode, ok = _mnemonics[strings.ToUpper(name)]
	return
}

// IRET_OPCODE is seeded at NULL_INTERRUPT so unconfigured vectors return at once.
const IRET_OPCODE = 0b0001_0011

// Arity returns the number of operand bytes following the opcode.
func Arity(opcode byte) int {
	switch opcode >> ARITY_SHIFT {
	case 0b10:
		return 2
	case 0b01:
		return 1
	}
	return 0
}

// IsAlu returns true if the opcode is dispatched to the ALU.
func IsAlu(opcode byte) bool {
	return (opcode & ALU_MASK) != 0
}

// SetsPc returns true if the instruction is responsible for advancing PC.
func SetsPc(opcode byte) bool {
	return (opcode & SETS_PC_MASK) != 0
}

// Valid returns true if the opcode is a member of either instruction table.
func Valid(opcode byte) bool {
	if _, ok := aluTable[opcode]; ok {
		return true
	}
	_, ok := opcodeTable[opcode]
	return ok
}

// Mnemonic returns the assembly mnemonic of an opcode.
func Mnemonic(opcode byte) (name string, ok bool) {
	if alu, is_alu := aluTable[opcode]; is_alu {
		return alu.String(), true
	}
	if op, is_op := opcodeTable[opcode]; is_op {
		return op.String(), true
	}
	return
}

// immediateB returns true if operand B of the general op is an immediate value.
func immediateB(opcode byte) bool {
	op, ok := opcodeTable[opcode]
	return ok && (op == OP_LDI || op == OP_ADDI)
}

// Disassemble returns the assembly language form of a decoded instruction.
func Disassemble(opcode byte, a, b Operand) string {
	name, ok := Mnemonic(opcode)
	if !ok {
		return fmt.Sprintf(".db 0x%02x", opcode)
	}

	text := name
	if !a.None() {
		text += fmt.Sprintf(" R%d", a)
	}
	if !b.None() {
		if immediateB(opcode) {
			text += fmt.Sprintf(",%d", b)
		} else {
			text += fmt.Sprintf(",R%d", b)
		}
	}

	return text
}
