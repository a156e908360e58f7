package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTables(t *testing.T) {
	assert := assert.New(t)

	for code, op := range opcodeTable {
		assert.False(IsAlu(code), op)
		_, dup := aluTable[code]
		assert.False(dup, op)
	}
	for code, alu := range aluTable {
		assert.True(IsAlu(code), alu)
		assert.False(SetsPc(code), alu)
	}

	setsPc := []Op{OP_RET, OP_IRET, OP_CALL, OP_INT,
		OP_JMP, OP_JEQ, OP_JNE, OP_JGT, OP_JLT, OP_JLE, OP_JGE}
	for code, op := range opcodeTable {
		assert.Equal(SetsPc(code), slices.Contains(setsPc, op), op)
	}

	count := 0
	for code := range MAX_MEM {
		if Valid(byte(code)) {
			count++
		}
	}
	assert.Equal(len(opcodeTable)+len(aluTable), count)
}

func TestOpcodeArity(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, Arity(op("HLT")))
	assert.Equal(0, Arity(op("IRET")))
	assert.Equal(1, Arity(op("PUSH")))
	assert.Equal(1, Arity(op("INC")))
	assert.Equal(2, Arity(op("LDI")))
	assert.Equal(2, Arity(op("CMP")))
	assert.Equal(0, Arity(0b1100_0000))
	assert.Equal(0, Arity(0xff))
}

func TestOpcodeLookup(t *testing.T) {
	assert := assert.New(t)

	code, ok := Lookup("ldi")
	assert.True(ok)
	assert.Equal(byte(0b1000_0010), code)

	code, ok = Lookup("Iret")
	assert.True(ok)
	assert.Equal(byte(IRET_OPCODE), code)

	_, ok = Lookup("FOO")
	assert.False(ok)

	for code := range MAX_MEM {
		name, ok := Mnemonic(byte(code))
		if !ok {
			continue
		}
		back, ok := Lookup(name)
		assert.True(ok, name)
		assert.Equal(byte(code), back, name)
	}
}

func TestOpcodeDisassemble(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("HLT", Disassemble(op("HLT"), OPERAND_NONE, OPERAND_NONE))
	assert.Equal("PRN R0", Disassemble(op("PRN"), 0, OPERAND_NONE))
	assert.Equal("LDI R0,8", Disassemble(op("LDI"), 0, 8))
	assert.Equal("ADDI R2,255", Disassemble(op("ADDI"), 2, 255))
	assert.Equal("ADD R0,R1", Disassemble(op("ADD"), 0, 1))
	assert.Equal("ST R1,R0", Disassemble(op("ST"), 1, 0))
	assert.Equal(".db 0xff", Disassemble(0xff, OPERAND_NONE, OPERAND_NONE))
}

func TestOpcodeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("JGE", OP_JGE.String())
	assert.Equal("Op(99)", Op(99).String())
	assert.Equal("SHR", ALU_OP_SHR.String())
	assert.Equal("AluOp(-1)", AluOp(-1).String())
}
