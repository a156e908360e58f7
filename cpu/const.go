package cpu

import (
	"fmt"
)

// Machine geometry.
const (
	BITS      = 8               // Machine word width.
	WORD_MASK = (1 << BITS) - 1 // Mask applied on every register write.
	MAX_MEM   = 1 << BITS       // Bytes of memory.
	REGISTERS = 8               // Register bank size.
)

// Reserved registers.
const (
	IM_REG = REGISTERS - 3 // Interrupt mask.
	IS_REG = REGISTERS - 2 // Interrupt status.
	SP_REG = REGISTERS - 1 // Stack pointer.
)

// Memory map, from the top of memory down.
const (
	INTERRUPTS     = BITS                                // Number of interrupt lines.
	RESERVED       = 3                                   // Reserved bytes below the null interrupt.
	VECTOR_TABLE   = MAX_MEM - INTERRUPTS                // First interrupt vector slot.
	NULL_INTERRUPT = MAX_MEM - INTERRUPTS - 1            // Default handler, holds IRET.
	STACK_BASE     = MAX_MEM - INTERRUPTS - RESERVED - 1 // Initial stack pointer.
	KEY_BUFFER     = STACK_BASE                          // Last key pressed.
)

// Interrupt line numbers.
const (
	TIMER_INTERRUPT    = 0
	KEYBOARD_INTERRUPT = 1
)

// Opcode bit fields.
const (
	ARITY_SHIFT  = BITS - 2    // Operand count lives in the top two bits.
	ALU_MASK     = 0b0010_0000 // Set for ALU operations.
	SETS_PC_MASK = 0b0001_0000 // Set when the instruction owns the PC advance.
)

// Flags register bits: 00000LGE
const (
	FLAG_EQUAL   = 0b001
	FLAG_GREATER = 0b010
	FLAG_LESS    = 0b100
)

// KEY_ESCAPE cancels emulation when read from the keyboard.
const KEY_ESCAPE = 27

var _cpu_defines = map[string]string{
	"STACK_BASE":         fmt.Sprintf("%d", STACK_BASE),
	"KEY_BUFFER":         fmt.Sprintf("%d", KEY_BUFFER),
	"NULL_INTERRUPT":     fmt.Sprintf("%d", NULL_INTERRUPT),
	"VECTOR_TABLE":       fmt.Sprintf("%d", VECTOR_TABLE),
	"TIMER_INTERRUPT":    fmt.Sprintf("%d", TIMER_INTERRUPT),
	"KEYBOARD_INTERRUPT": fmt.Sprintf("%d", KEYBOARD_INTERRUPT),
}
