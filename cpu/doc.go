// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of a program counter (PC), eight 8-bit registers (r0-r7,
// with r5 the interrupt mask, r6 the interrupt status and r7 the stack
// pointer), a flags register, a table driven ALU and an interrupt controller
// that vectors through the top of the 256 byte memory.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, data directives and compile-time
// expression evaluation.
package cpu
