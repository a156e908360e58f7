package cpu

// Memory is the LS-8 byte addressable store. All accesses go through the
// memory address (MAR) and memory data (MDR) latches.
type Memory struct {
	Data [MAX_MEM]byte

	mar byte
	mdr byte
}

// Read latches addr into MAR, then the addressed byte into MDR.
func (mem *Memory) Read(addr int) byte {
	mem.mar = byte(addr & (MAX_MEM - 1))
	mem.mdr = mem.Data[mem.mar]
	return mem.mdr
}

// Write latches addr into MAR and value into MDR, then stores MDR.
func (mem *Memory) Write(addr int, value int) {
	mem.mar = byte(addr & (MAX_MEM - 1))
	mem.mdr = byte(value & WORD_MASK)
	mem.Data[mem.mar] = mem.mdr
}

// Peek reads a byte without disturbing the latches.
func (mem *Memory) Peek(addr int) byte {
	return mem.Data[addr&(MAX_MEM-1)]
}

// Mar returns the memory address latch.
func (mem *Memory) Mar() byte {
	return mem.mar
}

// Mdr returns the memory data latch.
func (mem *Memory) Mdr() byte {
	return mem.mdr
}

// Reset zeros memory and both latches.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	mem.mar = 0
	mem.mdr = 0
}
