package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLatches(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	mem.Write(0x12, 0x134)
	assert.Equal(byte(0x12), mem.Mar())
	assert.Equal(byte(0x34), mem.Mdr())

	mem.Write(0x30, 0x99)
	assert.Equal(byte(0x34), mem.Read(0x12))
	assert.Equal(byte(0x12), mem.Mar())
	assert.Equal(byte(0x34), mem.Mdr())

	assert.Equal(byte(0x99), mem.Peek(0x30))
	assert.Equal(byte(0x12), mem.Mar(), "peek leaves latches alone")

	assert.Equal(byte(0x34), mem.Read(0x112), "addresses wrap")

	mem.Reset()
	assert.Equal(byte(0), mem.Peek(0x12))
	assert.Equal(byte(0), mem.Mar())
	assert.Equal(byte(0), mem.Mdr())
}
