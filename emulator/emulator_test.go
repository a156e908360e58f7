package emulator

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
)

func newTestEmulator() (emu *Emulator, output *bytes.Buffer) {
	output = &bytes.Buffer{}

	emu = NewEmulator()
	emu.Cpu.Timer = nil
	emu.Cpu.Output = output
	emu.Cpu.Log = log.New(&bytes.Buffer{}, "", 0)

	return
}

// captureLog redirects the standard logger for the duration of a test.
func captureLog(t *testing.T) (buf *bytes.Buffer) {
	buf = &bytes.Buffer{}
	flags := log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.False(emu.Trace)
	assert.NotNil(emu.Cpu)
	assert.Nil(emu.Program)
	assert.NotNil(emu.Cpu.Timer)

	defines := internal.Collect(emu.Defines())
	assert.Equal("27", defines["KEY_ESCAPE"])
	assert.Equal("256", defines["MAX_MEM"])
	assert.Equal("244", defines["STACK_BASE"])
	assert.Equal("248", defines["VECTOR_TABLE"])
}

func TestEmulatorAssemble(t *testing.T) {
	assert := assert.New(t)

	emu, output := newTestEmulator()
	program := []string{
		"; mult.asm",
		"        LDI R0, 8",
		"        LDI R1, 9",
		"        MUL R0, R1",
		"        PRN R0",
		"        HLT",
	}

	err := emu.Assemble("mult.asm", strings.NewReader(strings.Join(program, "\n")))
	require.NoError(t, err)
	assert.NotNil(emu.Program)
	assert.Equal("mult.asm", emu.Name)

	lines := []int{}
	for done := false; !done; {
		lines = append(lines, emu.LineNo())
		done, err = emu.Tick()
		assert.NoError(err)
	}
	assert.Equal([]int{2, 3, 4, 5, 6}, lines)
	assert.Equal("72\n", output.String())
}

func TestEmulatorAssemblePredefine(t *testing.T) {
	assert := assert.New(t)

	emu, output := newTestEmulator()
	emu.Predefine = map[string]string{"VALUE": "42"}

	err := emu.Assemble("value.asm", strings.NewReader("LDI R0, VALUE\nPRN R0\nHLT\n"))
	require.NoError(t, err)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal("42\n", output.String())

	defines := internal.Collect(emu.Defines())
	assert.Equal("42", defines["VALUE"])
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator()

	err := emu.Assemble("bad.asm", strings.NewReader("NOP\nLDI R9, 1\n"))
	assert.Error(err)
	assert.ErrorIs(err, cpu.ErrRegisterInvalid)
	assert.Nil(emu.Program)

	var rt *ErrRuntime
	if assert.ErrorAs(err, &rt) {
		assert.Equal("bad.asm", rt.Name)
	}

	var se *cpu.ErrSyntax
	if assert.ErrorAs(err, &se) {
		assert.Equal(2, se.LineNo)
	}
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator()

	err := emu.Assemble("invalid.asm", strings.NewReader("LDI R0, 1\n.db 0xff\n"))
	require.NoError(t, err)

	err = emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
	assert.ErrorIs(err, cpu.ErrInvariantViolation)
	assert.False(emu.Cpu.Running())

	var rt *ErrRuntime
	if assert.ErrorAs(err, &rt) {
		assert.Equal("invalid.asm", rt.Name)
		assert.Equal(3, rt.Pc)
		assert.Equal(2, rt.LineNo)
	}
	assert.True(strings.HasPrefix(err.Error(), "invalid.asm:2: "), err.Error())
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu, output := newTestEmulator()
	image := strings.Join([]string{
		"# print8.ls8",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}, "\n")

	assert.NoError(emu.Load("print8.ls8", strings.NewReader(image)))
	assert.Nil(emu.Program)
	assert.Equal(0, emu.LineNo())
	assert.True(emu.Cpu.Running())

	assert.NoError(emu.Run(context.Background()))
	assert.Equal("8\n", output.String())
	assert.Equal(3, emu.Cpu.Ticks)
}

func TestEmulatorLoadTick(t *testing.T) {
	assert := assert.New(t)

	emu, output := newTestEmulator()
	image := "10000010\n00000000\n00001000\n01000111\n00000000\n00000001\n"
	require.NoError(t, emu.Load("print8.ls8", strings.NewReader(image)))

	pcs := []int{}
	for done := false; !done; {
		var err error
		pcs = append(pcs, emu.Cpu.Pc())
		done, err = emu.Tick()
		assert.NoError(err)
	}
	assert.Equal([]int{0, 3, 5}, pcs)
	assert.Equal("8\n", output.String())
	assert.False(emu.Cpu.Running())
}

func TestEmulatorLoadTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator()
	image := strings.Repeat("00000000\n", cpu.STACK_BASE+1)

	err := emu.Load("huge.ls8", strings.NewReader(image))
	assert.ErrorIs(err, cpu.ErrImageTooLarge)

	var rt *ErrRuntime
	if assert.ErrorAs(err, &rt) {
		assert.Equal("huge.ls8", rt.Name)
	}
}

func TestEmulatorDivideByZero(t *testing.T) {
	assert := assert.New(t)

	emu, output := newTestEmulator()
	diag := &bytes.Buffer{}
	emu.Cpu.Log = log.New(diag, "", 0)

	err := emu.Assemble("div.asm", strings.NewReader("LDI R0, 10\nLDI R1, 0\nDIV R0, R1\nPRN R0\nHLT\n"))
	require.NoError(t, err)

	assert.NoError(emu.Run(context.Background()))
	assert.Empty(output.String())
	assert.ErrorIs(emu.Cpu.Fault, cpu.ErrDivideByZero)
	assert.Equal("ALU ERROR: DIV by 0 at 6\n", diag.String())
}

func TestEmulatorCancel(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator()
	err := emu.Assemble("spin.asm", strings.NewReader("LDI R0, spin\nspin: JMP R0\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(emu.Run(ctx))
	assert.False(emu.Cpu.Running())
	assert.Equal(0, emu.Cpu.Ticks)
}

func TestEmulatorTrace(t *testing.T) {
	assert := assert.New(t)

	buf := captureLog(t)

	emu, _ := newTestEmulator()
	emu.Trace = true
	err := emu.Assemble("trace.asm", strings.NewReader("LDI R2, 0x1f\nHLT\n"))
	require.NoError(t, err)

	assert.NoError(emu.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal([]string{
		"TRACE: 00 | 82 02 1F | 00 00 00 00 00 00 00 F4",
		"TRACE: 03 | 01 00 00 | 00 00 1F 00 00 00 00 F4",
	}, lines)
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	buf := captureLog(t)

	emu, _ := newTestEmulator()
	emu.Verbose = true
	err := emu.Assemble("verbose.asm", strings.NewReader("HLT\n"))
	require.NoError(t, err)
	assert.NoError(emu.Run(context.Background()))

	assert.Contains(buf.String(), "verbose.asm: .equ KEY_ESCAPE 27")
	assert.Contains(buf.String(), "verbose.asm: .equ MAX_MEM 256")
	assert.Contains(buf.String(), "1: HLT")
	assert.Contains(buf.String(), "cpu: reset")
	assert.Contains(buf.String(), "00: HLT")
	assert.Contains(buf.String(), "verbose.asm: stopped after 1 ticks")
}

func TestEmulatorBatch(t *testing.T) {
	assert := assert.New(t)

	buf := captureLog(t)

	fsys := fstest.MapFS{
		"print8.ls8": {Data: []byte("10000010\n00000000\n00001000\n01000111\n00000000\n00000001\n")},
		"bad.ls8":    {Data: []byte("11111111\n")},
		"div.ls8":    {Data: []byte("10100011\n00000000\n00000001\n")},
		"hello.ls8":  {Data: []byte("10000010\n00000000\n01001000\n01001000\n00000000\n00000001\n")},
	}

	emu, output := newTestEmulator()
	results := emu.Batch(context.Background(), fsys, "print8.ls8", "bad.ls8", "missing.ls8", "div.ls8", "hello.ls8")

	assert.Equal(5, len(results))
	assert.Equal("8\nH", output.String())

	assert.Equal("print8.ls8", results[0].Name)
	assert.NoError(results[0].Err)
	assert.NoError(results[0].Fault)
	assert.Equal(3, results[0].Ticks)

	assert.ErrorIs(results[1].Err, cpu.ErrOpcodeInvalid)
	assert.ErrorIs(results[2].Err, fs.ErrNotExist)

	assert.NoError(results[3].Err)
	assert.ErrorIs(results[3].Fault, cpu.ErrDivideByZero)

	assert.NoError(results[4].Err)
	assert.NoError(results[4].Fault)

	for _, result := range results[1:3] {
		var rt *ErrRuntime
		if assert.True(errors.As(result.Err, &rt)) {
			assert.Equal(result.Name, rt.Name)
		}
		assert.Contains(buf.String(), result.Err.Error())
	}
}

func TestEmulatorBatchCancel(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"halt.ls8": {Data: []byte("00000001\n")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emu, _ := newTestEmulator()
	results := emu.Batch(ctx, fsys, "halt.ls8", "halt.ls8")
	assert.Empty(results)
}
