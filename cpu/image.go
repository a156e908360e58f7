package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
)

// binaryPrefix returns the byte encoded by the first eight characters of
// line, if they are all binary digits.
func binaryPrefix(line string) (value byte, ok bool) {
	if len(line) < 8 {
		return
	}

	for _, ch := range line[:8] {
		value <<= 1
		switch ch {
		case '0':
		case '1':
			value |= 1
		default:
			return 0, false
		}
	}

	ok = true
	return
}

// ParseImage reads a program image. Every line starting with eight binary
// digits contributes one byte; all other text is ignored.
func ParseImage(r io.Reader) (image []byte, err error) {
	br := bufio.NewReader(r)
	for {
		var line string
		line, err = br.ReadString('\n')
		value, ok := binaryPrefix(line)
		if ok {
			image = append(image, value)
		}
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// WriteImage writes image in program image format. A non-empty comment for
// an address is appended to its line.
func WriteImage(w io.Writer, image []byte, comment func(addr int) string) (err error) {
	bw := bufio.NewWriter(w)
	for addr, value := range image {
		text := ""
		if comment != nil {
			text = comment(addr)
		}
		if len(text) > 0 {
			_, err = fmt.Fprintf(bw, "%08b # %s\n", value, text)
		} else {
			_, err = fmt.Fprintf(bw, "%08b\n", value)
		}
		if err != nil {
			return
		}
	}

	err = bw.Flush()
	return
}

// Load resets the CPU, then loads a program image from r at address 0.
func (cpu *Cpu) Load(r io.Reader) (err error) {
	image, err := ParseImage(r)
	if err != nil {
		return
	}

	err = cpu.LoadBytes(image)
	return
}

// LoadBytes resets the CPU, then copies image to memory at address 0.
// The image may not reach the stack base.
func (cpu *Cpu) LoadBytes(image []byte) (err error) {
	cpu.Reset()

	for addr, value := range image {
		if addr >= STACK_BASE {
			err = &ErrInvariant{Err: ErrImageTooLarge, Value: len(image), Pc: int(cpu.pc)}
			return
		}
		cpu.Memory.Write(addr, int(value))
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}
