package vm

import (
	"fmt"
	"io"
)

// TraceLine formats one per-step execution trace entry: cycle count,
// PC, and the four general-purpose registers. Callers print this
// before executing the step it describes.
func (c *CPU) TraceLine() string {
	return fmt.Sprintf("CYC=%10d PC=%04X A=%04X B=%04X C=%04X D=%04X",
		c.Cycles, c.PC(), c.A(), c.B(), c.CReg(), c.D())
}

// DumpRegisters prints the full register file and flags, the
// register-dump counterpart the debug CLI verb shows before and after a
// run.
func (c *CPU) DumpRegisters(w io.Writer) {
	fmt.Fprintf(w, "A  = 0x%04X (%d)\n", c.A(), int16(c.A()))
	fmt.Fprintf(w, "B  = 0x%04X (%d)\n", c.B(), int16(c.B()))
	fmt.Fprintf(w, "C  = 0x%04X (%d)\n", c.CReg(), int16(c.CReg()))
	fmt.Fprintf(w, "D  = 0x%04X (%d)\n", c.D(), int16(c.D()))
	fmt.Fprintf(w, "SP = 0x%04X\n", c.SP())
	fmt.Fprintf(w, "PC = 0x%04X\n", c.PC())
	fmt.Fprintf(w, "Flags = [%s]\n", c.flagString())
	fmt.Fprintf(w, "Cycles = %d\n", c.Cycles)
}

func (c *CPU) flagString() string {
	bit := func(set bool, ch byte) byte {
		if set {
			return ch
		}
		return '-'
	}
	return string([]byte{
		bit(c.Flags.Z, 'Z'),
		bit(c.Flags.C, 'C'),
		bit(c.Flags.N, 'N'),
		bit(c.Flags.O, 'O'),
	})
}

// Dump prints length bytes of memory starting at addr in a classic
// 16-bytes-per-line hex/ASCII layout.
func (c *CPU) Dump(w io.Writer, addr uint16, length int) {
	for i := 0; i < length; i += 16 {
		fmt.Fprintf(w, "%04X: ", int(addr)+i)
		line := make([]byte, 0, 16)
		for j := 0; j < 16 && i+j < length; j++ {
			b := c.Memory[int(addr)+i+j]
			fmt.Fprintf(w, "%02X ", b)
			line = append(line, b)
		}
		fmt.Fprintf(w, " %s\n", printable(line))
	}
}

// StackDump prints the top n 16-bit words of the stack, from SP upward
// toward the initial stack address.
func (c *CPU) StackDump(w io.Writer, n int) {
	sp := c.SP()
	for i := 0; i < n; i++ {
		addr := sp + uint16(i*2)
		v, err := c.Read16(addr)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "%04X: %04X\n", addr, v)
	}
}

func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7F {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
