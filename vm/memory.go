package vm

import "github.com/simplecpu/simplecpu/isa"

// ReadByte reads one byte, dispatching to memory-mapped I/O first. Only
// PORT_STDIN and the two timer ports intercept a read; everything else,
// including PORT_STDOUT, falls through to the underlying RAM cell.
func (c *CPU) ReadByte(addr uint16) (byte, error) {
	switch addr {
	case isa.PortStdin:
		if c.IO == nil {
			return 0, nil
		}
		b, err := c.IO.ReadByte()
		if err != nil {
			return 0, nil // EOF (or any read failure) reads as 0x00
		}
		return b, nil
	case isa.PortTimerCtrl:
		if c.TimerEnabled {
			return 1, nil
		}
		return 0, nil
	case isa.PortTimerVal:
		return byte(c.TimerValue), nil
	default:
		return c.Memory[addr], nil
	}
}

// WriteByte writes one byte, dispatching to memory-mapped I/O first.
// Only PORT_STDOUT and the two timer ports intercept a write; everything
// else, including PORT_STDIN, falls through to RAM.
func (c *CPU) WriteByte(addr uint16, v byte) error {
	switch addr {
	case isa.PortStdout:
		if c.IO == nil {
			return nil
		}
		return c.IO.WriteByte(v)
	case isa.PortTimerCtrl:
		c.TimerEnabled = v != 0
		if c.TimerEnabled {
			c.TimerValue = 0
		}
		return nil
	case isa.PortTimerVal:
		c.TimerValue = uint16(v)
		return nil
	default:
		c.Memory[addr] = v
		return nil
	}
}

// Read16 reads a little-endian 16-bit value as two independent byte
// reads at addr and addr+1. A 16-bit access straddling a port boundary
// therefore produces mixed port/RAM behavior byte-by-byte; this is
// preserved here rather than special-cased away.
func (c *CPU) Read16(addr uint16) (uint16, error) {
	lo, err := c.ReadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.ReadByte(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// Write16 writes a little-endian 16-bit value as two independent byte
// writes at addr and addr+1. See Read16 for the port-straddling caveat.
func (c *CPU) Write16(addr uint16, v uint16) error {
	if err := c.WriteByte(addr, byte(v)); err != nil {
		return err
	}
	return c.WriteByte(addr+1, byte(v>>8))
}

// Push decrements SP by 2 and writes v at the new SP; the stack grows
// downward. There is no overflow trap: a PUSH that wraps SP or collides
// with code/data is undefined, not fatal.
func (c *CPU) Push(v uint16) error {
	sp := c.SP() - 2
	c.SetReg(isa.RegSP, sp)
	return c.Write16(sp, v)
}

// Pop reads the 16-bit word at SP and increments SP by 2.
func (c *CPU) Pop() (uint16, error) {
	sp := c.SP()
	v, err := c.Read16(sp)
	if err != nil {
		return 0, err
	}
	c.SetReg(isa.RegSP, sp+2)
	return v, nil
}
