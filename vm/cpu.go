// Package vm implements the SimpleCPU emulator: register file, flags,
// flat 64 KiB memory with memory-mapped I/O, stack discipline, and the
// fetch-decode-execute loop. It is the counterpart to package asm: asm
// produces the byte image this package consumes.
package vm

import "github.com/simplecpu/simplecpu/isa"

// Flags holds the four status bits derived from ALU results. The low
// nibble of the packed byte form is reserved and always clear.
type Flags struct {
	Z bool // result was zero
	C bool // unsigned carry out of add, or borrow in subtract
	N bool // bit 15 of result set
	O bool // signed overflow
}

// ToByte packs the flags into the wire representation used by dumps and
// traces: Z=0x80, C=0x40, N=0x20, O=0x10.
func (f Flags) ToByte() byte {
	var b byte
	if f.Z {
		b |= isa.FlagZ
	}
	if f.C {
		b |= isa.FlagC
	}
	if f.N {
		b |= isa.FlagN
	}
	if f.O {
		b |= isa.FlagO
	}
	return b
}

// FromByte unpacks the wire representation into f.
func (f *Flags) FromByte(b byte) {
	f.Z = b&isa.FlagZ != 0
	f.C = b&isa.FlagC != 0
	f.N = b&isa.FlagN != 0
	f.O = b&isa.FlagO != 0
}

// Initial register values after reset.
const (
	InitialSP uint16 = 0xFEFF
	InitialPC uint16 = isa.LoadAddress
)

// CPU is the complete machine state for one emulator run: registers,
// flags, the flat address space, the stack, and the fetch-decode-execute
// loop's bookkeeping. A CPU value is owned exclusively by whichever code
// is driving it; there is no shared mutable state and no concurrency
// inside a single instance.
type CPU struct {
	R     [isa.NumRegisters]uint16
	Flags Flags

	Memory [isa.MemorySize]byte

	Running bool
	Halted  bool
	Cycles  uint64

	TimerEnabled bool
	TimerValue   uint16

	IO HostIO

	// MaxCycles, when non-zero, caps Run's execution; reaching it makes
	// Run return nil with Halted still false (it is not a trap). Zero
	// means unbounded.
	MaxCycles uint64
}

// New returns a CPU in its post-reset state, wired to the given host I/O
// boundary. io may be nil, in which case STDIN reads as EOF (0x00) and
// STDOUT writes are discarded.
func New(io HostIO) *CPU {
	c := &CPU{IO: io}
	c.Reset()
	return c
}

// Reset restores the initial state: all registers zero except SP and PC,
// all flags clear, memory zeroed, running/halted clear, cycles zero,
// timer disabled and at zero.
func (c *CPU) Reset() {
	for i := range c.R {
		c.R[i] = 0
	}
	c.R[isa.RegSP] = InitialSP
	c.R[isa.RegPC] = InitialPC
	c.Flags = Flags{}
	for i := range c.Memory {
		c.Memory[i] = 0
	}
	c.Running = false
	c.Halted = false
	c.Cycles = 0
	c.TimerEnabled = false
	c.TimerValue = 0
}

// Load copies image into memory starting at isa.LoadAddress. It does not
// reset other state; callers that want a clean run should call Reset
// first (New already does).
func (c *CPU) Load(image []byte) {
	copy(c.Memory[isa.LoadAddress:], image)
}

// Reg returns the value of register index i (0-5); out-of-range indices
// return 0, mirroring the decoder's treatment of malformed bytecode
// rather than panicking on a corrupt or hand-crafted image.
func (c *CPU) Reg(i int) uint16 {
	if i < 0 || i >= isa.NumRegisters {
		return 0
	}
	return c.R[i]
}

// SetReg writes value to register index i (0-5); out-of-range indices
// are silently ignored, for the same reason as Reg.
func (c *CPU) SetReg(i int, value uint16) {
	if i < 0 || i >= isa.NumRegisters {
		return
	}
	c.R[i] = value
}

// PC, SP and the four general-purpose registers as named accessors, for
// callers (the debugger, dumps, tests) that read them far more often
// than they iterate over R.
func (c *CPU) PC() uint16   { return c.R[isa.RegPC] }
func (c *CPU) SP() uint16   { return c.R[isa.RegSP] }
func (c *CPU) A() uint16    { return c.R[isa.RegA] }
func (c *CPU) B() uint16    { return c.R[isa.RegB] }
func (c *CPU) CReg() uint16 { return c.R[isa.RegC] }
func (c *CPU) D() uint16    { return c.R[isa.RegD] }
