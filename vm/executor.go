package vm

import (
	"fmt"

	"github.com/simplecpu/simplecpu/isa"
)

// TrapError reports a fatal runtime trap: division by zero or an unknown
// opcode. The CPU halts and the cycle counter is not incremented for the
// step that trapped.
type TrapError struct {
	PC     uint16
	Opcode byte
	Reason string
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("trap at PC=0x%04X (opcode 0x%02X): %s", e.PC, e.Opcode, e.Reason)
}

func (c *CPU) trap(pc uint16, opcode byte, reason string) error {
	c.Halted = true
	c.Running = false
	return &TrapError{PC: pc, Opcode: opcode, Reason: reason}
}

// fetch reads the byte at *pc directly from RAM (not through the
// port-dispatching ReadByte/WriteByte path: instruction fetch is a code
// read, not a data access through an explicit address operand, so it
// never observes memory-mapped I/O) and advances *pc past it.
func (c *CPU) fetch(pc *uint16) byte {
	b := c.Memory[*pc]
	*pc++
	return b
}

func (c *CPU) fetch16(pc *uint16) uint16 {
	lo := c.fetch(pc)
	hi := c.fetch(pc)
	return uint16(lo) | uint16(hi)<<8
}

// Step executes exactly one instruction. It returns a *TrapError on a
// fatal trap (division by zero, unknown opcode); in that case Halted is
// already true and Cycles was not incremented. It also returns the host
// output's error when a byte written to PORT_STDOUT is rejected; Halted
// is then left unchanged, and Cycles is not incremented either.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}

	if c.TimerEnabled {
		c.TimerValue++
	}

	startPC := c.PC()
	pc := startPC
	opcode := isa.Opcode(c.fetch(&pc))

	if err := c.execute(opcode, &pc, startPC); err != nil {
		return err
	}

	c.SetReg(isa.RegPC, pc)
	c.Cycles++
	return nil
}

// Run executes instructions until HLT, a fatal trap, or (if MaxCycles is
// non-zero) the cycle cap is reached. It is a tight synchronous loop:
// there is no cooperative scheduling and nothing else runs concurrently
// with it.
func (c *CPU) Run() error {
	c.Running = true
	defer func() { c.Running = false }()

	for !c.Halted {
		if c.MaxCycles != 0 && c.Cycles >= c.MaxCycles {
			return nil
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// execute dispatches on opcode and performs its effect. pc is the local
// program counter, already advanced past the opcode byte; execute
// advances it past any operand bytes and may overwrite it for control
// flow. startPC is the address of the opcode byte itself, used only for
// trap reporting.
func (c *CPU) execute(op isa.Opcode, pc *uint16, startPC uint16) error {
	switch op {
	case isa.OpNOP:
		return nil

	case isa.OpLOAD:
		r := int(c.fetch(pc))
		imm := c.fetch16(pc)
		c.SetReg(r, imm)
		return nil

	case isa.OpLOADM:
		r := int(c.fetch(pc))
		addr := c.fetch16(pc)
		v, err := c.Read16(addr)
		if err != nil {
			return err
		}
		c.SetReg(r, v)
		return nil

	case isa.OpSTORE:
		addr := c.fetch16(pc)
		r := int(c.fetch(pc))
		return c.Write16(addr, c.Reg(r))

	case isa.OpMOV:
		r1, r2 := isa.Unpack(c.fetch(pc))
		c.SetReg(r1, c.Reg(r2))
		return nil

	case isa.OpPUSH:
		r := int(c.fetch(pc))
		return c.Push(c.Reg(r))

	case isa.OpPOP:
		r := int(c.fetch(pc))
		v, err := c.Pop()
		if err != nil {
			return err
		}
		c.SetReg(r, v)
		return nil

	case isa.OpADD, isa.OpSUB:
		r1, r2 := isa.Unpack(c.fetch(pc))
		c.execAddSub(op == isa.OpSUB, r1, c.Reg(r1), c.Reg(r2))
		return nil

	case isa.OpADDI, isa.OpSUBI:
		r := int(c.fetch(pc))
		imm := c.fetch16(pc)
		c.execAddSub(op == isa.OpSUBI, r, c.Reg(r), imm)
		return nil

	case isa.OpMUL:
		r1, r2 := isa.Unpack(c.fetch(pc))
		c.execMul(r1, c.Reg(r1), c.Reg(r2))
		return nil

	case isa.OpDIV:
		r1, r2 := isa.Unpack(c.fetch(pc))
		if c.Reg(r2) == 0 {
			return c.trap(startPC, byte(op), "division by zero")
		}
		c.execDiv(r1, r2)
		return nil

	case isa.OpINC, isa.OpDEC:
		r := int(c.fetch(pc))
		c.execIncDec(op == isa.OpDEC, r)
		return nil

	case isa.OpAND, isa.OpOR, isa.OpXOR:
		r1, r2 := isa.Unpack(c.fetch(pc))
		c.execLogic(op, r1, c.Reg(r1), c.Reg(r2))
		return nil

	case isa.OpNOT:
		r := int(c.fetch(pc))
		c.execNot(r)
		return nil

	case isa.OpSHL, isa.OpSHR:
		r := int(c.fetch(pc))
		shift := c.fetch(pc)
		c.execShift(op == isa.OpSHR, r, shift)
		return nil

	case isa.OpCMP:
		r1, r2 := isa.Unpack(c.fetch(pc))
		c.execCmp(c.Reg(r1), c.Reg(r2))
		return nil

	case isa.OpCMPI:
		r := int(c.fetch(pc))
		imm := c.fetch16(pc)
		c.execCmp(c.Reg(r), imm)
		return nil

	case isa.OpJMP:
		target := c.fetch16(pc)
		*pc = target
		return nil

	case isa.OpJZ:
		target := c.fetch16(pc)
		if c.Flags.Z {
			*pc = target
		}
		return nil

	case isa.OpJNZ:
		target := c.fetch16(pc)
		if !c.Flags.Z {
			*pc = target
		}
		return nil

	case isa.OpJC:
		target := c.fetch16(pc)
		if c.Flags.C {
			*pc = target
		}
		return nil

	case isa.OpJNC:
		target := c.fetch16(pc)
		if !c.Flags.C {
			*pc = target
		}
		return nil

	case isa.OpCALL:
		target := c.fetch16(pc)
		if err := c.Push(*pc); err != nil {
			return err
		}
		*pc = target
		return nil

	case isa.OpRET:
		ret, err := c.Pop()
		if err != nil {
			return err
		}
		*pc = ret
		return nil

	case isa.OpIN:
		r := int(c.fetch(pc))
		port := c.fetch16(pc)
		b, err := c.ReadByte(port)
		if err != nil {
			return err
		}
		c.SetReg(r, uint16(b))
		return nil

	case isa.OpOUT:
		port := c.fetch16(pc)
		r := int(c.fetch(pc))
		return c.WriteByte(port, byte(c.Reg(r)))

	case isa.OpHLT:
		c.Halted = true
		c.Running = false
		return nil

	default:
		return c.trap(startPC, byte(op), "unknown opcode")
	}
}
