package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simplecpu/simplecpu/isa"
)

// cmdStep executes exactly one instruction and reports the trap if Step
// returns one, mirroring the CPU's own "cycles not incremented" contract.
func (d *Debugger) cmdStep(args []string) error {
	if d.CPU.Halted {
		return fmt.Errorf("program is halted")
	}
	if err := d.CPU.Step(); err != nil {
		return err
	}
	d.Printf("PC=0x%04X  %s\n", d.CPU.PC(), d.CPU.TraceLine())
	return nil
}

// cmdContinue runs until halt, trap, or breakpoint.
func (d *Debugger) cmdContinue(args []string) error {
	if d.CPU.Halted {
		return fmt.Errorf("program is halted")
	}
	if err := d.RunUntilBreak(); err != nil {
		return err
	}
	if d.CPU.Halted {
		d.Println("Program halted.")
	}
	return nil
}

// cmdBreak sets a breakpoint at an address or label.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <address|label>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, false)
	d.Printf("Breakpoint %d at 0x%04X\n", bp.ID, addr)
	return nil
}

// cmdTBreak sets a one-shot breakpoint, auto-deleted after its first hit.
func (d *Debugger) cmdTBreak(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tbreak <address|label>")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(addr, true)
	d.Printf("Temporary breakpoint %d at 0x%04X\n", bp.ID, addr)
	return nil
}

// cmdDelete removes one breakpoint by ID, or every breakpoint with no args.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Println("All breakpoints deleted")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint ID: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("Breakpoint %d deleted\n", id)
	return nil
}

// cmdInfo prints the register file, flags, and cycle count, plus
// breakpoints when asked for "info break".
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) > 0 && strings.HasPrefix(strings.ToLower(args[0]), "break") {
		return d.infoBreakpoints()
	}
	d.CPU.DumpRegisters(&d.Output)
	return nil
}

func (d *Debugger) infoBreakpoints() error {
	bps := d.Breakpoints.GetAllBreakpoints()
	if len(bps) == 0 {
		d.Println("No breakpoints set.")
		return nil
	}
	for _, bp := range bps {
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		d.Printf("%d: 0x%04X (%s, hit %d times)\n", bp.ID, bp.Address, state, bp.HitCount)
	}
	return nil
}

// cmdMemory dumps memory starting at an address for a given length
// (default 64 bytes). Usage: mem <address> [length]
func (d *Debugger) cmdMemory(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: mem <address> [length]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	length := 64
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid length %q", args[1])
		}
		length = n
	}
	d.CPU.Dump(&d.Output, addr, length)
	return nil
}

// cmdStack dumps the top of the stack (default 8 words).
func (d *Debugger) cmdStack(args []string) error {
	n := 8
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid word count %q", args[0])
		}
		n = v
	}
	d.CPU.StackDump(&d.Output, n)
	return nil
}

// cmdSet modifies a register or memory cell in place: "set A 5" or
// "set [0x0200] 0x41".
func (d *Debugger) cmdSet(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <register|[address]> <value>")
	}
	target := strings.ToUpper(args[0])
	value, ok := parseSetValue(args[1])
	if !ok {
		return fmt.Errorf("invalid value %q", args[1])
	}

	if strings.HasPrefix(target, "[") && strings.HasSuffix(target, "]") {
		addr, err := d.ResolveAddress(target[1 : len(target)-1])
		if err != nil {
			return err
		}
		if err := d.CPU.Write16(addr, value); err != nil {
			return err
		}
		d.Printf("mem[0x%04X] = 0x%04X\n", addr, value)
		return nil
	}

	reg, ok := isa.RegisterByName(target)
	if !ok {
		return fmt.Errorf("unknown register or malformed address %q", args[0])
	}
	d.CPU.SetReg(reg, value)
	d.Printf("%s = 0x%04X\n", target, value)
	return nil
}

func parseSetValue(tok string) (uint16, bool) {
	base := 10
	digits := tok
	if len(tok) > 1 && (strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X")) {
		base = 16
		digits = tok[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// cmdReset restores the CPU to its post-init state without reloading the
// program image; callers that want a clean run reload the image
// themselves after calling this.
func (d *Debugger) cmdReset(args []string) error {
	d.CPU.Reset()
	d.Breakpoints.Clear()
	d.Println("CPU reset.")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.Println(`Commands:
  step, s              execute one instruction
  continue, c          run until halt, trap, or breakpoint
  break, b <addr>       set a breakpoint
  tbreak, tb <addr>     set a one-shot breakpoint
  delete, d [id]        delete a breakpoint (or all)
  info, i [break]       show registers/flags, or breakpoints
  mem, x <addr> [len]    dump memory
  stack [n]             dump the top n stack words
  set <reg|[addr]> <v>  write a register or memory cell
  reset                 reset the CPU
  quit, q               exit the debugger
  help, h, ?            this text`)
	return nil
}
