// Package debugger implements the interactive debugger backing the CLI's
// debug verb: breakpoints, command history, register/memory/stack
// inspection, and single-step/continue execution control over a vm.CPU.
// The machine is single-threaded and synchronous, so there is no
// goroutine-driven run loop to synchronize with — stepping the CPU and
// handling a command both happen inline in ExecuteCommand.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simplecpu/simplecpu/vm"
)

// Debugger holds debugger-owned state layered on top of a vm.CPU: the
// CPU itself is driven directly, not wrapped, so the debugger can be
// attached to (and detached from) a CPU a caller also runs headlessly.
type Debugger struct {
	CPU *vm.CPU

	Breakpoints *BreakpointManager
	History     *CommandHistory

	// Symbols is the label table produced by assembling the source, so
	// `break LOOP` and `mem LOOP` work the same way assembly operands
	// do. It is optional: a debug session started from a raw .bin file
	// has no symbols.
	Symbols map[string]uint16

	LastCommand string
	Quit        bool

	Output strings.Builder
}

// New attaches a debugger to cpu. symbols may be nil.
func New(cpu *vm.CPU, symbols map[string]uint16) *Debugger {
	if symbols == nil {
		symbols = make(map[string]uint16)
	}
	return &Debugger{
		CPU:         cpu,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(1000),
		Symbols:     symbols,
	}
}

// ResolveAddress resolves tok as a label first, falling back to a numeric
// literal (decimal, or hex with a 0x prefix).
func (d *Debugger) ResolveAddress(tok string) (uint16, error) {
	if addr, ok := d.Symbols[strings.ToUpper(tok)]; ok {
		return addr, nil
	}

	base := 10
	digits := tok
	if len(tok) > 1 && (strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X")) {
		base = 16
		digits = tok[2:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address or unknown label %q", tok)
	}
	return uint16(v), nil
}

// ExecuteCommand parses and runs one command line. An empty line repeats
// the last command, the classic gdb-style convenience for stepping.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History.Add(line)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "tbreak", "tb":
		return d.cmdTBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "info", "i", "regs":
		return d.cmdInfo(args)
	case "mem", "x":
		return d.cmdMemory(args)
	case "stack":
		return d.cmdStack(args)
	case "set":
		return d.cmdSet(args)
	case "reset":
		return d.cmdReset(args)
	case "quit", "q":
		d.Quit = true
		return nil
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether the CPU should pause at its current PC
// because of an enabled breakpoint there.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.CPU.PC()
	bp := d.Breakpoints.GetBreakpoint(pc)
	if bp == nil || !bp.Enabled {
		return false, ""
	}
	hit := d.Breakpoints.ProcessHit(pc)
	return true, fmt.Sprintf("breakpoint %d at 0x%04X", hit.ID, hit.Address)
}

// RunUntilBreak steps the CPU until it halts, traps, or hits an enabled
// breakpoint (other than the one it may already be sitting on, so
// `continue` from a just-hit breakpoint makes forward progress).
func (d *Debugger) RunUntilBreak() error {
	first := true
	for !d.CPU.Halted {
		if !first {
			if hit, msg := d.ShouldBreak(); hit {
				d.Println(msg)
				return nil
			}
		}
		first = false
		if err := d.CPU.Step(); err != nil {
			return err
		}
	}
	return nil
}

// GetOutput returns and clears the accumulated command output.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...any) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...any) {
	fmt.Fprintln(&d.Output, args...)
}
