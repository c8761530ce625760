// Command simplecpu is the thin CLI front end for the SimpleCPU
// toolchain: it dispatches to the assemble/run/debug/trace verbs, wires
// up the host I/O boundary, and prints the register/memory dumps the
// core's pure types expose. It owns no ISA or execution semantics of
// its own — everything here is orchestration over package asm and
// package vm, per the core/collaborator split the emulator's design
// draws.
//
// This is a flat flag.* set plus a leading verb, not a subcommand
// library.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/simplecpu/simplecpu/asm"
	"github.com/simplecpu/simplecpu/config"
	"github.com/simplecpu/simplecpu/debugger"
	"github.com/simplecpu/simplecpu/tools"
	"github.com/simplecpu/simplecpu/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("simplecpu", flag.ContinueOnError)
	tui := fs.Bool("tui", false, "use the tview/tcell text debugger UI")
	gui := fs.Bool("gui", false, "use the fyne graphical debugger UI")
	configPath := fs.String("config", "", "load configuration from this TOML file")
	fs.Usage = printHelp

	if err := fs.Parse(args); err != nil {
		return 2
	}

	positional := fs.Args()
	if len(positional) == 0 {
		printHelp()
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	verb, rest := positional[0], positional[1:]
	switch verb {
	case "assemble":
		return cmdAssemble(rest)
	case "run":
		return cmdRun(rest, cfg)
	case "debug":
		return cmdDebug(rest, cfg, *tui, *gui)
	case "trace":
		return cmdTrace(rest, cfg)
	case "asm-run":
		return cmdAsmRun(rest, cfg)
	case "asm-debug":
		return cmdAsmDebug(rest, cfg, *tui, *gui)
	case "fmt":
		return cmdFmt(rest)
	case "lint":
		return cmdLint(rest)
	case "help", "-h", "--help":
		printHelp()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", verb)
		printHelp()
		return 1
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `simplecpu - assembler and emulator for the SimpleCPU toolchain

Usage:
  simplecpu assemble <in.asm> <out.bin>
  simplecpu run <prog.bin>
  simplecpu [--tui|--gui] debug <prog.bin>
  simplecpu trace <prog.bin>
  simplecpu asm-run <prog.asm>
  simplecpu [--tui|--gui] asm-debug <prog.asm>
  simplecpu fmt <prog.asm>
  simplecpu lint <prog.asm>

Flags (given before the command):
  --tui          use the tview/tcell text debugger UI
  --gui          use the fyne graphical debugger UI
  --config path  load configuration from this TOML file
`)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// assembleFile reads, assembles, and returns the image plus the label
// table (for the debugger's symbol resolution).
func assembleFile(path string) ([]byte, map[string]uint16, error) {
	src, err := os.ReadFile(path) // #nosec G304 -- user-specified source path
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	a := asm.New()
	image, err := a.Assemble(string(src))
	if err != nil {
		return nil, nil, err
	}

	symbols := make(map[string]uint16)
	for _, name := range a.Symbols().Names() {
		addr, _ := a.Symbols().Lookup(name)
		symbols[name] = addr
	}
	return image, symbols, nil
}

func cmdAssemble(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu assemble <in.asm> <out.bin>")
		return 1
	}
	image, _, err := assembleFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		return 1
	}
	if err := os.WriteFile(args[1], image, 0644); err != nil { // #nosec G306 -- emitted binary, not a secret
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", args[1], err)
		return 1
	}
	return 0
}

func loadBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified binary path
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func newCPU(cfg *config.Config, image []byte) *vm.CPU {
	hostIO := vm.StdIO{In: bufio.NewReader(os.Stdin), Out: bufio.NewWriter(os.Stdout)}
	cpu := vm.New(hostIO)
	cpu.MaxCycles = cfg.Execution.MaxCycles
	cpu.Load(image)
	return cpu
}

func cmdRun(args []string, cfg *config.Config) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu run <prog.bin>")
		return 1
	}
	image, err := loadBinary(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cpu := newCPU(cfg, image)
	if err := cpu.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func cmdAsmRun(args []string, cfg *config.Config) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu asm-run <prog.asm>")
		return 1
	}
	image, _, err := assembleFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		return 1
	}
	cpu := newCPU(cfg, image)
	if err := cpu.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func cmdTrace(args []string, cfg *config.Config) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu trace <prog.bin>")
		return 1
	}
	image, err := loadBinary(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cpu := newCPU(cfg, image)
	for !cpu.Halted {
		if cfg.Execution.MaxCycles != 0 && cpu.Cycles >= cfg.Execution.MaxCycles {
			break
		}
		fmt.Println(cpu.TraceLine())
		if err := cpu.Step(); err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			fmt.Printf("Total cycles: %d\n", cpu.Cycles)
			return 1
		}
	}
	fmt.Printf("Total cycles: %d\n", cpu.Cycles)
	return 0
}

func runDebugSession(cpu *vm.CPU, symbols map[string]uint16, cfg *config.Config, tui, gui bool) int {
	dbg := debugger.New(cpu, symbols)
	dbg.History = debugger.NewCommandHistory(cfg.Debugger.HistorySize)

	if gui {
		if err := debugger.RunGUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "gui error: %v\n", err)
			return 1
		}
		return 0
	}
	if tui {
		t := debugger.NewTUI(dbg)
		if err := t.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
			return 1
		}
		return 0
	}

	cpu.DumpRegisters(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	for !dbg.Quit {
		fmt.Print("(simplecpu-debug) ")
		if !scanner.Scan() {
			break
		}
		err := dbg.ExecuteCommand(scanner.Text())
		if out := dbg.GetOutput(); out != "" {
			fmt.Print(out)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	fmt.Println("Final state:")
	cpu.DumpRegisters(os.Stdout)
	return 0
}

func cmdDebug(args []string, cfg *config.Config, tui, gui bool) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu [--tui|--gui] debug <prog.bin>")
		return 1
	}
	image, err := loadBinary(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cpu := newCPU(cfg, image)
	return runDebugSession(cpu, nil, cfg, tui, gui)
}

func cmdAsmDebug(args []string, cfg *config.Config, tui, gui bool) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu [--tui|--gui] asm-debug <prog.asm>")
		return 1
	}
	image, symbols, err := assembleFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		return 1
	}
	cpu := newCPU(cfg, image)
	return runDebugSession(cpu, symbols, cfg, tui, gui)
}

func cmdFmt(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu fmt <prog.asm>")
		return 1
	}
	src, err := os.ReadFile(args[0]) // #nosec G304 -- user-specified source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Print(tools.Format(string(src), nil))
	return 0
}

func cmdLint(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: simplecpu lint <prog.asm>")
		return 1
	}
	src, err := os.ReadFile(args[0]) // #nosec G304 -- user-specified source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	issues := tools.Lint(string(src))
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	if len(issues) > 0 {
		for _, issue := range issues {
			if issue.Level == tools.LintError {
				return 1
			}
		}
	}
	return 0
}
