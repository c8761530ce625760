package debugger

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// GUI is a minimal fyne window onto the debugger: a register grid, a
// stack grid, a console log, and Step/Continue/Reset buttons. There is
// no source view because this toolchain has no separate disassembler,
// and no breakpoints list widget because breakpoints are set from the
// command console below the grids, the same as in the TUI.
type GUI struct {
	Debugger *Debugger
	App      fyne.App
	Window   fyne.Window

	RegisterView *widget.TextGrid
	StackView    *widget.TextGrid
	ConsoleView  *widget.TextGrid
	CommandEntry *widget.Entry
}

// RunGUI builds and shows the GUI, blocking until the window is closed.
func RunGUI(dbg *Debugger) error {
	g := newGUI(dbg)
	g.Window.ShowAndRun()
	return nil
}

func newGUI(dbg *Debugger) *GUI {
	a := app.New()
	w := a.NewWindow("SimpleCPU Debugger")

	g := &GUI{Debugger: dbg, App: a, Window: w}
	g.build()
	w.Resize(fyne.NewSize(900, 600))
	return g
}

func (g *GUI) build() {
	g.RegisterView = widget.NewTextGrid()
	g.StackView = widget.NewTextGrid()
	g.ConsoleView = widget.NewTextGrid()
	g.refreshRegisters()
	g.refreshStack()

	g.CommandEntry = widget.NewEntry()
	g.CommandEntry.SetPlaceHolder("debugger command (step, continue, break 0x0120, ...)")
	g.CommandEntry.OnSubmitted = g.execute

	stepBtn := widget.NewButton("Step", func() { g.execute("step") })
	continueBtn := widget.NewButton("Continue", func() { g.execute("continue") })
	resetBtn := widget.NewButton("Reset", func() { g.execute("reset") })
	toolbar := container.NewHBox(stepBtn, continueBtn, resetBtn)

	panels := container.NewGridWithColumns(2,
		container.NewVBox(widget.NewLabel("Registers"), g.RegisterView),
		container.NewVBox(widget.NewLabel("Stack"), g.StackView),
	)

	content := container.NewBorder(
		toolbar, g.CommandEntry, nil, nil,
		container.NewVSplit(panels, container.NewVScroll(g.ConsoleView)),
	)
	g.Window.SetContent(content)
}

func (g *GUI) execute(cmd string) {
	g.CommandEntry.SetText("")
	err := g.Debugger.ExecuteCommand(cmd)
	output := g.Debugger.GetOutput()

	if err != nil {
		g.appendConsole(fmt.Sprintf("error: %v\n", err))
	}
	if output != "" {
		g.appendConsole(output)
	}

	g.refreshRegisters()
	g.refreshStack()
}

func (g *GUI) appendConsole(text string) {
	g.ConsoleView.SetText(g.ConsoleView.Text() + text)
}

func (g *GUI) refreshRegisters() {
	cpu := g.Debugger.CPU
	var b strings.Builder
	fmt.Fprintf(&b, "A  = 0x%04X\nB  = 0x%04X\nC  = 0x%04X\nD  = 0x%04X\nSP = 0x%04X\nPC = 0x%04X\nCycles = %d\n",
		cpu.A(), cpu.B(), cpu.CReg(), cpu.D(), cpu.SP(), cpu.PC(), cpu.Cycles)
	g.RegisterView.SetText(b.String())
}

func (g *GUI) refreshStack() {
	var b strings.Builder
	g.Debugger.CPU.StackDump(&b, 8)
	g.StackView.SetText(b.String())
}
