package debugger

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the tcell/tview text interface for the debugger: a register
// panel, a stack panel, an output log, and a command input line. There
// is no disassembly/source panel, since this toolchain has no separate
// disassembler for a flat binary image.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout   *tview.Flex
	RegisterView *tview.TextView
	StackView    *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI builds a TUI attached to dbg. Call Run to enter the event loop.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.RefreshAll()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.RegisterView, 0, 1, false).
		AddItem(t.StackView, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 10, 0, false).
		AddItem(t.OutputView, 0, 1, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	t.executeCommand(cmd)
	if t.Debugger.Quit {
		t.App.Stop()
	}
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]Error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output log and scrolls to the bottom.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every live panel from current CPU state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateStackView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	cpu := t.Debugger.CPU
	var b strings.Builder
	fmt.Fprintf(&b, "A  = 0x%04X\n", cpu.A())
	fmt.Fprintf(&b, "B  = 0x%04X\n", cpu.B())
	fmt.Fprintf(&b, "C  = 0x%04X\n", cpu.CReg())
	fmt.Fprintf(&b, "D  = 0x%04X\n", cpu.D())
	fmt.Fprintf(&b, "SP = 0x%04X\n", cpu.SP())
	fmt.Fprintf(&b, "PC = 0x%04X\n", cpu.PC())
	fmt.Fprintf(&b, "Cycles = %d\n", cpu.Cycles)
	t.RegisterView.SetText(b.String())
}

func (t *TUI) updateStackView() {
	var b strings.Builder
	t.Debugger.CPU.StackDump(&b, 8)
	t.StackView.SetText(b.String())
}

// Run starts the tview event loop. It returns when the user quits.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}
