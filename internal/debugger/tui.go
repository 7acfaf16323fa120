package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the interactive single-step/breakpoint/watch front end: a
// registers panel, a disassembly-around-pc panel, a source panel, an
// output log, and a command line. Adapted from the teacher's TUI, cut
// down to the panels c4go's VM state actually supports (no memory-dump
// hex panel — c4go's unified Bytes arena has no fixed "RAM window" the
// way a real CPU does; registers + disassembly + source cover the same
// debugging need).
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	Registers *tview.TextView
	Source    *tview.TextView
	Disasm    *tview.TextView
	Output    *tview.TextView
	Command   *tview.InputField

	DisasmContext int
	SourceContext int

	KeyQuit     rune
	KeyStep     rune
	KeyContinue rune
}

// NewTUI builds a TUI over an already-constructed Debugger.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{
		Debugger:      d,
		App:           tview.NewApplication(),
		DisasmContext: 8,
		SourceContext: 5,
		KeyQuit:       'q',
		KeyStep:       's',
		KeyContinue:   'c',
	}
	t.build()
	return t
}

func (t *TUI) build() {
	t.Registers = tview.NewTextView().SetDynamicColors(true)
	t.Registers.SetBorder(true).SetTitle(" Registers ")

	t.Source = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.Source.SetBorder(true).SetTitle(" Source ")

	t.Disasm = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.Disasm.SetBorder(true).SetTitle(" Disassembly ")

	t.Output = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.Output.SetBorder(true).SetTitle(" Output ")

	t.Command = tview.NewInputField().SetLabel("(c4db) ")
	t.Command.SetBorder(true).SetTitle(" Command ")
	t.Command.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			t.runCommand(t.Command.GetText())
			t.Command.SetText("")
		}
	})

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.Registers, 7, 0, false).
		AddItem(t.Source, 0, 1, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.Disasm, 0, 1, false).
		AddItem(t.Output, 0, 1, false)

	main := tview.NewFlex().
		AddItem(left, 0, 1, false).
		AddItem(right, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, 0, 1, false).
		AddItem(t.Command, 3, 0, true)

	t.App.SetRoot(root, true).SetFocus(t.Command)
	t.App.SetInputCapture(t.handleGlobalKey)
}

func (t *TUI) handleGlobalKey(ev *tcell.EventKey) *tcell.EventKey {
	if t.App.GetFocus() == t.Command {
		return ev
	}
	switch ev.Rune() {
	case t.KeyQuit:
		t.App.Stop()
		return nil
	case t.KeyStep:
		t.Debugger.Step()
		t.refresh()
		return nil
	case t.KeyContinue:
		t.Debugger.Continue()
		t.refresh()
		return nil
	}
	return ev
}

// runCommand parses and executes one command-line entry: step, continue,
// break <addr>, watch <addr>, or quit. There is no command that deletes a
// breakpoint or watchpoint.
func (t *TUI) runCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		t.refresh()
		return
	}
	switch fields[0] {
	case "step", "s":
		t.Debugger.Step()
	case "continue", "c":
		t.Debugger.Continue()
	case "break", "b":
		if len(fields) > 1 {
			if addr, err := strconv.Atoi(fields[1]); err == nil {
				t.Debugger.Breakpoints.Add(addr, false)
			}
		}
	case "watch", "w":
		if len(fields) > 1 {
			if addr, err := strconv.Atoi(fields[1]); err == nil {
				v, _ := t.Debugger.Machine.ReadWord(uint(addr))
				t.Debugger.Watchpoints.Add(uint(addr), v)
			}
		}
	case "quit", "q":
		t.App.Stop()
		return
	default:
		t.Debugger.LastOutput = fmt.Sprintf("unknown command %q", fields[0])
	}
	t.refresh()
}

func (t *TUI) refresh() {
	d := t.Debugger
	t.Registers.Clear()
	sp, bp, a, cyc := d.Machine.Registers()
	fmt.Fprintf(t.Registers, "[yellow]pc[white]=%-6d [yellow]sp[white]=%-6d [yellow]bp[white]=%-6d\n[yellow]a[white] =%-6d [yellow]cyc[white]=%d\n",
		d.Machine.PC(), sp, bp, a, cyc)

	t.Disasm.Clear()
	pc := d.Machine.PC()
	lo, hi := pc-t.DisasmContext/2, pc+t.DisasmContext/2
	if lo < 0 {
		lo = 0
	}
	if hi > d.Machine.CodeLen() {
		hi = d.Machine.CodeLen()
	}
	for addr := lo; addr < hi; addr++ {
		mnem, hasOperand, operand := d.Machine.Disassemble(addr)
		marker := "  "
		if addr == pc {
			marker = "->"
		}
		if hasOperand {
			fmt.Fprintf(t.Disasm, "%s %4d: %s %d\n", marker, addr, mnem, operand)
		} else {
			fmt.Fprintf(t.Disasm, "%s %4d: %s\n", marker, addr, mnem)
		}
	}

	if d.Halted {
		if d.ExitErr != nil {
			fmt.Fprintf(t.Output, "[red]halted: %v[white]\n", d.ExitErr)
		} else {
			fmt.Fprintf(t.Output, "[green]exit(%d)[white]\n", d.ExitVal)
		}
	}
	if d.LastOutput != "" {
		fmt.Fprintln(t.Output, d.LastOutput)
		d.LastOutput = ""
	}

	t.App.Draw()
}

// Run starts the TUI event loop, blocking until the user quits.
func (t *TUI) Run() error {
	for i, line := range t.Debugger.Source {
		fmt.Fprintf(t.Source, "%4d  %s\n", i+1, tview.Escape(line))
	}
	t.refresh()
	return t.App.Run()
}
