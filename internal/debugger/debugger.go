// Package debugger implements an interactive single-step/breakpoint/
// watchpoint front end over a running c4go VM, grounded on
// lookbusy1344-arm_emulator/debugger (breakpoints.go, watchpoints.go,
// tui.go), built on github.com/gdamore/tcell/v2 and github.com/rivo/tview.
//
// It drives the same instruction-stepping the VM's plain -d trace uses;
// this package only adds an interactive, visual layer on top — it never
// changes -d's own output format.
package debugger

import "fmt"

// Machine is the minimal stepping/introspection surface the debugger
// drives. c4go's VM satisfies this directly (see its Step/PC/Registers/
// CodeLen/Disassemble/ReadWord methods); the interface exists so this
// package never needs to import package main.
type Machine interface {
	Step() (exitCode int, halted bool, err error)
	PC() int
	Registers() (sp, bp uint, a, cyc int64)
	CodeLen() int
	Disassemble(addr int) (mnemonic string, hasOperand bool, operand int)
	ReadWord(addr uint) (int64, error)
}

// Debugger holds one debug session's state: the machine being stepped,
// its breakpoints and watchpoints, the retained source listing, and
// whatever line of output the last command produced.
type Debugger struct {
	Machine     Machine
	Breakpoints *BreakpointManager
	Watchpoints *WatchpointManager

	Source []string // retained -s-style source lines, one per line number

	Running bool
	Halted  bool
	ExitErr error
	ExitVal int

	LastOutput string
}

// New constructs a Debugger ready to Step/Continue over m.
func New(m Machine, source []string) *Debugger {
	return &Debugger{
		Machine:     m,
		Breakpoints: NewBreakpointManager(),
		Watchpoints: NewWatchpointManager(),
		Source:      source,
	}
}

// Step executes exactly one VM instruction, checking watchpoints
// afterward and recording halt/exit state.
func (d *Debugger) Step() {
	if d.Halted {
		return
	}
	code, halted, err := d.Machine.Step()
	if err != nil {
		d.Halted = true
		d.ExitErr = err
		return
	}
	if halted {
		d.Halted = true
		d.ExitVal = code
	}
	if fired, werr := d.Watchpoints.Check(d.Machine.ReadWord); werr == nil {
		for _, wp := range fired {
			d.LastOutput = fmt.Sprintf("watchpoint %d @%d -> %d", wp.ID, wp.Address, wp.LastValue)
		}
	}
}

// Continue steps until a breakpoint is hit or the machine halts.
func (d *Debugger) Continue() {
	for !d.Halted {
		d.Step()
		if d.Halted {
			return
		}
		if bp, hit := d.Breakpoints.Hit(d.Machine.PC()); hit {
			d.LastOutput = fmt.Sprintf("breakpoint %d @%d (hit %d)", bp.ID, bp.Address, bp.HitCount)
			return
		}
	}
}

// SourceLine returns the retained source text for a 1-based line number,
// or "" if it's out of range.
func (d *Debugger) SourceLine(n int) string {
	if n-1 >= 0 && n-1 < len(d.Source) {
		return d.Source[n-1]
	}
	return ""
}
