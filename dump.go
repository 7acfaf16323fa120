package main

import (
	"fmt"
	"io"
)

// vmDumper prints a post-mortem snapshot of a VM's registers, a window
// of disassembled code around pc, and the live stack frame chain walked
// via bp — the -dump flag's output. Adapted from the teacher's
// dictionary-walking memory dumper: c4's VM has no runtime symbol table
// to walk (names exist only at compile time), so this keeps the
// original's per-address formatting-loop shape but dumps registers and
// a disassembly window instead of a FORTH dictionary.
type vmDumper struct {
	vm  *VM
	out io.Writer
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  pc=%d sp=%d bp=%d a=%d cyc=%d\n", vm.pc, vm.sp, vm.bp, vm.a, vm.cyc)

	dump.dumpCode()
	dump.dumpStack()
}

// dumpCode disassembles a small window of code centered on pc.
func (dump *vmDumper) dumpCode() {
	vm := dump.vm
	lo, hi := vm.pc-4, vm.pc+5
	if lo < 0 {
		lo = 0
	}
	if hi > len(vm.code) {
		hi = len(vm.code)
	}
	fmt.Fprintf(dump.out, "  code[%d:%d]:\n", lo, hi)
	for i := lo; i < hi; {
		o := op(vm.code[i])
		mark := "  "
		if i == vm.pc {
			mark = "->"
		}
		if o.hasOperand() && i+1 < hi {
			fmt.Fprintf(dump.out, "    %s %6d: %s %d\n", mark, i, o.mnemonic8(), vm.code[i+1])
			i += 2
		} else {
			fmt.Fprintf(dump.out, "    %s %6d: %s\n", mark, i, o.mnemonic8())
			i++
		}
	}
}

// dumpStack walks the bp chain from the current frame outward, printing
// each frame's saved bp and return address.
func (dump *vmDumper) dumpStack() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "  frames:\n")
	bp := vm.bp
	for depth := 0; bp != 0 && bp < vm.stackTop && depth < 64; depth++ {
		savedBP, _ := vm.mem.LoadWord(bp, wordSize)
		retAddr, _ := vm.mem.LoadWord(bp+wordSize, wordSize)
		fmt.Fprintf(dump.out, "    #%d bp=%d saved_bp=%d ret=%d\n", depth, bp, savedBP, retAddr)
		if uint(savedBP) <= bp {
			break
		}
		bp = uint(savedBP)
	}
}
