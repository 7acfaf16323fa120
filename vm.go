package main

import (
	"fmt"

	"github.com/jcorbin/c4go/internal/flushio"
	"github.com/jcorbin/c4go/internal/mem"
)

// vmError is a VM runtime failure: executing a code word that isn't a
// known opcode, pc leaving the code segment, or a memory or syscall error
// reported while executing an instruction. Divide by zero is not a
// vmError (it panics), and a wild read/write either lands on an allocated
// page or reads back zero, matching the original's "no memory protection
// at all" character.
type vmError struct {
	Cycle int64
	Msg   string
}

func (e *vmError) Error() string { return fmt.Sprintf("%s! cycle = %d", e.Msg, e.Cycle) }

func vmErrorf(cycle int64, format string, args ...interface{}) *vmError {
	return &vmError{Cycle: cycle, Msg: fmt.Sprintf(format, args...)}
}

// Program is the result of a successful Compile: the code segment, the
// data segment laid down by string/global emission, and the two
// addresses the VM needs to start a run.
type Program struct {
	Code         []int
	Data         []byte
	MainAddr     int
	EpilogueAddr int
}

const (
	defaultStackWords = 1 << 16 // words, not bytes
	defaultHeapWords  = 1 << 16
)

// VM runs a compiled Program over a single unified byte-addressed memory
// region shared by the data segment, the call stack, and the malloc'd
// heap — see internal/mem.Bytes. Code is kept in its own word-indexed
// arena: this subset of C has no function pointers, so nothing ever
// needs a code address to alias a data address, and keeping them apart
// is the one deliberate divergence from the original's single flat
// process address space (noted in DESIGN.md's Open Question decisions).
type VM struct {
	logging

	code []int
	mem  mem.Bytes

	pc  int   // index into code
	sp  uint  // byte address
	bp  uint  // byte address
	a   int64 // accumulator
	cyc int64

	heapBase, heapEnd, heapLimit uint
	stackBase, stackTop          uint

	stackWords, heapWords uint

	in      fileQueue
	out     flushio.WriteFlusher
	trace   bool
	traceFn func(line string)

	files   map[int64]hostFile
	nextFd  int64
	closers []closer
}

type closer interface{ Close() error }

// NewVM constructs a VM ready to Load and Run a Program.
func NewVM(opts ...VMOption) *VM {
	vm := &VM{
		stackWords: defaultStackWords,
		heapWords:  defaultHeapWords,
		files:      make(map[int64]hostFile),
		nextFd:     3, // 0,1,2 reserved, matching stdin/stdout/stderr
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
	if vm.out == nil {
		vm.out = flushio.NewWriteFlusher(discardWriter{})
	}
	return vm
}

// Load installs prog's code and data segment and lays out the heap and
// stack above it, ready for Run.
func (vm *VM) Load(prog *Program) error {
	vm.code = prog.Code
	if err := vm.mem.Stor(0, prog.Data); err != nil {
		return fmt.Errorf("loading data segment: %w", err)
	}

	dataEnd := uint(len(prog.Data))
	vm.heapBase = alignUp(dataEnd, wordSize)
	vm.heapLimit = vm.heapBase + vm.heapWords*wordSize
	vm.heapEnd = vm.heapBase

	vm.stackBase = vm.heapLimit
	vm.stackTop = vm.stackBase + vm.stackWords*wordSize
	return nil
}

func alignUp(v, align uint) uint {
	if r := v % align; r != 0 {
		v += align - r
	}
	return v
}

// Run sets up the argc/argv call frame for main and executes until the
// program calls exit (or main returns into the epilogue) or a step
// fails with a vmError. There is no step limit. Returns the program's
// exit code.
func (vm *VM) Run(prog *Program, args []string) (exitCode int, err error) {
	if err := vm.Load(prog); err != nil {
		return -1, err
	}

	argv, argc := vm.buildArgv(args)

	vm.bp = vm.stackTop
	vm.sp = vm.stackTop
	vm.push(int64(argc))
	vm.push(int64(argv))
	vm.push(int64(prog.EpilogueAddr))
	vm.pc = prog.MainAddr
	vm.cyc = 0

	for {
		code, halted, err := vm.step()
		if err != nil {
			return -1, err
		}
		if halted {
			return code, nil
		}
	}
}

func (vm *VM) push(v int64) {
	vm.sp -= wordSize
	_ = vm.mem.StoreWord(vm.sp, wordSize, v)
}

func (vm *VM) pop() int64 {
	v, _ := vm.mem.LoadWord(vm.sp, wordSize)
	vm.sp += wordSize
	return v
}

// step executes exactly one instruction, returning (exitCode, true, nil)
// if the program has just exited.
func (vm *VM) step() (exitCode int, halted bool, err error) {
	if vm.pc < 0 || vm.pc >= len(vm.code) {
		return -1, false, &vmError{vm.cyc, "pc out of range"}
	}
	i := op(vm.code[vm.pc])
	vm.pc++
	vm.cyc++

	if vm.trace && vm.traceFn != nil {
		vm.traceFn(vm.traceLine(i))
	}

	switch i {
	case opLEA:
		vm.a = int64(vm.bp) + int64(vm.code[vm.pc])*wordSize
		vm.pc++
	case opIMM:
		vm.a = int64(vm.code[vm.pc])
		vm.pc++
	case opJMP:
		vm.pc = vm.code[vm.pc]
	case opJSR:
		vm.push(int64(vm.pc + 1))
		vm.pc = vm.code[vm.pc]
	case opBZ:
		if vm.a == 0 {
			vm.pc = vm.code[vm.pc]
		} else {
			vm.pc++
		}
	case opBNZ:
		if vm.a != 0 {
			vm.pc = vm.code[vm.pc]
		} else {
			vm.pc++
		}
	case opENT:
		vm.push(int64(vm.bp))
		vm.bp = vm.sp
		vm.sp -= uint(vm.code[vm.pc]) * wordSize
		vm.pc++
	case opADJ:
		vm.sp += uint(vm.code[vm.pc]) * wordSize
		vm.pc++
	case opLEV:
		vm.sp = vm.bp
		vm.bp = uint(vm.pop())
		vm.pc = int(vm.pop())
	case opLI:
		v, lerr := vm.mem.LoadWord(uint(vm.a), wordSize)
		if lerr != nil {
			return -1, false, &vmError{vm.cyc, lerr.Error()}
		}
		vm.a = v
	case opLC:
		b, lerr := vm.mem.LoadByte(uint(vm.a))
		if lerr != nil {
			return -1, false, &vmError{vm.cyc, lerr.Error()}
		}
		vm.a = int64(b)
	case opSI:
		addr := uint(vm.pop())
		_ = vm.mem.StoreWord(addr, wordSize, vm.a)
	case opSC:
		addr := uint(vm.pop())
		_ = vm.mem.StoreByte(addr, byte(vm.a))
		vm.a = int64(int8(byte(vm.a)))
	case opPSH:
		vm.push(vm.a)

	case opOR:
		vm.a = vm.pop() | vm.a
	case opXOR:
		vm.a = vm.pop() ^ vm.a
	case opAND:
		vm.a = vm.pop() & vm.a
	case opEQ:
		vm.a = boolToInt(vm.pop() == vm.a)
	case opNE:
		vm.a = boolToInt(vm.pop() != vm.a)
	case opLT:
		vm.a = boolToInt(vm.pop() < vm.a)
	case opGT:
		vm.a = boolToInt(vm.pop() > vm.a)
	case opLE:
		vm.a = boolToInt(vm.pop() <= vm.a)
	case opGE:
		vm.a = boolToInt(vm.pop() >= vm.a)
	case opSHL:
		vm.a = vm.pop() << uint(vm.a)
	case opSHR:
		vm.a = vm.pop() >> uint(vm.a)
	case opADD:
		vm.a = vm.pop() + vm.a
	case opSUB:
		vm.a = vm.pop() - vm.a
	case opMUL:
		vm.a = vm.pop() * vm.a
	case opDIV:
		d := vm.pop()
		vm.a = d / vm.a // a==0 panics, matching the original's undefined SIGFPE on `a/0`
	case opMOD:
		d := vm.pop()
		vm.a = d % vm.a

	case opOPEN, opREAD, opCLOS, opPRTF, opMALC, opFREE, opMSET, opMCMP:
		vm.logf("#", "syscall %s", i)
		if serr := vm.syscall(i); serr != nil {
			return -1, false, &vmError{vm.cyc, serr.Error()}
		}
	case opEXIT:
		code := int(vm.a)
		fmt.Fprintf(vm.out, "exit(%d) cycle = %d\n", code, vm.cyc)
		_ = vm.out.Flush()
		return code, true, nil

	default:
		return -1, false, vmErrorf(vm.cyc, "unknown instruction = %d", int(i))
	}
	return 0, false, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// traceLine renders one -d line: "<cycle>> <4-char op>[ <operand>]".
func (vm *VM) traceLine(i op) string {
	if i.hasOperand() && vm.pc < len(vm.code) {
		return fmt.Sprintf("%d> %-4s %d", vm.cyc, i.mnemonic4(), vm.code[vm.pc])
	}
	return fmt.Sprintf("%d> %-4s", vm.cyc, i.mnemonic4())
}

// The methods below give *VM the shape internal/debugger.Machine wants,
// so the TUI debugger can drive this VM without this package importing
// debugger (which would need VM's internals) or debugger importing main
// (which would cycle back to it).

// Step executes exactly one instruction; see step.
func (vm *VM) Step() (exitCode int, halted bool, err error) { return vm.step() }

// PC returns the current code-segment index.
func (vm *VM) PC() int { return vm.pc }

// Registers returns the VM's non-pc register file.
func (vm *VM) Registers() (sp, bp uint, a, cyc int64) {
	return vm.sp, vm.bp, vm.a, vm.cyc
}

// CodeLen returns the number of words in the code segment.
func (vm *VM) CodeLen() int { return len(vm.code) }

// Disassemble renders the instruction at addr the way -d/-s do.
func (vm *VM) Disassemble(addr int) (mnemonic string, hasOperand bool, operand int) {
	if addr < 0 || addr >= len(vm.code) {
		return "?", false, 0
	}
	o := op(vm.code[addr])
	if o.hasOperand() && addr+1 < len(vm.code) {
		return o.mnemonic8(), true, vm.code[addr+1]
	}
	return o.mnemonic8(), false, 0
}

// ReadWord reads one word from the unified memory, for watchpoints.
func (vm *VM) ReadWord(addr uint) (int64, error) { return vm.mem.LoadWord(addr, wordSize) }

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
