/* Package main: c4go -- a small self-hosting C subset compiler and VM

c4go compiles the C subset described by Robert Swierczek's c4.c (char,
int, pointers of any indirection depth, if/while/return, and the small
standard-library surface c4 programs call through open/read/close/
printf/malloc/free/memset/memcmp) straight to bytecode for a small
stack machine, and then runs that bytecode in the same process.

There is no intermediate AST: the expression parser (a precedence
climber) and the statement parser (recursive descent) both emit
bytecode directly as they recognize grammar, sharing one symbol table,
one code segment, and one data segment with the VM that later executes
them. See SPEC_FULL.md for the full module breakdown; this file is
just the CLI that wires Compile/Run together.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jcorbin/c4go/internal/config"
	"github.com/jcorbin/c4go/internal/debugger"
	"github.com/jcorbin/c4go/internal/logio"
)

func main() {
	var (
		listOnly   bool
		trace      bool
		dump       bool
		tui        bool
		configPath string
		stackWords uint
		heapWords  uint
	)
	flag.BoolVar(&listOnly, "s", false, "print source+opcode listing and exit, without executing")
	flag.BoolVar(&trace, "d", false, "trace each VM instruction as it executes")
	flag.BoolVar(&dump, "dump", false, "print a VM register/stack dump after execution")
	flag.BoolVar(&tui, "tui", false, "run under the interactive debugger TUI instead of straight execution")
	flag.StringVar(&configPath, "config", "", "path to a TOML config file (see internal/config)")
	flag.UintVar(&stackWords, "stack-words", 0, "override the VM stack region size, in words")
	flag.UintVar(&heapWords, "heap-words", 0, "override the VM heap region size, in words")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	args := flag.Args()
	if len(args) < 1 {
		log.Errorf("usage: c4go [-s] [-d] [-dump] [-tui] [-config path] file.c [args...]")
		return
	}
	srcPath, progArgs := args[0], args[1:]

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	if stackWords > 0 {
		cfg.Memory.StackWords = stackWords
	}
	if heapWords > 0 {
		cfg.Memory.HeapWords = heapWords
	}
	if trace {
		cfg.Run.Trace = true
	}
	if dump {
		cfg.Run.Dump = true
	}
	if listOnly {
		cfg.Run.Listing = true
	}
	if tui {
		cfg.Debugger.Enabled = true
	}

	src, err := os.Open(srcPath)
	if err != nil {
		log.Errorf("%v", err)
		return
	}
	defer src.Close()

	if cfg.Run.Listing {
		runListing(&log, src, srcPath)
		return
	}

	copts := []CompilerOption{WithCompilerLogf(log.Leveledf("TRACE"))}

	if cfg.Debugger.Enabled {
		sourceLines, err := readLines(srcPath)
		if err != nil {
			log.Errorf("%v", err)
			return
		}
		runTUI(&log, src, srcPath, sourceLines, cfg, copts)
		return
	}

	// From here on, failures are compile or runtime errors against the
	// program being compiled/run, not CLI invocation errors — spec's
	// "-1 for any compile or runtime error" contract applies, so these
	// exit directly rather than falling through to the logger's generic
	// ExitCode() (which only ever yields 1 or 2).

	vopts := []VMOption{
		WithStdin(os.Stdin),
		WithStdout(os.Stdout),
		WithVMLogf(log.Leveledf("TRACE")),
		WithStackWords(cfg.Memory.StackWords),
		WithHeapWords(cfg.Memory.HeapWords),
	}
	if cfg.Run.Trace {
		vopts = append(vopts, WithTrace(func(line string) { fmt.Fprintln(os.Stderr, line) }))
	}

	if cfg.Run.Dump {
		vm := NewVM(vopts...)
		prog, cerr := Compile(src, srcPath, copts...)
		if cerr != nil {
			log.Errorf("%v", cerr)
			os.Exit(-1)
		}
		code, rerr := vm.Run(prog, progArgs)
		vmDumper{vm: vm, out: os.Stderr}.dump()
		if rerr != nil {
			log.Errorf("%v", rerr)
			os.Exit(-1)
		}
		os.Exit(code)
	}

	code, rerr := Run(src, srcPath, progArgs, copts, vopts)
	if rerr != nil {
		log.Errorf("%v", rerr)
		os.Exit(-1)
	}
	os.Exit(code)
}

// runListing drives -s: compile with WithListing so the listing lands
// on stdout as each line is consumed, then exit 0 without ever
// constructing a VM (matching spec's "compiler returns 0 after parse").
func runListing(log *logio.Logger, src *os.File, name string) {
	_, err := Compile(src, name, WithListing(os.Stdout), WithCompilerLogf(log.Leveledf("TRACE")))
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(-1)
	}
	os.Exit(0)
}

// runTUI compiles src then hands the resulting VM to the interactive
// debugger instead of running it straight through.
func runTUI(log *logio.Logger, src *os.File, name string, sourceLines []string, cfg *config.Config, copts []CompilerOption) {
	prog, err := Compile(src, name, copts...)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(-1)
	}

	vm := NewVM(
		WithStdin(os.Stdin),
		WithStdout(os.Stdout),
		WithVMLogf(log.Leveledf("TRACE")),
		WithStackWords(cfg.Memory.StackWords),
		WithHeapWords(cfg.Memory.HeapWords),
	)
	if err := vm.Load(prog); err != nil {
		log.Errorf("%v", err)
		os.Exit(-1)
	}

	d := debugger.New(vm, sourceLines)
	t := debugger.NewTUI(d)
	t.DisasmContext = vm.CodeLen()
	if t.DisasmContext > 16 {
		t.DisasmContext = 16
	}
	t.SourceContext = cfg.Debugger.SourceContext
	if len(cfg.Debugger.KeyQuit) > 0 {
		t.KeyQuit = rune(cfg.Debugger.KeyQuit[0])
	}
	if len(cfg.Debugger.KeyStep) > 0 {
		t.KeyStep = rune(cfg.Debugger.KeyStep[0])
	}
	if len(cfg.Debugger.KeyContinue) > 0 {
		t.KeyContinue = rune(cfg.Debugger.KeyContinue[0])
	}

	if err := t.Run(); err != nil {
		log.Errorf("%v", err)
		return
	}
	if d.ExitErr != nil {
		log.Errorf("%v", d.ExitErr)
		os.Exit(-1)
	}
	os.Exit(d.ExitVal)
}

// readLines loads path's text for the debugger's Source panel. Reusing
// the compiler's own listing output would also work, but the TUI needs
// the source independent of -s/-d, so it just reads the file directly.
func readLines(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(b), "\n"), nil
}
