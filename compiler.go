package main

import (
	"fmt"
	"io"

	"github.com/jcorbin/c4go/internal/fileinput"
	"github.com/jcorbin/c4go/internal/flushio"
	"github.com/jcorbin/c4go/internal/mem"
)

// compileError is every compile-time failure named in spec §7: it is
// always fatal, always formatted as "<line>: <message>", and carries no
// distinction between a user mistake and an internal inconsistency — the
// spec is explicit that both surface uniformly.
type compileError struct {
	Line int
	Msg  string
}

func (e *compileError) Error() string { return fmt.Sprintf("%d: %s", e.Line, e.Msg) }

func (c *Compiler) fail(format string, args ...interface{}) {
	panic(&compileError{Line: c.line, Msg: fmt.Sprintf(format, args...)})
}

// Compiler holds every arena and cursor the pipeline shares: the lexer's
// position in source, the symbol table, and the code/data segments being
// emitted. One Compiler compiles exactly one source file; nothing here
// is meant to be reused across compiles.
type Compiler struct {
	fileinput.Input
	logging

	listing bool // -s: print source + emitted opcodes per line, skip exec
	listOut flushio.WriteFlusher

	// lexer state, updated by next()
	tk   token
	ival int64
	idx  int // index into sym.syms when tk == tokId
	line int

	pending   rune // one rune of lookahead, consumed by peekRune/readRune
	pendingOK bool

	sym symtab

	ty  cType // type of the expression just parsed by expr()
	loc int   // parameter count plus one for the function being parsed; LEA offsets are loc minus a symbol's val

	code     []int // text segment: word-indexed, append only
	lastEmit int   // le: trails len(code), for per-line listing

	data     mem.Bytes // data segment: byte-addressed, string literals + globals
	dataPtr  uint
	mainIdx  int // symtab index of "main", or -1

	lastLineLen int // not set or read by the lexer or the listing code
}

// NewCompiler constructs a Compiler with its symbol table seeded; Compile
// then supplies the source to compile.
func NewCompiler() *Compiler {
	c := &Compiler{mainIdx: -1}
	c.seedSymbols()
	return c
}

// seedSymbols installs the keyword, built-in, and void entries the original c4.c seeds by re-lexing a bootstrap string against
// its own symbol table. Go doesn't need that indirection: we just intern
// the records directly, with identical (Tk, Class, Type, Val) results.
func (c *Compiler) seedSymbols() {
	for _, name := range []string{"char", "else", "enum", "if", "int", "return", "sizeof", "while"} {
		i := c.sym.intern(name)
		c.sym.syms[i].tk = keywords[name]
	}

	sys := []struct {
		name string
		op   op
	}{
		{"open", opOPEN}, {"read", opREAD}, {"close", opCLOS}, {"printf", opPRTF},
		{"malloc", opMALC}, {"free", opFREE}, {"memset", opMSET}, {"memcmp", opMCMP}, {"exit", opEXIT},
	}
	for _, s := range sys {
		i := c.sym.intern(s.name)
		c.sym.syms[i].tk = tokId
		c.sym.syms[i].class = classSys
		c.sym.syms[i].typ = typeInt
		c.sym.syms[i].val = int(s.op)
	}

	// void is not a keyword token: it behaves exactly like char when used
	// as a declaration's base type, which is how the original c4.c spells
	// "void next()" — a function returning nothing is just typed char.
	voidIdx := c.sym.intern("void")
	c.sym.syms[voidIdx].tk = tokChar
}

// Compile parses and emits the whole of src, then appends the PSH;EXIT
// epilogue main's call frame returns into and returns the finished
// Program. Any compile failure comes back as a *compileError, which
// carries only a line number; name is stored as the input's scan name,
// which the input layer replaces with the reader's own name once reading
// starts.
func (c *Compiler) Compile(src io.Reader, name string) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*compileError)
			if !ok {
				panic(r)
			}
			err = ce
		}
	}()

	c.Input.Queue = append(c.Input.Queue, src)
	c.Input.Scan.Name = name

	c.compileProgram()

	epilogueAddr := c.here()
	c.emit(opPSH)
	c.emit(opEXIT)

	if c.mainIdx < 0 {
		c.fail("main() not defined")
	}

	data := make([]byte, c.dataPtr)
	if err := c.data.Load(0, data); err != nil {
		return nil, fmt.Errorf("reading data segment: %w", err)
	}

	return &Program{
		Code:         c.code,
		Data:         data,
		MainAddr:     c.sym.syms[c.mainIdx].val,
		EpilogueAddr: epilogueAddr,
	}, nil
}
