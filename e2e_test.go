package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// compileAndRun compiles src and runs it to completion with a fresh VM,
// returning the exit code and whatever the program wrote to stdout.
func compileAndRun(t *testing.T, src string) (exitCode int, stdout string) {
	t.Helper()
	var out bytes.Buffer
	code, err := Run(strings.NewReader(src), "test.c", nil,
		[]CompilerOption{}, []VMOption{WithStdout(&out)})
	require.NoError(t, err)
	return code, out.String()
}

// The following mirror spec.md's seven concrete seed scenarios exactly.

func Test_seed_arithmetic_precedence(t *testing.T) {
	code, _ := compileAndRun(t, `int main(){ return 2+3*4; }`)
	require.Equal(t, 14, code)
}

func Test_seed_while_loop(t *testing.T) {
	code, _ := compileAndRun(t, `int main(){ int i; i=0; while(i<5) i=i+1; return i; }`)
	require.Equal(t, 5, code)
}

func Test_seed_string_printf(t *testing.T) {
	code, out := compileAndRun(t, `int main(){ char *s; s="hi"; printf("%s\n", s); return 0; }`)
	require.Equal(t, 0, code)
	require.Contains(t, out, "hi\n")
}

func Test_seed_enum_constants(t *testing.T) {
	code, _ := compileAndRun(t, `enum { A, B=10, C }; int main(){ return A+B+C; }`)
	require.Equal(t, 21, code)
}

func Test_seed_function_call(t *testing.T) {
	code, _ := compileAndRun(t, `int f(int x){ return x*x; } int main(){ return f(7); }`)
	require.Equal(t, 49, code)
}

func Test_seed_malloc_pointer(t *testing.T) {
	code, _ := compileAndRun(t, `int main(){ int *p; p=malloc(8); *p=42; return *p; }`)
	require.Equal(t, 42, code)
}

func Test_seed_listing_mode_skips_execution(t *testing.T) {
	var listing bytes.Buffer
	src := "int main(){ return 2+3*4; }\n"
	prog, err := Compile(strings.NewReader(src), "test.c", WithListing(&listing))
	require.NoError(t, err)
	require.NotNil(t, prog)

	text := listing.String()
	require.Contains(t, text, "1: "+strings.TrimRight(src, "\n"))
	require.Contains(t, text, "     IMM")
	require.Contains(t, text, "     ADD")
}

// Further invariants from spec §8, beyond the seven seed scenarios.

func Test_precedence_climbing_law(t *testing.T) {
	// a + b * c must parse as a + (b * c): the multiply's operand pair
	// is evaluated and combined before the add sees it, so the code
	// sequence is IMM a, PSH, IMM b, PSH, IMM c, MUL, ADD — never an ADD
	// landing between b and c.
	prog, err := Compile(strings.NewReader(`int main(){ return 2+3*4; }`), "t.c")
	require.NoError(t, err)

	var ops []op
	for i := 0; i < len(prog.Code); i++ {
		o := op(prog.Code[i])
		ops = append(ops, o)
		if o.hasOperand() {
			i++
		}
	}
	mulAt, addAt := -1, -1
	for i, o := range ops {
		if o == opMUL {
			mulAt = i
		}
		if o == opADD {
			addAt = i
		}
	}
	require.Greater(t, mulAt, 0)
	require.Greater(t, addAt, mulAt, "ADD must be emitted after MUL for 2+3*4")
}

func Test_pointer_scaling_add(t *testing.T) {
	// p + k where p : int* must scale k by sizeof(int) before ADD.
	src := `int main(){ int *p; int k; p=malloc(8); k=1; return *(p+k); }`
	prog, err := Compile(strings.NewReader(src), "t.c")
	require.NoError(t, err)

	foundMul, foundAdd := false, false
	for i := 0; i < len(prog.Code); i++ {
		o := op(prog.Code[i])
		switch o {
		case opMUL:
			foundMul = true
		case opADD:
			if foundMul {
				foundAdd = true
			}
		}
		if o.hasOperand() {
			i++
		}
	}
	require.True(t, foundMul, "pointer + int must scale by a MUL")
	require.True(t, foundAdd, "the scaled offset must still be added")
}

func Test_shadow_restoration_after_function(t *testing.T) {
	c := NewCompiler()
	c.Input.Queue = append(c.Input.Queue, strings.NewReader(`int f(int x){ int y; return x+y; } int main(){ return f(1); }`))
	c.compileProgram()
	for i, sym := range c.sym.syms {
		require.NotEqual(t, classLoc, sym.class, "record %d (%s) leaked as classLoc after function close", i, sym.name)
	}
}

func Test_frame_discipline_ent_lev_balanced(t *testing.T) {
	// Every ENT n must be matched by exactly one LEV for each function;
	// check by simply running a handful of nested calls to completion
	// without the VM wandering into an unknown-instruction error, which
	// would be the observable symptom of broken frame bookkeeping.
	code, _ := compileAndRun(t, `
int sq(int x) { return x*x; }
int sumsq(int a, int b) { return sq(a)+sq(b); }
int main(){ return sumsq(3,4); }
`)
	require.Equal(t, 25, code)
}

func Test_compile_error_missing_main(t *testing.T) {
	_, err := Compile(strings.NewReader(`int f(){ return 0; }`), "t.c")
	require.Error(t, err)
	require.Contains(t, err.Error(), "main() not defined")
}
