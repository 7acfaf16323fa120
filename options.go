package main

import (
	"io"

	"github.com/jcorbin/c4go/internal/flushio"
)

// VMOption configures a VM at construction time, following the same
// functional-options shape the compiler side uses for CompilerOption.
type VMOption interface{ apply(vm *VM) }

type vmOptionFunc func(vm *VM)

func (f vmOptionFunc) apply(vm *VM) { f(vm) }

// WithStdin supplies the reader backing the compiled program's fd 0.
func WithStdin(r io.Reader) VMOption {
	return vmOptionFunc(func(vm *VM) { vm.in = fileQueue{r} })
}

// WithStdout supplies the writer that receives the compiled program's
// printf output and the final "exit(N) cycle = M" line. The VM has no
// write syscall, so nothing else reaches it.
func WithStdout(w io.Writer) VMOption {
	return vmOptionFunc(func(vm *VM) { vm.out = flushio.NewWriteFlusher(w) })
}

// WithTrace enables -d style per-cycle tracing, handing each rendered
// line to fn.
func WithTrace(fn func(line string)) VMOption {
	return vmOptionFunc(func(vm *VM) {
		vm.trace = fn != nil
		vm.traceFn = fn
	})
}

// WithStackWords overrides the default stack region size, in words.
func WithStackWords(n uint) VMOption {
	return vmOptionFunc(func(vm *VM) {
		if n > 0 {
			vm.stackWords = n
		}
	})
}

// WithHeapWords overrides the default heap region size, in words.
func WithHeapWords(n uint) VMOption {
	return vmOptionFunc(func(vm *VM) {
		if n > 0 {
			vm.heapWords = n
		}
	})
}

// WithVMLogf installs the VM's ambient diagnostic logger (distinct from
// the compiled program's own stdout, see SPEC_FULL.md's logging notes).
func WithVMLogf(logfn func(mess string, args ...interface{})) VMOption {
	return vmOptionFunc(func(vm *VM) { vm.logfn = logfn })
}

// CompilerOption configures a Compiler at construction time.
type CompilerOption interface{ apply(c *Compiler) }

type compilerOptionFunc func(c *Compiler)

func (f compilerOptionFunc) apply(c *Compiler) { f(c) }

// WithListing turns on -s style source+opcode listing, written to w
// instead of being executed.
func WithListing(w io.Writer) CompilerOption {
	return compilerOptionFunc(func(c *Compiler) {
		c.listing = true
		c.listOut = flushio.NewWriteFlusher(w)
	})
}

// WithCompilerLogf installs the compiler's ambient diagnostic logger.
func WithCompilerLogf(logfn func(mess string, args ...interface{})) CompilerOption {
	return compilerOptionFunc(func(c *Compiler) { c.logfn = logfn })
}

// NewCompilerWithOptions is NewCompiler plus a set of CompilerOptions,
// kept separate from NewCompiler itself so zero-option construction
// never pays for the variadic loop.
func NewCompilerWithOptions(opts ...CompilerOption) *Compiler {
	c := NewCompiler()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
	return c
}
