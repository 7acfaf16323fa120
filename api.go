package main

import (
	"io"

	"github.com/jcorbin/c4go/internal/panicerr"
)

// Compile reads src and compiles it under opts, returning the resulting
// Program ready to hand to NewVM/Run. name is passed on to
// Compiler.Compile; compile errors report only a line number.
func Compile(src io.Reader, name string, opts ...CompilerOption) (*Program, error) {
	c := NewCompilerWithOptions(opts...)
	return c.Compile(src, name)
}

// Run compiles src under copts then executes the result under vopts with
// the given program argv, returning the code the compiled program passed
// to exit(). Any compile failure, or a Go panic surfacing from deep in
// the VM's instruction loop (an integer divide by zero, say), comes back
// as a non-nil error with exitCode -1, matching spec's "-1 for any
// compile or runtime error" contract.
func Run(src io.Reader, name string, args []string, copts []CompilerOption, vopts []VMOption) (exitCode int, err error) {
	prog, cerr := Compile(src, name, copts...)
	if cerr != nil {
		return -1, cerr
	}

	vm := NewVM(vopts...)
	rerr := panicerr.Recover("vm", func() error {
		var runErr error
		exitCode, runErr = vm.Run(prog, args)
		return runErr
	})
	if rerr != nil {
		return -1, rerr
	}
	return exitCode, nil
}
