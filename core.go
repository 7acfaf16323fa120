package main

import (
	"fmt"
	"strings"
)

// haltError wraps whatever error drove a VM or Compiler to stop early,
// distinguishing "this process is shutting down on purpose" from a bare
// propagated error in logs and in panicerr-recovered output.
type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

// logging is the ambient leveled-logging mixin shared by Compiler and VM:
// both embed it so any component can emit "TRACE"/"DUMP"-style lines
// through whatever sink main.go installs (typically an internal/logio
// Logger), without the compiler/VM packages needing to know about logio
// at all.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
