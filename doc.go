/*
Package main implements c4go, a minimal self-hosting compiler and virtual
machine for a tiny subset of C.

c4go reads a single source file, lexes and parses it with a precedence
climbing expression parser and a recursive descent statement/declaration
parser, emits a custom stack bytecode into an in-memory code segment, and
immediately runs that bytecode on an embedded stack VM. There is no
separate compile step and no object file format: compilation and
execution happen in the same process, in the same pass.

The accepted language is deliberately small: char, int, and pointers to
arbitrary depth; enum; if/else, while, return, blocks; the usual C
operator set; string/char/integer literals; functions with parameters
and top-of-function locals; global variables. It has no preprocessor (a
line starting with # is merely skipped), no struct/union/typedef/float,
no for/do/switch/break/continue/goto, and no separate compilation. The
subset is exactly rich enough that the compiler's own implementation
language is expressible in it, the way the original c4.c by Robert
Swierczek could compile itself.

See SPEC_FULL.md in the repository root for the full component
breakdown, and DESIGN.md for how each part is grounded.
*/
package main
