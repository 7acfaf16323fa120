package main

// Type encodes a value's base type plus pointer depth in one integer, the
// way the original c4.c does: CHAR and INT are the two base types, and
// each level of pointer indirection adds PTR. So `int**` is INT + 2*PTR.
//
// This is arithmetic, not a tagged variant, by design: §9 of the spec
// flags a tagged Char/Int/Ptr(box) rewrite as cleaner, but the additive
// encoding is what lets `ty > INT` mean "is a pointer" and `ty > PTR`
// mean "is a pointer to a word-sized element" (int* or any
// pointer-to-pointer; isPointerToPointer) without a type switch at every call
// site — and those two comparisons are load-bearing in the array-index
// and pointer-arithmetic scaling rules (see expr.go), so the encoding is
// kept to preserve exactly that behavior.
type cType int

const (
	typeChar cType = iota
	typeInt
	typePtr // added per level of indirection
)

// wordSize is sizeof(int) in the target: pointer arithmetic over int (and
// deeper) pointers scales by this; char pointers don't scale at all.
const wordSize = 8

func (t cType) isPointer() bool       { return t > typeInt }
func (t cType) isPointerToPointer() bool { return t > typePtr }
func (t cType) deref() cType          { return t - typePtr }
func (t cType) addPtr() cType         { return t + typePtr }

// elemSize returns the scale factor for pointer arithmetic/indexing over
// a value of this type: wordSize whenever ty > PTR, as the original
// scales (int* and every pointer-to-pointer — a plain char* does NOT
// scale, see §9 Open Questions), 1 otherwise. Called at the *base* type of a +/-/[] expression.
func (t cType) elemSize() int {
	if t.isPointerToPointer() {
		return wordSize
	}
	return 1
}

// loadOp/storeOp pick the load/store opcode appropriate to a value's
// element type: char-typed values (and only char, never a pointer to
// char) use the narrow byte ops.
func (t cType) loadOp() op {
	if t == typeChar {
		return opLC
	}
	return opLI
}

func (t cType) storeOp() op {
	if t == typeChar {
		return opSC
	}
	return opSI
}
