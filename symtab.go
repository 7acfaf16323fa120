package main

// class is a symbol's role, §3 of the spec.
type class int

const (
	classNone class = iota
	classNum        // enum constant
	classFun        // user-defined function
	classSys        // built-in (syscall) function
	classGlo        // global variable
	classLoc        // local variable or parameter
)

// symbol is one flat, fixed-shape record in the symbol table. The shadow
// triple (hClass/hType/hVal) holds whatever Class/Type/Val held before a
// name was repurposed as a parameter or local, and is restored when the
// enclosing function's body closes — see symtab.closeAll.
type symbol struct {
	tk    token
	hash  uint64
	name  string
	class class
	typ   cType
	val   int

	hClass class
	hType  cType
	hVal   int
}

// symtab is the append-only symbol arena. Lookups are linear, matching
// the original's "walk from the start until Tk==0" search — the table
// never holds more than a few hundred names for programs in this
// language's weight class, so linear probing costs nothing real and
// keeps the identifier-uniqueness invariant (equal (hash,name) implies
// the same record) trivially easy to state and check.
type symtab struct {
	syms []symbol
}

// identHash folds a lexeme into the same fingerprint the spec prescribes:
// hash = Σ prev*147+ch over the identifier's bytes, then folded with
// length as (hash<<6)+length. Two lexemes collide in hash iff this
// integer matches; ties are broken by a byte comparison of the name in
// find/intern.
func identHash(name string) uint64 {
	var h uint64
	for i := 0; i < len(name); i++ {
		h = h*147 + uint64(name[i])
	}
	return (h << 6) + uint64(len(name))
}

// find returns the index of name's record, or -1 if not yet interned.
func (st *symtab) find(name string) int {
	h := identHash(name)
	for i := range st.syms {
		if st.syms[i].tk == 0 {
			continue
		}
		if st.syms[i].hash == h && st.syms[i].name == name {
			return i
		}
	}
	return -1
}

// intern returns the index of name's record, appending a fresh
// classNone/tokId record if this is the first time name has been seen.
func (st *symtab) intern(name string) int {
	if i := st.find(name); i >= 0 {
		return i
	}
	st.syms = append(st.syms, symbol{tk: tokId, hash: identHash(name), name: name})
	return len(st.syms) - 1
}

// shadow saves the current Class/Type/Val of syms[i] into its shadow
// triple and installs a fresh classLoc binding — used when a global name
// is reused as a parameter or local. closeAll (below) restores it.
func (st *symtab) shadow(i int, typ cType, val int) {
	sym := &st.syms[i]
	sym.hClass, sym.hType, sym.hVal = sym.class, sym.typ, sym.val
	sym.class, sym.typ, sym.val = classLoc, typ, val
}

// closeAll walks the whole table and restores every classLoc record to
// its pre-shadow state. Called once at the end of each function
// definition; spec's shadow-restoration invariant requires that after
// this runs, zero records have class classLoc.
func (st *symtab) closeAll() {
	for i := range st.syms {
		if st.syms[i].class == classLoc {
			st.syms[i].class = st.syms[i].hClass
			st.syms[i].typ = st.syms[i].hType
			st.syms[i].val = st.syms[i].hVal
		}
	}
}
