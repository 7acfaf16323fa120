package main

// expr parses and emits one expression, stopping at the first operator
// whose precedence is below lev. This is a direct transcription of
// c4.c's expr(int lev) — the precedence-climbing/"Top Down Operator
// Precedence" method — generalized from raw emission pointers to
// Compiler's code/data arenas. c.ty holds the expression's type on
// return, exactly as the original's global `ty` does.
func (c *Compiler) expr(lev token) {
	switch {
	case c.tk == 0:
		c.fail("unexpected eof in expression")

	case c.tk == tokNum:
		c.emit(opIMM)
		c.emitOperand(int(c.ival))
		c.next()
		c.ty = typeInt

	case c.tk == tokStr:
		c.emit(opIMM)
		c.emitOperand(int(c.ival))
		c.next()
		for c.tk == tokStr {
			c.next()
		}
		c.alignData()
		c.ty = typeChar.addPtr()

	case c.tk == tokId:
		c.exprIdent()

	case c.tk == tokSizeof:
		c.next()
		if c.tk == token('(') {
			c.next()
		} else {
			c.fail("open paren expected")
		}
		t := typeInt
		if c.tk == tokInt {
			c.next()
		} else if c.tk == tokChar {
			c.next()
			t = typeChar
		}
		for c.tk == tokMul {
			c.next()
			t = t.addPtr()
		}
		if c.tk == token(')') {
			c.next()
		} else {
			c.fail("close paren expected")
		}
		c.emit(opIMM)
		if t == typeChar {
			c.emitOperand(1)
		} else {
			c.emitOperand(wordSize)
		}
		c.ty = typeInt

	case c.tk == token('('):
		c.next()
		if c.tk == tokInt || c.tk == tokChar {
			t := typeChar
			if c.tk == tokInt {
				t = typeInt
			}
			c.next()
			for c.tk == tokMul {
				c.next()
				t = t.addPtr()
			}
			if c.tk == token(')') {
				c.next()
			} else {
				c.fail("bad cast")
			}
			c.expr(tokInc)
			c.ty = t
		} else {
			c.expr(tokAssign)
			if c.tk == token(')') {
				c.next()
			} else {
				c.fail("close paren expected")
			}
		}

	case c.tk == tokMul:
		c.next()
		c.expr(tokInc)
		if c.ty.isPointer() {
			c.ty = c.ty.deref()
		} else {
			c.fail("bad dereference")
		}
		c.emit(c.ty.loadOp())

	case c.tk == tokAnd:
		c.next()
		c.expr(tokInc)
		if last := op(c.code[c.here()-1]); last == opLC || last == opLI {
			c.code = c.code[:c.here()-1]
		} else {
			c.fail("bad address-of")
		}
		c.ty = c.ty.addPtr()

	case c.tk == token('!'):
		c.next()
		c.expr(tokInc)
		c.emit(opPSH)
		c.emit(opIMM)
		c.emitOperand(0)
		c.emit(opEQ)
		c.ty = typeInt

	case c.tk == token('~'):
		c.next()
		c.expr(tokInc)
		c.emit(opPSH)
		c.emit(opIMM)
		c.emitOperand(-1)
		c.emit(opXOR)
		c.ty = typeInt

	case c.tk == tokAdd:
		c.next()
		c.expr(tokInc)
		c.ty = typeInt

	case c.tk == tokSub:
		c.next()
		c.emit(opIMM)
		if c.tk == tokNum {
			c.emitOperand(int(-c.ival))
			c.next()
		} else {
			c.emitOperand(-1)
			c.emit(opPSH)
			c.expr(tokInc)
			c.emit(opMUL)
		}
		c.ty = typeInt

	case c.tk == tokInc || c.tk == tokDec:
		t := c.tk
		c.next()
		c.expr(tokInc)
		c.rewriteLoadAsLvalue("pre-increment")
		c.emit(opPSH)
		c.emit(opIMM)
		c.emitOperand(c.ty.elemSize())
		if t == tokInc {
			c.emit(opADD)
		} else {
			c.emit(opSUB)
		}
		c.emit(c.ty.storeOp())

	default:
		c.fail("bad expression")
	}

	c.exprTail(lev)
}

// exprIdent parses an identifier used as an expression: a function call,
// an enum constant, or a variable load.
func (c *Compiler) exprIdent() {
	di := c.idx
	c.next()

	if c.tk == token('(') {
		c.next()
		nargs := 0
		for c.tk != token(')') {
			c.expr(tokAssign)
			c.emit(opPSH)
			nargs++
			if c.tk == token(',') {
				c.next()
			}
		}
		c.next()

		d := c.sym.syms[di]
		switch d.class {
		case classSys:
			c.emit(op(d.val))
		case classFun:
			c.emit(opJSR)
			c.emitOperand(d.val)
		default:
			c.fail("bad function call")
		}
		if nargs > 0 {
			c.emit(opADJ)
			c.emitOperand(nargs)
		}
		c.ty = d.typ
		return
	}

	d := c.sym.syms[di]
	if d.class == classNum {
		c.emit(opIMM)
		c.emitOperand(d.val)
		c.ty = typeInt
		return
	}

	switch d.class {
	case classLoc:
		c.emit(opLEA)
		c.emitOperand(c.loc - d.val)
	case classGlo:
		c.emit(opIMM)
		c.emitOperand(d.val)
	default:
		c.fail("undefined variable")
	}
	c.ty = d.typ
	c.emit(c.ty.loadOp())
}

// rewriteLoadAsLvalue turns the LC/LI just emitted back into a PSH
// followed by a re-load, so the pre/post ++/-- sequence below can push
// the loaded value, compute the new one, and store it back through the
// same address. Any other trailing instruction means the operand wasn't
// an lvalue to begin with.
func (c *Compiler) rewriteLoadAsLvalue(where string) {
	last := op(c.code[c.here()-1])
	switch last {
	case opLC, opLI:
		c.code[c.here()-1] = int(opPSH)
		c.emit(last)
	default:
		c.fail("bad lvalue in %s", where)
	}
}

// exprTail is the "while (tk >= lev)" operator loop: for as long as the
// current token is an infix/postfix operator whose precedence is at
// least lev, consume it and emit its code.
func (c *Compiler) exprTail(lev token) {
	for c.tk >= lev {
		t := c.ty
		switch c.tk {
		case tokAssign:
			c.next()
			last := op(c.code[c.here()-1])
			if last != opLC && last != opLI {
				c.fail("bad lvalue in assignment")
			}
			c.code[c.here()-1] = int(opPSH)
			c.expr(tokAssign)
			c.ty = t
			c.emit(c.ty.storeOp())

		case tokCond:
			c.next()
			c.emit(opBZ)
			patchAddr := c.emitOperand(0)
			c.expr(tokAssign)
			if c.tk == token(':') {
				c.next()
			} else {
				c.fail("conditional missing colon")
			}
			c.patch(patchAddr, c.here()+2)
			c.emit(opJMP)
			jmpAddr := c.emitOperand(0)
			c.expr(tokCond)
			c.patch(jmpAddr, c.here())

		case tokLor:
			c.next()
			c.emit(opBNZ)
			a := c.emitOperand(0)
			c.expr(tokLan)
			c.patch(a, c.here())
			c.ty = typeInt
		case tokLan:
			c.next()
			c.emit(opBZ)
			a := c.emitOperand(0)
			c.expr(tokOr)
			c.patch(a, c.here())
			c.ty = typeInt

		case tokOr:
			c.binOp(tokXor, opOR)
		case tokXor:
			c.binOp(tokAnd, opXOR)
		case tokAnd:
			c.binOp(tokEq, opAND)
		case tokEq:
			c.binOp(tokLt, opEQ)
		case tokNe:
			c.binOp(tokLt, opNE)
		case tokLt:
			c.binOp(tokShl, opLT)
		case tokGt:
			c.binOp(tokShl, opGT)
		case tokLe:
			c.binOp(tokShl, opLE)
		case tokGe:
			c.binOp(tokShl, opGE)
		case tokShl:
			c.binOp(tokAdd, opSHL)
		case tokShr:
			c.binOp(tokAdd, opSHR)

		case tokAdd:
			c.next()
			c.emit(opPSH)
			c.expr(tokMul)
			c.ty = t
			if c.ty.isPointerToPointer() {
				c.emit(opPSH)
				c.emit(opIMM)
				c.emitOperand(wordSize)
				c.emit(opMUL)
			}
			c.emit(opADD)

		case tokSub:
			c.next()
			c.emit(opPSH)
			c.expr(tokMul)
			if t.isPointerToPointer() && t == c.ty {
				c.emit(opSUB)
				c.emit(opPSH)
				c.emit(opIMM)
				c.emitOperand(wordSize)
				c.emit(opDIV)
				c.ty = typeInt
			} else if t.isPointerToPointer() {
				c.ty = t
				c.emit(opPSH)
				c.emit(opIMM)
				c.emitOperand(wordSize)
				c.emit(opMUL)
				c.emit(opSUB)
			} else {
				c.emit(opSUB)
			}

		case tokMul:
			c.binOp(tokInc, opMUL)
		case tokDiv:
			c.binOp(tokInc, opDIV)
		case tokMod:
			c.binOp(tokInc, opMOD)

		case tokInc, tokDec:
			c.rewriteLoadAsLvalue("post-increment")
			sz := c.ty.elemSize()
			inc, dec := opADD, opSUB
			if c.tk == tokDec {
				inc, dec = dec, inc
			}
			c.emit(opPSH)
			c.emit(opIMM)
			c.emitOperand(sz)
			c.emit(inc)
			c.emit(c.ty.storeOp())
			c.emit(opPSH)
			c.emit(opIMM)
			c.emitOperand(sz)
			c.emit(dec)
			c.next()

		case tokBrak:
			c.next()
			c.emit(opPSH)
			c.expr(tokAssign)
			if c.tk == token(']') {
				c.next()
			} else {
				c.fail("close bracket expected")
			}
			if t.isPointerToPointer() {
				c.emit(opPSH)
				c.emit(opIMM)
				c.emitOperand(wordSize)
				c.emit(opMUL)
			} else if !t.isPointer() {
				c.fail("pointer type expected")
			}
			c.emit(opADD)
			c.ty = t.deref()
			c.emit(c.ty.loadOp())

		default:
			c.fail("compiler error tk=%d", int(c.tk))
		}
	}
}

// binOp handles the common "next(); PSH; expr(nextLev); OP; ty=INT" shape
// shared by every pure-arithmetic/comparison/bitwise infix operator.
func (c *Compiler) binOp(nextLev token, o op) {
	c.next()
	c.emit(opPSH)
	c.expr(nextLev)
	c.emit(o)
	c.ty = typeInt
}
