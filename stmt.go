package main

// stmt parses and emits one statement: if/else, while, return, a block,
// an empty statement, or a bare expression statement. Direct
// transcription of c4.c's stmt().
func (c *Compiler) stmt() {
	switch c.tk {
	case tokIf:
		c.next()
		c.expectTok(token('('), "open paren expected")
		c.expr(tokAssign)
		c.expectTok(token(')'), "close paren expected")

		c.emit(opBZ)
		b := c.emitOperand(0)
		c.stmt()
		if c.tk == tokElse {
			c.emit(opJMP)
			b2 := c.emitOperand(0)
			c.patch(b, c.here())
			b = b2
			c.next()
			c.stmt()
		}
		c.patch(b, c.here())

	case tokWhile:
		c.next()
		a := c.here()
		c.expectTok(token('('), "open paren expected")
		c.expr(tokAssign)
		c.expectTok(token(')'), "close paren expected")

		c.emit(opBZ)
		b := c.emitOperand(0)
		c.stmt()
		c.emit(opJMP)
		c.emitOperand(a)
		c.patch(b, c.here())

	case tokReturn:
		c.next()
		if c.tk != token(';') {
			c.expr(tokAssign)
		}
		c.emit(opLEV)
		c.expectTok(token(';'), "semicolon expected")

	case token('{'):
		c.next()
		for c.tk != token('}') {
			c.stmt()
		}
		c.next()

	case token(';'):
		c.next()

	default:
		c.expr(tokAssign)
		c.expectTok(token(';'), "semicolon expected")
	}
}

// expectTok consumes tk if it matches want, else fails with msg.
func (c *Compiler) expectTok(want token, msg string) {
	if c.tk == want {
		c.next()
	} else {
		c.fail(msg)
	}
}

// parseBaseType reads "int" or "char" (defaulting to int when neither
// keyword is present) and any trailing '*'s, returning the resulting
// type. Used for parameter declarations; globals and locals read their
// base type and '*'s inline.
func (c *Compiler) parseBaseType(consumeKeyword bool) cType {
	t := typeInt
	if consumeKeyword {
		switch c.tk {
		case tokInt:
			c.next()
		case tokChar:
			c.next()
			t = typeChar
		}
	}
	for c.tk == tokMul {
		c.next()
		t = t.addPtr()
	}
	return t
}

// compileProgram runs the top-level declaration loop: c4.c's main(), from
// `line = 1; next();` through the closing `*++e = LEV` of the last
// function. It returns once the whole file's declarations are consumed.
func (c *Compiler) compileProgram() {
	c.line = 1
	c.next()
	for c.tk != 0 {
		c.parseDeclarationBlock()
	}
}

func (c *Compiler) parseDeclarationBlock() {
	bt := typeInt
	switch c.tk {
	case tokInt:
		c.next()
	case tokChar:
		c.next()
		bt = typeChar
	case tokEnum:
		c.parseEnum()
	}

	for c.tk != token(';') && c.tk != token('}') {
		ty := bt
		for c.tk == tokMul {
			c.next()
			ty = ty.addPtr()
		}
		if c.tk != tokId {
			c.fail("bad global declaration")
		}
		di := c.idx
		if c.sym.syms[di].class != classNone {
			c.fail("duplicate global definition")
		}
		c.next()
		c.sym.syms[di].typ = ty

		if c.tk == token('(') {
			c.parseFunction(di)
		} else {
			c.sym.syms[di].class = classGlo
			c.sym.syms[di].val = c.reserveGlobal(wordSize)
		}

		if c.tk == token(',') {
			c.next()
		}
	}
	c.next()
}

func (c *Compiler) parseEnum() {
	c.next()
	if c.tk != token('{') {
		c.next()
	}
	if c.tk != token('{') {
		return
	}
	c.next()
	i := 0
	for c.tk != token('}') {
		if c.tk != tokId {
			c.fail("bad enum identifier %d", int(c.tk))
		}
		di := c.idx
		c.next()
		if c.tk == tokAssign {
			c.next()
			if c.tk != tokNum {
				c.fail("bad enum initializer")
			}
			i = int(c.ival)
			c.next()
		}
		c.sym.syms[di].class = classNum
		c.sym.syms[di].typ = typeInt
		c.sym.syms[di].val = i
		i++
		if c.tk == token(',') {
			c.next()
		}
	}
	c.next()
}

func (c *Compiler) parseFunction(di int) {
	c.sym.syms[di].class = classFun
	c.sym.syms[di].val = c.here()
	c.logf("fn", "%s at %d", c.sym.syms[di].name, c.sym.syms[di].val)
	if c.sym.syms[di].name == "main" {
		c.mainIdx = di
	}
	c.next()

	i := 0
	for c.tk != token(')') {
		ty := c.parseBaseType(true)
		if c.tk != tokId {
			c.fail("bad parameter declaration")
		}
		pi := c.idx
		if c.sym.syms[pi].class == classLoc {
			c.fail("duplicate parameter definition")
		}
		c.sym.shadow(pi, ty, i)
		i++
		c.next()
		if c.tk == token(',') {
			c.next()
		}
	}
	c.next()
	if c.tk != token('{') {
		c.fail("bad function definition")
	}
	c.loc = i + 1
	i = c.loc
	c.next()

	for c.tk == tokInt || c.tk == tokChar {
		bt := typeInt
		if c.tk == tokChar {
			bt = typeChar
		}
		c.next()
		for c.tk != token(';') {
			ty := bt
			for c.tk == tokMul {
				c.next()
				ty = ty.addPtr()
			}
			if c.tk != tokId {
				c.fail("bad local declaration")
			}
			li := c.idx
			if c.sym.syms[li].class == classLoc {
				c.fail("duplicate local definition")
			}
			i++
			c.sym.shadow(li, ty, i)
			c.next()
			if c.tk == token(',') {
				c.next()
			}
		}
		c.next()
	}

	c.emit(opENT)
	c.emitOperand(i - c.loc)
	for c.tk != token('}') {
		c.stmt()
	}
	c.emit(opLEV)
	c.sym.closeAll()
}
