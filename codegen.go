package main

// emit appends one word to the code segment and returns its address.
func (c *Compiler) emit(o op) int {
	addr := len(c.code)
	c.code = append(c.code, int(o))
	return addr
}

// emitOperand appends a raw operand word, used right after an opcode that
// hasOperand(), or to patch a forward jump target later via patch().
func (c *Compiler) emitOperand(v int) int {
	addr := len(c.code)
	c.code = append(c.code, v)
	return addr
}

// patch overwrites the word at addr, used to back-patch branch targets
// once the jump destination is known.
func (c *Compiler) patch(addr, v int) { c.code[addr] = v }

// here returns the address the next emit will land at.
func (c *Compiler) here() int { return len(c.code) }

// emitByte appends one byte to the data segment, growing dataPtr.
func (c *Compiler) emitByte(b byte) {
	if err := c.data.StoreByte(c.dataPtr, b); err != nil {
		c.fail("data segment: %v", err)
	}
	c.dataPtr++
}

// alignData rounds dataPtr up to the next word boundary, matching the
// original's `data = (char*)((int)data + sizeof(int) & -sizeof(int))`
// after a run of concatenated string literals.
func (c *Compiler) alignData() {
	c.dataPtr = (c.dataPtr + wordSize) &^ (wordSize - 1)
}

// reserveGlobal reserves sz bytes (word-aligned) in the data segment for a
// global variable and returns its address.
func (c *Compiler) reserveGlobal(sz int) int {
	c.dataPtr = alignUp(c.dataPtr, wordSize)
	addr := c.dataPtr
	c.dataPtr += uint(sz)
	return int(addr)
}
