package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_op_hasOperand_boundary(t *testing.T) {
	require.True(t, opLEA.hasOperand())
	require.True(t, opADJ.hasOperand(), "ADJ is the last operand-carrying opcode")
	require.False(t, opLEV.hasOperand(), "LEV is the first opcode with no operand")
	require.False(t, opEXIT.hasOperand())
}

func Test_op_mnemonic8_width(t *testing.T) {
	for o := op(0); o < opMax; o++ {
		s := o.mnemonic8()
		require.Len(t, s, 8, "mnemonic8(%v) must be exactly 8 chars", o)
	}
	require.Equal(t, "     LEA", opLEA.mnemonic8())
	require.Equal(t, "    PRTF", opPRTF.mnemonic8())
}

func Test_op_mnemonic4_truncates(t *testing.T) {
	require.Equal(t, "PRTF", opPRTF.mnemonic4())
	require.Equal(t, "LEA", opLEA.mnemonic4())
}

func Test_op_String_all_named(t *testing.T) {
	for o := op(0); o < opMax; o++ {
		require.NotEqual(t, "???", o.String(), "opcode %d has no name", int(o))
	}
}
