package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_cType_pointer_predicates(t *testing.T) {
	require.False(t, typeChar.isPointer())
	require.False(t, typeInt.isPointer())

	charPtr := typeChar.addPtr()
	require.True(t, charPtr.isPointer())
	require.False(t, charPtr.isPointerToPointer(), "char* must not scale like int*")

	intPtr := typeInt.addPtr()
	require.True(t, intPtr.isPointer())
	require.True(t, intPtr.isPointerToPointer(), "int* does scale, per spec's open question")

	charPtrPtr := charPtr.addPtr()
	require.True(t, charPtrPtr.isPointerToPointer())
}

func Test_cType_elemSize(t *testing.T) {
	require.Equal(t, 1, typeChar.elemSize())
	require.Equal(t, 1, typeInt.elemSize())
	require.Equal(t, 1, typeChar.addPtr().elemSize(), "char* indexes byte-at-a-time")
	require.Equal(t, wordSize, typeInt.addPtr().elemSize(), "int* indexes word-at-a-time")
}

func Test_cType_deref_roundtrip(t *testing.T) {
	p := typeInt.addPtr().addPtr()
	require.Equal(t, typeInt.addPtr(), p.deref())
	require.Equal(t, typeInt, p.deref().deref())
}

func Test_cType_loadOp_storeOp(t *testing.T) {
	require.Equal(t, opLC, typeChar.loadOp())
	require.Equal(t, opSC, typeChar.storeOp())
	require.Equal(t, opLI, typeInt.loadOp())
	require.Equal(t, opSI, typeInt.storeOp())
	require.Equal(t, opLI, typeChar.addPtr().loadOp(), "a pointer-to-char loads as a full word")
}
