package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_symtab_intern_is_idempotent(t *testing.T) {
	var st symtab
	i := st.intern("foo")
	j := st.intern("foo")
	require.Equal(t, i, j, "re-interning the same name must return the same record")
	require.Equal(t, 1, len(st.syms))
}

func Test_symtab_uniqueness(t *testing.T) {
	var st symtab
	names := []string{"foo", "bar", "baz", "quux", "a", "b", "foobar", "barfoo"}
	for _, n := range names {
		st.intern(n)
	}
	for i := range st.syms {
		for j := range st.syms {
			if i == j {
				continue
			}
			same := st.syms[i].hash == st.syms[j].hash && st.syms[i].name == st.syms[j].name
			require.False(t, same, "records %d and %d collide on (hash, name)", i, j)
		}
	}
}

func Test_symtab_find_missing(t *testing.T) {
	var st symtab
	st.intern("present")
	require.Equal(t, -1, st.find("absent"))
}

func Test_symtab_shadow_and_closeAll_restores(t *testing.T) {
	var st symtab
	i := st.intern("x")
	st.syms[i].class = classGlo
	st.syms[i].typ = typeInt
	st.syms[i].val = 100

	st.shadow(i, typeChar, -1)
	require.Equal(t, classLoc, st.syms[i].class)
	require.Equal(t, typeChar, st.syms[i].typ)
	require.Equal(t, -1, st.syms[i].val)

	st.closeAll()
	require.Equal(t, classGlo, st.syms[i].class)
	require.Equal(t, typeInt, st.syms[i].typ)
	require.Equal(t, 100, st.syms[i].val)

	for _, sym := range st.syms {
		require.NotEqual(t, classLoc, sym.class, "no record may remain classLoc after closeAll")
	}
}
