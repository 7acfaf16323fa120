package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// tokenize drives next() over src and returns the token class sequence,
// stopping at end of input (tk == 0).
func tokenize(t *testing.T, src string) []token {
	t.Helper()
	c := NewCompiler()
	c.Input.Queue = append(c.Input.Queue, strings.NewReader(src))
	c.line = 1

	var toks []token
	for {
		c.next()
		if c.tk == 0 {
			break
		}
		toks = append(toks, c.tk)
	}
	return toks
}

func Test_lexer_keywords_and_punctuation(t *testing.T) {
	toks := tokenize(t, "if (x) { return 1; } else { }")
	require.Equal(t, []token{
		tokIf, token('('), tokId, token(')'), token('{'),
		tokReturn, tokNum, token(';'), token('}'),
		tokElse, token('{'), token('}'),
	}, toks)
}

func Test_lexer_multichar_operators(t *testing.T) {
	toks := tokenize(t, "a == b != c <= d >= e << f >> g && h || i ++ j --")
	require.Equal(t, []token{
		tokId, tokEq, tokId, tokNe, tokId, tokLe, tokId, tokGe, tokId, tokShl, tokId,
		tokShr, tokId, tokLan, tokId, tokLor, tokId, tokInc, tokId, tokDec,
	}, toks)
}

func Test_lexer_bare_bang_is_raw_token(t *testing.T) {
	// spec's documented quirk: a bare '!' not followed by '=' comes back
	// as the raw rune token, not an error.
	toks := tokenize(t, "!x")
	require.Equal(t, []token{token('!'), tokId}, toks)
}

func Test_lexer_numbers(t *testing.T) {
	c := NewCompiler()
	c.Input.Queue = append(c.Input.Queue, strings.NewReader("0x2A 052 42"))
	c.line = 1

	var vals []int64
	for {
		c.next()
		if c.tk == 0 {
			break
		}
		require.Equal(t, tokNum, c.tk)
		vals = append(vals, c.ival)
	}
	require.Equal(t, []int64{42, 42, 42}, vals)
}

func Test_lexer_line_comment_is_skipped(t *testing.T) {
	toks := tokenize(t, "a // this is a comment\nb")
	require.Equal(t, []token{tokId, tokId}, toks)
}

func Test_lexer_string_and_char_escape(t *testing.T) {
	c := NewCompiler()
	c.Input.Queue = append(c.Input.Queue, strings.NewReader(`"a\nb" '\n'`))
	c.line = 1

	c.next()
	require.Equal(t, tokStr, c.tk)
	start := int(c.ival)
	var got []byte
	for i := start; ; i++ {
		b, err := c.data.LoadByte(uint(i))
		require.NoError(t, err)
		if b == 0 && i > start {
			break
		}
		got = append(got, b)
		if len(got) > 10 {
			t.Fatal("runaway string read")
		}
	}
	require.Equal(t, "a\nb", string(got))

	c.next()
	require.Equal(t, tokNum, c.tk)
	require.Equal(t, int64('\n'), c.ival)
}
