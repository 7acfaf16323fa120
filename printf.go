package main

import (
	"fmt"
	"strings"

	"github.com/jcorbin/c4go/internal/runeio"
)

// doPrintf implements the PRTF opcode: t := sp + adjCount (in words), then
// the format string lives at t[-1] and up to six positional arguments at
// t[-2] through t[-7], all addresses/words in the unified memory. c4.c's
// own PRTF case only forwards five trailing args to the host's printf;
// this implementation widens that to the six positions spec.md's printf
// contract calls for, translating the C format directives into Go's fmt
// instead of handing a raw va_list to the host libc.
func (vm *VM) doPrintf(adjCount uint) (int, error) {
	t := vm.sp + adjCount*wordSize

	wordAt := func(back uint) int64 {
		v, _ := vm.mem.LoadWord(t-back*wordSize, wordSize)
		return v
	}

	fmtAddr := wordAt(1)
	format, err := vm.readCString(uint(fmtAddr))
	if err != nil {
		return 0, err
	}
	var args [6]int64
	for i := range args {
		args[i] = wordAt(uint(i) + 2)
	}

	out, n, err := vm.renderPrintf(format, args[:])
	if err != nil {
		return 0, err
	}
	// A compiled program's strings are arbitrary bytes it built itself
	// (string literals, malloc'd buffers); write them through the same
	// rune-output discipline the rest of this tree's ambient I/O uses,
	// rather than a raw byte blit, so C1 controls and non-ASCII text a
	// program prints come out in the normal terminal-safe form.
	if _, werr := runeio.WriteANSIString(vm.out, out); werr != nil {
		return 0, werr
	}
	return n, nil
}

// renderPrintf walks format, consuming one of up to six args per
// directive (in order), supporting the directives c4 programs actually
// use: %d %i %u %x %X %o %c %s %% with an optional l/ld length modifier
// (a no-op since every VM word is already 64 bits) and a literal width
// prefix. Unrecognized directives are copied through verbatim.
func (vm *VM) renderPrintf(format string, args []int64) (string, int, error) {
	var out strings.Builder
	argi := 0
	next := func() int64 {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return 0
	}

	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '%' {
			out.WriteRune(r)
			continue
		}
		j := i + 1
		start := j
		for j < len(runes) && strings.ContainsRune("-+ 0123456789.", runes[j]) {
			j++
		}
		width := string(runes[start:j])
		for j < len(runes) && (runes[j] == 'l' || runes[j] == 'h') {
			j++
		}
		if j >= len(runes) {
			out.WriteRune('%')
			break
		}
		verb := runes[j]
		i = j

		switch verb {
		case 'd', 'i':
			fmt.Fprintf(&out, "%"+width+"d", next())
		case 'u':
			fmt.Fprintf(&out, "%"+width+"d", uint64(next()))
		case 'x':
			fmt.Fprintf(&out, "%"+width+"x", next())
		case 'X':
			fmt.Fprintf(&out, "%"+width+"X", next())
		case 'o':
			fmt.Fprintf(&out, "%"+width+"o", next())
		case 'c':
			out.WriteRune(rune(next()))
		case 's':
			s, err := vm.readCString(uint(next()))
			if err != nil {
				return "", 0, err
			}
			fmt.Fprintf(&out, "%"+width+"s", s)
		case '%':
			out.WriteByte('%')
		default:
			out.WriteByte('%')
			out.WriteRune(verb)
		}
	}
	return out.String(), argi, nil
}
