package mem_test

import (
	"log"
	"os"
	"testing"

	"github.com/jcorbin/c4go/internal/logio"
	"github.com/jcorbin/c4go/internal/mem"
	"github.com/jcorbin/c4go/internal/panicerr"
	"github.com/stretchr/testify/require"
)

func Test_Bytes(t *testing.T) {
	for _, tc := range []bytesTestCase{
		bytesTest("basic",
			"init", func(t *testing.T, m *mem.Bytes) {
				m.PageSize = 4
				val, err := m.LoadByte(0)
				require.NoError(t, err, "unexpected load error")
				require.Equal(t, byte(0), val, "expected 0 @0")
				require.Equal(t, uint(0), m.Size(), "expected 0 initial size")
			},

			"9 -> 0", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.StoreByte(0, 9), "must stor @0")
				val, err := m.LoadByte(0)
				require.NoError(t, err, "unexpected load error")
				require.Equal(t, byte(9), val, "expected 9 @0")
				//  0  1  2  3  :  9  0  0  0
				//  4  5  6  7  :  -  -  -  -
				//  8  9  a  b  :  -  -  -  -
				//  c  d  e  f  :  -  -  -  -
				expectMemValuesAt(t, m, 0,
					9, 0, 0, 0)
			},

			"{1, 2, 3, 4, 5, 6} -> 0x9", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.Stor(0x9, []byte{1, 2, 3, 4, 5, 6}), "must stor @0x9")
				require.Equal(t, mem.BytesDump{
					Bases: []uint{0x0, 0x8, 0xc},
					Sizes: []uint{4, 4, 4},
					Pages: [][]byte{
						{9, 0, 0, 0},
						{0, 1, 2, 3},
						{4, 5, 6, 0},
					},
				}, m.Dump(), "expected a page hole")
				//  0  1  2  3  :  9  0  0  0
				//  4  5  6  7  :  -  -  -  -
				//  8  9  a  b  :  0  1  2  3
				//  c  d  e  f  :  4  5  6  0
				expectMemValuesAt(t, m, 6,
					0, 0,
					0, 1, 2, 3,
					4, 5, 6, 0)
			},

			"7 -> 0xf", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.StoreByte(0xf, 7), "must stor @0xf")
				{
					val, err := m.LoadByte(0xf)
					require.NoError(t, err, "unexpected load error")
					require.Equal(t, byte(7), val, "expected 7 @0xf")
				}
				{
					val, err := m.LoadByte(0xe)
					require.NoError(t, err, "unexpected load error")
					require.Equal(t, byte(6), val, "expected 6 @0xe")
				}
			},
		),

		bytesTest("missing lower section",
			"initial value in 2nd page", func(t *testing.T, m *mem.Bytes) {
				m.PageSize = 0x10
				expectByteValueAt(t, m, 0x18, 0)
				require.NoError(t, m.StoreByte(0x18, 42), "unexpected stor error")
				expectByteValueAt(t, m, 0x18, 42)
			},

			"load low", func(t *testing.T, m *mem.Bytes) { expectByteValueAt(t, m, 0x8, 0) },

			"create 3rd page", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.StoreByte(0x28, 99), "unexpected stor error")
				expectByteValueAt(t, m, 0x28, 99)
			},

			"load low again", func(t *testing.T, m *mem.Bytes) { expectByteValueAt(t, m, 0x8, 0) },

			"finally create the 1st page", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.StoreByte(0x8, 3), "unexpected stor error")
				expectByteValueAt(t, m, 0x8, 3)
			},
		),

		bytesTest("word round-trips",
			"store then load a negative word", func(t *testing.T, m *mem.Bytes) {
				m.PageSize = 8
				require.NoError(t, m.StoreWord(0, 4, -1))
				v, err := m.LoadWord(0, 4)
				require.NoError(t, err)
				require.Equal(t, int64(-1), v)
			},

			"store then load a positive word", func(t *testing.T, m *mem.Bytes) {
				require.NoError(t, m.StoreWord(8, 4, 1<<20))
				v, err := m.LoadWord(8, 4)
				require.NoError(t, err)
				require.Equal(t, int64(1<<20), v)
			},
		),
	} {
		t.Run(tc.name, func(t *testing.T) {
			tcLogOut := &logio.Writer{Logf: t.Logf}
			log.SetOutput(tcLogOut)
			defer log.SetOutput(os.Stderr)

			var m mem.Bytes
			defer func() {
				if t.Failed() {
					d := m.Dump()
					t.Logf("bases: %v", d.Bases)
					t.Logf("sizes: %v", d.Sizes)
					t.Logf("pages: %v", d.Pages)
				}
			}()

			for _, step := range tc.steps {
				if !t.Run(step.name, func(t *testing.T) {
					stepLogOut := &logio.Writer{Logf: t.Logf}
					log.SetOutput(stepLogOut)
					defer log.SetOutput(tcLogOut)

					isolateTest(t, step.bind(&m))
				}) {
					break
				}
			}
		})
	}
}

func isolateTest(t *testing.T, f func(t *testing.T)) {
	if err := panicerr.Recover(t.Name(), func() error {
		f(t)
		return nil
	}); err != nil {
		t.Logf("%+v", err)
		t.Fail()
	}
}

func expectByteValueAt(t *testing.T, m *mem.Bytes, addr uint, value byte) {
	val, err := m.LoadByte(addr)
	require.NoError(t, err, "unexpected load @0x%x error", addr)
	require.Equal(t, value, val, "expected value @0x%x", addr)
}

func expectMemValuesAt(t *testing.T, m *mem.Bytes, addr uint, values ...byte) {
	buf := make([]byte, len(values))
	require.NoError(t, m.Load(addr, buf),
		"must load %v values from @0x%x", len(values), addr)
	require.Equal(t, values, buf, "expected values @0x%x", addr)
}

func bytesTest(name string, args ...interface{}) (tc bytesTestCase) {
	tc.name = name
	for i := 0; i < len(args); i++ {
		var step memCoreTestStep

		step.name = args[i].(string)

		if i++; i >= len(args) {
			panic("bytesTest: missing function argument after name")
		}
		step.f = args[i].(func(t *testing.T, m *mem.Bytes))

		tc.steps = append(tc.steps, step)
	}
	return tc
}

type bytesTestCase struct {
	name  string
	steps []memCoreTestStep
}

type memCoreTestStep struct {
	name string
	f    func(t *testing.T, m *mem.Bytes)

	m *mem.Bytes
}

func (step memCoreTestStep) bind(m *mem.Bytes) func(t *testing.T) {
	step.m = m
	return step.boundTest
}

func (step memCoreTestStep) boundTest(t *testing.T) {
	step.f(t, step.m)
}
