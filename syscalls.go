package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// hostFile is whatever open() handed back: a real os.File for paths on
// disk, wrapped just enough to support read()/close().
type hostFile interface {
	io.Reader
	io.Closer
}

// fileQueue is fd 0's source: the process stdin, or any other reader a
// VMOption installs in its place (e.g. for tests).
type fileQueue struct{ io.Reader }

// syscall executes one of the privileged VM opcodes other than EXIT,
// which step handles itself. Every one of
// these talks to the host verbatim — spec leaves their implementation
// strategy unspecified, so the mapping here is the direct, unsurprising
// one: open/read/close hit the real filesystem, malloc/free/memset/memcmp
// operate on the VM's own unified memory, and printf interprets a C
// format string against up to six trailing word args.
func (vm *VM) syscall(i op) error {
	switch i {
	case opOPEN:
		path, err := vm.readCString(uint(vm.sp1()))
		if err != nil {
			return err
		}
		flags := vm.sp0()
		f, oerr := os.OpenFile(path, hostOpenFlags(int(flags)), 0644)
		if oerr != nil {
			vm.a = -1
			return nil
		}
		fd := vm.nextFd
		vm.nextFd++
		vm.files[fd] = f
		vm.closers = append(vm.closers, f)
		vm.a = fd

	case opREAD:
		fd := vm.sp2()
		buf := make([]byte, vm.sp0())
		n, rerr := vm.readFd(fd, buf)
		if rerr != nil && rerr != io.EOF {
			vm.a = -1
			return nil
		}
		if err := vm.mem.Stor(uint(vm.sp1()), buf[:n]); err != nil {
			return err
		}
		vm.a = int64(n)

	case opCLOS:
		fd := vm.sp0()
		if f, ok := vm.files[fd]; ok {
			delete(vm.files, fd)
			if err := f.Close(); err != nil {
				vm.a = -1
				return nil
			}
		}
		vm.a = 0

	case opPRTF:
		// pc already points at the following ADJ's opcode word; its
		// operand (one further) is the argument count the call site
		// pushed, letting PRTF locate its args without an operand of
		// its own. See doPrintf in printf.go.
		n, perr := vm.doPrintf(uint(vm.code[vm.pc+1]))
		if perr != nil {
			return perr
		}
		vm.a = int64(n)

	case opMALC:
		vm.a = int64(vm.malloc(uint(vm.sp0())))

	case opFREE:
		// bump allocator: free is a deliberate no-op, matching a "no
		// deallocation" arena per spec's lifecycle note.

	case opMSET:
		n := vm.sp0()
		val := byte(vm.sp1())
		addr := uint(vm.sp2())
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = val
		}
		if err := vm.mem.Stor(addr, buf); err != nil {
			return err
		}
		vm.a = int64(addr)

	case opMCMP:
		n := vm.sp0()
		a1 := make([]byte, n)
		a2 := make([]byte, n)
		if err := vm.mem.Load(uint(vm.sp2()), a1); err != nil {
			return err
		}
		if err := vm.mem.Load(uint(vm.sp1()), a2); err != nil {
			return err
		}
		vm.a = int64(bytes.Compare(a1, a2))
	}
	return nil
}

// sp0/sp1/sp2 read the top three stack words without popping them — the
// syscall convention (matching the original's `sp[0]`, `sp[1]`, `sp[2]`)
// leaves argument cleanup to the caller's trailing ADJ.
func (vm *VM) sp0() int64 { v, _ := vm.mem.LoadWord(vm.sp, wordSize); return v }
func (vm *VM) sp1() int64 { v, _ := vm.mem.LoadWord(vm.sp+wordSize, wordSize); return v }
func (vm *VM) sp2() int64 { v, _ := vm.mem.LoadWord(vm.sp+2*wordSize, wordSize); return v }

func hostOpenFlags(cFlags int) int {
	// O_RDONLY=0, O_WRONLY=1, O_RDWR=2, O_CREAT=0x40 on Linux; the VM
	// only ever sees what the compiled program passed to open(), so we
	// translate the handful of bits c4 programs actually use.
	flags := 0
	switch cFlags & 3 {
	case 0:
		flags |= os.O_RDONLY
	case 1:
		flags |= os.O_WRONLY
	case 2:
		flags |= os.O_RDWR
	}
	if cFlags&0x40 != 0 {
		flags |= os.O_CREATE
	}
	if cFlags&0x200 != 0 {
		flags |= os.O_TRUNC
	}
	if cFlags&0x400 != 0 {
		flags |= os.O_APPEND
	}
	return flags
}

func (vm *VM) readFd(fd int64, buf []byte) (int, error) {
	if fd == 0 {
		if vm.in.Reader == nil {
			return 0, io.EOF
		}
		return vm.in.Read(buf)
	}
	f, ok := vm.files[fd]
	if !ok {
		return 0, fmt.Errorf("read: bad file descriptor %d", fd)
	}
	return f.Read(buf)
}

// readCString reads a NUL-terminated byte string out of the unified
// memory starting at addr.
func (vm *VM) readCString(addr uint) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := vm.mem.LoadByte(addr)
		if err != nil {
			return "", err
		}
		if b == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b)
		addr++
	}
}

// malloc bump-allocates n bytes (word-aligned) from the heap region and
// returns the new block's address, or 0 if the heap is exhausted.
func (vm *VM) malloc(n uint) uint {
	addr := vm.heapEnd
	end := alignUp(addr+n, wordSize)
	if end > vm.heapLimit {
		return 0
	}
	vm.heapEnd = end
	return addr
}

// buildArgv lays out argc C strings plus a char** array in the heap
// region, ahead of any user malloc calls, and returns the array's
// address along with argc.
func (vm *VM) buildArgv(args []string) (argv uint, argc int) {
	ptrs := make([]uint, len(args))
	for i, s := range args {
		addr := vm.malloc(uint(len(s) + 1))
		_ = vm.mem.Stor(addr, append([]byte(s), 0))
		ptrs[i] = addr
	}
	arr := vm.malloc(uint(len(ptrs)) * wordSize)
	for i, p := range ptrs {
		_ = vm.mem.StoreWord(arr+uint(i)*wordSize, wordSize, int64(p))
	}
	return arr, len(ptrs)
}
