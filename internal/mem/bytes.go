package mem

// DefaultBytesPageSize provides a default for Bytes.PageSize.
const DefaultBytesPageSize = 4096

// Bytes implements a sparse, paged, byte-addressed memory. It backs the
// VM's unified address space: the data segment, the runtime stack, and
// the malloc'd heap all share one Bytes arena, the same way a real
// process's data/stack/heap segments are all just regions of one flat
// virtual address space. Allocating the stack at a high fixed address
// and the heap just above the data segment costs nothing extra here
// because unused pages between them are never materialized.
type Bytes struct {
	PagedCore
	pages [][]byte
}

// Size returns the address one past the end of the highest allocated page.
func (m *Bytes) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// LoadByte returns a single byte from addr, 0 if never written.
func (m *Bytes) LoadByte(addr uint) (byte, error) {
	if err := m.checkLimit(addr, "load"); err != nil {
		return 0, err
	}
	if m.PageSize == 0 || len(m.pages) == 0 {
		return 0, nil
	}
	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		return page[i], nil
	}
	return 0, nil
}

// StoreByte writes a single byte at addr, allocating pages as needed.
func (m *Bytes) StoreByte(addr uint, b byte) error {
	return m.Stor(addr, []byte{b})
}

// LoadWord reads a little-endian wordSize-byte integer starting at addr.
func (m *Bytes) LoadWord(addr uint, size int) (int64, error) {
	buf := make([]byte, size)
	if err := m.Load(addr, buf); err != nil {
		return 0, err
	}
	var u uint64
	for i := size - 1; i >= 0; i-- {
		u = u<<8 | uint64(buf[i])
	}
	// sign-extend from size bytes
	shift := 64 - uint(size)*8
	return int64(u<<shift) >> shift, nil
}

// StoreWord writes v as a little-endian size-byte integer at addr.
func (m *Bytes) StoreWord(addr uint, size int, v int64) error {
	buf := make([]byte, size)
	u := uint64(v)
	for i := 0; i < size; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return m.Stor(addr, buf)
}

// Load fills buf from memory starting at addr. Unallocated pages read
// back as zero.
func (m *Bytes) Load(addr uint, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return err
	}

	for i := range buf {
		buf[i] = 0
	}
	if m.PageSize == 0 || len(m.pages) == 0 {
		return nil
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}
	return nil
}

// Stor writes values into memory starting at addr, allocating pages as
// necessary. No partial write happens if the memory limit would be
// exceeded.
func (m *Bytes) Stor(addr uint, values []byte) error {
	if len(values) == 0 {
		return nil
	}
	end := addr + uint(len(values))
	if err := m.checkLimit(end, "stor"); err != nil {
		return err
	}
	if m.PageSize == 0 {
		m.PageSize = DefaultBytesPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			base += skip
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}
	return nil
}

func (m *Bytes) allocPage(pageID int, addr uint) (base, size uint, page []byte) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]byte, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
