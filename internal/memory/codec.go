package memory

// codec.go implements the binary memory-image format: ExportState writes
// a Context's arenas, allocation bookkeeping and symbol table to a
// stream; ImportState reconstructs a Context from one. The format
// mirrors the teacher's object-loader style (encoding/binary,
// BigEndian, count-prefixed records) rather than the original's raw
// struct dump, since Go has no portable struct-layout serialization.
//
// Layout (all integers big-endian):
//
//	magic      [4]byte  "CVM1"
//	pageSize   uint32
//	strict     uint8
//	numArenas  uint32
//	  arena[i]:
//	    addr         uint32
//	    size         uint32
//	    numAllocated uint32
//	      block[j]: addr uint32, size uint32
//	    data         [size]byte
//	numSymbols uint32
//	  symbol[k]: nameLen uint16, name [nameLen]byte, addr uint32

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

var magic = [4]byte{'C', 'V', 'M', '1'}

// ExportState writes a complete binary image of the context to w.
func (c *Context) ExportState(w io.Writer) error {
	buf := new(bytes.Buffer)

	buf.Write(magic[:])
	binary.Write(buf, binary.BigEndian, c.pageSize)
	buf.WriteByte(boolByte(c.strict))
	binary.Write(buf, binary.BigEndian, uint32(len(c.arenasByAddr)))

	addrs := make([]uint32, 0, len(c.arenasByAddr))
	for addr := range c.arenasByAddr {
		addrs = append(addrs, addr)
	}

	sortUint32s(addrs)

	for _, addr := range addrs {
		a := c.arenasByAddr[addr]

		binary.Write(buf, binary.BigEndian, a.addr)
		binary.Write(buf, binary.BigEndian, a.size)
		binary.Write(buf, binary.BigEndian, uint32(len(a.allocated)))

		blockAddrs := make([]uint32, 0, len(a.allocated))
		for ba := range a.allocated {
			blockAddrs = append(blockAddrs, ba)
		}

		sortUint32s(blockAddrs)

		for _, ba := range blockAddrs {
			binary.Write(buf, binary.BigEndian, ba)
			binary.Write(buf, binary.BigEndian, a.allocated[ba])
		}

		buf.Write(a.data)
	}

	names := c.sortedSymbolNames()
	binary.Write(buf, binary.BigEndian, uint32(len(names)))

	for _, name := range names {
		binary.Write(buf, binary.BigEndian, uint16(len(name)))
		buf.WriteString(name)
		binary.Write(buf, binary.BigEndian, c.symbolAddrs[name])
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// ImportState replaces the context's contents with the image read from
// r. Page size and strict mode are taken from the image.
func (c *Context) ImportState(r io.Reader) error {
	var gotMagic [4]byte

	if err := binary.Read(r, binary.BigEndian, &gotMagic); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}

	if gotMagic != magic {
		return fmt.Errorf("%w: bad magic", ErrCorruptImage)
	}

	var (
		pageSize  uint32
		strictB   byte
		numArenas uint32
	)

	if err := binary.Read(r, binary.BigEndian, &pageSize); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}

	strictB, err := readByte(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}

	if err := binary.Read(r, binary.BigEndian, &numArenas); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}

	c.pageSize = pageSize
	c.strict = strictB != 0
	c.arenasByAddr = make(map[uint32]*arena)
	c.size, c.allocatedBytes, c.freeBytes = 0, 0, 0

	if err := recomputePageBits(c); err != nil {
		return err
	}

	c.arenaForPage = make([]*arena, c.totalPages+1)

	for i := uint32(0); i < numArenas; i++ {
		var addr, size, numAllocated uint32

		if err := readUint32s(r, &addr, &size, &numAllocated); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptImage, err)
		}

		a := newArena(addr, size)
		a.allocated = make(map[uint32]uint32, numAllocated)
		a.freeByAddr = make(map[uint32]uint32)
		a.freeBySize = newFreeIndex()

		for j := uint32(0); j < numAllocated; j++ {
			var ba, bs uint32
			if err := readUint32s(r, &ba, &bs); err != nil {
				return fmt.Errorf("%w: %w", ErrCorruptImage, err)
			}

			a.allocated[ba] = bs
			a.allocatedBytes += bs
		}

		a.freeBytes = 0

		if _, err := io.ReadFull(r, a.data); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptImage, err)
		}

		rebuildFreeList(a)

		c.arenasByAddr[addr] = a
		c.size += uint64(a.size)
		c.allocatedBytes += uint64(a.allocatedBytes)
		c.freeBytes += uint64(a.freeBytes)

		start := c.pageNumberForAddr(addr)
		pages := c.pageCountForSize(size)

		for p := start; p < start+pages; p++ {
			c.arenaForPage[p] = a
		}
	}

	var numSymbols uint32
	if err := binary.Read(r, binary.BigEndian, &numSymbols); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}

	c.symbolAddrs = make(map[string]uint32, numSymbols)
	c.addrSymbols = make(map[uint32]string, numSymbols)

	for i := uint32(0); i < numSymbols; i++ {
		var nameLen uint16
		if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptImage, err)
		}

		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptImage, err)
		}

		var addr uint32
		if err := binary.Read(r, binary.BigEndian, &addr); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptImage, err)
		}

		name := string(nameBytes)
		c.symbolAddrs[name] = addr
		c.addrSymbols[addr] = name
	}

	return nil
}

// rebuildFreeList reconstructs an arena's free-block index from the
// address span not covered by its allocated blocks.
func rebuildFreeList(a *arena) {
	allocs := make([]spanT, 0, len(a.allocated))
	for addr, size := range a.allocated {
		allocs = append(allocs, spanT{addr, size})
	}

	sortSpans(allocs)

	cursor := a.addr

	for _, s := range allocs {
		if s.addr > cursor {
			gap := s.addr - cursor
			a.freeByAddr[cursor] = gap
			a.freeBySize.insert(gap, cursor)
			a.freeBytes += gap
		}

		cursor = s.addr + s.size
	}

	if cursor < a.end() {
		gap := a.end() - cursor
		a.freeByAddr[cursor] = gap
		a.freeBySize.insert(gap, cursor)
		a.freeBytes += gap
	}
}

func recomputePageBits(c *Context) error {
	nc, err := New(WithPageSize(c.pageSize))
	if err != nil {
		return err
	}

	c.pageBits = nc.pageBits
	c.totalPages = nc.totalPages

	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

func readUint32s(r io.Reader, vs ...*uint32) error {
	for _, v := range vs {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}

	return nil
}

func sortUint32s(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

type spanT = struct{ addr, size uint32 }

func sortSpans(s []spanT) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].addr > s[j].addr; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
