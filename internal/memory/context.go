package memory

import (
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"sort"

	"github.com/retro68/corevm/internal/log"
)

const defaultPageSize = 4096

// Context is a sparse, paged, arena-backed 32-bit address space. Nothing
// is addressable until an arena has been created to cover it, either
// implicitly via Allocate/AllocateAt or explicitly via PreallocateArena.
type Context struct {
	pageBits   uint
	pageSize   uint32
	totalPages uint64

	size           uint64
	allocatedBytes uint64
	freeBytes      uint64

	strict bool

	arenasByAddr map[uint32]*arena
	arenaForPage []*arena

	symbolAddrs map[string]uint32
	addrSymbols map[uint32]string

	log *slog.Logger
}

// OptionFn configures a Context at construction time.
type OptionFn func(*Context)

// WithPageSize overrides the default (host) page size. size must be a
// power of two.
func WithPageSize(size uint32) OptionFn {
	return func(c *Context) {
		c.pageSize = size
	}
}

// WithStrict enables strict mode: reads and writes must land entirely
// within an allocated block, not merely within an arena.
func WithStrict(strict bool) OptionFn {
	return func(c *Context) { c.strict = strict }
}

// WithLogger overrides the context's logger.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(c *Context) { c.log = logger }
}

// New creates an empty address space.
func New(opts ...OptionFn) (*Context, error) {
	c := &Context{
		pageSize:     hostPageSize(),
		arenasByAddr: make(map[uint32]*arena),
		symbolAddrs:  make(map[string]uint32),
		addrSymbols:  make(map[uint32]string),
		log:          log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pageSize == 0 || bits.OnesCount32(c.pageSize) != 1 {
		return nil, invalidArgument("New", ErrBadPageSize)
	}

	c.pageBits = uint(bits.TrailingZeros32(c.pageSize))
	c.totalPages = (uint64(1) << 32 >> c.pageBits) - 1
	c.arenaForPage = make([]*arena, c.totalPages+1)

	return c, nil
}

func (c *Context) pageBaseForAddr(addr uint32) uint32 { return addr &^ (c.pageSize - 1) }
func (c *Context) pageNumberForAddr(addr uint32) uint64 { return uint64(addr) >> c.pageBits }
func (c *Context) addrForPageNumber(n uint64) uint32  { return uint32(n << c.pageBits) }

func (c *Context) pageCountForSize(size uint32) uint64 {
	return (uint64(size) + uint64(c.pageSize) - 1) / uint64(c.pageSize)
}

func (c *Context) arenaForAddr(addr uint32) *arena {
	pn := c.pageNumberForAddr(addr)
	if pn >= uint64(len(c.arenaForPage)) {
		return nil
	}

	return c.arenaForPage[pn]
}

// Allocate reserves size bytes anywhere in the address space (page zero
// excluded) and returns the address of the new block.
func (c *Context) Allocate(size uint32) (uint32, error) {
	return c.AllocateWithin(c.pageSize, 0xFFFFFFFF, size)
}

// AllocateWithin reserves size bytes within [addrLow, addrHigh), using a
// best-fit search across existing arenas before creating a new one.
func (c *Context) AllocateWithin(addrLow, addrHigh, size uint32) (uint32, error) {
	size = align4(size)
	if size == 0 {
		return 0, invalidArgument("AllocateWithin", fmt.Errorf("size must be nonzero"))
	}

	var (
		bestArena *arena
		bestSize  uint32 = ^uint32(0)
		bestAddr  uint32
	)

	for _, a := range c.arenasByAddr {
		if a.addr < addrLow || a.end() > addrHigh {
			continue
		}

		sz, addr, ok := a.freeBySize.lowerBound(size)
		if ok && sz < bestSize {
			bestArena, bestSize, bestAddr = a, sz, addr
		}
	}

	if bestArena != nil {
		bestArena.deleteFreeBlock(bestAddr, bestSize)
		bestArena.splitAndAllocate(bestAddr, bestSize, size)
		c.allocatedBytes += uint64(size)
		c.freeBytes -= uint64(size)

		return bestAddr, nil
	}

	addr, err := c.findUnallocatedSpace(addrLow, addrHigh, size)
	if err != nil {
		return 0, err
	}

	a := c.createArena(addr, uint32(c.pageCountForSize(size))*c.pageSize)
	a.takeFreeBlock(size)
	c.allocatedBytes += uint64(size)
	c.freeBytes -= uint64(size)

	return addr, nil
}

// AllocateAt reserves exactly [addr, addr+size). If no arena covers the
// range, one is created sized to the request (rounded to a page
// boundary); otherwise the range must be a single free block.
func (c *Context) AllocateAt(addr, size uint32) error {
	size = align4(size)

	if addr%4 != 0 {
		return invalidArgument("AllocateAt", ErrUnaligned)
	}

	startArena := c.arenaForAddr(addr)
	endArena := c.arenaForAddr(addr + size - 1)

	if startArena == nil && endArena == nil {
		base := c.pageBaseForAddr(addr)
		pages := c.pageCountForSize(addr - base + size)
		a := c.createArena(base, uint32(pages)*c.pageSize)

		if !a.takeFreeBlockAt(addr, size) {
			return outOfRange("AllocateAt", ErrOverlap)
		}

		c.allocatedBytes += uint64(size)
		c.freeBytes -= uint64(size)

		return nil
	}

	if startArena == nil || startArena != endArena {
		return outOfRange("AllocateAt", fmt.Errorf("range spans more than one arena"))
	}

	if !startArena.takeFreeBlockAt(addr, size) {
		return outOfRange("AllocateAt", ErrOverlap)
	}

	c.allocatedBytes += uint64(size)
	c.freeBytes -= uint64(size)

	return nil
}

// PreallocateArena ensures an arena covers [addr, addr+size) without
// allocating any block within it, unless that range already exists.
func (c *Context) PreallocateArena(addr, size uint32) error {
	if c.Exists(addr, size, true) {
		return nil
	}

	base := c.pageBaseForAddr(addr)
	pages := c.pageCountForSize(addr - base + size)
	c.createArena(base, uint32(pages)*c.pageSize)

	return nil
}

// Free releases the allocated block starting at addr.
func (c *Context) Free(addr uint32) error {
	a := c.arenaForAddr(addr)
	if a == nil {
		return outOfRange("Free", fmt.Errorf("no arena at %#08x", addr))
	}

	size, ok := a.allocated[addr]
	if !ok {
		return invalidArgument("Free", ErrNotAllocated)
	}

	_, _, wholeArenaFree := a.freeBlock(addr)
	c.allocatedBytes -= uint64(size)
	c.freeBytes += uint64(size)

	if wholeArenaFree {
		c.deleteArena(a)
	}

	return nil
}

// Resize grows or shrinks the allocated block at addr against the
// immediately following free block only. Reports whether it succeeded.
func (c *Context) Resize(addr, newSize uint32) bool {
	newSize = align4(newSize)

	a := c.arenaForAddr(addr)
	if a == nil {
		return false
	}

	curSize, ok := a.allocated[addr]
	if !ok {
		return false
	}

	if newSize == curSize {
		return true
	}

	if newSize < curSize {
		shrink := curSize - newSize
		a.allocated[addr] = newSize
		a.allocatedBytes -= shrink
		a.freeBytes += shrink

		freeAddr := addr + newSize
		freeSize := shrink

		if nextSize, ok := a.freeByAddr[addr+curSize]; ok {
			a.deleteFreeBlock(addr+curSize, nextSize)
			freeSize += nextSize
		}

		a.freeByAddr[freeAddr] = freeSize
		a.freeBySize.insert(freeSize, freeAddr)
		c.allocatedBytes -= uint64(shrink)
		c.freeBytes += uint64(shrink)

		return true
	}

	grow := newSize - curSize
	nextAddr := addr + curSize

	nextSize, ok := a.freeByAddr[nextAddr]
	if !ok || nextSize < grow {
		return false
	}

	a.deleteFreeBlock(nextAddr, nextSize)

	if remainder := nextSize - grow; remainder > 0 {
		remAddr := nextAddr + grow
		a.freeByAddr[remAddr] = remainder
		a.freeBySize.insert(remainder, remAddr)
	}

	a.allocated[addr] = newSize
	a.allocatedBytes += grow
	a.freeBytes -= grow
	c.allocatedBytes += uint64(grow)
	c.freeBytes -= uint64(grow)

	return true
}

// GetBlockSize returns the size of the allocated block starting at addr.
func (c *Context) GetBlockSize(addr uint32) (uint32, bool) {
	a := c.arenaForAddr(addr)
	if a == nil {
		return 0, false
	}

	size, ok := a.allocated[addr]

	return size, ok
}

// Exists reports whether [addr, addr+size) is addressable: within an
// arena, and (unless skipStrict or strict mode is off) within a single
// allocated block.
func (c *Context) Exists(addr, size uint32, skipStrict bool) bool {
	a := c.arenaForAddr(addr)
	if a == nil {
		return false
	}

	if uint64(addr)+uint64(size) > uint64(a.end()) {
		return false
	}

	if c.strict && !skipStrict {
		return a.isWithinAllocatedBlock(addr, size)
	}

	return true
}

// AllocatedBlocks returns every allocated block address mapped to size,
// across all arenas.
func (c *Context) AllocatedBlocks() map[uint32]uint32 {
	out := make(map[uint32]uint32)

	for _, a := range c.arenasByAddr {
		for addr, size := range a.allocated {
			out[addr] = size
		}
	}

	return out
}

// SetStrict toggles strict mode.
func (c *Context) SetStrict(strict bool) { c.strict = strict }

// Strict reports whether strict mode is enabled.
func (c *Context) Strict() bool { return c.strict }

// PageSize returns the context's page size in bytes.
func (c *Context) PageSize() uint32 { return c.pageSize }

func (c *Context) findUnallocatedSpace(addrLow, addrHigh, size uint32) (uint32, error) {
	need := c.pageCountForSize(size)
	startPage := c.pageNumberForAddr(addrLow)

	if c.pageBaseForAddr(addrLow) < addrLow {
		startPage++
	}

	maxPage := c.pageNumberForAddr(addrHigh - 1)

	for startPage+need <= maxPage+1 {
		if c.arenaForPage[startPage] != nil {
			startPage++
			continue
		}

		run := uint64(0)
		for run < need && startPage+run <= maxPage && c.arenaForPage[startPage+run] == nil {
			run++
		}

		if run >= need {
			return c.addrForPageNumber(startPage), nil
		}

		startPage += run + 1
	}

	return 0, outOfRange("findUnallocatedSpace", ErrNoSpace)
}

func (c *Context) createArena(addr, size uint32) *arena {
	a := newArena(addr, size)
	c.arenasByAddr[addr] = a
	c.size += uint64(size)
	c.freeBytes += uint64(size)

	start := c.pageNumberForAddr(addr)
	pages := c.pageCountForSize(size)

	for p := start; p < start+pages; p++ {
		c.arenaForPage[p] = a
	}

	c.log.Debug("arena created", "addr", fmt.Sprintf("%#08x", addr), "size", size)

	return a
}

func (c *Context) deleteArena(a *arena) {
	delete(c.arenasByAddr, a.addr)
	c.size -= uint64(a.size)
	c.freeBytes -= uint64(a.freeBytes)

	start := c.pageNumberForAddr(a.addr)
	pages := c.pageCountForSize(a.size)

	for p := start; p < start+pages; p++ {
		c.arenaForPage[p] = nil
	}

	c.log.Debug("arena deleted", "addr", fmt.Sprintf("%#08x", a.addr), "size", a.size)
}

// Verify exhaustively checks the context's internal bookkeeping,
// recovering the original MemoryContext::verify invariant checker.
func (c *Context) Verify() error {
	if c.allocatedBytes > c.size {
		return fmt.Errorf("%w: allocated bytes exceed total size", ErrCorruptImage)
	}

	if c.freeBytes > c.size {
		return fmt.Errorf("%w: free bytes exceed total size", ErrCorruptImage)
	}

	if c.allocatedBytes+c.freeBytes != c.size {
		return fmt.Errorf("%w: allocated+free != total size", ErrCorruptImage)
	}

	seen := make(map[uint32]bool)

	for addr, a := range c.arenasByAddr {
		if addr != a.addr {
			return fmt.Errorf("%w: arena keyed at %#08x has addr %#08x", ErrCorruptImage, addr, a.addr)
		}

		start := c.pageNumberForAddr(a.addr)
		pages := c.pageCountForSize(a.size)

		for p := start; p < start+pages; p++ {
			if c.arenaForPage[p] != a {
				return fmt.Errorf("%w: page table mismatch at page %d", ErrCorruptImage, p)
			}
		}

		if err := a.verify(); err != nil {
			return err
		}

		seen[addr] = true
	}

	for p, a := range c.arenaForPage {
		if a != nil && !seen[a.addr] {
			return fmt.Errorf("%w: page %d references unregistered arena", ErrCorruptImage, p)
		}
	}

	return nil
}

// PrintState writes a human-readable summary of every arena.
func (c *Context) PrintState(w io.Writer) {
	fmt.Fprintf(w, "page_size=%d total_pages=%d size=%d allocated=%d free=%d strict=%v\n",
		c.pageSize, c.totalPages, c.size, c.allocatedBytes, c.freeBytes, c.strict)

	addrs := make([]uint32, 0, len(c.arenasByAddr))
	for addr := range c.arenasByAddr {
		addrs = append(addrs, addr)
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	for _, addr := range addrs {
		fmt.Fprintln(w, c.arenasByAddr[addr].String())
	}
}

// PrintContents writes a hex dump of [addr, addr+size).
func (c *Context) PrintContents(w io.Writer, addr, size uint32) error {
	data, err := c.at(addr, size, true)
	if err != nil {
		return err
	}

	for off := uint32(0); off < size; off += 16 {
		end := off + 16
		if end > size {
			end = size
		}

		fmt.Fprintf(w, "%08x  % x\n", addr+off, data[off:end])
	}

	return nil
}

func align4(size uint32) uint32 { return (size + 3) &^ 3 }
