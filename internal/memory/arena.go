package memory

import (
	"fmt"
	"sort"
)

// arena is a contiguous, host-backed run of bytes covering [addr, addr+size)
// of the virtual address space. Within that span, every byte belongs to
// exactly one block: either allocated (tracked in allocated) or free
// (tracked in both freeByAddr and freeBySize, which must always agree).
type arena struct {
	addr uint32
	size uint32
	data []byte

	allocatedBytes uint32
	freeBytes      uint32

	allocated  map[uint32]uint32 // addr -> size
	freeByAddr map[uint32]uint32 // addr -> size
	freeBySize freeIndex
}

func newArena(addr, size uint32) *arena {
	a := &arena{
		addr:       addr,
		size:       size,
		data:       make([]byte, size),
		freeBytes:  size,
		allocated:  make(map[uint32]uint32),
		freeByAddr: make(map[uint32]uint32),
		freeBySize: newFreeIndex(),
	}

	a.freeByAddr[addr] = size
	a.freeBySize.insert(size, addr)

	return a
}

func (a *arena) end() uint32 { return a.addr + a.size }

// String returns a one-line debug summary of the arena.
func (a *arena) String() string {
	return fmt.Sprintf("arena{addr: %#08x, size: %#x, allocated: %d, free: %d}",
		a.addr, a.size, a.allocatedBytes, a.freeBytes)
}

// isWithinAllocatedBlock reports whether [addr, addr+size) lies entirely
// within a single allocated block.
func (a *arena) isWithinAllocatedBlock(addr, size uint32) bool {
	starts := a.sortedAllocatedStarts()

	i := sort.Search(len(starts), func(i int) bool { return starts[i] > addr })
	if i == 0 {
		return false
	}

	blockAddr := starts[i-1]
	blockSize := a.allocated[blockAddr]
	blockEnd := uint64(blockAddr) + uint64(blockSize)

	return uint64(addr) >= uint64(blockAddr) && uint64(addr)+uint64(size) <= blockEnd
}

func (a *arena) sortedAllocatedStarts() []uint32 {
	starts := make([]uint32, 0, len(a.allocated))
	for addr := range a.allocated {
		starts = append(starts, addr)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	return starts
}

// takeFreeBlock removes a free block of at least size bytes starting at
// the smallest such block found (best fit), splits off any remainder
// back onto the free list, and marks [addr, addr+size) allocated.
// Returns the address of the new block.
func (a *arena) takeFreeBlock(size uint32) (uint32, bool) {
	blockSize, addr, ok := a.freeBySize.lowerBound(size)
	if !ok {
		return 0, false
	}

	a.deleteFreeBlock(addr, blockSize)
	a.splitAndAllocate(addr, blockSize, size)

	return addr, true
}

// takeFreeBlockAt allocates exactly [addr, addr+size) out of the single
// free block it must be fully contained in.
func (a *arena) takeFreeBlockAt(addr, size uint32) bool {
	blockAddr, blockSize, ok := a.freeBlockContaining(addr, size)
	if !ok {
		return false
	}

	a.deleteFreeBlock(blockAddr, blockSize)
	a.splitAndAllocateWithin(blockAddr, blockSize, addr, size)

	return true
}

func (a *arena) freeBlockContaining(addr, size uint32) (blockAddr, blockSize uint32, ok bool) {
	starts := make([]uint32, 0, len(a.freeByAddr))
	for s := range a.freeByAddr {
		starts = append(starts, s)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	i := sort.Search(len(starts), func(i int) bool { return starts[i] > addr })
	if i == 0 {
		return 0, 0, false
	}

	blockAddr = starts[i-1]
	blockSize = a.freeByAddr[blockAddr]

	if uint64(addr)+uint64(size) > uint64(blockAddr)+uint64(blockSize) {
		return 0, 0, false
	}

	return blockAddr, blockSize, true
}

// splitAndAllocate takes the whole free block [blockAddr, blockAddr+blockSize)
// and allocates the first size bytes of it, returning any remainder to
// the free list.
func (a *arena) splitAndAllocate(blockAddr, blockSize, size uint32) {
	a.allocated[blockAddr] = size
	a.allocatedBytes += size
	a.freeBytes -= size

	if remainder := blockSize - size; remainder > 0 {
		remAddr := blockAddr + size
		a.freeByAddr[remAddr] = remainder
		a.freeBySize.insert(remainder, remAddr)
	}
}

// splitAndAllocateWithin allocates [addr, addr+size) out of the larger
// free block [blockAddr, blockAddr+blockSize), returning the leading and
// trailing remainders (if any) to the free list.
func (a *arena) splitAndAllocateWithin(blockAddr, blockSize, addr, size uint32) {
	if before := addr - blockAddr; before > 0 {
		a.freeByAddr[blockAddr] = before
		a.freeBySize.insert(before, blockAddr)
	}

	if after := (blockAddr + blockSize) - (addr + size); after > 0 {
		afterAddr := addr + size
		a.freeByAddr[afterAddr] = after
		a.freeBySize.insert(after, afterAddr)
	}

	a.allocated[addr] = size
	a.allocatedBytes += size
	a.freeBytes -= size
}

func (a *arena) deleteFreeBlock(addr, size uint32) {
	delete(a.freeByAddr, addr)
	a.freeBySize.remove(size, addr)
}

// freeBlock releases addr's allocated block, merging with adjoining free
// neighbors. Returns the merged block's address, size and whether the
// whole arena is now free (caller may then delete the arena).
func (a *arena) freeBlock(addr uint32) (mergedAddr, mergedSize uint32, wholeArenaFree bool) {
	size := a.allocated[addr]
	delete(a.allocated, addr)
	a.allocatedBytes -= size
	a.freeBytes += size

	mergedAddr, mergedSize = addr, size

	if afterSize, ok := a.freeByAddr[addr+size]; ok {
		a.deleteFreeBlock(addr+size, afterSize)
		mergedSize += afterSize
	}

	// Find a free block immediately preceding mergedAddr.
	starts := make([]uint32, 0, len(a.freeByAddr))
	for s := range a.freeByAddr {
		starts = append(starts, s)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	i := sort.Search(len(starts), func(i int) bool { return starts[i] >= mergedAddr })
	if i > 0 {
		prevAddr := starts[i-1]
		prevSize := a.freeByAddr[prevAddr]

		if prevAddr+prevSize == mergedAddr {
			a.deleteFreeBlock(prevAddr, prevSize)
			mergedAddr = prevAddr
			mergedSize += prevSize
		}
	}

	a.freeByAddr[mergedAddr] = mergedSize
	a.freeBySize.insert(mergedSize, mergedAddr)

	wholeArenaFree = mergedSize == a.size

	return mergedAddr, mergedSize, wholeArenaFree
}

// verify checks this arena's internal accounting. It's the per-arena
// half of Context.Verify.
func (a *arena) verify() error {
	if a.allocatedBytes > a.size || a.freeBytes > a.size {
		return fmt.Errorf("%w: arena %#08x byte counts exceed size", ErrCorruptImage, a.addr)
	}

	if a.allocatedBytes+a.freeBytes != a.size {
		return fmt.Errorf("%w: arena %#08x allocated+free != size", ErrCorruptImage, a.addr)
	}

	type span struct{ addr, size uint32 }

	spans := make([]span, 0, len(a.allocated)+len(a.freeByAddr))
	for addr, size := range a.allocated {
		spans = append(spans, span{addr, size})
	}

	for addr, size := range a.freeByAddr {
		if a.freeBySize.sizeAt(addr) != size {
			return fmt.Errorf("%w: arena %#08x free index mismatch at %#08x", ErrCorruptImage, a.addr, addr)
		}

		spans = append(spans, span{addr, size})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].addr < spans[j].addr })

	cursor := a.addr

	for _, s := range spans {
		if s.addr != cursor {
			return fmt.Errorf("%w: arena %#08x gap or overlap at %#08x", ErrCorruptImage, a.addr, s.addr)
		}

		cursor = s.addr + s.size
	}

	if cursor != a.end() {
		return fmt.Errorf("%w: arena %#08x blocks do not cover full span", ErrCorruptImage, a.addr)
	}

	return nil
}

// freeIndex is a size -> set-of-addresses multimap supporting best-fit
// lookup, standing in for the original's std::multimap<size_t, size_t>.
type freeIndex struct {
	bySize map[uint32]map[uint32]struct{}
}

func newFreeIndex() freeIndex {
	return freeIndex{bySize: make(map[uint32]map[uint32]struct{})}
}

func (f freeIndex) insert(size, addr uint32) {
	set, ok := f.bySize[size]
	if !ok {
		set = make(map[uint32]struct{})
		f.bySize[size] = set
	}

	set[addr] = struct{}{}
}

func (f freeIndex) remove(size, addr uint32) {
	set, ok := f.bySize[size]
	if !ok {
		return
	}

	delete(set, addr)

	if len(set) == 0 {
		delete(f.bySize, size)
	}
}

func (f freeIndex) sizeAt(addr uint32) uint32 {
	for size, set := range f.bySize {
		if _, ok := set[addr]; ok {
			return size
		}
	}

	return 0
}

// lowerBound returns the smallest registered size >= min, along with one
// address holding a block of that size (the lowest such address, for
// determinism).
func (f freeIndex) lowerBound(min uint32) (size, addr uint32, ok bool) {
	bestSize := ^uint32(0)

	for sz := range f.bySize {
		if sz >= min && sz < bestSize {
			bestSize = sz
		}
	}

	if bestSize == ^uint32(0) {
		return 0, 0, false
	}

	addrs := make([]uint32, 0, len(f.bySize[bestSize]))
	for a := range f.bySize[bestSize] {
		addrs = append(addrs, a)
	}

	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	return bestSize, addrs[0], true
}
