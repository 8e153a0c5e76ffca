/*
Package memory implements a paged, arena-backed virtual address space for
the emulator.

Unlike a flat RAM array, the address space here is sparse: a 32-bit
address is valid only if some arena has been created to cover it. An
arena is a contiguous, host-backed run of pages; within an arena, bytes
are either part of an allocated block or sit on a free list available
for a future allocation.

# Arenas and blocks

Each [Context] owns a set of arenas, indexed both by their base address
and by page number so that a lookup from either an address or a page can
find the owning arena in constant time.

Within an arena, allocated and free byte ranges partition the arena's
address span with no gaps: every byte belongs to exactly one block.
Allocation picks the smallest free block that satisfies a request
(best-fit), splitting off any remainder back onto the free list.
Freeing a block merges it with any adjoining free neighbors.

# Strict mode

When strict mode is enabled, reads and writes must fall entirely within
an allocated block, not merely within an arena; this catches use of
memory that was freed, or that was never allocated within an otherwise
valid arena.

# Page size

The page size defaults to the host's page size (see arena_unix.go), must
be a power of two, and bounds both the minimum arena size and the
granularity of the page-number index.
*/
package memory
