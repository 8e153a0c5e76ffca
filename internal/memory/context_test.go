package memory_test

import (
	"bytes"
	"testing"

	"github.com/retro68/corevm/internal/memory"
)

func newTestContext(t *testing.T) *memory.Context {
	t.Helper()

	c, err := memory.New(memory.WithPageSize(4096))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return c
}

func TestAllocateAndFree(t *testing.T) {
	c := newTestContext(t)

	addr, err := c.Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if size, ok := c.GetBlockSize(addr); !ok || size != 64 {
		t.Fatalf("GetBlockSize: got %d, %v", size, ok)
	}

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify after allocate: %v", err)
	}

	if err := c.Free(addr); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if _, ok := c.GetBlockSize(addr); ok {
		t.Fatalf("block still allocated after Free")
	}

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify after free: %v", err)
	}
}

func TestAllocateBestFit(t *testing.T) {
	c := newTestContext(t)

	a1, _ := c.Allocate(16)
	a2, _ := c.Allocate(32)
	a3, _ := c.Allocate(16)

	if err := c.Free(a2); err != nil {
		t.Fatalf("Free a2: %v", err)
	}

	// A 32-byte hole now exists between a1 and a3's neighbors; a fresh
	// 16-byte request should best-fit into part of it rather than
	// growing the arena.
	a4, err := c.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate a4: %v", err)
	}

	if a4 != a2 {
		t.Fatalf("expected best-fit reuse of freed block at %#x, got %#x", a2, a4)
	}

	_ = a1
	_ = a3

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestAllocateAtAndOverlap(t *testing.T) {
	c := newTestContext(t)

	if err := c.AllocateAt(0x10000, 128); err != nil {
		t.Fatalf("AllocateAt: %v", err)
	}

	if err := c.AllocateAt(0x10040, 64); err == nil {
		t.Fatalf("expected overlap error")
	}

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	c := newTestContext(t)

	addr, err := c.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := c.WriteU32BE(addr, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteU32BE: %v", err)
	}

	got, err := c.ReadU32BE(addr)
	if err != nil {
		t.Fatalf("ReadU32BE: %v", err)
	}

	if got != 0xDEADBEEF {
		t.Fatalf("got %#x, want %#x", got, 0xDEADBEEF)
	}
}

func TestStrictModeRejectsUnallocated(t *testing.T) {
	c, err := memory.New(memory.WithPageSize(4096), memory.WithStrict(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addr, err := c.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := c.Free(addr); err != nil {
		t.Fatalf("Free: %v", err)
	}

	if _, err := c.ReadU8(addr); err == nil {
		t.Fatalf("expected strict-mode read of freed block to fail")
	}
}

func TestSymbols(t *testing.T) {
	c := newTestContext(t)

	if err := c.SetSymbol("entry", 0x1000); err != nil {
		t.Fatalf("SetSymbol: %v", err)
	}

	if addr, ok := c.SymbolAddr("entry"); !ok || addr != 0x1000 {
		t.Fatalf("SymbolAddr: got %#x, %v", addr, ok)
	}

	if name, ok := c.AddrSymbol(0x1000); !ok || name != "entry" {
		t.Fatalf("AddrSymbol: got %q, %v", name, ok)
	}

	if err := c.SetSymbol("entry", 0x2000); err == nil {
		t.Fatalf("expected duplicate symbol error")
	}

	c.DeleteSymbol("entry")

	if _, ok := c.SymbolAddr("entry"); ok {
		t.Fatalf("symbol still present after delete")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newTestContext(t)

	addr, err := c.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := c.WriteU32BE(addr, 0x12345678); err != nil {
		t.Fatalf("WriteU32BE: %v", err)
	}

	if err := c.SetSymbol("thing", addr); err != nil {
		t.Fatalf("SetSymbol: %v", err)
	}

	var buf bytes.Buffer
	if err := c.ExportState(&buf); err != nil {
		t.Fatalf("ExportState: %v", err)
	}

	c2, err := memory.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c2.ImportState(&buf); err != nil {
		t.Fatalf("ImportState: %v", err)
	}

	got, err := c2.ReadU32BE(addr)
	if err != nil {
		t.Fatalf("ReadU32BE after import: %v", err)
	}

	if got != 0x12345678 {
		t.Fatalf("got %#x, want %#x", got, 0x12345678)
	}

	if symAddr, ok := c2.SymbolAddr("thing"); !ok || symAddr != addr {
		t.Fatalf("symbol not preserved across import: %#x, %v", symAddr, ok)
	}

	if err := c2.Verify(); err != nil {
		t.Fatalf("Verify after import: %v", err)
	}
}

func TestResizeGrowAndShrink(t *testing.T) {
	c := newTestContext(t)

	addr, err := c.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	// Allocate a neighbor to free, giving addr room to grow into.
	next, err := c.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate next: %v", err)
	}

	if next != addr+16 {
		t.Skip("arena layout assumption does not hold, skipping grow check")
	}

	if err := c.Free(next); err != nil {
		t.Fatalf("Free next: %v", err)
	}

	if !c.Resize(addr, 32) {
		t.Fatalf("Resize grow failed")
	}

	if size, _ := c.GetBlockSize(addr); size != 32 {
		t.Fatalf("got size %d, want 32", size)
	}

	if !c.Resize(addr, 8) {
		t.Fatalf("Resize shrink failed")
	}

	if size, _ := c.GetBlockSize(addr); size != 8 {
		t.Fatalf("got size %d, want 8", size)
	}

	if err := c.Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
