package cpu

import "github.com/retro68/corevm/internal/memory"

// readSize and writeSize give the interpreter size-generic access to
// the big-endian address space, matching the 68000's byte order.
func readSize(mem *memory.Context, addr uint32, sz Size) (uint32, error) {
	switch sz {
	case Byte:
		v, err := mem.ReadU8(addr)
		return uint32(v), err
	case Word:
		v, err := mem.ReadU16BE(addr)
		return uint32(v), err
	default:
		return mem.ReadU32BE(addr)
	}
}

func writeSize(mem *memory.Context, addr uint32, sz Size, val uint32) error {
	switch sz {
	case Byte:
		return mem.WriteU8(addr, uint8(val))
	case Word:
		return mem.WriteU16BE(addr, uint16(val))
	default:
		return mem.WriteU32BE(addr, val)
	}
}

// fetchWord reads the word at PC and advances PC by 2, the extension
// word/opcode fetch primitive used throughout decode.
func (cpu *CPU) fetchWord() (uint16, error) {
	v, err := cpu.mem.ReadU16BE(cpu.PC)
	if err != nil {
		return 0, err
	}

	cpu.PC += 2

	return v, nil
}

// fetchLong reads the long at PC and advances PC by 4.
func (cpu *CPU) fetchLong() (uint32, error) {
	v, err := cpu.mem.ReadU32BE(cpu.PC)
	if err != nil {
		return 0, err
	}

	cpu.PC += 4

	return v, nil
}

// push writes val onto the active stack (A7), predecrementing first.
func (cpu *CPU) push(sz Size, val uint32) error {
	step := uint32(sz)
	if step < 2 {
		step = 2 // the stack pointer always stays word-aligned
	}

	cpu.A[7] -= step

	return writeSize(cpu.mem, cpu.A[7], sz, val)
}

// pop reads a value off the active stack, post-incrementing after.
func (cpu *CPU) pop(sz Size) (uint32, error) {
	step := uint32(sz)
	if step < 2 {
		step = 2
	}

	v, err := readSize(cpu.mem, cpu.A[7], sz)
	if err != nil {
		return 0, err
	}

	cpu.A[7] += step

	return v, nil
}
