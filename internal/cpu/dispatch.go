package cpu

// buildDispatch assembles the 16-entry, top-nibble opcode dispatch
// table: an array of function values closing over the CPU, the same
// shape as the original's `exec_fns` array of member-function pointers.
// Groups 0-3 share one handler (ORI/ANDI/.../SUBI/ADDI/EORI/CMPI, bit
// instructions, MOVE, MOVEA); groups 9 and 13 (0xD) share one handler
// (ADD/ADDX and SUB/SUBX have the same bit layout).
func (cpu *CPU) buildDispatch() [16]func(*CPU, uint16) error {
	return [16]func(*CPU, uint16) error{
		0x0: (*CPU).execGroup0123,
		0x1: (*CPU).execGroup0123,
		0x2: (*CPU).execGroup0123,
		0x3: (*CPU).execGroup0123,
		0x4: (*CPU).execGroup4,
		0x5: (*CPU).execGroup5,
		0x6: (*CPU).execGroup6,
		0x7: (*CPU).execGroup7,
		0x8: (*CPU).execGroup8,
		0x9: (*CPU).execGroup9D,
		0xA: (*CPU).execGroupA,
		0xB: (*CPU).execGroupB,
		0xC: (*CPU).execGroupC,
		0xD: (*CPU).execGroup9D,
		0xE: (*CPU).execGroupE,
		0xF: (*CPU).execGroupF,
	}
}
