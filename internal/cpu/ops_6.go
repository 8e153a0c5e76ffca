package cpu

// ops_6.go covers opcode group 6: BRA, BSR and the fourteen Bcc
// conditional branches. All share an 8-bit displacement in the opcode
// word itself, extended to a 16-bit word displacement when that byte is
// zero (a 32-bit displacement, signalled by 0xFF, is a 68020 extension
// and out of scope here, matching the EA layer's brief-extension-word-
// only decision).
func (cpu *CPU) execGroup6(opcode uint16) error {
	cond := uint8((opcode >> 8) & 0xF)
	disp8 := int8(opcode & 0xFF)

	base := cpu.PC

	var disp int32

	switch disp8 {
	case 0:
		w, err := cpu.fetchWord()
		if err != nil {
			return err
		}

		disp = int32(int16(w))
	case -1:
		return unimpl("branch-32bit-displacement")
	default:
		disp = int32(disp8)
	}

	target := uint32(int32(base) + disp)

	switch cond {
	case 0x0: // BRA
		cpu.PC = target
		return nil
	case 0x1: // BSR
		if err := cpu.push(Long, cpu.PC); err != nil {
			return err
		}

		cpu.PC = target

		return nil
	default:
		if cpu.Condition(cond) {
			cpu.PC = target
		}

		return nil
	}
}
