package cpu

// ops_5.go covers opcode group 5: ADDQ/SUBQ, Scc and DBcc. All three
// share the same top-level shape "0101 xxxx ss MMMRRR"; the size field
// being 11 ("invalid" for ADDQ/SUBQ) is what repurposes the slot for the
// condition-code instructions, exactly as group 4 repurposes invalid EA
// combinations for EXT/MOVEM.
func (cpu *CPU) execGroup5(opcode uint16) error {
	sizeBits := (opcode >> 6) & 3

	if sizeBits == 3 {
		cond := uint8((opcode >> 8) & 0xF)
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		if mode == 1 {
			return cpu.execDBcc(cond, reg)
		}

		return cpu.execScc(cond, mode, reg)
	}

	sz, ok := sizeFromOpSize(sizeBits)
	if !ok {
		return illegal("group5")
	}

	data := uint32((opcode >> 9) & 7)
	if data == 0 {
		data = 8
	}

	subtract := opcode&0x0100 != 0
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, sz)
	if err != nil {
		return err
	}

	val, err := cpu.Read(ea, sz)
	if err != nil {
		return err
	}

	// ADDQ/SUBQ on an address register leaves the CCR untouched and
	// always operates on the full 32-bit value, matching ADDA/SUBA.
	if ea.Kind == KindAddrReg {
		if subtract {
			cpu.A[ea.Reg] -= data
		} else {
			cpu.A[ea.Reg] += data
		}

		return nil
	}

	var result uint32
	if subtract {
		result = cpu.SetCCRIntegerSubtract(val, data, sz)
	} else {
		result = cpu.SetCCRIntegerAdd(val, data, sz)
	}

	return cpu.Write(ea, sz, result)
}

func (cpu *CPU) execScc(cond uint8, mode, reg uint8) error {
	ea, err := cpu.resolveAddress(mode, reg, Byte)
	if err != nil {
		return err
	}

	var val uint32
	if cpu.Condition(cond) {
		val = 0xFF
	}

	return cpu.Write(ea, Byte, val)
}

func (cpu *CPU) execDBcc(cond uint8, reg uint8) error {
	disp, err := cpu.fetchWord()
	if err != nil {
		return err
	}

	if cpu.Condition(cond) {
		return nil
	}

	counter := int16(cpu.D[reg])
	counter--
	cpu.D[reg] = (cpu.D[reg] &^ 0xFFFF) | uint32(uint16(counter))

	if counter != -1 {
		cpu.PC = uint32(int32(cpu.PC) - 2 + int32(int16(disp)))
	}

	return nil
}
