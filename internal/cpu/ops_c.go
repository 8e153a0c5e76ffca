package cpu

// ops_c.go covers opcode group 0xC: AND, MULU/MULS, ABCD, and EXG. Like
// group 8 (OR/DIVU/DIVS/SBCD), AND shares its opmode slots with a
// multiply and the exact bit patterns 0xC100/0xC140/0xC148/0xC188 steal
// the Dn-destination slots for ABCD and the three EXG forms.
func (cpu *CPU) execGroupC(opcode uint16) error {
	switch opcode & 0xF1F8 {
	case 0xC140:
		return cpu.execEXG(uint8((opcode>>9)&7), uint8(opcode&7), false, false)
	case 0xC148:
		return cpu.execEXG(uint8((opcode>>9)&7), uint8(opcode&7), true, true)
	case 0xC188:
		return cpu.execEXG(uint8((opcode>>9)&7), uint8(opcode&7), false, true)
	}

	if opcode&0xF1F0 == 0xC100 { // ABCD
		return cpu.execABCD(opcode)
	}

	dn := uint8((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	switch opmode {
	case 3: // MULU
		return cpu.execMultiply(dn, mode, reg, false)
	case 7: // MULS
		return cpu.execMultiply(dn, mode, reg, true)
	}

	sz, ok := sizeFromOpSize(opmode & 3)
	if !ok {
		return illegal("AND")
	}

	toMemory := opmode&4 != 0

	ea, err := cpu.resolveAddress(mode, reg, sz)
	if err != nil {
		return err
	}

	eaVal, err := cpu.Read(ea, sz)
	if err != nil {
		return err
	}

	if toMemory {
		result := truncate(eaVal&cpu.D[dn], sz)
		cpu.SetCCRLogic(result, sz)

		return cpu.Write(ea, sz, result)
	}

	result := truncate(eaVal&cpu.D[dn], sz)
	cpu.SetCCRLogic(result, sz)
	cpu.D[dn] = (cpu.D[dn] &^ sz.Mask()) | (result & sz.Mask())

	return nil
}

func (cpu *CPU) execEXG(rx, ry uint8, xIsAddr, yIsAddr bool) error {
	regPtr := func(isAddr bool, n uint8) *uint32 {
		if isAddr {
			return &cpu.A[n]
		}

		return &cpu.D[n]
	}

	xp, yp := regPtr(xIsAddr, rx), regPtr(yIsAddr, ry)
	*xp, *yp = *yp, *xp

	return nil
}

func (cpu *CPU) execMultiply(dn uint8, mode, reg uint8, signed bool) error {
	ea, err := cpu.resolveAddress(mode, reg, Word)
	if err != nil {
		return err
	}

	val, err := cpu.Read(ea, Word)
	if err != nil {
		return err
	}

	var result uint32
	if signed {
		result = uint32(int32(int16(cpu.D[dn])) * int32(int16(val)))
	} else {
		result = (cpu.D[dn] & 0xFFFF) * (val & 0xFFFF)
	}

	cpu.D[dn] = result
	cpu.SetCCRLogic(result, Long)

	return nil
}

func (cpu *CPU) execABCD(opcode uint16) error {
	rx := uint8((opcode >> 9) & 7)
	ry := uint8(opcode & 7)
	usesMemory := opcode&0x8 != 0

	var x, y uint32
	var xEA ResolvedAddress
	var err error

	if usesMemory {
		var yEA ResolvedAddress

		xEA, err = cpu.resolveAddress(4, rx, Byte)
		if err != nil {
			return err
		}

		yEA, err = cpu.resolveAddress(4, ry, Byte)
		if err != nil {
			return err
		}

		if x, err = cpu.Read(xEA, Byte); err != nil {
			return err
		}

		if y, err = cpu.Read(yEA, Byte); err != nil {
			return err
		}
	} else {
		x = cpu.D[rx] & 0xFF
		y = cpu.D[ry] & 0xFF
	}

	result, carry := bcdAdd(x, y, cpu.CCR()&CCRExtend != 0)
	cpu.SetCCR(boolInt(carry), -1, boolInt(result == 0 && cpu.CCR()&CCRZero != 0), -1, boolInt(carry))

	if usesMemory {
		return cpu.Write(xEA, Byte, result)
	}

	cpu.D[rx] = (cpu.D[rx] &^ 0xFF) | result

	return nil
}

// bcdAdd adds two packed-BCD bytes plus a carry-in, returning the
// packed-BCD sum and a carry-out.
func bcdAdd(x, y uint32, extend bool) (uint32, bool) {
	carryIn := uint32(0)
	if extend {
		carryIn = 1
	}

	lowX, hiX := x&0xF, (x>>4)&0xF
	lowY, hiY := y&0xF, (y>>4)&0xF

	low := lowX + lowY + carryIn

	var lowCarry uint32
	if low > 9 {
		low -= 10
		lowCarry = 1
	}

	hi := hiX + hiY + lowCarry

	var hiCarry uint32
	if hi > 9 {
		hi -= 10
		hiCarry = 1
	}

	return (hi<<4 | low) & 0xFF, hiCarry != 0
}
