package cpu

// ops_8.go covers opcode group 8: OR, DIVU, DIVS and SBCD. OR shares its
// opmode encoding with AND/group C; DIVU/DIVS steal the two opmode slots
// AND/OR never use for a word-ea/long-Dn divide.
func (cpu *CPU) execGroup8(opcode uint16) error {
	if opcode&0x1F0 == 0x100 { // SBCD Dy,Dx or -(Ay),-(Ax)
		return cpu.execSBCD(opcode)
	}

	dn := uint8((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	switch opmode {
	case 3: // DIVU ea,Dn
		return cpu.execDivide(dn, mode, reg, false)
	case 7: // DIVS ea,Dn
		return cpu.execDivide(dn, mode, reg, true)
	}

	sz, ok := sizeFromOpSize(opmode & 3)
	if !ok {
		return illegal("OR")
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
		result := truncate(eaVal|cpu.D[dn], sz)
		cpu.SetCCRLogic(result, sz)

		return cpu.Write(ea, sz, result)
	}

	result := truncate(eaVal|cpu.D[dn], sz)
	cpu.SetCCRLogic(result, sz)
	cpu.D[dn] = (cpu.D[dn] &^ sz.Mask()) | (result & sz.Mask())

	return nil
}

// execDivide implements DIVU/DIVS: a 32-bit dividend in Dn divided by a
// 16-bit ea, leaving a 16-bit quotient in the low word and remainder in
// the high word of Dn.
func (cpu *CPU) execDivide(dn uint8, mode, reg uint8, signed bool) error {
	ea, err := cpu.resolveAddress(mode, reg, Word)
	if err != nil {
		return err
	}

	divisorW, err := cpu.Read(ea, Word)
	if err != nil {
		return err
	}

	if divisorW == 0 {
		op := "DIVU"
		if signed {
			op = "DIVS"
		}

		return divZero(op)
	}

	dividend := cpu.D[dn]

	if signed {
		d := int32(dividend)
		v := int32(int16(divisorW))
		q := d / v
		r := d % v

		if q > 32767 || q < -32768 {
			cpu.SetCCR(-1, -1, -1, 1, 0)
			return nil
		}

		cpu.D[dn] = (uint32(uint16(r)) << 16) | uint32(uint16(q))
		cpu.SetCCR(0, boolInt(q < 0), boolInt(q == 0), 0, 0)

		return nil
	}

	v := uint32(divisorW)
	q := dividend / v
	r := dividend % v

	if q > 0xFFFF {
		cpu.SetCCR(-1, -1, -1, 1, 0)
		return nil
	}

	cpu.D[dn] = (r << 16) | (q & 0xFFFF)
	cpu.SetCCR(0, boolInt(q&0x8000 != 0), boolInt(q == 0), 0, 0)

	return nil
}

// execSBCD subtracts two BCD bytes plus the extend bit, the same
// register-or-predecrement operand shape as ABCD in group C.
func (cpu *CPU) execSBCD(opcode uint16) error {
	rx := uint8((opcode >> 9) & 7)
	ry := uint8(opcode & 7)
	usesMemory := opcode&0x8 != 0

	var x, y uint32
	var err error

	if usesMemory {
		xEA, err := cpu.resolveAddress(4, rx, Byte)
		if err != nil {
			return err
		}

		yEA, err2 := cpu.resolveAddress(4, ry, Byte)
		if err2 != nil {
			return err2
		}

		if x, err = cpu.Read(xEA, Byte); err != nil {
			return err
		}

		if y, err = cpu.Read(yEA, Byte); err != nil {
			return err
		}

		result, borrow := bcdSubtract(x, y, cpu.CCR()&CCRExtend != 0)
		cpu.SetCCR(boolInt(borrow), -1, boolInt(result == 0 && cpu.CCR()&CCRZero != 0), -1, boolInt(borrow))

		return cpu.Write(xEA, Byte, result)
	}

	x = cpu.D[rx] & 0xFF
	y = cpu.D[ry] & 0xFF

	result, borrow := bcdSubtract(x, y, cpu.CCR()&CCRExtend != 0)
	cpu.SetCCR(boolInt(borrow), -1, boolInt(result == 0 && cpu.CCR()&CCRZero != 0), -1, boolInt(borrow))
	cpu.D[rx] = (cpu.D[rx] &^ 0xFF) | result

	return err
}

// bcdSubtract subtracts two packed-BCD bytes (minuend x, subtrahend y)
// plus a borrow-in, returning the packed-BCD result and a borrow-out.
func bcdSubtract(x, y uint32, extend bool) (uint32, bool) {
	borrowIn := uint32(0)
	if extend {
		borrowIn = 1
	}

	lowX, hiX := x&0xF, (x>>4)&0xF
	lowY, hiY := y&0xF, (y>>4)&0xF

	low := int32(lowX) - int32(lowY) - int32(borrowIn)

	var lowBorrow uint32
	if low < 0 {
		low += 10
		lowBorrow = 1
	}

	hi := int32(hiX) - int32(hiY) - int32(lowBorrow)

	var hiBorrow uint32
	if hi < 0 {
		hi += 10
		hiBorrow = 1
	}

	return (uint32(hi)<<4 | uint32(low)) & 0xFF, hiBorrow != 0
}
