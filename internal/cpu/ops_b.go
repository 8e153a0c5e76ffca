package cpu

// ops_b.go covers opcode group 0xB: CMP/CMPA, EOR, and CMPM. CMPM
// reuses the EOR opmode slots exactly when the EA mode is postincrement
// on both sides, the same repurposing trick used throughout this
// instruction set.
func (cpu *CPU) execGroupB(opcode uint16) error {
	dn := uint8((opcode >> 9) & 7)
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	switch opmode {
	case 3, 7: // CMPA.W / CMPA.L
		sz := Word
		if opmode == 7 {
			sz = Long
		}

		ea, err := cpu.resolveAddress(mode, reg, sz)
		if err != nil {
			return err
		}

		val, err := cpu.Read(ea, sz)
		if err != nil {
			return err
		}

		cpu.SetCCRIntegerSubtract(cpu.A[dn], uint32(signExtend(val, sz)), Long)

		return nil
	case 0, 1, 2: // CMP.size ea,Dn
		sz, _ := sizeFromOpSize(opmode & 3)

		ea, err := cpu.resolveAddress(mode, reg, sz)
		if err != nil {
			return err
		}

		val, err := cpu.Read(ea, sz)
		if err != nil {
			return err
		}

		cpu.SetCCRIntegerSubtract(cpu.D[dn], val, sz)

		return nil
	case 4, 5, 6:
		sz, ok := sizeFromOpSize(opmode & 3)
		if !ok {
			return illegal("EOR")
		}

		if mode == 1 { // CMPM (Ay)+,(Ax)+
			return cpu.execCMPM(dn, reg, sz)
		}

		ea, err := cpu.resolveAddress(mode, reg, sz)
		if err != nil {
			return err
		}

		val, err := cpu.Read(ea, sz)
		if err != nil {
			return err
		}

		result := truncate(val^cpu.D[dn], sz)
		cpu.SetCCRLogic(result, sz)

		return cpu.Write(ea, sz, result)
	}

	return unimpl("group-b")
}

func (cpu *CPU) execCMPM(ax, ay uint8, sz Size) error {
	srcEA, err := cpu.resolveAddress(3, ay, sz)
	if err != nil {
		return err
	}

	src, err := cpu.Read(srcEA, sz)
	if err != nil {
		return err
	}

	dstEA, err := cpu.resolveAddress(3, ax, sz)
	if err != nil {
		return err
	}

	dst, err := cpu.Read(dstEA, sz)
	if err != nil {
		return err
	}

	cpu.SetCCRIntegerSubtract(dst, src, sz)

	return nil
}
