package cpu

// ops_0123.go covers opcode groups 0, 1, 2 and 3: the immediate/bit
// group (group 0) and the three MOVE size variants (groups 1-3),
// grounded on exec_0123 in the reference interpreter.

// execGroup0123 dispatches on the top two bits of the size field: zero
// means the immediate/static-bit group, anything else is a MOVE of that
// size.
func (cpu *CPU) execGroup0123(opcode uint16) error {
	sizeBits := (opcode >> 12) & 3

	if sizeBits != 0 {
		return cpu.execMove(opcode, sizeBits)
	}

	return cpu.execImmediateOrBit(opcode)
}

func (cpu *CPU) execMove(opcode uint16, sizeBits uint16) error {
	sz, ok := decodeMoveSize(sizeBits)
	if !ok {
		return illegal("MOVE")
	}

	destReg := uint8((opcode >> 9) & 7)
	destMode := uint8((opcode >> 6) & 7)
	srcMode := uint8((opcode >> 3) & 7)
	srcReg := uint8(opcode & 7)

	srcEA, err := cpu.resolveAddress(srcMode, srcReg, sz)
	if err != nil {
		return err
	}

	val, err := cpu.Read(srcEA, sz)
	if err != nil {
		return err
	}

	if destMode == 1 { // MOVEA: no CCR update, sign-extended into An
		cpu.A[destReg] = uint32(signExtend(val, sz))
		return nil
	}

	destEA, err := cpu.resolveAddress(destMode, destReg, sz)
	if err != nil {
		return err
	}

	if err := cpu.Write(destEA, sz, val); err != nil {
		return err
	}

	cpu.SetCCRLogic(val, sz)

	return nil
}

// fetchImmediate reads an immediate operand of size sz from the
// instruction stream, following the same word-alignment rule as a byte
// immediate effective address: a byte value is carried in the low byte
// of a full extension word.
func (cpu *CPU) fetchImmediate(sz Size) (uint32, error) {
	switch sz {
	case Byte:
		w, err := cpu.fetchWord()
		return uint32(w & 0xFF), err
	case Word:
		w, err := cpu.fetchWord()
		return uint32(w), err
	default:
		return cpu.fetchLong()
	}
}

// execImmediateOrBit handles ORI/ANDI/SUBI/ADDI/EORI/CMPI and the
// dynamic (register-numbered) bit instructions BTST/BCHG/BCLR/BSET.
// Bit 8 set selects the dynamic bit-number form; otherwise bits 11-9
// select the immediate operator and bits 7-6 the operand size.
func (cpu *CPU) execImmediateOrBit(opcode uint16) error {
	if opcode&0x0100 != 0 {
		dn := uint8((opcode >> 9) & 7)
		sub := (opcode >> 6) & 3
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		return cpu.execBitOp(sub, cpu.D[dn], mode, reg)
	}

	opSel := (opcode >> 9) & 7
	sizeBits := (opcode >> 6) & 3

	sz, ok := sizeFromOpSize(sizeBits)
	if !ok {
		return illegal("group0-immediate")
	}

	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	imm, err := cpu.fetchImmediate(sz)
	if err != nil {
		return err
	}

	ea, err := cpu.resolveAddress(mode, reg, sz)
	if err != nil {
		return err
	}

	val, err := cpu.Read(ea, sz)
	if err != nil {
		return err
	}

	var result uint32

	switch opSel {
	case 0: // ORI
		result = truncate(val|imm, sz)
		cpu.SetCCRLogic(result, sz)
	case 1: // ANDI
		result = truncate(val&imm, sz)
		cpu.SetCCRLogic(result, sz)
	case 2: // SUBI
		result = cpu.SetCCRIntegerSubtract(val, imm, sz)
	case 3: // ADDI
		result = cpu.SetCCRIntegerAdd(val, imm, sz)
	case 5: // EORI
		result = truncate(val^imm, sz)
		cpu.SetCCRLogic(result, sz)
	case 6: // CMPI: flags only, no write-back
		cpu.SetCCRIntegerSubtract(val, imm, sz)
		return nil
	default:
		return unimpl("group0-immediate")
	}

	return cpu.Write(ea, sz, result)
}

// execBitOp implements BTST(0)/BCHG(1)/BCLR(2)/BSET(3). Register-direct
// operands test/modify a bit in the full 32-bit register; memory
// operands always act on a single byte.
func (cpu *CPU) execBitOp(sub uint16, bitSource uint32, mode, reg uint8) error {
	sz := Byte
	if mode == 0 {
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

	bit := bitSource % uint32(sz.Bits())
	mask := uint32(1) << bit

	cpu.SetCCR(-1, -1, boolInt(val&mask == 0), -1, -1)

	if sub == 0 {
		return nil
	}

	switch sub {
	case 1:
		val ^= mask
	case 2:
		val &^= mask
	case 3:
		val |= mask
	}

	return cpu.Write(ea, sz, val)
}
