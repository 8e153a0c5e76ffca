package cpu

// ops_4.go covers opcode group 4: the "miscellaneous" group — unary
// arithmetic/logic (NEGX/CLR/NEG/NOT/TST), control transfer (JMP/JSR/
// LEA/PEA/CHK), register shuffling (SWAP/EXT/LINK/UNLK), block register
// transfer (MOVEM), and the no-operand control instructions (RTS/RTE/
// RTR/NOP/RESET/STOP/TRAP/ILLEGAL). Grounded on exec_4 and the m68k
// reference CPUs' opcode tables in the example pack.

func (cpu *CPU) execGroup4(opcode uint16) error {
	switch opcode {
	case 0x4E70: // RESET
		cpu.Halt()
		return nil
	case 0x4E71: // NOP
		return nil
	case 0x4E72: // STOP #imm
		imm, err := cpu.fetchWord()
		if err != nil {
			return err
		}

		cpu.SetSR(imm)
		cpu.Halt()

		return nil
	case 0x4E73: // RTE
		return unimpl("RTE") // supervisor-mode return; out of scope
	case 0x4E75: // RTS
		pc, err := cpu.pop(Long)
		if err != nil {
			return err
		}

		cpu.PC = pc

		return nil
	case 0x4E76: // TRAPV
		if cpu.CCR()&CCROverflow != 0 {
			return trap("TRAPV")
		}

		return nil
	case 0x4E77: // RTR
		return cpu.execRTR()
	case 0x4AFC: // ILLEGAL
		return illegal("ILLEGAL")
	}

	if opcode&0xFFF0 == 0x4E40 { // TRAP #n
		return trap("TRAP")
	}

	if opcode&0xFFF8 == 0x4E50 { // LINK An,#d16
		return cpu.execLink(uint8(opcode & 7))
	}

	if opcode&0xFFF8 == 0x4E58 { // UNLK An
		return cpu.execUnlk(uint8(opcode & 7))
	}

	if opcode&0xF1C0 == 0x41C0 { // LEA ea,An
		return cpu.execLEA(opcode)
	}

	if opcode&0xF1C0 == 0x4180 { // CHK ea,Dn
		return cpu.execCHK(opcode)
	}

	if opcode&0xFFC0 == 0x4E80 { // JSR ea
		return cpu.execJSR(opcode)
	}

	if opcode&0xFFC0 == 0x4EC0 { // JMP ea
		return cpu.execJMP(opcode)
	}

	if opcode&0xFFC0 == 0x4840 { // PEA ea / SWAP Dn
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		if mode == 0 {
			return cpu.execSwap(reg)
		}

		return cpu.execPEA(mode, reg)
	}

	if opcode&0xFFF8 == 0x4880 { // EXT.W Dn
		return cpu.execExt(uint8(opcode&7), Word)
	}

	if opcode&0xFFF8 == 0x48C0 { // EXT.L Dn
		return cpu.execExt(uint8(opcode&7), Long)
	}

	if opcode&0xFB80 == 0x4880 && opcode&0x38 != 0 { // MOVEM reg->mem
		return cpu.execMovem(opcode, true)
	}

	if opcode&0xFB80 == 0x4C80 { // MOVEM mem->reg
		return cpu.execMovem(opcode, false)
	}

	if opcode&0xFFC0 == 0x4AC0 { // TAS ea
		return cpu.execTAS(opcode)
	}

	return cpu.execUnaryGroup4(opcode)
}

// execUnaryGroup4 handles NEGX/CLR/NEG/NOT/TST, which all share the
// shape "op.size ea" keyed by bits 11-8 and sized by bits 7-6.
func (cpu *CPU) execUnaryGroup4(opcode uint16) error {
	op4 := (opcode >> 8) & 0xF
	sizeBits := (opcode >> 6) & 3

	sz, ok := sizeFromOpSize(sizeBits)
	if !ok {
		return illegal("group4-unary")
	}

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

	switch op4 {
	case 0x0: // NEGX: 0 - ea - X; Z is cleared by a nonzero result, else unchanged
		src := truncate(val, sz)
		extend := uint32(0)
		if cpu.CCR()&CCRExtend != 0 {
			extend = 1
		}
		result := truncate(0-src-extend, sz)
		borrow := boolInt(src != 0 || extend != 0)
		zero := -1
		if result != 0 {
			zero = 0
		}
		cpu.SetCCR(borrow, boolInt(isNegative(result, sz)), zero, boolInt(isNegative(src, sz) && isNegative(result, sz)), borrow)
		return cpu.Write(ea, sz, result)
	case 0x2: // CLR
		cpu.SetCCRLogic(0, sz)
		return cpu.Write(ea, sz, 0)
	case 0x4: // NEG
		result := cpu.SetCCRIntegerSubtract(0, val, sz)
		return cpu.Write(ea, sz, result)
	case 0x6: // NOT
		result := truncate(^val, sz)
		cpu.SetCCRLogic(result, sz)
		return cpu.Write(ea, sz, result)
	case 0xA: // TST
		cpu.SetCCRLogic(val, sz)
		return nil
	default:
		return unimpl("group4-unary")
	}
}

func (cpu *CPU) execLEA(opcode uint16) error {
	an := uint8((opcode >> 9) & 7)
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, Long)
	if err != nil {
		return err
	}

	if ea.Kind != KindMemory {
		return illegal("LEA")
	}

	cpu.A[an] = ea.Addr

	return nil
}

func (cpu *CPU) execPEA(mode, reg uint8) error {
	ea, err := cpu.resolveAddress(mode, reg, Long)
	if err != nil {
		return err
	}

	if ea.Kind != KindMemory {
		return illegal("PEA")
	}

	return cpu.push(Long, ea.Addr)
}

func (cpu *CPU) execSwap(reg uint8) error {
	v := cpu.D[reg]
	cpu.D[reg] = (v << 16) | (v >> 16)
	cpu.SetCCRLogic(cpu.D[reg], Long)

	return nil
}

func (cpu *CPU) execExt(reg uint8, sz Size) error {
	switch sz {
	case Word:
		v := uint32(int32(int8(cpu.D[reg])))
		cpu.D[reg] = (cpu.D[reg] &^ 0xFFFF) | (v & 0xFFFF)
	default:
		v := uint32(int32(int16(cpu.D[reg])))
		cpu.D[reg] = v
	}

	cpu.SetCCRLogic(cpu.D[reg], sz)

	return nil
}

func (cpu *CPU) execLink(reg uint8) error {
	disp, err := cpu.fetchWord()
	if err != nil {
		return err
	}

	if err := cpu.push(Long, cpu.A[reg]); err != nil {
		return err
	}

	cpu.A[reg] = cpu.A[7]
	cpu.A[7] = uint32(int32(cpu.A[7]) + int32(int16(disp)))

	return nil
}

func (cpu *CPU) execUnlk(reg uint8) error {
	cpu.A[7] = cpu.A[reg]

	v, err := cpu.pop(Long)
	if err != nil {
		return err
	}

	cpu.A[reg] = v

	return nil
}

func (cpu *CPU) execJSR(opcode uint16) error {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, Long)
	if err != nil {
		return err
	}

	if ea.Kind != KindMemory {
		return illegal("JSR")
	}

	if err := cpu.push(Long, cpu.PC); err != nil {
		return err
	}

	cpu.PC = ea.Addr

	return nil
}

func (cpu *CPU) execJMP(opcode uint16) error {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, Long)
	if err != nil {
		return err
	}

	if ea.Kind != KindMemory {
		return illegal("JMP")
	}

	cpu.PC = ea.Addr

	return nil
}

func (cpu *CPU) execCHK(opcode uint16) error {
	dn := uint8((opcode >> 9) & 7)
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, Word)
	if err != nil {
		return err
	}

	bound, err := cpu.Read(ea, Word)
	if err != nil {
		return err
	}

	v := int16(cpu.D[dn])

	if v < 0 || v > int16(bound) {
		return trap("CHK")
	}

	return nil
}

func (cpu *CPU) execTAS(opcode uint16) error {
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, err := cpu.resolveAddress(mode, reg, Byte)
	if err != nil {
		return err
	}

	val, err := cpu.Read(ea, Byte)
	if err != nil {
		return err
	}

	cpu.SetCCRLogic(val, Byte)

	return cpu.Write(ea, Byte, val|0x80)
}

// execMovem transfers a register mask to or from memory. toMemory
// selects direction; for predecrement mode the mask bit order is
// reversed (bit 15 = D0 rather than A7), matching the original.
func (cpu *CPU) execMovem(opcode uint16, toMemory bool) error {
	mask, err := cpu.fetchWord()
	if err != nil {
		return err
	}

	sz := Word
	if opcode&0x40 != 0 {
		sz = Long
	}

	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	predecrement := mode == 4
	postincrement := mode == 3

	regOrder := func(i int) (isAddr bool, num uint8) {
		if predecrement {
			// Predecrement mode stores registers in reverse order:
			// mask bit 15 is D0, bit 8 is D7, bit 7 is A0, bit 0 is A7.
			if i < 8 {
				return false, uint8(i)
			}

			return true, uint8(i - 8)
		}

		if i < 8 {
			return false, uint8(i)
		}

		return true, uint8(i - 8)
	}

	step := func(addr uint32) uint32 {
		if sz == Long {
			return addr + 4
		}

		return addr + 2
	}

	if predecrement {
		addr := cpu.A[reg]

		for i := 0; i < 16; i++ {
			bit := uint(15 - i)
			if mask&(1<<bit) == 0 {
				continue
			}

			isAddr, num := regOrder(i)

			var val uint32
			if isAddr {
				val = cpu.A[num]
			} else {
				val = cpu.D[num]
			}

			addr -= uint32(sz)

			if err := writeSize(cpu.mem, addr, sz, val); err != nil {
				return err
			}
		}

		cpu.A[reg] = addr

		return nil
	}

	addr, err := cpu.resolveMovemAddr(mode, reg)
	if err != nil {
		return err
	}

	for i := 0; i < 16; i++ {
		bit := uint(i)
		if mask&(1<<bit) == 0 {
			continue
		}

		isAddr, num := regOrder(i)

		if toMemory {
			var val uint32
			if isAddr {
				val = cpu.A[num]
			} else {
				val = cpu.D[num]
			}

			if err := writeSize(cpu.mem, addr, sz, val); err != nil {
				return err
			}
		} else {
			val, err := readSize(cpu.mem, addr, sz)
			if err != nil {
				return err
			}

			v := uint32(signExtend(val, sz))

			if isAddr {
				cpu.A[num] = v
			} else {
				cpu.D[num] = v
			}
		}

		addr = step(addr)
	}

	if postincrement {
		cpu.A[reg] = addr
	}

	return nil
}

func (cpu *CPU) resolveMovemAddr(mode, reg uint8) (uint32, error) {
	ea, err := cpu.resolveAddress(mode, reg, Long)
	if err != nil {
		return 0, err
	}

	if ea.Kind != KindMemory {
		return 0, illegal("MOVEM")
	}

	return ea.Addr, nil
}

func (cpu *CPU) execRTR() error {
	ccr, err := cpu.pop(Word)
	if err != nil {
		return err
	}

	pc, err := cpu.pop(Long)
	if err != nil {
		return err
	}

	cpu.SR = (cpu.SR &^ 0xFF) | (uint16(ccr) & 0xFF)
	cpu.PC = pc

	return nil
}
