package disasm

import (
	"fmt"

	"github.com/retro68/corevm/internal/cpu"
)

func decodeGroup4(opcode uint16, r *reader, pc uint32) (string, string, *branchTarget, bool) {
	switch opcode {
	case 0x4E70:
		return "reset", "", nil, true
	case 0x4E71:
		return "nop", "", nil, true
	case 0x4E73:
		return "rte", "", nil, true
	case 0x4E75:
		return "rts", "", nil, true
	case 0x4E76:
		return "trapv", "", nil, true
	case 0x4E77:
		return "rtr", "", nil, true
	case 0x4AFC:
		return "illegal", "", nil, true
	}

	if opcode&0xFFF0 == 0x4E40 {
		return "trap", fmt.Sprintf("#%d", opcode&0xF), nil, true
	}

	if opcode == 0x4E72 {
		w, ok := r.fetchWord()
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "stop", fmt.Sprintf("#%s", immGloss(uint32(w), cpu.Word)), nil, true
	}

	if opcode&0xFFF8 == 0x4E50 {
		reg := opcode & 7

		disp, ok := r.fetchWord()
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "link", fmt.Sprintf("a%d,#%s", reg, signedHex(int(int16(disp)))), nil, true
	}

	if opcode&0xFFF8 == 0x4E58 {
		return "unlk", fmt.Sprintf("a%d", opcode&7), nil, true
	}

	if opcode&0xF1C0 == 0x41C0 {
		reg := (opcode >> 9) & 7
		mode := uint8((opcode >> 3) & 7)
		eaReg := uint8(opcode & 7)

		ea, target, ok := decodeEA(mode, eaReg, cpu.Long, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "lea", fmt.Sprintf("%s,a%d", ea, reg), target, true
	}

	if opcode&0xF1C0 == 0x4180 {
		reg := (opcode >> 9) & 7
		mode := uint8((opcode >> 3) & 7)
		eaReg := uint8(opcode & 7)

		ea, _, ok := decodeEA(mode, eaReg, cpu.Word, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "chk", fmt.Sprintf("%s,d%d", ea, reg), nil, true
	}

	if opcode&0xFFC0 == 0x4E80 {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		ea, target, ok := decodeEA(mode, reg, cpu.Long, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		if target != nil {
			target.IsCall = true
		}

		return "jsr", ea, target, true
	}

	if opcode&0xFFC0 == 0x4EC0 {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		ea, target, ok := decodeEA(mode, reg, cpu.Long, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "jmp", ea, target, true
	}

	if opcode&0xFFC0 == 0x4840 {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		if mode == 0 {
			return "swap", fmt.Sprintf("d%d", reg), nil, true
		}

		ea, target, ok := decodeEA(mode, reg, cpu.Long, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "pea", ea, target, true
	}

	if opcode&0xFFF8 == 0x4880 {
		return "ext.w", fmt.Sprintf("d%d", opcode&7), nil, true
	}

	if opcode&0xFFF8 == 0x48C0 {
		return "ext.l", fmt.Sprintf("d%d", opcode&7), nil, true
	}

	if opcode&0xFB80 == 0x4880 {
		return decodeMovem(opcode, r, pc, true)
	}

	if opcode&0xFB80 == 0x4C80 {
		return decodeMovem(opcode, r, pc, false)
	}

	if opcode&0xFFC0 == 0x4AC0 {
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		ea, _, ok := decodeEA(mode, reg, cpu.Byte, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "tas", ea, nil, true
	}

	var unaryNames [16]string
	unaryNames[0x0] = "negx"
	unaryNames[0x2] = "clr"
	unaryNames[0x4] = "neg"
	unaryNames[0x6] = "not"
	unaryNames[0xA] = "tst"

	op4 := (opcode >> 8) & 0xF
	sizeBits := (opcode >> 6) & 3

	if op := unaryNames[op4]; op != "" {
		sz, ok := sizeByBits(sizeBits)
		if !ok {
			return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
		}

		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		ea, _, ok := decodeEA(mode, reg, sz, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return op + sizeSuffix(sz), ea, nil, true
	}

	return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
}

func sizeByBits(bits uint16) (cpu.Size, bool) {
	switch bits {
	case 0:
		return cpu.Byte, true
	case 1:
		return cpu.Word, true
	case 2:
		return cpu.Long, true
	default:
		return 0, false
	}
}

func decodeMovem(opcode uint16, r *reader, pc uint32, regToMem bool) (string, string, *branchTarget, bool) {
	mask, ok := r.fetchWord()
	if !ok {
		return ".incomplete", "", nil, false
	}

	sz := cpu.Word
	if opcode&0x40 != 0 {
		sz = cpu.Long
	}

	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, target, ok := decodeEA(mode, reg, sz, r, pc)
	if !ok {
		return ".incomplete", "", nil, false
	}

	list := registerMask(mask, mode == 4)

	mnemonic := "movem" + sizeSuffix(sz)

	if regToMem {
		return mnemonic, fmt.Sprintf("%s,%s", list, ea), target, true
	}

	return mnemonic, fmt.Sprintf("%s,%s", ea, list), target, true
}

func decodeGroup5(opcode uint16, r *reader, pc uint32) (string, string, *branchTarget, bool) {
	sizeBits := (opcode >> 6) & 3

	if sizeBits == 3 {
		cond := (opcode >> 8) & 0xF
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		if mode == 1 {
			disp, ok := r.fetchWord()
			if !ok {
				return ".incomplete", "", nil, false
			}

			target := uint32(int32(pc+2) + int32(int16(disp)))

			return "db" + conditionNames[cond], fmt.Sprintf("d%d,0x%08X", reg, target),
				&branchTarget{Addr: target}, true
		}

		ea, _, ok := decodeEA(mode, reg, cpu.Byte, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "s" + conditionNames[cond], ea, nil, true
	}

	sz, ok := sizeByBits(sizeBits)
	if !ok {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	data := (opcode >> 9) & 7
	if data == 0 {
		data = 8
	}

	mnemonic := "addq"
	if opcode&0x0100 != 0 {
		mnemonic = "subq"
	}

	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, _, ok := decodeEA(mode, reg, sz, r, pc)
	if !ok {
		return ".incomplete", "", nil, false
	}

	return mnemonic + sizeSuffix(sz), fmt.Sprintf("#%d,%s", data, ea), nil, true
}

func decodeGroup6(opcode uint16, r *reader, pc uint32) (string, string, *branchTarget, bool) {
	cond := (opcode >> 8) & 0xF
	disp8 := int8(opcode & 0xFF)

	var disp int32

	switch disp8 {
	case 0:
		w, ok := r.fetchWord()
		if !ok {
			return ".incomplete", "", nil, false
		}

		disp = int32(int16(w))
	case -1:
		return "bra", "0x0 // unimplemented 32-bit displacement", nil, true
	default:
		disp = int32(disp8)
	}

	target := uint32(int32(pc+2) + disp)

	switch cond {
	case 0x0:
		return "bra", fmt.Sprintf("0x%08X", target), &branchTarget{Addr: target}, true
	case 0x1:
		return "bsr", fmt.Sprintf("0x%08X", target), &branchTarget{Addr: target, IsCall: true}, true
	default:
		return "b" + conditionNames[cond], fmt.Sprintf("0x%08X", target), &branchTarget{Addr: target}, true
	}
}

func decodeGroup8C(opcode uint16, r *reader, logicName, mulUName, mulSName, bcdName string) (string, string, *branchTarget, bool) {
	// ABCD/SBCD occupy the exact 0x_1F0==0x_100 slot within both groups.
	if opcode&0x1F0 == 0x100 {
		rx := (opcode >> 9) & 7
		ry := opcode & 7
		mem := opcode&0x8 != 0

		if mem {
			return bcdName, fmt.Sprintf("-(a%d),-(a%d)", ry, rx), nil, true
		}

		return bcdName, fmt.Sprintf("d%d,d%d", ry, rx), nil, true
	}

	if opcode&0xF1F8 == 0xC140 || opcode&0xF1F8 == 0xC148 || opcode&0xF1F8 == 0xC188 {
		rx := (opcode >> 9) & 7
		ry := opcode & 7

		switch opcode & 0xF1F8 {
		case 0xC140:
			return "exg", fmt.Sprintf("d%d,d%d", rx, ry), nil, true
		case 0xC148:
			return "exg", fmt.Sprintf("a%d,a%d", rx, ry), nil, true
		default:
			return "exg", fmt.Sprintf("d%d,a%d", rx, ry), nil, true
		}
	}

	dn := (opcode >> 9) & 7
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	switch opmode {
	case 3:
		ea, _, ok := decodeEA(mode, reg, cpu.Word, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return mulUName, fmt.Sprintf("%s,d%d", ea, dn), nil, true
	case 7:
		ea, _, ok := decodeEA(mode, reg, cpu.Word, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return mulSName, fmt.Sprintf("%s,d%d", ea, dn), nil, true
	}

	sz, ok := sizeByBits(opmode & 3)
	if !ok {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	toMemory := opmode&4 != 0

	ea, _, ok := decodeEA(mode, reg, sz, r, 0)
	if !ok {
		return ".incomplete", "", nil, false
	}

	mnemonic := logicName + sizeSuffix(sz)

	if toMemory {
		return mnemonic, fmt.Sprintf("d%d,%s", dn, ea), nil, true
	}

	return mnemonic, fmt.Sprintf("%s,d%d", ea, dn), nil, true
}

func decodeGroup9D(opcode uint16, r *reader, name string) (string, string, *branchTarget, bool) {
	reg := (opcode >> 9) & 7
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	eaReg := uint8(opcode & 7)

	if opmode == 3 || opmode == 7 {
		sz := cpu.Word
		mnemonic := name + "a.w"

		if opmode == 7 {
			sz = cpu.Long
			mnemonic = name + "a.l"
		}

		ea, _, ok := decodeEA(mode, eaReg, sz, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return mnemonic, fmt.Sprintf("%s,a%d", ea, reg), nil, true
	}

	sz, ok := sizeByBits(opmode & 3)
	if !ok {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	toMemory := opmode&4 != 0

	if toMemory && (mode == 0 || mode == 1) {
		mnemonic := name + "x" + sizeSuffix(sz)

		if mode == 1 {
			return mnemonic, fmt.Sprintf("-(a%d),-(a%d)", eaReg, reg), nil, true
		}

		return mnemonic, fmt.Sprintf("d%d,d%d", eaReg, reg), nil, true
	}

	ea, _, ok := decodeEA(mode, eaReg, sz, r, 0)
	if !ok {
		return ".incomplete", "", nil, false
	}

	mnemonic := name + sizeSuffix(sz)

	if toMemory {
		return mnemonic, fmt.Sprintf("d%d,%s", reg, ea), nil, true
	}

	return mnemonic, fmt.Sprintf("%s,d%d", ea, reg), nil, true
}

func decodeGroupB(opcode uint16, r *reader) (string, string, *branchTarget, bool) {
	dn := (opcode >> 9) & 7
	opmode := (opcode >> 6) & 7
	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	switch opmode {
	case 3, 7:
		sz := cpu.Word
		mnemonic := "cmpa.w"

		if opmode == 7 {
			sz = cpu.Long
			mnemonic = "cmpa.l"
		}

		ea, _, ok := decodeEA(mode, reg, sz, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return mnemonic, fmt.Sprintf("%s,a%d", ea, dn), nil, true
	case 0, 1, 2:
		sz, _ := sizeByBits(opmode & 3)

		ea, _, ok := decodeEA(mode, reg, sz, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "cmp" + sizeSuffix(sz), fmt.Sprintf("%s,d%d", ea, dn), nil, true
	case 4, 5, 6:
		sz, ok := sizeByBits(opmode & 3)
		if !ok {
			return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
		}

		if mode == 1 {
			return "cmpm" + sizeSuffix(sz), fmt.Sprintf("(a%d)+,(a%d)+", reg, dn), nil, true
		}

		ea, _, ok := decodeEA(mode, reg, sz, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "eor" + sizeSuffix(sz), fmt.Sprintf("d%d,%s", dn, ea), nil, true
	}

	return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
}

var shiftNames = [4]string{"as", "ls", "rox", "ro"}

func decodeGroupE(opcode uint16, r *reader) (string, string, *branchTarget, bool) {
	sizeBits := (opcode >> 6) & 3

	if sizeBits == 3 {
		kind := (opcode >> 9) & 3
		left := opcode&0x0100 != 0
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		dir := "r"
		if left {
			dir = "l"
		}

		ea, _, ok := decodeEA(mode, reg, cpu.Word, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return shiftNames[kind] + dir, ea, nil, true
	}

	sz, ok := sizeByBits(sizeBits)
	if !ok {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	left := opcode&0x0100 != 0
	useRegCount := opcode&0x0020 != 0
	kind := (opcode >> 3) & 3
	reg := opcode & 7
	countField := (opcode >> 9) & 7

	dir := "r"
	if left {
		dir = "l"
	}

	mnemonic := shiftNames[kind] + dir + sizeSuffix(sz)

	if useRegCount {
		return mnemonic, fmt.Sprintf("d%d,d%d", countField, reg), nil, true
	}

	count := countField
	if count == 0 {
		count = 8
	}

	return mnemonic, fmt.Sprintf("#%d,d%d", count, reg), nil, true
}
