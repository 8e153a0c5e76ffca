package disasm

import (
	"fmt"

	"github.com/retro68/corevm/internal/cpu"
)

// branchTarget is one entry in the branch-target map collected while
// decoding: an address a PC-relative or absolute operand pointed at,
// and whether the instruction that produced it was a call (JSR/BSR).
type branchTarget struct {
	Addr   uint32
	IsCall bool
}

var conditionNames = [16]string{
	"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
	"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le",
}

// decodeOne decodes a single instruction starting at r's current
// position, whose first word sits at address pc. It returns the
// rendered mnemonic, operand string, and any branch target the
// instruction produces. ok is false when the stream runs out
// mid-instruction (an ".incomplete" line) or when an operand uses an
// undefined mode-7 register field.
func decodeOne(r *reader, pc uint32) (mnemonic, operands string, target *branchTarget, ok bool) {
	opcode, fetched := r.fetchWord()
	if !fetched {
		return ".incomplete", "", nil, false
	}

	group := opcode >> 12

	switch group {
	case 0:
		return decodeGroup0(opcode, r)
	case 1, 2, 3:
		return decodeMove(opcode, r, pc, group)
	case 4:
		return decodeGroup4(opcode, r, pc)
	case 5:
		return decodeGroup5(opcode, r, pc)
	case 6:
		return decodeGroup6(opcode, r, pc)
	case 7:
		return decodeMoveq(opcode)
	case 8:
		return decodeGroup8C(opcode, r, "or", "divu", "divs", "sbcd")
	case 9:
		return decodeGroup9D(opcode, r, "sub")
	case 0xA:
		return "dc.w", fmt.Sprintf("0x%04X // line-a trap", opcode), nil, true
	case 0xB:
		return decodeGroupB(opcode, r)
	case 0xC:
		return decodeGroup8C(opcode, r, "and", "mulu", "muls", "abcd")
	case 0xD:
		return decodeGroup9D(opcode, r, "add")
	case 0xE:
		return decodeGroupE(opcode, r)
	case 0xF:
		return "dc.w", fmt.Sprintf("0x%04X // line-f trap", opcode), nil, true
	}

	return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
}

func decodeGroup0(opcode uint16, r *reader) (string, string, *branchTarget, bool) {
	if opcode&0x0100 != 0 && opcode&0xF000 == 0 {
		ops := [4]string{"btst", "bchg", "bclr", "bset"}
		sub := (opcode >> 6) & 3
		dn := (opcode >> 9) & 7
		mode := uint8((opcode >> 3) & 7)
		reg := uint8(opcode & 7)

		ea, _, ok := decodeEA(mode, reg, cpu.Byte, r, 0)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return ops[sub], fmt.Sprintf("d%d,%s", dn, ea), nil, true
	}

	opNames := [8]string{"ori", "andi", "subi", "addi", "", "eori", "cmpi", ""}
	opSel := (opcode >> 9) & 7
	sizeBits := (opcode >> 6) & 3

	sz, szOK := cpu.Byte, true

	switch sizeBits {
	case 0:
		sz = cpu.Byte
	case 1:
		sz = cpu.Word
	case 2:
		sz = cpu.Long
	default:
		szOK = false
	}

	if !szOK || opNames[opSel] == "" {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	imm, ok := fetchImmediateText(r, sz)
	if !ok {
		return ".incomplete", "", nil, false
	}

	mode := uint8((opcode >> 3) & 7)
	reg := uint8(opcode & 7)

	ea, _, ok := decodeEA(mode, reg, sz, r, 0)
	if !ok {
		return ".incomplete", "", nil, false
	}

	return opNames[opSel] + sizeSuffix(sz), fmt.Sprintf("#%s,%s", imm, ea), nil, true
}

func fetchImmediateText(r *reader, sz cpu.Size) (string, bool) {
	switch sz {
	case cpu.Long:
		l, ok := r.fetchLong()
		return immGloss(l, sz), ok
	default:
		w, ok := r.fetchWord()
		return immGloss(uint32(w), sz), ok
	}
}

func decodeMove(opcode uint16, r *reader, pc uint32, group uint16) (string, string, *branchTarget, bool) {
	sz, ok := cpu.Size(0), false

	switch group {
	case 1:
		sz, ok = cpu.Byte, true
	case 2:
		sz, ok = cpu.Long, true
	case 3:
		sz, ok = cpu.Word, true
	}

	if !ok {
		return "dc.w", fmt.Sprintf("0x%04X", opcode), nil, true
	}

	destReg := (opcode >> 9) & 7
	destMode := uint8((opcode >> 6) & 7)
	srcMode := uint8((opcode >> 3) & 7)
	srcReg := uint8(opcode & 7)

	src, target, ok := decodeEA(srcMode, srcReg, sz, r, pc)
	if !ok {
		return ".incomplete", "", nil, false
	}

	if destMode == 1 {
		dst, _, ok := decodeEA(destMode, uint8(destReg), sz, r, pc)
		if !ok {
			return ".incomplete", "", nil, false
		}

		return "movea" + sizeSuffix(sz), src + "," + dst, target, true
	}

	dst, _, ok := decodeEA(destMode, uint8(destReg), sz, r, pc)
	if !ok {
		return ".incomplete", "", nil, false
	}

	return "move" + sizeSuffix(sz), src + "," + dst, target, true
}

func decodeMoveq(opcode uint16) (string, string, *branchTarget, bool) {
	reg := (opcode >> 9) & 7
	imm := int8(opcode & 0xFF)

	return "moveq", fmt.Sprintf("#%d,d%d", imm, reg), nil, true
}
