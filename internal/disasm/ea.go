package disasm

import (
	"fmt"

	"github.com/retro68/corevm/internal/cpu"
)

// decodeEA renders one effective-address operand as text, grounded on
// the Urethramancer example's DecodeEA and on internal/cpu's
// resolveAddress (same mode/register encoding, no execution). pc is
// the address of the first extension word, used for the PC-relative
// modes.
func decodeEA(mode, reg uint8, sz cpu.Size, r *reader, pc uint32) (string, *branchTarget, bool) {
	switch mode {
	case 0:
		return fmt.Sprintf("d%d", reg), nil, true
	case 1:
		return fmt.Sprintf("a%d", reg), nil, true
	case 2:
		return fmt.Sprintf("(a%d)", reg), nil, true
	case 3:
		return fmt.Sprintf("(a%d)+", reg), nil, true
	case 4:
		return fmt.Sprintf("-(a%d)", reg), nil, true
	case 5:
		disp, ok := r.fetchWord()
		if !ok {
			return "", nil, false
		}

		return fmt.Sprintf("%s(a%d)", signedHex(int(int16(disp))), reg), nil, true
	case 6:
		ext, ok := r.fetchWord()
		if !ok {
			return "", nil, false
		}

		return fmt.Sprintf("%s(a%d,%s)", signedHex(int(int8(ext&0xFF))), reg, indexRegName(ext)), nil, true
	case 7:
		switch reg {
		case 0:
			w, ok := r.fetchWord()
			if !ok {
				return "", nil, false
			}

			addr := uint32(int32(int16(w)))

			return fmt.Sprintf("0x%08X.w", addr), &branchTarget{Addr: addr}, true
		case 1:
			l, ok := r.fetchLong()
			if !ok {
				return "", nil, false
			}

			return fmt.Sprintf("0x%08X.l", l), &branchTarget{Addr: l}, true
		case 2:
			disp, ok := r.fetchWord()
			if !ok {
				return "", nil, false
			}

			addr := uint32(int32(pc) + int32(int16(disp)))

			return fmt.Sprintf("%s(pc)", signedHex(int(int16(disp)))), &branchTarget{Addr: addr}, true
		case 3:
			ext, ok := r.fetchWord()
			if !ok {
				return "", nil, false
			}

			return fmt.Sprintf("%s(pc,%s)", signedHex(int(int8(ext&0xFF))), indexRegName(ext)), nil, true
		case 4:
			switch sz {
			case cpu.Byte, cpu.Word:
				w, ok := r.fetchWord()
				if !ok {
					return "", nil, false
				}

				return fmt.Sprintf("#%s", immGloss(uint32(w), sz)), nil, true
			default:
				l, ok := r.fetchLong()
				if !ok {
					return "", nil, false
				}

				return fmt.Sprintf("#%s", immGloss(l, sz)), nil, true
			}
		}
	}

	return "", nil, false
}

func indexRegName(ext uint16) string {
	xn := (ext >> 12) & 7

	kind := "d"
	if ext&0x8000 != 0 {
		kind = "a"
	}

	width := ".w"
	if ext&0x0800 != 0 {
		width = ".l"
	}

	return fmt.Sprintf("%s%d%s", kind, xn, width)
}

func signedHex(v int) string {
	if v < 0 {
		return fmt.Sprintf("-0x%X", -v)
	}

	return fmt.Sprintf("0x%X", v)
}
