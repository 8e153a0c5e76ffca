package disasm

import (
	"fmt"
	"strings"

	"github.com/retro68/corevm/internal/cpu"
)

// NameTable resolves low-memory global addresses to names, the
// equivalent of the original's global variable name table for
// addresses below 0x00010000.
type NameTable map[uint32]string

// immGloss renders an immediate value as hex, with a trailing ASCII
// comment when every byte looks printable, following §4.3.3.
func immGloss(v uint32, sz cpu.Size) string {
	hex := fmt.Sprintf("0x%0*X", sz.Bits()/4, v&sz.Mask())

	gloss := asciiGloss(v, sz)
	if gloss == "" {
		return hex
	}

	return hex + " // " + gloss
}

func asciiGloss(v uint32, sz cpu.Size) string {
	var bs []byte

	switch sz {
	case cpu.Byte:
		bs = []byte{byte(v)}
	case cpu.Word:
		bs = []byte{byte(v >> 8), byte(v)}
	default:
		bs = []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	}

	for _, b := range bs {
		if !isPrintableOrSpace(b) {
			return ""
		}
	}

	return fmt.Sprintf("%q", string(bs))
}

func isPrintableOrSpace(b byte) bool {
	return (b >= 0x20 && b < 0x7F) || b == '\t' || b == '\n' || b == '\r'
}

// lowMemGloss annotates a low-memory global address from names, if one
// is supplied and covers the address.
func lowMemGloss(addr uint32, names NameTable) string {
	if addr >= 0x00010000 || names == nil {
		return ""
	}

	if name, ok := names[addr]; ok {
		return " // " + name
	}

	return ""
}

// registerMask formats a MOVEM register list, grounded on
// dasm_reg_mask in the reference disassembler: the list reads
// left-to-right for most modes, but predecrement mode stores the bits
// in reversed order, so the printed order must reverse to match.
func registerMask(mask uint16, predecrement bool) string {
	var groups []string

	names := func(i int) string {
		if i < 8 {
			return fmt.Sprintf("d%d", i)
		}

		return fmt.Sprintf("a%d", i-8)
	}

	bit := func(i int) bool {
		if predecrement {
			return mask&(1<<(15-i)) != 0
		}

		return mask&(1<<i) != 0
	}

	for i := 0; i < 16; {
		if !bit(i) {
			i++
			continue
		}

		start := i
		for i < 16 && bit(i) {
			i++
		}

		end := i - 1
		if end == start {
			groups = append(groups, names(start))
		} else {
			groups = append(groups, names(start)+"-"+names(end))
		}
	}

	return strings.Join(groups, "/")
}
