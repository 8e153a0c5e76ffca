package cpu

// Size is an operand width: byte, word or long.
type Size uint8

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

// Mask returns the bitmask covering this size's bits within a uint32.
func (s Size) Mask() uint32 {
	switch s {
	case Byte:
		return 0xFF
	case Word:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// Bits returns the bit width of this size.
func (s Size) Bits() uint {
	switch s {
	case Byte:
		return 8
	case Word:
		return 16
	default:
		return 32
	}
}

func (s Size) String() string {
	switch s {
	case Byte:
		return "b"
	case Word:
		return "w"
	case Long:
		return "l"
	default:
		return "?"
	}
}

// sizeFromOpSize decodes the two-bit "size" encoding used by group 0-3
// instructions: 00=byte, 01=word, 10=long. ok is false if the bits
// encode something else, which happens for MOVE (decoded separately by
// decodeMoveSize) and for instructions with no size field.
func sizeFromOpSize(bits uint16) (sz Size, ok bool) {
	switch bits {
	case 0:
		return Byte, true
	case 1:
		return Word, true
	case 2:
		return Long, true
	default:
		return 0, false
	}
}

// decodeMoveSize decodes MOVE's size encoding: 01=byte, 11=word, 10=long.
func decodeMoveSize(bits uint16) (sz Size, ok bool) {
	switch bits {
	case 1:
		return Byte, true
	case 3:
		return Word, true
	case 2:
		return Long, true
	default:
		return 0, false
	}
}

// signExtend sign-extends the low s.Bits() bits of v to a full int32,
// the same helper the original keeps as M68KEmulator::sign_extend.
func signExtend(v uint32, s Size) int32 {
	switch s {
	case Byte:
		return int32(int8(v))
	case Word:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

// isNegative reports whether v, interpreted at size s, has its sign bit
// set.
func isNegative(v uint32, s Size) bool {
	return v&(uint32(1)<<(s.Bits()-1)) != 0
}

// truncate masks v down to size s.
func truncate(v uint32, s Size) uint32 {
	return v & s.Mask()
}
