package cpu

import "fmt"

// CCR bits, matching the original's set_ccr_flags argument order and the
// wire encoding of the low byte of SR.
const (
	CCRCarry    uint8 = 0x01
	CCROverflow uint8 = 0x02
	CCRZero     uint8 = 0x04
	CCRNegative uint8 = 0x08
	CCRExtend   uint8 = 0x10
)

// SR bits above the CCR byte.
const (
	SRSupervisor uint16 = 0x2000
	SRTrace      uint16 = 0x8000
	SRIntMask    uint16 = 0x0700
)

// Registers holds the visible register file: eight data registers,
// eight address registers (A7 is the active stack pointer), the program
// counter, and the status register (system byte + CCR).
type Registers struct {
	D [8]uint32
	A [8]uint32

	PC uint32
	SR uint16

	USP uint32 // shadow user stack pointer, swapped with A[7] on privilege change
	SSP uint32 // shadow supervisor stack pointer
}

func (r *Registers) String() string {
	return fmt.Sprintf(
		"PC=%08X SR=%04X D0=%08X D1=%08X D2=%08X D3=%08X D4=%08X D5=%08X D6=%08X D7=%08X "+
			"A0=%08X A1=%08X A2=%08X A3=%08X A4=%08X A5=%08X A6=%08X A7=%08X %s",
		r.PC, r.SR, r.D[0], r.D[1], r.D[2], r.D[3], r.D[4], r.D[5], r.D[6], r.D[7],
		r.A[0], r.A[1], r.A[2], r.A[3], r.A[4], r.A[5], r.A[6], r.A[7], r.CCRString())
}

// CCR returns the condition code byte (the low byte of SR, of which the
// low 5 bits hold X/N/Z/V/C).
func (r *Registers) CCR() uint8 { return uint8(r.SR) }

// CCRString renders the CCR as the conventional "xnzvc" letters, upper
// case when set.
func (r *Registers) CCRString() string {
	bit := func(set bool, c byte) byte {
		if set {
			return c - 32
		}

		return c
	}

	ccr := r.CCR()

	return string([]byte{
		bit(ccr&CCRExtend != 0, 'x'),
		bit(ccr&CCRNegative != 0, 'n'),
		bit(ccr&CCRZero != 0, 'z'),
		bit(ccr&CCROverflow != 0, 'v'),
		bit(ccr&CCRCarry != 0, 'c'),
	})
}

// Supervisor reports whether the processor is in supervisor mode.
func (r *Registers) Supervisor() bool { return r.SR&SRSupervisor != 0 }

// SetSR replaces the status register, swapping A[7] with the shadow
// stack pointer if supervisor mode changes, mirroring setSR in the
// reference Go CPU implementations this is grounded on.
func (r *Registers) SetSR(sr uint16) {
	wasSupervisor := r.Supervisor()
	r.SR = sr
	isSupervisor := r.Supervisor()

	if wasSupervisor == isSupervisor {
		return
	}

	if isSupervisor {
		r.USP = r.A[7]
		r.A[7] = r.SSP
	} else {
		r.SSP = r.A[7]
		r.A[7] = r.USP
	}
}

// SetCCR sets each condition flag independently: a negative value
// leaves the flag untouched, zero clears it, and any positive value
// sets it. This mirrors M68KRegisters::set_ccr_flags exactly, including
// its argument order (x, n, z, v, c).
func (r *Registers) SetCCR(x, n, z, v, c int) {
	set := func(mask uint8, val int) {
		switch {
		case val < 0:
			return
		case val == 0:
			r.SR &^= uint16(mask)
		default:
			r.SR |= uint16(mask)
		}
	}

	set(CCRExtend, x)
	set(CCRNegative, n)
	set(CCRZero, z)
	set(CCROverflow, v)
	set(CCRCarry, c)
}

// boolInt renders a bool as SetCCR's tri-state convention (1 or 0); use
// -1 literally to mean "leave".
func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// SetCCRIntegerAdd derives all five CCR flags for dest = a + b at size
// sz, following M68KEmulator::set_ccr_flags_integer_add: operands are
// sign-extended to 32 bits, overflow is detected by comparing operand
// and result signs, and carry is detected via a wider unsigned add.
func (r *Registers) SetCCRIntegerAdd(a, b uint32, sz Size) uint32 {
	sa, sb := signExtend(a, sz), signExtend(b, sz)
	result := uint32(sa + sb)
	trunc := truncate(result, sz)

	an, bn, rn := isNegative(uint32(sa), sz), isNegative(uint32(sb), sz), isNegative(trunc, sz)
	overflow := (an == bn) && (rn != an)

	carry := uint64(truncate(uint32(sa), sz))+uint64(truncate(uint32(sb), sz)) > uint64(sz.Mask())

	zero := trunc == 0

	r.SetCCR(boolInt(carry), boolInt(rn), boolInt(zero), boolInt(overflow), boolInt(carry))

	return trunc
}

// SetCCRIntegerSubtract derives all five CCR flags for dest = a - b at
// size sz, following M68KEmulator::set_ccr_flags_integer_subtract.
func (r *Registers) SetCCRIntegerSubtract(a, b uint32, sz Size) uint32 {
	sa, sb := signExtend(a, sz), signExtend(b, sz)
	result := uint32(sa - sb)
	trunc := truncate(result, sz)

	an, bn, rn := isNegative(uint32(sa), sz), isNegative(uint32(sb), sz), isNegative(trunc, sz)
	overflow := (an != bn) && (rn != an)

	borrow := uint64(truncate(uint32(sa), sz)) < uint64(truncate(uint32(sb), sz))

	zero := trunc == 0

	r.SetCCR(boolInt(borrow), boolInt(rn), boolInt(zero), boolInt(overflow), boolInt(borrow))

	return trunc
}

// SetCCRLogic derives N/Z from a logical result and clears V and C, the
// pattern used by AND/OR/EOR/MOVE/CLR.
func (r *Registers) SetCCRLogic(result uint32, sz Size) {
	r.SetCCR(-1, boolInt(isNegative(result, sz)), boolInt(truncate(result, sz) == 0), 0, 0)
}

// Condition evaluates one of the 16 Bcc/DBcc/Scc test codes against the
// current CCR.
func (r *Registers) Condition(code uint8) bool {
	ccr := r.CCR()
	n := ccr&CCRNegative != 0
	z := ccr&CCRZero != 0
	v := ccr&CCROverflow != 0
	c := ccr&CCRCarry != 0

	switch code {
	case 0x0: // T
		return true
	case 0x1: // F
		return false
	case 0x2: // HI
		return !c && !z
	case 0x3: // LS
		return c || z
	case 0x4: // CC
		return !c
	case 0x5: // CS
		return c
	case 0x6: // NE
		return !z
	case 0x7: // EQ
		return z
	case 0x8: // VC
		return !v
	case 0x9: // VS
		return v
	case 0xA: // PL
		return !n
	case 0xB: // MI
		return n
	case 0xC: // GE
		return n == v
	case 0xD: // LT
		return n != v
	case 0xE: // GT
		return !z && (n == v)
	case 0xF: // LE
		return z || (n != v)
	default:
		return false
	}
}
