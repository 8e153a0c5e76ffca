package cpu

// resolveAddress decodes an effective-address mode/register pair into a
// ResolvedAddress, fetching any extension words it needs from the
// instruction stream. It is grounded on the chip/m68k resolveEA
// function but returns the original's tagged ResolvedAddress instead of
// mutating CPU state through an ea value.
//
// Only the brief extension word format is supported for indexed modes
// (mode 6 and mode 7/reg 3); full extension words (scale factors,
// memory indirection) are a 68020+ feature this interpreter does not
// implement, per spec.
func (cpu *CPU) resolveAddress(mode, reg uint8, sz Size) (ResolvedAddress, error) {
	switch mode {
	case 0:
		return ResolvedAddress{Kind: KindDataReg, Reg: reg}, nil

	case 1:
		return ResolvedAddress{Kind: KindAddrReg, Reg: reg}, nil

	case 2:
		return ResolvedAddress{Kind: KindMemory, Addr: cpu.A[reg]}, nil

	case 3: // (An)+
		addr := cpu.A[reg]
		inc := uint32(sz)

		if reg == 7 && sz == Byte {
			inc = 2
		}

		cpu.A[reg] += inc

		return ResolvedAddress{Kind: KindMemory, Addr: addr}, nil

	case 4: // -(An)
		dec := uint32(sz)

		if reg == 7 && sz == Byte {
			dec = 2
		}

		cpu.A[reg] -= dec

		return ResolvedAddress{Kind: KindMemory, Addr: cpu.A[reg]}, nil

	case 5: // d16(An)
		disp, err := cpu.fetchWord()
		if err != nil {
			return ResolvedAddress{}, err
		}

		addr := uint32(int32(cpu.A[reg]) + int32(int16(disp)))

		return ResolvedAddress{Kind: KindMemory, Addr: addr}, nil

	case 6: // d8(An,Xn)
		ext, err := cpu.fetchWord()
		if err != nil {
			return ResolvedAddress{}, err
		}

		return ResolvedAddress{Kind: KindMemory, Addr: cpu.indexedAddress(cpu.A[reg], ext)}, nil

	case 7:
		switch reg {
		case 0: // abs.W
			w, err := cpu.fetchWord()
			if err != nil {
				return ResolvedAddress{}, err
			}

			return ResolvedAddress{Kind: KindMemory, Addr: uint32(int32(int16(w)))}, nil

		case 1: // abs.L
			l, err := cpu.fetchLong()
			if err != nil {
				return ResolvedAddress{}, err
			}

			return ResolvedAddress{Kind: KindMemory, Addr: l}, nil

		case 2: // d16(PC)
			base := cpu.PC

			disp, err := cpu.fetchWord()
			if err != nil {
				return ResolvedAddress{}, err
			}

			return ResolvedAddress{Kind: KindMemory, Addr: uint32(int32(base) + int32(int16(disp)))}, nil

		case 3: // d8(PC,Xn)
			base := cpu.PC

			ext, err := cpu.fetchWord()
			if err != nil {
				return ResolvedAddress{}, err
			}

			return ResolvedAddress{Kind: KindMemory, Addr: cpu.indexedAddress(base, ext)}, nil

		case 4: // #imm
			switch sz {
			case Byte:
				// A byte immediate still occupies a full extension
				// word; the value sits in the low byte.
				addr := cpu.PC + 1

				_, err := cpu.fetchWord()

				return ResolvedAddress{Kind: KindMemory, Addr: addr}, err

			case Word:
				addr := cpu.PC

				_, err := cpu.fetchWord()

				return ResolvedAddress{Kind: KindMemory, Addr: addr}, err

			default:
				addr := cpu.PC

				_, err := cpu.fetchLong()

				return ResolvedAddress{Kind: KindMemory, Addr: addr}, err
			}
		}
	}

	return ResolvedAddress{}, illegal("resolveAddress")
}

// indexedAddress computes base + Xn (optionally sign-extended) + d8
// from a brief extension word. Extension word layout:
//
//	bit 15    : 0 = Dn index, 1 = An index
//	bits 14-12: index register number
//	bit 11    : 0 = sign-extend word index, 1 = full long index
//	bits 7-0  : 8-bit displacement
func (cpu *CPU) indexedAddress(base uint32, ext uint16) uint32 {
	disp := int8(ext & 0xFF)
	xn := (ext >> 12) & 7

	var idx int32
	if ext&0x8000 != 0 {
		idx = int32(cpu.A[xn])
	} else {
		idx = int32(cpu.D[xn])
	}

	if ext&0x0800 == 0 {
		idx = int32(int16(idx))
	}

	return uint32(int32(base) + idx + int32(disp))
}
