package cpu

// ops_7.go covers opcode group 7: MOVEQ, the single-word "load a small
// sign-extended constant into a data register" instruction.
func (cpu *CPU) execGroup7(opcode uint16) error {
	if opcode&0x0100 != 0 {
		return illegal("MOVEQ")
	}

	reg := uint8((opcode >> 9) & 7)
	data := uint32(int32(int8(opcode & 0xFF)))

	cpu.D[reg] = data
	cpu.SetCCRLogic(data, Long)

	return nil
}
