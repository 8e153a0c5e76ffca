// elsie is a 68000-family hardware emulator.
package main

import (
	"fmt"

	"github.com/retro68/corevm/internal/cpu"
	"github.com/retro68/corevm/internal/memory"
)

func main() {
	mem, err := memory.New()
	if err != nil {
		panic(err)
	}

	const codeAddr = 0x1000

	if _, err := mem.Allocate(256); err != nil {
		panic(err)
	}

	if err := mem.AllocateAt(codeAddr, 16); err != nil {
		panic(err)
	}

	// MOVEQ #7,D0 ; MOVEQ #5,D1 ; ADD.L D1,D0 ; illegal (the loop below
	// steps only the first three, so the ILLEGAL word is never executed)
	program := []uint16{0x7007, 0x7205, 0xD081, 0x4AFC}
	for i, word := range program {
		if err := mem.WriteU16BE(uint32(codeAddr+i*2), word); err != nil {
			panic(err)
		}
	}

	machine := cpu.New(mem, cpu.WithPC(codeAddr))

	for i := 0; i < len(program)-1; i++ {
		if err := machine.Step(); err != nil {
			panic(err)
		}

		fmt.Println(machine.String())
	}
}
