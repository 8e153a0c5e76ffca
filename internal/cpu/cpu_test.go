package cpu_test

import (
	"context"
	"errors"
	"testing"

	"github.com/retro68/corevm/internal/cpu"
	"github.com/retro68/corevm/internal/memory"
)

const origin = 0x2000

func newMachine(t *testing.T, program []uint16) *cpu.CPU {
	t.Helper()

	mem, err := memory.New()
	if err != nil {
		t.Fatalf("memory.New: %s", err)
	}

	if err := mem.AllocateAt(origin, 256); err != nil {
		t.Fatalf("AllocateAt: %s", err)
	}

	for i, word := range program {
		if err := mem.WriteU16BE(uint32(origin+2*i), word); err != nil {
			t.Fatalf("WriteU16BE: %s", err)
		}
	}

	return cpu.New(mem, cpu.WithPC(origin))
}

func TestMoveqSetsCCR(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		opcode   uint16
		wantD0   uint32
		wantZero bool
		wantNeg  bool
	}{
		{name: "positive", opcode: 0x7007, wantD0: 7},
		{name: "zero", opcode: 0x7000, wantD0: 0, wantZero: true},
		{name: "negative", opcode: 0x70FF, wantD0: 0xFFFFFFFF, wantNeg: true},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			machine := newMachine(t, []uint16{tc.opcode})

			if err := machine.Step(); err != nil {
				t.Fatalf("Step: %s", err)
			}

			if machine.D[0] != tc.wantD0 {
				t.Errorf("D0 = %#x, want %#x", machine.D[0], tc.wantD0)
			}

			if got := machine.SR&uint16(cpu.CCRZero) != 0; got != tc.wantZero {
				t.Errorf("Z flag = %v, want %v", got, tc.wantZero)
			}

			if got := machine.SR&uint16(cpu.CCRNegative) != 0; got != tc.wantNeg {
				t.Errorf("N flag = %v, want %v", got, tc.wantNeg)
			}
		})
	}
}

func TestAddLSetsCarryOnOverflow(t *testing.T) {
	t.Parallel()

	// MOVEQ #-1,D0 ; MOVEQ #1,D1 ; ADD.L D1,D0 leaves D0 = 0, carry set.
	machine := newMachine(t, []uint16{0x70FF, 0x7201, 0xD081})

	for i := 0; i < 3; i++ {
		if err := machine.Step(); err != nil {
			t.Fatalf("Step %d: %s", i, err)
		}
	}

	if machine.D[0] != 0 {
		t.Errorf("D0 = %#x, want 0", machine.D[0])
	}

	if machine.SR&uint16(cpu.CCRCarry) == 0 {
		t.Error("expected carry flag set")
	}

	if machine.SR&uint16(cpu.CCRZero) == 0 {
		t.Error("expected zero flag set")
	}
}

func TestBraBranches(t *testing.T) {
	t.Parallel()

	// BRA.S *+4 ; ILLEGAL (skipped) ; MOVEQ #9,D0
	machine := newMachine(t, []uint16{0x6002, 0x4AFC, 0x7009})

	if err := machine.Step(); err != nil {
		t.Fatalf("Step (bra): %s", err)
	}

	if machine.PC != origin+4 {
		t.Fatalf("PC = %#x, want %#x", machine.PC, origin+4)
	}

	if err := machine.Step(); err != nil {
		t.Fatalf("Step (moveq): %s", err)
	}

	if machine.D[0] != 9 {
		t.Errorf("D0 = %#x, want 9", machine.D[0])
	}
}

func TestIllegalSurfacesDescriptiveError(t *testing.T) {
	t.Parallel()

	machine := newMachine(t, []uint16{0x4AFC}) // ILLEGAL

	err := machine.Step()
	if !errors.Is(err, cpu.ErrIllegalInstruction) {
		t.Fatalf("Step: got %v, want wrapping %v", err, cpu.ErrIllegalInstruction)
	}
}

func TestResetHaltsRunLoop(t *testing.T) {
	t.Parallel()

	machine := newMachine(t, []uint16{0x4E70}) // RESET

	if err := machine.Step(); err != nil {
		t.Fatalf("Step: %s", err)
	}

	if !machine.Halted() {
		t.Error("expected CPU to be halted after RESET")
	}

	if err := machine.Run(context.Background()); err != nil {
		t.Errorf("Run after halt: %s", err)
	}
}

func TestDebugHookFalseTerminatesRun(t *testing.T) {
	t.Parallel()

	// MOVEQ #1,D0 ; MOVEQ #2,D0 ; the hook stops the loop after the
	// first instruction, so D0 must still read 1.
	machine := newMachine(t, []uint16{0x7001, 0x7002})

	calls := 0

	hookMachine := cpu.New(machine.Memory(), cpu.WithPC(origin), cpu.WithDebugHook(func(c *cpu.CPU) bool {
		calls++
		return calls <= 1
	}))

	if err := hookMachine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %s", err)
	}

	if hookMachine.D[0] != 1 {
		t.Errorf("D0 = %#x, want 1", hookMachine.D[0])
	}

	if !hookMachine.Halted() {
		t.Error("expected CPU to be halted once the debug hook returns false")
	}
}

func TestAddqSubqAddressRegisterLeavesCCR(t *testing.T) {
	t.Parallel()

	// MOVEQ #-1,D0 sets N and clears Z; ADDA.L is encoded here as
	// ADDQ.L #1,A0, which must touch A0 without disturbing those flags.
	machine := newMachine(t, []uint16{0x70FF, 0x5288}) // moveq #-1,d0 ; addq.l #1,a0

	for i := 0; i < 2; i++ {
		if err := machine.Step(); err != nil {
			t.Fatalf("Step %d: %s", i, err)
		}
	}

	if machine.A[0] != 1 {
		t.Errorf("A0 = %#x, want 1", machine.A[0])
	}

	if machine.SR&uint16(cpu.CCRNegative) == 0 {
		t.Error("expected N flag to remain set from the preceding MOVEQ")
	}

	if machine.SR&uint16(cpu.CCRZero) != 0 {
		t.Error("expected Z flag to remain clear from the preceding MOVEQ")
	}
}

func TestLineAWithNoSyscallHookHalts(t *testing.T) {
	t.Parallel()

	machine := newMachine(t, []uint16{0xA000}) // Line-A, no handler installed

	if err := machine.Step(); err != nil {
		t.Fatalf("Step: %s", err)
	}

	if !machine.Halted() {
		t.Error("expected CPU to be halted by an unhandled Line-A trap")
	}
}
