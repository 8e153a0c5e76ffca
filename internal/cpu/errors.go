package cpu

import (
	"errors"

	"github.com/retro68/corevm/internal/fault"
)

var (
	ErrIllegalInstruction  = errors.New("illegal instruction")
	ErrPrivilegeViolation  = errors.New("privilege violation")
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
	ErrDivideByZero        = errors.New("division by zero")
	ErrTrap                = errors.New("trap")
	ErrHalted              = errors.New("cpu halted")
)

func illegal(op string) error { return fault.New(op, fault.Trap, ErrIllegalInstruction) }
func unimpl(op string) error  { return fault.New(op, fault.Unimplemented, ErrUnimplementedOpcode) }
func divZero(op string) error { return fault.New(op, fault.DivisionByZero, ErrDivideByZero) }
func privileged(op string) error {
	return fault.New(op, fault.Trap, ErrPrivilegeViolation)
}

// trap reports a TRAP/TRAPV/CHK fault: a failure the instruction set
// itself defines as terminal, surfaced directly to the caller rather
// than routed through a vectored exception transfer.
func trap(op string) error { return fault.New(op, fault.Trap, ErrTrap) }
