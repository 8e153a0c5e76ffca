package cpu

import (
	"context"
	"errors"
	"fmt"
)

// Step runs a single instruction cycle: the debug hook observes the
// current PC, the interrupt hook gets a chance to redirect control
// flow, then an opcode word is fetched and dispatched on its top
// nibble. This mirrors M68KEmulator::execute's per-cycle structure
// (debug_hook, interrupt_manager->on_cycle_start(), fetch, dispatch).
// The debug hook and interrupt tick are the run loop's first two
// suspension points; each may end the loop by reporting "stop" instead
// of pausing it.
func (cpu *CPU) Step() error {
	if cpu.halted {
		return fmt.Errorf("%w", ErrHalted)
	}

	if cpu.debugHook != nil && !cpu.debugHook(cpu) {
		cpu.Halt()
		return fmt.Errorf("%w", ErrHalted)
	}

	if cpu.interruptHook != nil {
		if err := cpu.interruptHook(cpu); err != nil {
			return err
		}
	}

	opcode, err := cpu.fetchWord()
	if err != nil {
		return err
	}

	group := opcode >> 12

	handler := cpu.dispatch[group]
	if handler == nil {
		return illegal("opcode")
	}

	return handler(cpu, opcode)
}

// Run steps the CPU until ctx is cancelled, the CPU halts, or Step
// returns an error that isn't ErrHalted.
func (cpu *CPU) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := cpu.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}

			return err
		}
	}
}
