package cpu

import (
	"log/slog"

	"github.com/retro68/corevm/internal/log"
	"github.com/retro68/corevm/internal/memory"
)

// DebugHook observes the CPU before each instruction is decoded.
// Returning false terminates the run loop without fetching or
// dispatching that cycle's opcode.
type DebugHook func(cpu *CPU) bool

// InterruptHook is polled once per instruction, after the debug hook,
// and may alter control flow; returning a non-nil error stops Run.
type InterruptHook func(cpu *CPU) error

// SyscallHook services Line-A and Line-F opcodes: the emulator's stand-in
// for a toolbox trap dispatcher or coprocessor, called with the full
// opcode word.
type SyscallHook func(cpu *CPU, opcode uint16) error

// CPU interprets 68000-family machine code over a memory.Context.
type CPU struct {
	Registers

	mem *memory.Context
	log *slog.Logger

	debugHook     DebugHook
	interruptHook InterruptHook
	syscallHook   SyscallHook

	dispatch [16]func(*CPU, uint16) error

	halted bool
}

// OptionFn configures a CPU at construction time.
type OptionFn func(*CPU)

func WithDebugHook(h DebugHook) OptionFn         { return func(c *CPU) { c.debugHook = h } }
func WithInterruptHook(h InterruptHook) OptionFn { return func(c *CPU) { c.interruptHook = h } }
func WithSyscallHook(h SyscallHook) OptionFn      { return func(c *CPU) { c.syscallHook = h } }
func WithLogger(l *slog.Logger) OptionFn          { return func(c *CPU) { c.log = l } }
func WithPC(pc uint32) OptionFn                   { return func(c *CPU) { c.PC = pc } }
func WithSupervisor() OptionFn {
	return func(c *CPU) { c.SR |= SRSupervisor }
}

// New creates a CPU bound to mem. SR starts in supervisor mode with all
// CCR flags clear; A7/SSP are left at zero for the caller to set (e.g.
// from a reset vector) via WithPC/direct field access.
func New(mem *memory.Context, opts ...OptionFn) *CPU {
	cpu := &CPU{
		mem: mem,
		log: log.DefaultLogger(),
	}

	cpu.SR = SRSupervisor

	for _, opt := range opts {
		opt(cpu)
	}

	cpu.dispatch = cpu.buildDispatch()

	return cpu
}

// Halted reports whether the CPU has stopped: after STOP, RESET, an
// unhandled Line-A/Line-F opcode, a debug hook returning false, or Halt.
func (cpu *CPU) Halted() bool { return cpu.halted }

// Halt stops further execution: Step then returns ErrHalted, and Run
// returns nil at its next step.
func (cpu *CPU) Halt() { cpu.halted = true }

// Memory returns the CPU's backing address space, for callers that need
// to load code or inspect state directly.
func (cpu *CPU) Memory() *memory.Context { return cpu.mem }
