/*
Package cpu implements a 68000-family instruction interpreter over an
[memory.Context] address space.

# Registers

The machine has eight data registers (D0-D7), eight address registers
(A0-A7, with A7 doubling as the active stack pointer), a program
counter, and a status register split into a privileged top byte and a
user-visible condition code register (CCR: X, N, Z, V, C).

# Dispatch

Like the reference it's modeled on, the interpreter dispatches on the
top nibble of the opcode word into one of sixteen handlers — a plain
array of function values closing over the CPU, not a method-per-opcode
object graph. The same grouping is used by the disassembler in the
sibling package.

# Effective addresses

Operands are located by resolving a 6-bit mode/register field into a
[ResolvedAddress]: a tagged union over a data register, an address
register, the status register, or a memory location, mirroring the
original's enum-tagged ResolvedAddress rather than a raw pointer.

# Suspension points

Run calls out to three optional hooks once per instruction: a debug
hook (observes the fetched PC before decode), an interrupt tick (may
redirect control flow), and a syscall hook (invoked for Line-A and
Line-F opcodes, standing in for A-trap/F-line dispatch).
*/
package cpu
