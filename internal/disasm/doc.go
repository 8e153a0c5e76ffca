// Package disasm renders a byte image of M68K code as text, following
// the same opcode-group layout as internal/cpu's dispatch table but
// producing mnemonic/operand strings instead of executing anything.
//
// Disassemble implements the linear-sweep-plus-backup-branch algorithm
// grounded on M68KEmulator::disassemble: a first pass decodes every
// instruction in program order and records branch targets; a second
// pass re-disassembles any word-aligned target that landed inside an
// already-decoded instruction (because 68K opcodes aren't a fixed
// width, a stray jump into the middle of one can produce a different,
// equally valid reading); a third pass stitches the primary and backup
// readings together in address order, bracketing backup ranges and
// interleaving labels.
package disasm
