package disasm

import "github.com/retro68/corevm/internal/cpu"

// reader is a cursor over a static byte image, used by decodeOne to
// fetch opcode words and extension words without touching a live
// memory.Context.
type reader struct {
	code []byte
	pos  int
}

func newReader(code []byte) *reader {
	return &reader{code: code}
}

func (r *reader) eof() bool {
	return r.pos+1 >= len(r.code)
}

func (r *reader) where() int {
	return r.pos
}

func (r *reader) seek(pos int) {
	r.pos = pos
}

func (r *reader) fetchWord() (uint16, bool) {
	if r.pos+2 > len(r.code) {
		return 0, false
	}

	w := uint16(r.code[r.pos])<<8 | uint16(r.code[r.pos+1])
	r.pos += 2

	return w, true
}

func (r *reader) fetchLong() (uint32, bool) {
	hi, ok := r.fetchWord()
	if !ok {
		return 0, false
	}

	lo, ok := r.fetchWord()
	if !ok {
		return 0, false
	}

	return uint32(hi)<<16 | uint32(lo), true
}

// peekByte returns the low byte of the most recently fetched word without
// consuming anything. Nothing in the package calls it.
func (r *reader) peekByte() byte {
	if r.pos == 0 || r.pos > len(r.code) {
		return 0
	}

	return r.code[r.pos-1]
}

func sizeSuffix(sz cpu.Size) string {
	return "." + sz.String()
}
