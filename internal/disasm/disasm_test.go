package disasm

import (
	"strings"
	"testing"
)

func TestDisassemble(t *testing.T) {
	t.Parallel()

	// jsr 0x2006 ; nop ; rts, with a user label on the call site.
	code := []byte{
		0x4E, 0xB9, 0x00, 0x00, 0x20, 0x06, // jsr 0x00002006.l
		0x4E, 0x71, // nop
		0x4E, 0x75, // rts
	}

	const start = 0x2000

	out := Disassemble(code, start, []Label{{Addr: start, Name: "start"}}, nil)

	t.Logf("disassembly:\n%s", out)

	for _, want := range []string{"start:", "jsr", "0x00002006.l", "fn00002006:", "nop", "rts"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	wantOrder := []string{"start:", "jsr", "fn00002006:", "nop", "rts"}

	last := -1

	for _, s := range wantOrder {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("output missing %q", s)
		}

		if idx < last {
			t.Errorf("%q appeared out of order", s)
		}

		last = idx
	}
}

func TestDisassembleIncompleteInstructionAdvances(t *testing.T) {
	t.Parallel()

	// A single trailing byte can't form a full opcode word; Disassemble
	// must still terminate instead of looping forever on it.
	code := []byte{0x4E, 0x71, 0xFF}

	out := Disassemble(code, 0, nil, nil)

	if !strings.Contains(out, "nop") {
		t.Errorf("output missing %q:\n%s", "nop", out)
	}
}

func TestNameTableGloss(t *testing.T) {
	t.Parallel()

	code := []byte{0x70, 0x07} // moveq #7,d0

	names := NameTable{0: "entry"}

	out := Disassemble(code, 0, nil, names)

	if !strings.Contains(out, "entry") {
		t.Errorf("expected low-memory gloss %q in output:\n%s", "entry", out)
	}
}
