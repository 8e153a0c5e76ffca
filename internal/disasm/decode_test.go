package disasm

import (
	"testing"
)

type decodeTestCase struct {
	name string
	code []byte

	wantMnemonic string
	wantOperands string
	wantOK       bool
}

func TestDecodeOne(t *testing.T) {
	t.Parallel()

	tcs := []decodeTestCase{
		{
			name:         "nop",
			code:         []byte{0x4E, 0x71},
			wantMnemonic: "nop",
			wantOK:       true,
		},
		{
			name:         "rts",
			code:         []byte{0x4E, 0x75},
			wantMnemonic: "rts",
			wantOK:       true,
		},
		{
			name:         "illegal",
			code:         []byte{0x4A, 0xFC},
			wantMnemonic: "illegal",
			wantOK:       true,
		},
		{
			name:         "moveq",
			code:         []byte{0x70, 0x07},
			wantMnemonic: "moveq",
			wantOperands: "#7,d0",
			wantOK:       true,
		},
		{
			name:         "moveq negative",
			code:         []byte{0x72, 0xFF},
			wantMnemonic: "moveq",
			wantOperands: "#-1,d1",
			wantOK:       true,
		},
		{
			name:         "move.l d1,d0",
			code:         []byte{0x20, 0x01},
			wantMnemonic: "move.l",
			wantOperands: "d1,d0",
			wantOK:       true,
		},
		{
			name:         "add.l d1,d0",
			code:         []byte{0xD0, 0x81},
			wantMnemonic: "add.l",
			wantOperands: "d1,d0",
			wantOK:       true,
		},
		{
			name:         "lea abs.l,a0",
			code:         []byte{0x41, 0xF9, 0x00, 0x00, 0x10, 0x00},
			wantMnemonic: "lea",
			wantOperands: "0x00001000.l,a0",
			wantOK:       true,
		},
		{
			name:         "jsr abs.l",
			code:         []byte{0x4E, 0xB9, 0x00, 0x00, 0x20, 0x00},
			wantMnemonic: "jsr",
			wantOperands: "0x00002000.l",
			wantOK:       true,
		},
		{
			name:         "swap d0",
			code:         []byte{0x48, 0x40},
			wantMnemonic: "swap",
			wantOperands: "d0",
			wantOK:       true,
		},
		{
			name:         "ext.w d0",
			code:         []byte{0x48, 0x80},
			wantMnemonic: "ext.w",
			wantOperands: "d0",
			wantOK:       true,
		},
		{
			name:         "tst.b d0",
			code:         []byte{0x4A, 0x00},
			wantMnemonic: "tst.b",
			wantOperands: "d0",
			wantOK:       true,
		},
		{
			name:         "clr.w d0",
			code:         []byte{0x42, 0x40},
			wantMnemonic: "clr.w",
			wantOperands: "d0",
			wantOK:       true,
		},
		{
			name:         "tas d0",
			code:         []byte{0x4A, 0xC0},
			wantMnemonic: "tas",
			wantOperands: "d0",
			wantOK:       true,
		},
		{
			name:         "bra.s",
			code:         []byte{0x60, 0x02},
			wantMnemonic: "bra",
			wantOperands: "0x00000004",
			wantOK:       true,
		},
		{
			name:         "bsr.s",
			code:         []byte{0x61, 0x02},
			wantMnemonic: "bsr",
			wantOperands: "0x00000004",
			wantOK:       true,
		},
		{
			name:         "dbeq",
			code:         []byte{0x57, 0xC8, 0x00, 0x02},
			wantMnemonic: "dbeq",
			wantOperands: "d0,0x00000004",
			wantOK:       true,
		},
		{
			name:         "addq.l #1,d0",
			code:         []byte{0x52, 0x80},
			wantMnemonic: "addq.l",
			wantOperands: "#1,d0",
			wantOK:       true,
		},
		{
			name:         "asl.w #1,d0",
			code:         []byte{0xE3, 0x40},
			wantMnemonic: "asl.w",
			wantOperands: "#1,d0",
			wantOK:       true,
		},
		{
			name:         "exg d0,d1",
			code:         []byte{0xC1, 0x41},
			wantMnemonic: "exg",
			wantOperands: "d0,d1",
			wantOK:       true,
		},
		{
			name:         "movem.l regs,-(a7)",
			code:         []byte{0x48, 0xE7, 0xC0, 0x03},
			wantMnemonic: "movem.l",
			wantOperands: "d0-d1/a6-a7,-(a7)",
			wantOK:       true,
		},
		{
			name:         "incomplete",
			code:         []byte{0x4E},
			wantMnemonic: ".incomplete",
			wantOK:       false,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := newReader(tc.code)
			mnemonic, operands, _, ok := decodeOne(r, 0)

			t.Logf("have: %q, mnemonic: %q, operands: %q, ok: %v", tc.code, mnemonic, operands, ok)

			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}

			if !ok {
				return
			}

			if mnemonic != tc.wantMnemonic {
				t.Errorf("mnemonic = %q, want %q", mnemonic, tc.wantMnemonic)
			}

			if operands != tc.wantOperands {
				t.Errorf("operands = %q, want %q", operands, tc.wantOperands)
			}
		})
	}
}

func TestRegisterMask(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name         string
		mask         uint16
		predecrement bool
		want         string
	}{
		{name: "empty", mask: 0, want: ""},
		{name: "single d0", mask: 0x0001, want: "d0"},
		{name: "d0-d3", mask: 0x000F, want: "d0-d3"},
		{name: "d0 and a0", mask: 0x0101, want: "d0/a0"},
		{
			name:         "predecrement reverses bit order",
			mask:         0xC003, // bits 15,14,1,0 set -> D0,D1,A6,A7
			predecrement: true,
			want:         "d0-d1/a6-a7",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := registerMask(tc.mask, tc.predecrement)
			if got != tc.want {
				t.Errorf("registerMask(%#04x, %v) = %q, want %q", tc.mask, tc.predecrement, got, tc.want)
			}
		})
	}
}
