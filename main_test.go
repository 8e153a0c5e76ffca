package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/retro68/corevm/internal/cpu"
	"github.com/retro68/corevm/internal/log"
	"github.com/retro68/corevm/internal/memory"
)

const origin = 0x1000

// program counts D0 down from 5 via DBRA until the low word wraps to
// 0xFFFF, then halts with STOP.
var program = []uint16{
	0x7005,         // MOVEQ #5,D0
	0x51C8, 0xFFFE, // DBRA D0,*-2
	0x4E72, 0x2700, // STOP #$2700
}

func TestMain(tt *testing.T) {
	log.LogLevel.Set(log.Error)

	mem, err := memory.New()
	if err != nil {
		tt.Fatalf("memory.New: %s", err)
	}

	if err := mem.AllocateAt(origin, 256); err != nil {
		tt.Fatalf("AllocateAt: %s", err)
	}

	for i, word := range program {
		if err := mem.WriteU16BE(uint32(origin+2*i), word); err != nil {
			tt.Fatalf("WriteU16BE: %s", err)
		}
	}

	machine := cpu.New(mem, cpu.WithPC(origin))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()

	if err := machine.Run(ctx); err != nil {
		tt.Fatalf("Run: %s, elapsed: %s", err, time.Since(start))
	}

	if !machine.Halted() {
		tt.Error("expected machine to be halted")
	}

	if machine.D[0] != 0x0000FFFF {
		tt.Errorf("D0 = %#x, want low word 0xffff (DBRA underflow after 6 iterations)", machine.D[0])
	}
}
