package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retro68/corevm/internal/cli"
	"github.com/retro68/corevm/internal/cpu"
	"github.com/retro68/corevm/internal/log"
	"github.com/retro68/corevm/internal/memory"
)

// Demo is a demonstration command.
func Demo() cli.Command {
	return new(demo)
}

type demo struct {
	debug bool
	quiet bool
}

func (demo) Description() string {
	return "run demo program"
}

func (d demo) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `
demo [ -debug | -quiet ]

Run a short demonstration program while displaying machine state.`)

	return err
}

func (d *demo) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)

	fs.BoolVar(&d.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&d.quiet, "quiet", false, "enable quiet output, machine state only")

	return fs
}

const demoOrigin = 0x1000

// demoProgram counts D0 down from 5 using DBRA until the counter wraps to
// -1 (low word 0xFFFF), then halts with STOP rather than an exception, so
// it needs no vector table.
var demoProgram = []uint16{
	0x7005,         // MOVEQ #5,D0
	0x51C8, 0xFFFE, // DBRA D0,*-2
	0x4E72, 0x2700, // STOP #$2700
}

func (d demo) Run(ctx context.Context, args []string, out io.Writer, _ *log.Logger) int {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if d.quiet {
		log.LogLevel.Set(log.Error)
	}

	if d.debug {
		log.LogLevel.Set(log.Debug)
	}

	logger := log.NewFormattedLogger(os.Stdout)
	log.SetDefault(logger)
	log.DefaultLogger = func() *log.Logger {
		return logger
	}

	logger.Info("Initializing machine")

	mem, err := memory.New(memory.WithLogger(logger))
	if err != nil {
		logger.Error("error initializing memory", "err", err)
		return 2
	}

	if err := mem.AllocateAt(demoOrigin, 256); err != nil {
		logger.Error("error allocating memory", "err", err)
		return 2
	}

	for i, word := range demoProgram {
		if err := mem.WriteU16BE(uint32(demoOrigin+2*i), word); err != nil {
			logger.Error("error loading code", "err", err)
			return 2
		}
	}

	machine := cpu.New(mem, cpu.WithLogger(logger), cpu.WithPC(demoOrigin))

	done := make(chan struct{})

	go func() {
		defer close(done)

		logger.Info("Starting machine")

		err := machine.Run(ctx)

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			logger.Warn("Demo timeout")
		case err != nil:
			logger.Error(err.Error())
		default:
			logger.Info("Demo halted", "state", machine.String())
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}

	logger.Info("Demo completed")

	return 0
}
