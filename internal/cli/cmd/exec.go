package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/retro68/corevm/internal/cli"
	"github.com/retro68/corevm/internal/cpu"
	"github.com/retro68/corevm/internal/encoding"
	"github.com/retro68/corevm/internal/log"
	"github.com/retro68/corevm/internal/memory"
)

func Executor() cli.Command {
	exec := &executor{log: log.DefaultLogger()}
	return exec
}

type executor struct {
	logLevel slog.Level
	log      *log.Logger
}

func (executor) Description() string {
	return "run a program"
}

func (executor) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `exec program.hex

Runs a memory image in the emulator.`)

	return err
}

func (ex *executor) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	fs.Func("loglevel", "set log `level`", func(s string) error {
		return ex.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

// Run loads a memory image and runs it until it halts, faults, or the
// context's deadline expires.
func (ex *executor) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger,
) int {
	log.LogLevel.Set(ex.logLevel)

	records, err := ex.loadCode(args[0])
	if err != nil {
		logger.Error("Error loading code", "err", err)
		return -1
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(context.Canceled)

	ctx, cancelTimeout := context.WithTimeout(ctx, 10*time.Second)
	defer cancelTimeout()

	logger.Debug("Initializing machine")

	mem, err := memory.New(memory.WithLogger(logger))
	if err != nil {
		logger.Error("Error initializing memory", "err", err)
		return -1
	}

	var entry uint32

	count := 0

	for i, rec := range records {
		if i == 0 {
			entry = uint32(rec.Addr)
		}

		if !mem.Exists(uint32(rec.Addr), uint32(len(rec.Data)), true) {
			if err := mem.AllocateAt(uint32(rec.Addr), uint32(len(rec.Data))); err != nil {
				logger.Error("Error allocating memory", "err", err)
				return 1
			}
		}

		for j, b := range rec.Data {
			if err := mem.WriteU8(uint32(rec.Addr)+uint32(j), b); err != nil {
				logger.Error("Error loading memory", "err", err)
				return 1
			}
		}

		count += len(rec.Data)
	}

	logger.Debug("Loaded program", "file", args[0], "loaded", count)

	machine := cpu.New(mem, cpu.WithLogger(logger), cpu.WithPC(entry))

	go func(cancel context.CancelCauseFunc) {
		logger.Info("Starting machine")

		err := machine.Run(ctx)

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			logger.Warn("Exec timeout")
			return
		case err != nil:
			logger.Error(err.Error())
			cancel(err)

			return
		default:
			cancel(context.Canceled)
		}
	}(cancel)

	<-ctx.Done()

	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		logger.Error("Exec timeout!")
		return 2
	} else if errors.Is(context.Cause(ctx), context.Canceled) {
		logger.Info("Program completed")
		return 0
	} else if cause := context.Cause(ctx); cause != nil {
		logger.Error("Program error", "err", cause)
		return 2
	}

	logger.Info("Terminated")

	return 0
}

func (ex executor) loadCode(fn string) ([]encoding.Record, error) {
	ex.log.Debug("Loading executable", "file", fn)

	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	code, err := io.ReadAll(file)
	if err != nil {
		ex.log.Error(err.Error())
		return nil, err
	}

	ex.log.Debug("Loaded file", "bytes", len(code))

	hex := encoding.HexEncoding{}

	if err = hex.UnmarshalText(code); err != nil {
		ex.log.Error(err.Error())
		return nil, err
	}

	return hex.Code, nil
}
