package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retro68/corevm/internal/cli"
	"github.com/retro68/corevm/internal/disasm"
	"github.com/retro68/corevm/internal/encoding"
	"github.com/retro68/corevm/internal/log"
)

// Disassembler returns the "disasm" sub-command.
func Disassembler() cli.Command {
	return &disassembler{log: log.DefaultLogger()}
}

type disassembler struct {
	log *log.Logger
}

func (disassembler) Description() string {
	return "disassemble a memory image"
}

func (disassembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `disasm program.hex

Disassembles every record in a memory image, in address order,
labelling branch targets and call sites discovered along the way.`)

	return err
}

func (disassembler) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

// Run loads a memory image and prints its disassembly to stdout. Each
// record is disassembled independently, since records loaded from
// separate hex lines need not be contiguous.
func (d *disassembler) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger,
) int {
	if len(args) == 0 {
		logger.Error("disasm: missing file argument")
		return -1
	}

	records, err := d.loadCode(args[0])
	if err != nil {
		logger.Error("Error loading code", "err", err)
		return -1
	}

	for _, rec := range records {
		logger.Debug("Disassembling record", "addr", rec.Addr, "bytes", len(rec.Data))

		out := disasm.Disassemble(rec.Data, uint32(rec.Addr), nil, nil)
		if _, err := fmt.Fprint(stdout, out); err != nil {
			logger.Error("Error writing output", "err", err)
			return 1
		}
	}

	return 0
}

func (d *disassembler) loadCode(fn string) ([]encoding.Record, error) {
	d.log.Debug("Loading executable", "file", fn)

	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	code, err := io.ReadAll(file)
	if err != nil {
		d.log.Error(err.Error())
		return nil, err
	}

	d.log.Debug("Loaded file", "bytes", len(code))

	hex := encoding.HexEncoding{}

	if err = hex.UnmarshalText(code); err != nil {
		d.log.Error(err.Error())
		return nil, err
	}

	return hex.Code, nil
}
