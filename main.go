// corevm is the command-line interface to a 68000-family emulator and
// memory-arena toolkit.
package main

import (
	"context"
	"os"

	"github.com/retro68/corevm/internal/cli"
	"github.com/retro68/corevm/internal/cli/cmd"
)

var (
	commands = []cli.Command{
		cmd.Demo(),
		cmd.Executor(),
		cmd.Disassembler(),
	}
)

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
