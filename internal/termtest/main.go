// Termtest is a testing tool for Unix terminal I/O. Lacking simple PTY support, running this tool
// manually is easier than writing automated tests.
package main

import (
	"context"
	"os"
	"time"

	"github.com/retro68/corevm/internal/log"
	"github.com/retro68/corevm/internal/tty"
)

var logger = log.DefaultLogger()

// echoKeyboard buffers bytes pressed at the console so main's poll loop
// can echo them back to the display.
type echoKeyboard struct {
	keys chan byte
}

func newEchoKeyboard() *echoKeyboard { return &echoKeyboard{keys: make(chan byte, 16)} }

func (k *echoKeyboard) Update(b byte) { k.keys <- b }

func (k *echoKeyboard) poll() (byte, bool) {
	select {
	case b := <-k.keys:
		return b, true
	default:
		return 0, false
	}
}

// echoDisplay fans a write out to whatever is listening (the console).
type echoDisplay struct {
	listener func(rune)
}

func (d *echoDisplay) Listen(f func(rune)) { d.listener = f }
func (d *echoDisplay) Write(r rune) {
	if d.listener != nil {
		d.listener(r)
	}
}

func main() {
	var (
		ctx      = context.Background()
		keyboard = newEchoKeyboard()
		display  = &echoDisplay{}
	)

	ctx, _, cancel := tty.ConsoleContext(ctx, keyboard, display)
	defer cancel()

	poll := time.Tick(100 * time.Millisecond)
	timeout := time.After(5 * time.Second)

	select {
	case <-ctx.Done():
		logger.Debug("cause", context.Cause(ctx))
	default:
	}

	logger.Info("Polling keyboard. Type keys.")

	display.Write('\n')

	for {
		select {
		case <-poll:
			if key, ok := keyboard.poll(); ok {
				display.Write(rune(key))
			}
		case <-timeout:
			cancel()
			return
		case <-ctx.Done():
			if ctx.Err() != nil {
				cause := context.Cause(ctx)
				logger.Error(cause.Error())
			} else {
				logger.Info("Done")
			}

			os.Exit(0)
		}
	}
}
