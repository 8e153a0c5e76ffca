// Package tty_test tries to test ttys.
//
// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this includes when run with
// "go test" because it redirects tests' standard input/output streams. You can test it by building
// a test binary and running it directly:
//
//	$ go test -c && ./tty.test
package tty_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retro68/corevm/internal/tty"
)

type testHarness struct {
	*testing.T
}

const timeout = 100 * time.Millisecond

func (testHarness) Context() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	return context.WithTimeoutCause(ctx, timeout, context.DeadlineExceeded)
}

// fakeKeyboard records the keys it receives, unblocking a reader after
// every update.
type fakeKeyboard struct {
	pressed chan byte
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{pressed: make(chan byte, 8)}
}

func (k *fakeKeyboard) Update(b byte) { k.pressed <- b }
func (k *fakeKeyboard) Read() byte    { return <-k.pressed }

// fakeDisplay fans writes out to any listeners registered with Listen.
type fakeDisplay struct {
	listeners []func(rune)
}

func (d *fakeDisplay) Listen(f func(rune)) { d.listeners = append(d.listeners, f) }
func (d *fakeDisplay) Write(r rune) {
	for _, f := range d.listeners {
		f(r)
	}
}

func TestTerminal(tt *testing.T) {
	t := testHarness{tt}
	kbd := newFakeKeyboard()
	display := &fakeDisplay{}

	ctx, cancel := t.Context()
	defer cancel()

	ctx, console, cancel := tty.ConsoleContext(ctx, kbd, display)
	defer cancel()

	if err := context.Cause(ctx); errors.Is(err, tty.ErrNoTTY) {
		t.Skipf("error: %s", context.Cause(ctx))
		t.SkipNow()
	}

	pressed := make(chan struct{})

	go func() {
		defer close(pressed)
		kbd.Read()
	}()

	go func() {
		console.Press('!')
	}()

	display.Write('\n')
	display.Write('⍝')
	display.Write('\n')

	select {
	case <-ctx.Done(): // Just wait.
	case <-pressed:
	}

	cancel()

	if err := ctx.Err(); err != nil {
		t.Errorf("cause: %s", err)
	}
}
