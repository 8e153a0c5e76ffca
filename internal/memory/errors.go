package memory

import (
	"errors"

	"github.com/retro68/corevm/internal/fault"
)

// Sentinel causes wrapped by fault.Error values returned from this
// package. Callers that only care about the Kind should use
// fault.Of(err), or errors.Is against a *fault.Error of that Kind;
// callers that want the specific cause can match these with errors.Is.
var (
	ErrNoSpace       = errors.New("no arena has enough free space")
	ErrNotAllocated  = errors.New("address is not the start of an allocated block")
	ErrOverlap       = errors.New("requested range overlaps an existing allocation")
	ErrUnaligned     = errors.New("address or size is not 4-byte aligned")
	ErrSymbolExists  = errors.New("symbol already defined")
	ErrNoSymbol      = errors.New("no such symbol")
	ErrStringTooLong = errors.New("pascal string exceeds 255 bytes")
	ErrBadPageSize   = errors.New("page size must be a power of two")
	ErrCorruptImage  = errors.New("memory image is corrupt or from an incompatible version")
)

func outOfRange(op string, err error) error       { return fault.New(op, fault.OutOfRange, err) }
func invalidArgument(op string, err error) error  { return fault.New(op, fault.InvalidArgument, err) }
func logicError(op string, err error) error       { return fault.New(op, fault.LogicError, err) }
