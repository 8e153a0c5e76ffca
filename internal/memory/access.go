package memory

import (
	"encoding/binary"
	"fmt"
)

// at returns the host byte slice backing [addr, addr+size), after
// checking the range is addressable under the current strict-mode
// setting.
func (c *Context) at(addr, size uint32, skipStrict bool) ([]byte, error) {
	a := c.arenaForAddr(addr)
	if a == nil {
		return nil, outOfRange("at", fmt.Errorf("no arena covers %#08x", addr))
	}

	if uint64(addr)+uint64(size) > uint64(a.end()) {
		return nil, outOfRange("at", fmt.Errorf("range crosses arena boundary at %#08x", addr))
	}

	if c.strict && !skipStrict && !a.isWithinAllocatedBlock(addr, size) {
		return nil, outOfRange("at", fmt.Errorf("%#08x is not within an allocated block", addr))
	}

	off := addr - a.addr

	return a.data[off : off+size], nil
}

// AddrOf performs the reverse lookup: given an arena and an offset into
// its host-backed data, return the virtual address. Present for parity with the
// original's pointer-to-address lookup; most Go callers won't need it.
func (c *Context) AddrOf(a *arena, hostOffset uint32) uint32 { return a.addr + hostOffset }

func (c *Context) ReadU8(addr uint32) (uint8, error) {
	b, err := c.at(addr, 1, false)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (c *Context) WriteU8(addr uint32, v uint8) error {
	b, err := c.at(addr, 1, false)
	if err != nil {
		return err
	}

	b[0] = v

	return nil
}

func (c *Context) ReadI8(addr uint32) (int8, error) {
	v, err := c.ReadU8(addr)
	return int8(v), err
}

func (c *Context) ReadU16BE(addr uint32) (uint16, error) {
	b, err := c.at(addr, 2, false)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (c *Context) ReadU16LE(addr uint32) (uint16, error) {
	b, err := c.at(addr, 2, false)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (c *Context) WriteU16BE(addr uint32, v uint16) error {
	b, err := c.at(addr, 2, false)
	if err != nil {
		return err
	}

	binary.BigEndian.PutUint16(b, v)

	return nil
}

func (c *Context) WriteU16LE(addr uint32, v uint16) error {
	b, err := c.at(addr, 2, false)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint16(b, v)

	return nil
}

func (c *Context) ReadI16BE(addr uint32) (int16, error) {
	v, err := c.ReadU16BE(addr)
	return int16(v), err
}

func (c *Context) ReadU32BE(addr uint32) (uint32, error) {
	b, err := c.at(addr, 4, false)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (c *Context) ReadU32LE(addr uint32) (uint32, error) {
	b, err := c.at(addr, 4, false)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (c *Context) WriteU32BE(addr uint32, v uint32) error {
	b, err := c.at(addr, 4, false)
	if err != nil {
		return err
	}

	binary.BigEndian.PutUint32(b, v)

	return nil
}

func (c *Context) WriteU32LE(addr uint32, v uint32) error {
	b, err := c.at(addr, 4, false)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(b, v)

	return nil
}

func (c *Context) ReadI32BE(addr uint32) (int32, error) {
	v, err := c.ReadU32BE(addr)
	return int32(v), err
}

// ReadCString reads a NUL-terminated string starting at addr.
func (c *Context) ReadCString(addr uint32) (string, error) {
	var out []byte

	for {
		b, err := c.ReadU8(addr)
		if err != nil {
			return "", err
		}

		if b == 0 {
			break
		}

		out = append(out, b)
		addr++
	}

	return string(out), nil
}

// WriteCString writes s followed by a NUL terminator.
func (c *Context) WriteCString(addr uint32, s string) error {
	for i := 0; i < len(s); i++ {
		if err := c.WriteU8(addr+uint32(i), s[i]); err != nil {
			return err
		}
	}

	return c.WriteU8(addr+uint32(len(s)), 0)
}

// ReadPString reads a Pascal-style, length-prefixed string (one length
// byte followed by up to 255 bytes of content).
func (c *Context) ReadPString(addr uint32) (string, error) {
	n, err := c.ReadU8(addr)
	if err != nil {
		return "", err
	}

	b, err := c.at(addr+1, uint32(n), false)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WritePString writes s as a Pascal-style string. s must be at most 255
// bytes.
func (c *Context) WritePString(addr uint32, s string) error {
	if len(s) > 255 {
		return invalidArgument("WritePString", ErrStringTooLong)
	}

	if err := c.WriteU8(addr, uint8(len(s))); err != nil {
		return err
	}

	b, err := c.at(addr+1, uint32(len(s)), false)
	if err != nil {
		return err
	}

	copy(b, s)

	return nil
}

// Memcpy copies size bytes from src to dst, which may not overlap.
func (c *Context) Memcpy(dst, src, size uint32) error {
	s, err := c.at(src, size, false)
	if err != nil {
		return err
	}

	d, err := c.at(dst, size, false)
	if err != nil {
		return err
	}

	copy(d, s)

	return nil
}

// Memset fills size bytes at addr with value.
func (c *Context) Memset(addr uint32, value byte, size uint32) error {
	b, err := c.at(addr, size, false)
	if err != nil {
		return err
	}

	for i := range b {
		b[i] = value
	}

	return nil
}
