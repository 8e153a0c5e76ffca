package memory

import "sort"

// SetSymbol binds name to addr. It's an error to redefine an existing
// name or to give the same address two names; delete the old binding
// first.
func (c *Context) SetSymbol(name string, addr uint32) error {
	if _, ok := c.symbolAddrs[name]; ok {
		return invalidArgument("SetSymbol", ErrSymbolExists)
	}

	if _, ok := c.addrSymbols[addr]; ok {
		return invalidArgument("SetSymbol", ErrSymbolExists)
	}

	c.symbolAddrs[name] = addr
	c.addrSymbols[addr] = name

	return nil
}

// DeleteSymbol removes the binding for name, if any.
func (c *Context) DeleteSymbol(name string) {
	addr, ok := c.symbolAddrs[name]
	if !ok {
		return
	}

	delete(c.symbolAddrs, name)
	delete(c.addrSymbols, addr)
}

// DeleteSymbolAt removes whatever symbol is bound to addr, if any.
func (c *Context) DeleteSymbolAt(addr uint32) {
	name, ok := c.addrSymbols[addr]
	if !ok {
		return
	}

	delete(c.addrSymbols, addr)
	delete(c.symbolAddrs, name)
}

// SymbolAddr looks up the address bound to name.
func (c *Context) SymbolAddr(name string) (uint32, bool) {
	addr, ok := c.symbolAddrs[name]
	return addr, ok
}

// AddrSymbol looks up the symbol name bound to addr.
func (c *Context) AddrSymbol(addr uint32) (string, bool) {
	name, ok := c.addrSymbols[addr]
	return name, ok
}

// Symbols returns a copy of every symbol binding, keyed by name; the map
// carries no order.
func (c *Context) Symbols() map[string]uint32 {
	out := make(map[string]uint32, len(c.symbolAddrs))
	for name, addr := range c.symbolAddrs {
		out[name] = addr
	}

	return out
}

func (c *Context) sortedSymbolNames() []string {
	names := make([]string, 0, len(c.symbolAddrs))
	for name := range c.symbolAddrs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
