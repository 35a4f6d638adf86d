package memacc

import "fmt"

// CallbackFn fills data with target memory at addr and returns the number of bytes read.
type CallbackFn func(ctx any, addr uint64, data []byte) (int, error)

// CBAccessor forwards reads in its range to a callback.
// Live process readers are attached this way.
type CBAccessor struct {
	BaseAccessor
	cb  CallbackFn
	ctx any
}

// NewCBAccessor creates a callback accessor for [startAddr, endAddr].
func NewCBAccessor(startAddr, endAddr uint64) *CBAccessor {
	return &CBAccessor{
		BaseAccessor: BaseAccessor{startAddr: startAddr, endAddr: endAddr},
	}
}

// SetCB sets the callback and its context.
func (c *CBAccessor) SetCB(fn CallbackFn, ctx any) {
	c.cb = fn
	c.ctx = ctx
}

// ReadMemory implements Memory.
func (c *CBAccessor) ReadMemory(addr uint64, data []byte) (int, error) {
	if !c.InRange(addr) {
		return 0, fmt.Errorf("%w: 0x%x outside callback range [0x%x, 0x%x]", ErrOutOfRange, addr, c.startAddr, c.endAddr)
	}
	if c.cb == nil {
		return 0, ErrCallbackNotSet
	}
	n := c.BytesInRange(addr, len(data))
	read, err := c.cb(c.ctx, addr, data[:n])
	if read > n {
		read = n
	}
	return read, err
}

func (c *CBAccessor) String() string {
	return rangeString("CBAcc", c.startAddr, c.endAddr)
}
