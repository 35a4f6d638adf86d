// Package memacc is the only place that touches target memory. Everything above it works on
// addresses and the (value, ok) results of a Reader.
package memacc

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMemAccOverlap  = errors.New("memory accessor overlap")
	ErrOutOfRange     = errors.New("address out of range")
	ErrAccessInvalid  = errors.New("memory access invalid")
	ErrRangeInvalid   = errors.New("accessor range invalid")
	ErrCallbackNotSet = errors.New("callback not set")
)

// Memory is anything that can read bytes of target memory.
// ReadMemory returns the number of bytes copied into data, which may be short at the end of a region.
type Memory interface {
	ReadMemory(addr uint64, data []byte) (int, error)
}

// Accessor is the interface for memory access objects covering one address range.
type Accessor interface {
	Memory
	StartAddr() uint64
	EndAddr() uint64 // inclusive
	String() string
}

// BaseAccessor provides the range bookkeeping shared by accessors.
type BaseAccessor struct {
	startAddr uint64
	endAddr   uint64
}

func (b *BaseAccessor) StartAddr() uint64 { return b.startAddr }
func (b *BaseAccessor) EndAddr() uint64   { return b.endAddr }

func (b *BaseAccessor) InRange(addr uint64) bool {
	return addr >= b.startAddr && addr <= b.endAddr
}

// BytesInRange clamps a request to what is left of the range from addr.
func (b *BaseAccessor) BytesInRange(addr uint64, reqBytes int) int {
	if !b.InRange(addr) || reqBytes <= 0 {
		return 0
	}
	available := b.endAddr - addr + 1
	if uint64(reqBytes) > available {
		return int(available)
	}
	return reqBytes
}

func rangeString(kind string, start, end uint64) string {
	return fmt.Sprintf("%s; Range::0x%x:0x%x", kind, start, end)
}

// Span is a range of target addresses.
type Span struct {
	Start uint64
	Size  uint64
}

func (s Span) End() uint64 { return s.Start + s.Size }
