package memacc

import (
	"encoding/binary"
	"math"
)

// PointerSize is the width of a target pointer.
const PointerSize = 8

// Reader decodes little-endian values from target memory.
// Every method reports ok == false instead of failing: a null address, an unmapped address and a
// short read all mean the data is gone for this call.
type Reader struct {
	mem Memory
}

// NewReader wraps mem. A nil mem yields a Reader on which every read is absent.
func NewReader(mem Memory) Reader {
	return Reader{mem: mem}
}

// Valid reports whether the reader has a backing memory.
func (r Reader) Valid() bool {
	return r.mem != nil
}

// Read fills buf from addr. It succeeds only when every byte was read.
func (r Reader) Read(addr uint64, buf []byte) bool {
	if r.mem == nil || addr == 0 {
		return false
	}
	n, err := r.mem.ReadMemory(addr, buf)
	return err == nil && n == len(buf)
}

// Bytes copies n bytes out of target memory.
func (r Reader) Bytes(addr uint64, n int) ([]byte, bool) {
	buf := make([]byte, n)
	if !r.Read(addr, buf) {
		return nil, false
	}
	return buf, true
}

func (r Reader) U8(addr uint64) (uint8, bool) {
	var buf [1]byte
	if !r.Read(addr, buf[:]) {
		return 0, false
	}
	return buf[0], true
}

func (r Reader) U16(addr uint64) (uint16, bool) {
	var buf [2]byte
	if !r.Read(addr, buf[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(buf[:]), true
}

func (r Reader) U32(addr uint64) (uint32, bool) {
	var buf [4]byte
	if !r.Read(addr, buf[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[:]), true
}

func (r Reader) I32(addr uint64) (int32, bool) {
	v, ok := r.U32(addr)
	return int32(v), ok
}

func (r Reader) U64(addr uint64) (uint64, bool) {
	var buf [8]byte
	if !r.Read(addr, buf[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[:]), true
}

func (r Reader) F32(addr uint64) (float32, bool) {
	v, ok := r.U32(addr)
	return math.Float32frombits(v), ok
}

// Ptr reads a pointer-sized value. A zero pointer is reported as absent.
func (r Reader) Ptr(addr uint64) (uint64, bool) {
	v, ok := r.U64(addr)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}
