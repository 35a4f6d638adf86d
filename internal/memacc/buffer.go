package memacc

import "fmt"

// BufferAccessor is a contiguous image of target memory, typically one region of a dump.
type BufferAccessor struct {
	BaseAccessor
	data []byte
}

// NewBufferAccessor creates an accessor for data mapped at addr.
func NewBufferAccessor(addr uint64, data []byte) *BufferAccessor {
	b := &BufferAccessor{}
	b.Init(addr, data)
	return b
}

// Init re-initializes the accessor with a new image.
func (b *BufferAccessor) Init(addr uint64, data []byte) {
	b.startAddr = addr
	b.endAddr = addr + uint64(len(data)) - 1
	if len(data) == 0 {
		// empty images map nothing
		b.endAddr = addr - 1
	}
	b.data = data
}

// Data returns the backing image.
func (b *BufferAccessor) Data() []byte { return b.data }

// ReadMemory implements Memory. Reads running past the end of the image are short.
func (b *BufferAccessor) ReadMemory(addr uint64, data []byte) (int, error) {
	if len(b.data) == 0 || !b.InRange(addr) {
		return 0, fmt.Errorf("%w: 0x%x not in [0x%x, 0x%x]", ErrOutOfRange, addr, b.startAddr, b.endAddr)
	}
	count := b.BytesInRange(addr, len(data))
	offset := addr - b.startAddr
	copy(data, b.data[offset:offset+uint64(count)])
	return count, nil
}

func (b *BufferAccessor) String() string {
	return rangeString("BuffAcc", b.startAddr, b.endAddr)
}
