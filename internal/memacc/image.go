package memacc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Image is a locally owned buffer laid out like a region of target memory.
// It is used to assemble dumps and synthetic address spaces; it never refers to the live target.
type Image struct {
	Base uint64
	Data []byte
}

// NewImage allocates a zeroed image of size bytes mapped at base.
func NewImage(base uint64, size int) *Image {
	return &Image{Base: base, Data: make([]byte, size)}
}

func (img *Image) slice(addr uint64, n int) []byte {
	if addr < img.Base || addr+uint64(n) > img.Base+uint64(len(img.Data)) {
		panic(fmt.Sprintf("memacc: write of %d bytes at 0x%x outside image [0x%x, 0x%x)",
			n, addr, img.Base, img.Base+uint64(len(img.Data))))
	}
	off := addr - img.Base
	return img.Data[off : off+uint64(n)]
}

func (img *Image) PutU8(addr uint64, v uint8)   { img.slice(addr, 1)[0] = v }
func (img *Image) PutU16(addr uint64, v uint16) { binary.LittleEndian.PutUint16(img.slice(addr, 2), v) }
func (img *Image) PutU32(addr uint64, v uint32) { binary.LittleEndian.PutUint32(img.slice(addr, 4), v) }
func (img *Image) PutI32(addr uint64, v int32)  { img.PutU32(addr, uint32(v)) }
func (img *Image) PutU64(addr uint64, v uint64) { binary.LittleEndian.PutUint64(img.slice(addr, 8), v) }
func (img *Image) PutF32(addr uint64, v float32) {
	img.PutU32(addr, math.Float32bits(v))
}
func (img *Image) PutBytes(addr uint64, b []byte) { copy(img.slice(addr, len(b)), b) }

// Accessor returns a buffer accessor over the image.
func (img *Image) Accessor() *BufferAccessor {
	return NewBufferAccessor(img.Base, img.Data)
}
