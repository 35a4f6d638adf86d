package sigscan

import (
	"encoding/binary"
	"fmt"

	"housemem/internal/memacc"
)

// Scanner searches the code section of one module.
// The section is copied once at construction; every scan works on that copy.
type Scanner struct {
	module Module
	text   []byte
}

// NewScanner copies the module's .text section out of mem.
func NewScanner(mem memacc.Memory, module Module) (*Scanner, error) {
	if module.Text.Size == 0 {
		return nil, fmt.Errorf("module %s has no code section", module.Name)
	}
	text, ok := memacc.NewReader(mem).Bytes(module.Text.Start, int(module.Text.Size))
	if !ok {
		return nil, fmt.Errorf("read code section of %s at 0x%x (+0x%x)", module.Name, module.Text.Start, module.Text.Size)
	}
	return &Scanner{module: module, text: text}, nil
}

// Module returns the module being scanned.
func (s *Scanner) Module() Module { return s.module }

// ScanText returns the address of the first match of pattern in the code section.
func (s *Scanner) ScanText(pattern string) (uint64, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return 0, err
	}
	idx := p.Index(s.text)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s in %s", ErrPatternNotFound, p, s.module.Name)
	}
	return s.module.Text.Start + uint64(idx), nil
}

// StaticAddress resolves the global a matched instruction refers to.
//
// Starting at match+offset, it steps forward one byte at a time and decodes a 32-bit RIP-relative
// displacement until the target lands in .data or .rdata.
func (s *Scanner) StaticAddress(pattern string, offset int) (uint64, error) {
	match, err := s.ScanText(pattern)
	if err != nil {
		return 0, err
	}
	instr := int64(match-s.module.Text.Start) + int64(offset)
	for {
		instr++
		if instr < 0 || instr+4 > int64(len(s.text)) {
			return 0, fmt.Errorf("%w: no data reference after %s", ErrPatternNotFound, pattern)
		}
		disp := int32(binary.LittleEndian.Uint32(s.text[instr:]))
		target := uint64(int64(s.module.Text.Start) + instr + 4 + int64(disp))
		if s.module.Data.Contains(target) || s.module.RData.Contains(target) {
			return target, nil
		}
	}
}
