package memacc

import "fmt"

// Mapper holds non-overlapping accessors and dispatches reads to the one covering an address.
type Mapper struct {
	accessors []Accessor
	accCurr   Accessor
}

// NewMapper creates an empty mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// AddAccessor adds acc unless its range is invalid or overlaps an existing accessor.
func (m *Mapper) AddAccessor(acc Accessor) error {
	if acc.StartAddr() > acc.EndAddr() {
		return fmt.Errorf("%w: %s", ErrRangeInvalid, acc)
	}
	for _, existing := range m.accessors {
		if existing.StartAddr() <= acc.EndAddr() && acc.StartAddr() <= existing.EndAddr() {
			return fmt.Errorf("%w: %s conflicts with %s", ErrMemAccOverlap, acc, existing)
		}
	}
	m.accessors = append(m.accessors, acc)
	return nil
}

// RemoveAccessor removes a specific accessor.
func (m *Mapper) RemoveAccessor(acc Accessor) error {
	for i, a := range m.accessors {
		if a == acc {
			m.accessors = append(m.accessors[:i], m.accessors[i+1:]...)
			if m.accCurr == acc {
				m.accCurr = nil
			}
			return nil
		}
	}
	return fmt.Errorf("accessor not found: %s", acc)
}

// RemoveAllAccessors clears the mapper.
func (m *Mapper) RemoveAllAccessors() {
	m.accessors = nil
	m.accCurr = nil
}

// Accessors returns the registered accessors in insertion order.
func (m *Mapper) Accessors() []Accessor {
	return m.accessors
}

func (m *Mapper) findAccessor(addr uint64) bool {
	// Check current first, consecutive reads usually stay within one region
	if m.accCurr != nil && addr >= m.accCurr.StartAddr() && addr <= m.accCurr.EndAddr() {
		return true
	}
	for _, acc := range m.accessors {
		if addr >= acc.StartAddr() && addr <= acc.EndAddr() {
			m.accCurr = acc
			return true
		}
	}
	return false
}

// ReadMemory implements Memory. A read is served by a single accessor and may be short at its end.
func (m *Mapper) ReadMemory(addr uint64, data []byte) (int, error) {
	if !m.findAccessor(addr) {
		return 0, fmt.Errorf("%w: 0x%x", ErrAccessInvalid, addr)
	}
	return m.accCurr.ReadMemory(addr, data)
}
