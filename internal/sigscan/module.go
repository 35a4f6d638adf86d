package sigscan

import (
	"debug/pe"
	"fmt"
	"io"

	"housemem/internal/memacc"
)

// Section is an address range of a loaded module.
type Section struct {
	Start uint64
	Size  uint64
}

func (s Section) End() uint64 { return s.Start + s.Size }

func (s Section) Contains(addr uint64) bool {
	return s.Size != 0 && addr >= s.Start && addr < s.End()
}

// Module describes a loaded image and the sections a scan needs.
type Module struct {
	Name  string
	Base  uint64
	Size  uint64
	Text  Section
	Data  Section
	RData Section
}

// moduleReaderAt exposes a module's memory image as an io.ReaderAt relative to its base.
type moduleReaderAt struct {
	mem  memacc.Reader
	base uint64
}

func (m moduleReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if !m.mem.Read(m.base+uint64(off), p) {
		return 0, io.ErrUnexpectedEOF
	}
	return len(p), nil
}

// LoadPEModule reads the PE headers of the image mapped at base and records its sections.
func LoadPEModule(mem memacc.Memory, name string, base uint64) (Module, error) {
	f, err := pe.NewFile(moduleReaderAt{mem: memacc.NewReader(mem), base: base})
	if err != nil {
		return Module{}, fmt.Errorf("read PE headers of %s at 0x%x: %w", name, base, err)
	}
	defer f.Close()

	mod := Module{Name: name, Base: base}
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		mod.Size = uint64(oh.SizeOfImage)
	case *pe.OptionalHeader32:
		mod.Size = uint64(oh.SizeOfImage)
	}

	for _, s := range f.Sections {
		sec := Section{Start: base + uint64(s.VirtualAddress), Size: uint64(s.VirtualSize)}
		switch s.Name {
		case ".text":
			mod.Text = sec
		case ".data":
			mod.Data = sec
		case ".rdata":
			mod.RData = sec
		}
	}
	if mod.Text.Size == 0 {
		return Module{}, fmt.Errorf("%s: no .text section", name)
	}
	return mod, nil
}
