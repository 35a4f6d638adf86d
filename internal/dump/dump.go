// Package dump stores captured target memory in a directory so that it can be decoded offline.
//
// A dump directory holds a dump.ini describing the captured module and one binary file per
// captured region:
//
//	[dump]
//	version=1.0
//	description=...
//	[module]
//	name=ffxiv_dx11.exe
//	base=0x140000000
//	text=0x140001000,0x1000
//	[region.NAME]
//	address=0x...
//	file=NAME.bin
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"housemem/internal/memacc"
	"housemem/internal/sigscan"
)

var (
	ErrNoDump      = errors.New("dump not found")
	ErrBadVersion  = errors.New("unsupported dump version")
	ErrNoRegions   = errors.New("dump has no regions")
	ErrBadValue    = errors.New("bad dump value")
	ErrRegionEmpty = errors.New("dump region is empty")
)

// Region is a captured range of target memory.
type Region struct {
	Name    string
	Address uint64
	Data    []byte
}

func (r Region) End() uint64 { return r.Address + uint64(len(r.Data)) }

// Dump is a captured address space.
type Dump struct {
	Description string
	Module      sigscan.Module
	Regions     []Region
}

// Mapper maps every region into a memory that can be decoded like the live target.
func (d *Dump) Mapper() (*memacc.Mapper, error) {
	m := memacc.NewMapper()
	for _, r := range d.Regions {
		if len(r.Data) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRegionEmpty, r.Name)
		}
		if err := m.AddAccessor(memacc.NewBufferAccessor(r.Address, r.Data)); err != nil {
			return nil, fmt.Errorf("map region %s: %w", r.Name, err)
		}
	}
	return m, nil
}

// Load reads the dump in dir.
func Load(dir string) (*Dump, error) {
	iniPath := filepath.Join(dir, IniFilename)
	f, err := os.Open(iniPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDump, iniPath)
		}
		return nil, err
	}
	defer f.Close()
	ini, err := ParseIni(f)
	if err != nil {
		return nil, err
	}

	d := &Dump{}
	sec := ini.GetSection(DumpSectionName)
	if v := sec[VersionKey]; v != Version {
		return nil, fmt.Errorf("%w: %q", ErrBadVersion, v)
	}
	d.Description = sec[DescriptionKey]

	if d.Module, err = parseModule(ini.GetSection(ModuleSectionName)); err != nil {
		return nil, err
	}

	var names []string
	for name := range ini.Sections {
		if strings.HasPrefix(name, RegionSectionPrefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoRegions
	}
	sort.Strings(names)
	for _, name := range names {
		sec := ini.Sections[name]
		addr, err := parseUint(sec[RegionAddressKey])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, RegionAddressKey, err)
		}
		file := sec[RegionFileKey]
		if file == "" {
			return nil, fmt.Errorf("%w: %s has no file", ErrBadValue, name)
		}
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		d.Regions = append(d.Regions, Region{
			Name:    strings.TrimPrefix(name, RegionSectionPrefix),
			Address: addr,
			Data:    data,
		})
	}
	return d, nil
}

func parseModule(sec map[string]string) (sigscan.Module, error) {
	var mod sigscan.Module
	if sec == nil {
		return mod, nil
	}
	mod.Name = sec[ModuleNameKey]
	var err error
	if v, ok := sec[ModuleBaseKey]; ok {
		if mod.Base, err = parseUint(v); err != nil {
			return mod, fmt.Errorf("module.base: %w", err)
		}
	}
	if v, ok := sec[ModuleSizeKey]; ok {
		if mod.Size, err = parseUint(v); err != nil {
			return mod, fmt.Errorf("module.size: %w", err)
		}
	}
	for key, dst := range map[string]*sigscan.Section{
		ModuleTextKey:  &mod.Text,
		ModuleDataKey:  &mod.Data,
		ModuleRDataKey: &mod.RData,
	} {
		v, ok := sec[key]
		if !ok {
			continue
		}
		if *dst, err = parseSection(v); err != nil {
			return mod, fmt.Errorf("module.%s: %w", key, err)
		}
	}
	return mod, nil
}

func parseSection(s string) (sigscan.Section, error) {
	start, size, ok := strings.Cut(s, ",")
	if !ok {
		return sigscan.Section{}, fmt.Errorf("%w: %q is not start,size", ErrBadValue, s)
	}
	a, err := parseUint(strings.TrimSpace(start))
	if err != nil {
		return sigscan.Section{}, err
	}
	n, err := parseUint(strings.TrimSpace(size))
	if err != nil {
		return sigscan.Section{}, err
	}
	return sigscan.Section{Start: a, Size: n}, nil
}

func parseUint(s string) (uint64, error) {
	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadValue, s)
	}
	return v, nil
}

func hex(v uint64) string { return "0x" + strconv.FormatUint(v, 16) }

// Write stores d in dir, creating it when needed.
func Write(dir string, d *Dump) error {
	if len(d.Regions) == 0 {
		return ErrNoRegions
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}
	ini := NewIniFile()
	ini.Set(DumpSectionName, VersionKey, Version)
	if d.Description != "" {
		ini.Set(DumpSectionName, DescriptionKey, d.Description)
	}
	mod := d.Module
	if mod.Name != "" || mod.Base != 0 {
		ini.Set(ModuleSectionName, ModuleNameKey, mod.Name)
		ini.Set(ModuleSectionName, ModuleBaseKey, hex(mod.Base))
		ini.Set(ModuleSectionName, ModuleSizeKey, hex(mod.Size))
		for key, s := range map[string]sigscan.Section{ModuleTextKey: mod.Text, ModuleDataKey: mod.Data, ModuleRDataKey: mod.RData} {
			if s.Size != 0 {
				ini.Set(ModuleSectionName, key, hex(s.Start)+","+hex(s.Size))
			}
		}
	}
	for _, r := range d.Regions {
		if len(r.Data) == 0 {
			return fmt.Errorf("%w: %s", ErrRegionEmpty, r.Name)
		}
		file := r.Name + ".bin"
		if err := os.WriteFile(filepath.Join(dir, file), r.Data, 0o640); err != nil {
			return fmt.Errorf("write region %s: %w", r.Name, err)
		}
		sec := RegionSectionPrefix + r.Name
		ini.Set(sec, RegionAddressKey, hex(r.Address))
		ini.Set(sec, RegionFileKey, file)
	}

	var buf bytes.Buffer
	if err := ini.WriteTo(&buf, DumpSectionName, ModuleSectionName); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, IniFilename), buf.Bytes(), 0o640)
}
