// Package helpers builds synthetic client address spaces for end to end tests.
package helpers

import (
	"fmt"

	"housemem/internal/layout"
	"housemem/internal/memacc"
)

// Synthetic module. The two root slots live in .data and are referenced from .text by the
// instructions the default signatures match.
const (
	ModuleName = "ffxiv_dx11.exe"
	ModuleBase = 0x140000000
	ModuleSize = 0x4000

	TextStart  = ModuleBase + 0x1000
	RDataStart = ModuleBase + 0x2400
	DataStart  = ModuleBase + 0x3000

	HousingModuleSlot = DataStart + 0x40
	LayoutWorldSlot   = DataStart + 0x48
)

// Synthetic heap.
const (
	HeapBase = 0x20000000
	HeapSize = 0x50000

	HousingModuleAddr = HeapBase + 0x100
	LayoutWorldAddr   = HeapBase + 0x200
	LayoutAddr        = HeapBase + 0x300
	AreaAddr          = HeapBase + 0x400
	ManagerAddr       = HeapBase + 0x1000
	ObjectsAddr       = HeapBase + 0xB000
	ObjectPitch       = 0x200
	ControllerAddr    = HeapBase + 0x40000
)

// Client is a synthetic game client: a PE module and a heap holding the housing structures.
type Client struct {
	Module *memacc.Image
	Heap   *memacc.Image
}

// NewClient returns a client whose housing module and layout are wired but empty: no zone is
// entered and every plot is vacant.
func NewClient() *Client {
	c := &Client{Module: buildModule(), Heap: memacc.NewImage(HeapBase, HeapSize)}
	c.Module.PutU64(HousingModuleSlot, HousingModuleAddr)
	c.Module.PutU64(LayoutWorldSlot, LayoutWorldAddr)
	c.Heap.PutU64(LayoutWorldAddr+layout.WorldActiveLayout, LayoutAddr)
	c.Heap.PutU64(LayoutAddr+layout.LayoutHousingController, ControllerAddr)
	c.Heap.PutU64(LayoutAddr+layout.LayoutIndoorAreaData, AreaAddr)
	for i := 0; i < layout.HousesMax; i++ {
		c.Heap.PutI32(HouseAddr(i)+layout.CustomizeSize, layout.NoPlot)
	}
	return c
}

func buildModule() *memacc.Image {
	img := memacc.NewImage(ModuleBase, ModuleSize)
	img.PutBytes(ModuleBase, []byte("MZ"))
	img.PutU32(ModuleBase+0x3C, 0x80)
	img.PutBytes(ModuleBase+0x80, []byte("PE\x00\x00"))

	fh := uint64(ModuleBase + 0x84)
	img.PutU16(fh, 0x8664)  // Machine
	img.PutU16(fh+2, 3)     // NumberOfSections
	img.PutU16(fh+16, 112)  // SizeOfOptionalHeader
	img.PutU16(fh+18, 0x22) // Characteristics

	oh := uint64(ModuleBase + 0x98)
	img.PutU16(oh, 0x20B)         // PE32+
	img.PutU32(oh+56, ModuleSize) // SizeOfImage

	sections := []struct {
		name string
		va   uint32
		size uint32
	}{
		{".text", 0x1000, 0x1000},
		{".rdata", 0x2400, 0xC00},
		{".data", 0x3000, 0x800},
	}
	sh := uint64(ModuleBase + 0x108)
	for i, s := range sections {
		hdr := sh + uint64(i)*40
		img.PutBytes(hdr, []byte(s.name))
		img.PutU32(hdr+8, s.size)
		img.PutU32(hdr+12, s.va)
		img.PutU32(hdr+16, s.size)
		img.PutU32(hdr+20, s.va)
	}

	putRIPLoad(img, TextStart+0x100, 0x05, HousingModuleSlot, 0x8B, 0x52)
	putRIPLoad(img, TextStart+0x200, 0x0D, LayoutWorldSlot, 0x85, 0xC0, 0x74, 0x15)
	return img
}

// putRIPLoad writes "48 8B <modrm> disp32" at addr referring to target, followed by tail.
func putRIPLoad(img *memacc.Image, addr uint64, modrm byte, target uint64, tail ...byte) {
	img.PutBytes(addr, []byte{0x48, 0x8B, modrm})
	img.PutU32(addr+3, uint32(int32(int64(target)-int64(addr+7))))
	img.PutBytes(addr+7, tail)
}

// Mapper maps the module and heap.
func (c *Client) Mapper() *memacc.Mapper {
	m := memacc.NewMapper()
	if err := m.AddAccessor(c.Module.Accessor()); err != nil {
		panic(err)
	}
	if err := m.AddAccessor(c.Heap.Accessor()); err != nil {
		panic(err)
	}
	return m
}

func (c *Client) SetOutdoor() {
	c.Heap.PutU64(HousingModuleAddr+layout.ModuleCurrentTerritory, ManagerAddr)
	c.Heap.PutU64(HousingModuleAddr+layout.ModuleOutdoorTerritory, ManagerAddr)
}

func (c *Client) SetIndoor(gameFloor int32) {
	c.Heap.PutU64(HousingModuleAddr+layout.ModuleCurrentTerritory, ManagerAddr)
	c.Heap.PutU64(HousingModuleAddr+layout.ModuleIndoorTerritory, ManagerAddr)
	c.Heap.PutI32(ManagerAddr+layout.ManagerIndoorFloor, gameFloor)
}

func (c *Client) SetTerritory(id uint32) {
	c.Heap.PutU32(LayoutAddr+layout.LayoutTerritoryTypeID, id)
}

func (c *Client) SetLightLevel(v float32) {
	c.Heap.PutF32(AreaAddr+layout.AreaLightLevel, v)
}

// AddObject places an object in slot and returns its address.
func (c *Client) AddObject(slot int, rowID uint32, x, y, z float32, color uint8) uint64 {
	addr := uint64(ObjectsAddr + slot*ObjectPitch)
	c.Heap.PutU64(ManagerAddr+layout.ManagerObjects+uint64(slot)*8, addr)
	c.Heap.PutBytes(addr+layout.ObjectName, []byte(fmt.Sprintf("obj%d\x00", slot)))
	c.Heap.PutU32(addr+layout.ObjectRowID, rowID)
	c.Heap.PutF32(addr+layout.ObjectX, x)
	c.Heap.PutF32(addr+layout.ObjectY, y)
	c.Heap.PutF32(addr+layout.ObjectZ, z)
	c.Heap.PutU8(addr+layout.ObjectColor, color)
	return addr
}

// SetFloor stores the interior fixture keys of floor.
func (c *Client) SetFloor(floor int, keys [layout.FloorPartsMax]int32) {
	for i, k := range keys {
		c.Heap.PutI32(AreaAddr+layout.AreaFloors+uint64(floor)*layout.AreaFloorStride+uint64(i)*layout.FloorPartStride, k)
	}
}

func HouseAddr(plot int) uint64 {
	return ControllerAddr + layout.ControllerHouses + uint64(plot)*layout.ControllerHouseStride
}

// Part is an exterior part to store.
type Part struct {
	Category int32
	Key      uint16
	Color    uint8
}

func (c *Client) SetHouse(plot int, size int32, parts [layout.HousePartsMax]Part) {
	h := HouseAddr(plot)
	c.Heap.PutI32(h+layout.CustomizeSize, size)
	for i, p := range parts {
		pa := h + layout.CustomizeParts + uint64(i)*layout.CustomizePartStride
		c.Heap.PutI32(pa+layout.PartCategory, p.Category)
		c.Heap.PutU16(pa+layout.PartFixtureKey, p.Key)
		c.Heap.PutU8(pa+layout.PartColor, p.Color)
	}
}
