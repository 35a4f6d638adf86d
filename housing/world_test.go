package housing

import (
	"fmt"
	"testing"

	"housemem/catalogue"
	"housemem/internal/layout"
	"housemem/internal/memacc"
	"housemem/internal/sigscan"
)

// Synthetic address space laid out like the client's housing structures.
const (
	worldBase   = 0x100000
	worldSize   = 0x50000
	moduleSlot  = worldBase + 0x10
	layoutSlot  = worldBase + 0x18
	moduleAddr  = worldBase + 0x100
	worldAddr   = worldBase + 0x200
	layoutAddr  = worldBase + 0x300
	areaAddr    = worldBase + 0x400
	managerAddr = worldBase + 0x1000
	objectsAddr = worldBase + 0xB000
	objectPitch = 0x200
	ctrlAddr    = worldBase + 0x40000
)

type world struct {
	img *memacc.Image
	mem memacc.Reader
}

func newWorld(t *testing.T) *world {
	t.Helper()
	img := memacc.NewImage(worldBase, worldSize)
	w := &world{img: img, mem: memacc.NewReader(img.Accessor())}
	img.PutU64(moduleSlot, moduleAddr)
	img.PutU64(layoutSlot, worldAddr)
	img.PutU64(worldAddr+layout.WorldActiveLayout, layoutAddr)
	img.PutU64(layoutAddr+layout.LayoutHousingController, ctrlAddr)
	img.PutU64(layoutAddr+layout.LayoutIndoorAreaData, areaAddr)
	for i := 0; i < layout.HousesMax; i++ {
		img.PutI32(w.houseAddr(i)+layout.CustomizeSize, layout.NoPlot)
	}
	return w
}

func (w *world) bases() Bases {
	return Bases{HousingModule: moduleSlot, LayoutWorld: layoutSlot}
}

func (w *world) memory(lookup catalogue.Lookup) *Memory {
	return New(w.mem, w.bases(), lookup, nil)
}

func (w *world) setOutdoor() {
	w.img.PutU64(moduleAddr+layout.ModuleCurrentTerritory, managerAddr)
	w.img.PutU64(moduleAddr+layout.ModuleOutdoorTerritory, managerAddr)
}

func (w *world) setIndoor(gameFloor int32) {
	w.img.PutU64(moduleAddr+layout.ModuleCurrentTerritory, managerAddr)
	w.img.PutU64(moduleAddr+layout.ModuleIndoorTerritory, managerAddr)
	w.img.PutI32(managerAddr+layout.ManagerIndoorFloor, gameFloor)
}

func (w *world) setWorkshop() {
	w.img.PutU64(moduleAddr+layout.ModuleWorkshopTerritory, worldBase+0x800)
}

func (w *world) setTerritory(id uint32) {
	w.img.PutU32(layoutAddr+layout.LayoutTerritoryTypeID, id)
}

// addObject places an object in slot and returns its address.
func (w *world) addObject(slot int, rowID uint32, pos Vec3, color uint8) uint64 {
	addr := uint64(objectsAddr + slot*objectPitch)
	w.img.PutU64(managerAddr+layout.ManagerObjects+uint64(slot)*8, addr)
	w.img.PutBytes(addr+layout.ObjectName, []byte(fmt.Sprintf("obj%d\x00", slot)))
	w.img.PutU32(addr+layout.ObjectRowID, rowID)
	w.img.PutF32(addr+layout.ObjectX, pos.X)
	w.img.PutF32(addr+layout.ObjectY, pos.Y)
	w.img.PutF32(addr+layout.ObjectZ, pos.Z)
	w.img.PutU8(addr+layout.ObjectColor, color)
	return addr
}

func (w *world) setFloor(floor int, keys [layout.FloorPartsMax]int32) {
	for i, k := range keys {
		w.img.PutI32(areaAddr+layout.AreaFloors+uint64(floor)*layout.AreaFloorStride+uint64(i)*4, k)
	}
}

func (w *world) houseAddr(plot int) uint64 {
	return ctrlAddr + layout.ControllerHouses + uint64(plot)*layout.ControllerHouseStride
}

type part struct {
	category int32
	key      uint16
	color    uint8
}

func (w *world) setHouse(plot int, size int32, parts [layout.HousePartsMax]part) {
	h := w.houseAddr(plot)
	w.img.PutI32(h+layout.CustomizeSize, size)
	for i, p := range parts {
		pa := h + layout.CustomizeParts + uint64(i)*layout.CustomizePartStride
		w.img.PutI32(pa+layout.PartCategory, p.category)
		w.img.PutU16(pa+layout.PartFixtureKey, p.key)
		w.img.PutU8(pa+layout.PartColor, p.color)
	}
}

// standardHouse is an initialized house with category i and key 100+i per part.
func standardHouse() [layout.HousePartsMax]part {
	var parts [layout.HousePartsMax]part
	for i := range parts {
		parts[i] = part{category: int32(i), key: uint16(100 + i), color: uint8(i)}
	}
	return parts
}

func testLookup() *catalogue.Catalogue {
	b := catalogue.NewBuilder()
	for i := 0; i < layout.HousePartsMax; i++ {
		b.AddItem(catalogue.Item{ID: uint32(5000 + i), Name: fmt.Sprintf("Part %d", i),
			AdditionalData: uint32(100 + i), SearchCategory: catalogue.SearchExteriorFixture})
	}
	return b.
		AddItem(
			catalogue.Item{ID: 6001, Name: "Manor Exterior Set A", AdditionalData: 900, SearchCategory: catalogue.SearchExteriorFixture},
			catalogue.Item{ID: 6002, Name: "Manor Roof", AdditionalData: 500, SearchCategory: catalogue.SearchExteriorFixture},
			catalogue.Item{ID: 6003, Name: "Oak Interior Wall", AdditionalData: 40, SearchCategory: catalogue.SearchInteriorFixture},
			catalogue.Item{ID: 7001, Name: "Oak Table"},
			catalogue.Item{ID: 7002, Name: "Bench"},
			catalogue.Item{ID: 7003, Name: "apple crate"},
		).
		AddStain(
			catalogue.Stain{ID: 1, Name: "Snow White", Color: 0xFFE4DFD0},
			catalogue.Stain{ID: 3, Name: "Ash Grey", Color: 0xFFACA8A2},
		).
		AddFurniture(
			catalogue.Furniture{ID: 1, ItemID: 7001},
			catalogue.Furniture{ID: 2, ItemID: 7002},
		).
		AddYardObject(catalogue.YardObject{ID: 3, ItemID: 7003}).
		AddUnitedExterior(900, 500, 501).
		AddLandSets(339, []catalogue.LandSetRow{
			{PlacardID: 2000, Size: 0},
			{PlacardID: 2001, Size: 1},
			{PlacardID: 2002, Size: 2},
		}).
		Build()
}

type fakeScanner map[string]uint64

func (f fakeScanner) StaticAddress(pattern string, offset int) (uint64, error) {
	if addr, ok := f[pattern]; ok {
		return addr, nil
	}
	return 0, fmt.Errorf("%w: %s", sigscan.ErrPatternNotFound, pattern)
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}
