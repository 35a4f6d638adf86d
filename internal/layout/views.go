package layout

import (
	"fmt"

	"housemem/internal/memacc"
)

func checkIndex(what string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("layout: %s index %d out of range [0, %d)", what, i, n))
	}
}

// CheckFloor panics when i is not a floor index.
func CheckFloor(i int) { checkIndex("floor", i, FloorMax) }

// CheckHouse panics when i is not a plot index.
func CheckHouse(i int) { checkIndex("house", i, HousesMax) }

// --- HousingModule ---

// HousingModule is the root of the housing state. It holds the territory managers of the zone the
// player is in; at most one is expected to be non-null, but each is checked on its own.
type HousingModule struct {
	mem  memacc.Reader
	addr uint64
}

func NewHousingModule(mem memacc.Reader, addr uint64) HousingModule {
	return HousingModule{mem: mem, addr: addr}
}

func (m HousingModule) Addr() uint64 { return m.addr }

func (m HousingModule) manager(off uint64) (HousingObjectManager, bool) {
	p, ok := m.mem.Ptr(child(m.addr, off))
	if !ok {
		return HousingObjectManager{}, false
	}
	return NewHousingObjectManager(m.mem, p), true
}

func (m HousingModule) CurrentTerritory() (HousingObjectManager, bool) {
	return m.manager(ModuleCurrentTerritory)
}

func (m HousingModule) OutdoorTerritory() (HousingObjectManager, bool) {
	return m.manager(ModuleOutdoorTerritory)
}

func (m HousingModule) IndoorTerritory() (HousingObjectManager, bool) {
	return m.manager(ModuleIndoorTerritory)
}

// WorkshopTerritory returns the raw workshop pointer; its structure is not decoded.
func (m HousingModule) WorkshopTerritory() (uint64, bool) {
	return m.mem.Ptr(child(m.addr, ModuleWorkshopTerritory))
}

func (m HousingModule) IsOutdoors() bool {
	_, ok := m.OutdoorTerritory()
	return ok
}

func (m HousingModule) IsIndoors() bool {
	_, ok := m.IndoorTerritory()
	return ok
}

func (m HousingModule) IsWorkshop() bool {
	_, ok := m.WorkshopTerritory()
	return ok
}

// CurrentManager returns the outdoor manager when present, else the indoor one.
func (m HousingModule) CurrentManager() (HousingObjectManager, bool) {
	if mgr, ok := m.OutdoorTerritory(); ok {
		return mgr, true
	}
	return m.IndoorTerritory()
}

// CurrentFloor returns the floor the player stands on, or FloorNone.
func (m HousingModule) CurrentFloor() InteriorFloor {
	mgr, ok := m.CurrentManager()
	if !ok || m.IsOutdoors() {
		return FloorNone
	}
	f, ok := mgr.IndoorFloor()
	if !ok {
		return FloorNone
	}
	return floorFromGame(f)
}

// --- HousingObjectManager ---

// HousingObjectManager owns the table of placed housing objects.
type HousingObjectManager struct {
	mem  memacc.Reader
	addr uint64
}

func NewHousingObjectManager(mem memacc.Reader, addr uint64) HousingObjectManager {
	return HousingObjectManager{mem: mem, addr: addr}
}

func (m HousingObjectManager) Addr() uint64 { return m.addr }

// SlotAddr returns the address of object slot i.
func (m HousingObjectManager) SlotAddr(i int) uint64 {
	checkIndex("object slot", i, ObjectSlots)
	return child(m.addr, ManagerObjects+uint64(i)*memacc.PointerSize)
}

// Slot returns the object pointer in slot i; zero for an empty or unreadable slot.
func (m HousingObjectManager) Slot(i int) uint64 {
	p, _ := m.mem.Ptr(m.SlotAddr(i))
	return p
}

// Slots reads the whole slot table in one access.
func (m HousingObjectManager) Slots() ([ObjectSlots]uint64, bool) {
	var slots [ObjectSlots]uint64
	buf, ok := m.mem.Bytes(child(m.addr, ManagerObjects), ObjectSlots*memacc.PointerSize)
	if !ok {
		return slots, false
	}
	for i := range slots {
		slots[i] = leU64(buf[i*memacc.PointerSize:])
	}
	return slots, true
}

// Object decodes the object referenced by slot i.
func (m HousingObjectManager) Object(i int) (HousingGameObject, bool) {
	p := m.Slot(i)
	if p == 0 {
		return HousingGameObject{}, false
	}
	return NewGameObject(m.mem, p).Read()
}

// IndoorFloor returns the game's floor number for the player.
func (m HousingObjectManager) IndoorFloor() (int32, bool) {
	return m.mem.I32(child(m.addr, ManagerIndoorFloor))
}

// --- GameObject ---

// GameObject is a view over one placed housing object.
type GameObject struct {
	mem  memacc.Reader
	addr uint64
}

func NewGameObject(mem memacc.Reader, addr uint64) GameObject {
	return GameObject{mem: mem, addr: addr}
}

func (o GameObject) Addr() uint64 { return o.addr }

func (o GameObject) RowID() (uint32, bool) {
	return o.mem.U32(child(o.addr, ObjectRowID))
}

func (o GameObject) Color() (uint8, bool) {
	return o.mem.U8(child(o.addr, ObjectColor))
}

// Read copies the whole object out of target memory.
func (o GameObject) Read() (HousingGameObject, bool) {
	buf, ok := o.mem.Bytes(o.addr, ObjectSize)
	if !ok {
		return HousingGameObject{}, false
	}
	return DecodeHousingGameObject(o.addr, buf), true
}

// --- LayoutWorld / LayoutManager ---

// LayoutWorld is the root of the active territory layout.
type LayoutWorld struct {
	mem  memacc.Reader
	addr uint64
}

func NewLayoutWorld(mem memacc.Reader, addr uint64) LayoutWorld {
	return LayoutWorld{mem: mem, addr: addr}
}

func (w LayoutWorld) Addr() uint64 { return w.addr }

func (w LayoutWorld) ActiveLayout() (LayoutManager, bool) {
	p, ok := w.mem.Ptr(child(w.addr, WorldActiveLayout))
	if !ok {
		return LayoutManager{}, false
	}
	return LayoutManager{mem: w.mem, addr: p}, true
}

// LayoutManager describes the loaded territory.
type LayoutManager struct {
	mem  memacc.Reader
	addr uint64
}

func NewLayoutManager(mem memacc.Reader, addr uint64) LayoutManager {
	return LayoutManager{mem: mem, addr: addr}
}

func (l LayoutManager) Addr() uint64 { return l.addr }

func (l LayoutManager) TerritoryTypeID() (uint32, bool) {
	return l.mem.U32(child(l.addr, LayoutTerritoryTypeID))
}

func (l LayoutManager) HousingController() (HousingController, bool) {
	p, ok := l.mem.Ptr(child(l.addr, LayoutHousingController))
	if !ok {
		return HousingController{}, false
	}
	return HousingController{mem: l.mem, addr: p}, true
}

func (l LayoutManager) IndoorAreaData() (IndoorAreaData, bool) {
	p, ok := l.mem.Ptr(child(l.addr, LayoutIndoorAreaData))
	if !ok {
		return IndoorAreaData{}, false
	}
	return IndoorAreaData{mem: l.mem, addr: p}, true
}

// --- IndoorAreaData / IndoorFloorData ---

// IndoorAreaData holds the interior fixtures of every floor.
type IndoorAreaData struct {
	mem  memacc.Reader
	addr uint64
}

func NewIndoorAreaData(mem memacc.Reader, addr uint64) IndoorAreaData {
	return IndoorAreaData{mem: mem, addr: addr}
}

func (a IndoorAreaData) Addr() uint64 { return a.addr }

// Floor returns floor i, stored in place.
func (a IndoorAreaData) Floor(i int) IndoorFloorData {
	checkIndex("floor", i, FloorMax)
	return IndoorFloorData{mem: a.mem, addr: child(a.addr, AreaFloors+uint64(i)*AreaFloorStride)}
}

func (a IndoorAreaData) FloorOf(f InteriorFloor) IndoorFloorData {
	return a.Floor(int(f))
}

func (a IndoorAreaData) LightLevel() (float32, bool) {
	return a.mem.F32(child(a.addr, AreaLightLevel))
}

// IndoorFloorData is the row of fixture keys of one floor.
type IndoorFloorData struct {
	mem  memacc.Reader
	addr uint64
}

func (f IndoorFloorData) Addr() uint64 { return f.addr }

// Part returns the fixture key of part i.
func (f IndoorFloorData) Part(i int) (int32, bool) {
	checkIndex("floor part", i, FloorPartsMax)
	return f.mem.I32(child(f.addr, uint64(i)*FloorPartStride))
}

func (f IndoorFloorData) PartOf(t InteriorPartsType) (int32, bool) {
	return f.Part(int(t))
}

// Parts reads every fixture key of the floor in one access.
func (f IndoorFloorData) Parts() ([FloorPartsMax]int32, bool) {
	var parts [FloorPartsMax]int32
	buf, ok := f.mem.Bytes(f.addr, FloorPartsMax*FloorPartStride)
	if !ok {
		return parts, false
	}
	for i := range parts {
		parts[i] = int32(leU32(buf[i*FloorPartStride:]))
	}
	return parts, true
}

// --- HousingController / HouseCustomize ---

// HousingController holds the exterior customization of every plot of a ward.
type HousingController struct {
	mem  memacc.Reader
	addr uint64
}

func NewHousingController(mem memacc.Reader, addr uint64) HousingController {
	return HousingController{mem: mem, addr: addr}
}

func (c HousingController) Addr() uint64 { return c.addr }

func (c HousingController) AreaType() (uint32, bool) {
	return c.mem.U32(child(c.addr, ControllerAreaType))
}

// House returns plot i, stored in place.
func (c HousingController) House(i int) HouseCustomize {
	checkIndex("house", i, HousesMax)
	return HouseCustomize{mem: c.mem, addr: child(c.addr, ControllerHouses+uint64(i)*ControllerHouseStride)}
}

// HouseCustomize is the exterior of one plot.
type HouseCustomize struct {
	mem  memacc.Reader
	addr uint64
}

func (h HouseCustomize) Addr() uint64 { return h.addr }

// Size returns the house size, NoPlot when the plot has no house.
func (h HouseCustomize) Size() (int32, bool) {
	return h.mem.I32(child(h.addr, CustomizeSize))
}

// Exists reports whether the plot holds a house.
func (h HouseCustomize) Exists() bool {
	s, ok := h.Size()
	return ok && s != NoPlot
}

// Part decodes exterior part i.
func (h HouseCustomize) Part(i int) (HousePart, bool) {
	checkIndex("house part", i, HousePartsMax)
	buf, ok := h.mem.Bytes(child(h.addr, CustomizeParts+uint64(i)*CustomizePartStride), HousePartSize)
	if !ok {
		return HousePart{}, false
	}
	return DecodeHousePart(buf), true
}

func (h HouseCustomize) PartOf(t ExteriorPartsType) (HousePart, bool) {
	return h.Part(int(t))
}

// Initialized reports whether the house exists and its parts were filled in.
func (h HouseCustomize) Initialized() bool {
	if !h.Exists() {
		return false
	}
	p, ok := h.Part(0)
	return ok && p.Category != NoCategory
}
