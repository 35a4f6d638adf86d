// Package layout describes the housing structures of the target process as typed views over
// raw addresses. All offsets are empirical and live in this file; a layout change should only
// require editing these tables.
package layout

// Capacities of the fixed in-place arrays.
const (
	ObjectSlots   = 400 // HousingObjectManager object table
	FloorMax      = 4   // IndoorAreaData floors
	FloorPartsMax = 5   // IndoorFloorData parts
	HousesMax     = 60  // HousingController houses
	HousePartsMax = 8   // HouseCustomize parts
)

// HousingModule
const (
	ModuleCurrentTerritory  = 0x00
	ModuleOutdoorTerritory  = 0x08
	ModuleIndoorTerritory   = 0x10
	ModuleWorkshopTerritory = 0x18
)

// HousingObjectManager
const (
	ManagerObjects     = 0x8980
	ManagerIndoorFloor = 0x9704
)

// HousingGameObject
const (
	ObjectName     = 0x030
	ObjectNameLen  = 64
	ObjectRowID    = 0x080
	ObjectX        = 0x0B0
	ObjectY        = 0x0B4
	ObjectZ        = 0x0B8
	ObjectRotation = 0x0B0 // same offset as X in the known layout
	ObjectRowID2   = 0x1A8
	ObjectColor    = 0x1B0
	ObjectSize     = 0x1D0
)

// LayoutWorld
const (
	WorldActiveLayout = 0x20
)

// LayoutManager
const (
	LayoutTerritoryTypeID   = 0x20
	LayoutHousingController = 0x80
	LayoutIndoorAreaData    = 0x90
)

// IndoorAreaData
const (
	AreaFloors      = 0x28
	AreaFloorStride = 0x14
	AreaLightLevel  = 0x80
)

// IndoorFloorData
const (
	FloorPartStride = 4
)

// HousingController
const (
	ControllerAreaType    = 0x08
	ControllerHouses      = 0x1F0
	ControllerHouseStride = 464 // the enclosing record, the customize data itself is 352 bytes
)

// HouseCustomize
const (
	CustomizeSize       = 0x10
	CustomizeParts      = 0x20
	CustomizePartStride = HousePartSize
)

// HousePart
const (
	PartCategory   = 0x00
	PartUnknown1   = 0x04
	PartFixtureKey = 0x08
	PartColor      = 0x0A
	PartPadding    = 0x0B
	PartUnknown2   = 0x0C
	PartUnknown3   = 0x10
	HousePartSize  = 40
)

// Sentinels stored by the target.
const (
	NoPlot          = -1 // HouseCustomize size of an empty plot
	NoCategory      = -1 // HousePart category of an uninitialized house
	GameFloorGround = 0
	GameFloorUpper  = 1
	GameFloorBase   = 10
)

// child offsets addr, keeping a null base null so that nested views stay absent.
func child(addr uint64, off uint64) uint64 {
	if addr == 0 {
		return 0
	}
	return addr + off
}
