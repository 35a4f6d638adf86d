package layout

// ExteriorPartsType indexes the parts of a HouseCustomize.
type ExteriorPartsType int

const (
	ExteriorNone ExteriorPartsType = iota - 1
	ExteriorRoof
	ExteriorWalls
	ExteriorWindows
	ExteriorDoor
	ExteriorRoofOpt
	ExteriorWallOpt
	ExteriorSignOpt
	ExteriorFence
)

func (t ExteriorPartsType) String() string {
	switch t {
	case ExteriorRoof:
		return "Roof"
	case ExteriorWalls:
		return "Walls"
	case ExteriorWindows:
		return "Windows"
	case ExteriorDoor:
		return "Door"
	case ExteriorRoofOpt:
		return "Roof (opt)"
	case ExteriorWallOpt:
		return "Wall (opt)"
	case ExteriorSignOpt:
		return "Signboard (opt)"
	case ExteriorFence:
		return "Fence"
	default:
		return "Unknown"
	}
}

// InteriorPartsType indexes the parts of an IndoorFloorData.
type InteriorPartsType int

const (
	InteriorNone InteriorPartsType = iota - 1
	InteriorWalls
	InteriorWindows
	InteriorDoor
	InteriorFloorPart
	InteriorLight
)

func (t InteriorPartsType) String() string {
	switch t {
	case InteriorWalls:
		return "Walls"
	case InteriorWindows:
		return "Windows"
	case InteriorDoor:
		return "Door"
	case InteriorFloorPart:
		return "Floor"
	case InteriorLight:
		return "Light"
	default:
		return "Unknown"
	}
}

// InteriorFloor indexes the floors of an IndoorAreaData.
type InteriorFloor int

const (
	FloorNone InteriorFloor = iota - 1
	FloorGround
	FloorUpstairs
	FloorBasement
	FloorExternal
)

func (f InteriorFloor) String() string {
	switch f {
	case FloorGround:
		return "Ground Floor"
	case FloorBasement:
		return "Basement Floor"
	case FloorUpstairs:
		return "2nd Floor"
	case FloorExternal:
		return "Main"
	default:
		return "Unknown"
	}
}

// floorFromGame remaps the floor number the game stores to InteriorFloor.
func floorFromGame(gameFloor int32) InteriorFloor {
	switch gameFloor {
	case GameFloorGround:
		return FloorGround
	case GameFloorUpper:
		return FloorUpstairs
	case GameFloorBase:
		return FloorBasement
	default:
		return FloorNone
	}
}

// ZoneKind is the kind of housing zone the player is in.
type ZoneKind int

const (
	ZoneUnknown ZoneKind = iota
	ZoneOutdoors
	ZoneIndoors
	ZoneWorkshop
)

func (z ZoneKind) String() string {
	switch z {
	case ZoneOutdoors:
		return "Outdoors"
	case ZoneIndoors:
		return "Indoors"
	case ZoneWorkshop:
		return "Workshop"
	default:
		return "Unknown"
	}
}
