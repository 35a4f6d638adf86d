package catalogue

// ResidentialTerritories lists the residential districts in land set row order.
var ResidentialTerritories = []uint32{339, 340, 341, 641}

// PlotsPerTerritory is the number of land sets in a row.
const PlotsPerTerritory = 60

// LandSize is the size class of a plot.
type LandSize uint8

const (
	LandSmall LandSize = iota
	LandMedium
	LandLarge
)

func (s LandSize) String() string {
	switch s {
	case LandSmall:
		return "small"
	case LandMedium:
		return "medium"
	case LandLarge:
		return "large"
	default:
		return "unknown"
	}
}

// LandSetRow is one land set as stored in the game data.
type LandSetRow struct {
	LandRange     uint32
	PlacardID     uint32
	UnknownRange1 uint32
	InitialPrice  uint32
	Size          uint8
}

func (r LandSetRow) common(plotIndex int) CommonLandSet {
	return CommonLandSet{
		PlotIndex:     plotIndex,
		PlacardID:     r.PlacardID,
		LandRange:     r.LandRange,
		UnknownRange1: r.UnknownRange1,
		InitialPrice:  r.InitialPrice,
		Size:          LandSize(r.Size),
	}
}

// CommonLandSet is a land set with its position in the ward.
type CommonLandSet struct {
	PlotIndex     int
	PlacardID     uint32
	LandRange     uint32
	UnknownRange1 uint32
	InitialPrice  uint32
	Size          LandSize
}

func (l CommonLandSet) SizeString() string {
	return l.Size.String()
}
