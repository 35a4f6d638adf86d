// Package catalogue holds the static game data used to put names on decoded housing state:
// items, stains, furniture, yard objects, united exteriors and plot land sets.
package catalogue

import "fmt"

// Item search categories of housing fixtures.
const (
	SearchExteriorFixture = 65
	SearchInteriorFixture = 66
)

// Item is an item row. Fixture items carry their fixture key in AdditionalData.
type Item struct {
	ID             uint32
	Name           string
	AdditionalData uint32
	SearchCategory uint32
}

// IsFixture reports whether the item is a housing fixture addressed by its AdditionalData.
func (it Item) IsFixture() bool {
	return it.AdditionalData != 0 &&
		(it.SearchCategory == SearchExteriorFixture || it.SearchCategory == SearchInteriorFixture)
}

// Stain is a dye. Color is stored as 0xAARRGGBB.
type Stain struct {
	ID    uint32
	Name  string
	Color uint32
}

// RGBA splits Color into its channels.
func (s Stain) RGBA() (r, g, b, a uint8) {
	return uint8(s.Color >> 16), uint8(s.Color >> 8), uint8(s.Color), uint8(s.Color >> 24)
}

// Hex returns the color as #RRGGBB.
func (s Stain) Hex() string {
	r, g, b, _ := s.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Furniture is an indoor housing object row.
type Furniture struct {
	ID     uint32
	ItemID uint32
	Item   *Item
}

// YardObject is an outdoor housing object row.
type YardObject struct {
	ID     uint32
	ItemID uint32
	Item   *Item
}

// Lookup resolves catalogue records. A miss is reported with ok == false.
type Lookup interface {
	Item(fixtureKey uint32) (Item, bool)
	Stain(id uint32) (Stain, bool)
	Furniture(id uint32) (Furniture, bool)
	YardObject(id uint32) (YardObject, bool)
	UnitedExterior(partKey uint32) (Item, bool)
	LandSets(territoryID uint32) (map[uint32]CommonLandSet, bool)
}

// Catalogue is an immutable in-memory Lookup. Build one with a Builder or OpenSQLite.
type Catalogue struct {
	items      map[uint32]Item // by row id
	fixtures   map[uint32]Item // by AdditionalData
	stains     map[uint32]Stain
	furniture  map[uint32]Furniture
	yard       map[uint32]YardObject
	united     map[uint32]uint32 // part item id -> group id
	landSets   map[uint32]map[uint32]CommonLandSet
	unitedRows int
}

var _ Lookup = (*Catalogue)(nil)

// Item returns the fixture item with the given fixture key.
func (c *Catalogue) Item(fixtureKey uint32) (Item, bool) {
	it, ok := c.fixtures[fixtureKey]
	return it, ok
}

// ItemByID returns an item by row id, fixture or not.
func (c *Catalogue) ItemByID(id uint32) (Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

func (c *Catalogue) Stain(id uint32) (Stain, bool) {
	s, ok := c.stains[id]
	return s, ok
}

func (c *Catalogue) Furniture(id uint32) (Furniture, bool) {
	f, ok := c.furniture[id]
	if !ok {
		return Furniture{}, false
	}
	if it, ok := c.items[f.ItemID]; ok {
		f.Item = &it
	}
	return f, true
}

func (c *Catalogue) YardObject(id uint32) (YardObject, bool) {
	y, ok := c.yard[id]
	if !ok {
		return YardObject{}, false
	}
	if it, ok := c.items[y.ItemID]; ok {
		y.Item = &it
	}
	return y, true
}

// UnitedExterior maps a part key to the item of its united exterior group.
func (c *Catalogue) UnitedExterior(partKey uint32) (Item, bool) {
	group, ok := c.united[partKey]
	if !ok {
		return Item{}, false
	}
	return c.Item(group)
}

// LandSets returns the land sets of a residential territory, keyed by placard id.
func (c *Catalogue) LandSets(territoryID uint32) (map[uint32]CommonLandSet, bool) {
	m, ok := c.landSets[territoryID]
	return m, ok
}

// Stats is the number of records per table.
type Stats struct {
	Items, Fixtures, Stains, Furniture, YardObjects int
	UnitedParts, UnitedGroups, LandSetRows          int
}

func (c *Catalogue) Stats() Stats {
	return Stats{
		Items:        len(c.items),
		Fixtures:     len(c.fixtures),
		Stains:       len(c.stains),
		Furniture:    len(c.furniture),
		YardObjects:  len(c.yard),
		UnitedParts:  len(c.united),
		UnitedGroups: c.unitedRows,
		LandSetRows:  len(c.landSets),
	}
}

// --- Builder ---

// Builder assembles a Catalogue. It is not safe for concurrent use.
type Builder struct {
	c *Catalogue
}

func NewBuilder() *Builder {
	return &Builder{c: &Catalogue{
		items:     make(map[uint32]Item),
		fixtures:  make(map[uint32]Item),
		stains:    make(map[uint32]Stain),
		furniture: make(map[uint32]Furniture),
		yard:      make(map[uint32]YardObject),
		united:    make(map[uint32]uint32),
		landSets:  make(map[uint32]map[uint32]CommonLandSet),
	}}
}

func (b *Builder) AddItem(items ...Item) *Builder {
	for _, it := range items {
		b.c.items[it.ID] = it
		if it.IsFixture() {
			b.c.fixtures[it.AdditionalData] = it
		}
	}
	return b
}

func (b *Builder) AddStain(stains ...Stain) *Builder {
	for _, s := range stains {
		b.c.stains[s.ID] = s
	}
	return b
}

func (b *Builder) AddFurniture(furniture ...Furniture) *Builder {
	for _, f := range furniture {
		f.Item = nil
		b.c.furniture[f.ID] = f
	}
	return b
}

func (b *Builder) AddYardObject(objects ...YardObject) *Builder {
	for _, y := range objects {
		y.Item = nil
		b.c.yard[y.ID] = y
	}
	return b
}

// AddUnitedExterior registers the part items of united exterior group groupID.
// A part listed by several groups keeps the last one.
func (b *Builder) AddUnitedExterior(groupID uint32, partItemIDs ...uint32) *Builder {
	for _, id := range partItemIDs {
		b.c.united[id] = groupID
	}
	b.c.unitedRows++
	return b
}

// AddLandSets registers the land sets of one territory. PlotIndex is the position in row.
func (b *Builder) AddLandSets(territoryID uint32, row []LandSetRow) *Builder {
	m := make(map[uint32]CommonLandSet, len(row))
	for i, ls := range row {
		set := ls.common(i)
		m[set.PlacardID] = set
	}
	b.c.landSets[territoryID] = m
	return b
}

// Build returns the catalogue. The builder must not be used afterwards.
func (b *Builder) Build() *Catalogue {
	c := b.c
	b.c = nil
	return c
}
