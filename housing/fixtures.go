package housing

import (
	"housemem/catalogue"
	"housemem/internal/layout"
)

// CommonFixture is an interior or exterior fixture with its catalogue records.
// Stain and Item are nil when the catalogue has no matching record.
type CommonFixture struct {
	IsExterior  bool
	FixtureType int
	FixtureKey  int
	Stain       *catalogue.Stain
	Item        *catalogue.Item
	United      bool
}

// Descriptor names the fixture slot. A united fixture stands for the whole building and is named
// after its set.
func (f CommonFixture) Descriptor() string {
	if f.United {
		return f.ItemName()
	}
	if f.IsExterior {
		return layout.ExteriorPartsType(f.FixtureType).String()
	}
	return layout.InteriorPartsType(f.FixtureType).String()
}

// ItemName returns the item name or "".
func (f CommonFixture) ItemName() string {
	if f.Item == nil {
		return ""
	}
	return f.Item.Name
}

func (m *Memory) item(key uint32) *catalogue.Item {
	if it, ok := m.lookup.Item(key); ok {
		return &it
	}
	return nil
}

// stain returns the dye of a part. Color 0 is undyed.
func (m *Memory) stain(id uint8) *catalogue.Stain {
	if id == 0 {
		return nil
	}
	if s, ok := m.lookup.Stain(uint32(id)); ok {
		return &s
	}
	return nil
}

// InteriorFixtures returns the fixtures of floor, one per interior part. It returns nothing outdoors
// or when the interior is not loaded, and panics when floor is not a floor index.
func (m *Memory) InteriorFixtures(floor int) []CommonFixture {
	layout.CheckFloor(floor)
	if m.IsOutdoors() {
		return nil
	}
	l, ok := m.ActiveLayout()
	if !ok {
		return nil
	}
	area, ok := l.IndoorAreaData()
	if !ok {
		return nil
	}
	parts, ok := area.Floor(floor).Parts()
	if !ok {
		return nil
	}
	out := make([]CommonFixture, layout.FloorPartsMax)
	for i, key := range parts {
		it := m.item(uint32(key))
		if it == nil {
			if united, ok := m.lookup.UnitedExterior(uint32(key)); ok {
				it = &united
			}
		}
		out[i] = CommonFixture{FixtureType: i, FixtureKey: int(key), Item: it}
	}
	return out
}

// house returns plot when it holds an initialized house. It panics when plot is not a plot index.
func (m *Memory) house(plot int) (layout.HouseCustomize, bool) {
	layout.CheckHouse(plot)
	if m.IsIndoors() {
		return layout.HouseCustomize{}, false
	}
	ctrl, ok := m.HousingController()
	if !ok {
		return layout.HouseCustomize{}, false
	}
	h := ctrl.House(plot)
	if !h.Initialized() {
		return layout.HouseCustomize{}, false
	}
	return h, true
}

// ExteriorFixtures returns the fixtures of plot, one per exterior part. It returns nothing indoors,
// when the ward is not loaded or when the plot holds no initialized house.
func (m *Memory) ExteriorFixtures(plot int) []CommonFixture {
	h, ok := m.house(plot)
	if !ok {
		return nil
	}
	out := make([]CommonFixture, 0, layout.HousePartsMax)
	for i := 0; i < layout.HousePartsMax; i++ {
		p, ok := h.Part(i)
		if !ok {
			return nil
		}
		out = append(out, CommonFixture{
			IsExterior:  true,
			FixtureType: int(p.Category),
			FixtureKey:  int(p.FixtureKey),
			Stain:       m.stain(p.Color),
			Item:        m.item(uint32(p.FixtureKey)),
		})
	}
	return out
}

// UnitedExterior returns the whole-building fixture of plot when its roof belongs to a united
// exterior set.
func (m *Memory) UnitedExterior(plot int) (CommonFixture, bool) {
	h, ok := m.house(plot)
	if !ok {
		return CommonFixture{}, false
	}
	roof, ok := h.PartOf(layout.ExteriorRoof)
	if !ok || roof.FixtureKey == 0 {
		return CommonFixture{}, false
	}
	it, ok := m.lookup.UnitedExterior(uint32(roof.FixtureKey))
	if !ok {
		return CommonFixture{}, false
	}
	return CommonFixture{
		IsExterior:  true,
		FixtureType: int(layout.ExteriorRoof),
		FixtureKey:  int(roof.FixtureKey),
		Stain:       m.stain(roof.Color),
		Item:        &it,
		United:      true,
	}, true
}

// ExteriorSummary returns the united fixture of plot when there is one, else its part fixtures.
func (m *Memory) ExteriorSummary(plot int) []CommonFixture {
	if f, ok := m.UnitedExterior(plot); ok {
		return []CommonFixture{f}
	}
	return m.ExteriorFixtures(plot)
}
