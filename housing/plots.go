package housing

import (
	"housemem/catalogue"
	"housemem/internal/layout"
)

// Plots of a ward are split in two halves; only one is loaded at a time.
const subdivisionStart = layout.HousesMax / 2

// Plot is an initialized plot of the loaded ward.
type Plot struct {
	Index    int
	LandSet  *catalogue.CommonLandSet
	Fixtures []CommonFixture
}

// LandSets returns the land sets of the loaded territory, keyed by placard id.
func (m *Memory) LandSets() (map[uint32]catalogue.CommonLandSet, bool) {
	id := m.TerritoryTypeID()
	if id == 0 {
		return nil, false
	}
	return m.lookup.LandSets(id)
}

// PlacardPlot returns the land set whose placard has the given id.
func (m *Memory) PlacardPlot(placardID uint32) (catalogue.CommonLandSet, bool) {
	sets, ok := m.LandSets()
	if !ok {
		return catalogue.CommonLandSet{}, false
	}
	ls, ok := sets[placardID]
	return ls, ok
}

// ActivePlotRange returns the half-open range of plots that are loaded. It is empty when the
// first plot of neither half, or of both halves, is initialized.
func (m *Memory) ActivePlotRange() (start, end int) {
	if m.IsIndoors() {
		return 0, 0
	}
	ctrl, ok := m.HousingController()
	if !ok {
		return 0, 0
	}
	first := ctrl.House(0).Initialized()
	second := ctrl.House(subdivisionStart).Initialized()
	switch {
	case first && !second:
		return 0, subdivisionStart
	case second && !first:
		return subdivisionStart, layout.HousesMax
	default:
		return 0, 0
	}
}

// Plots returns every initialized plot of the loaded half with its summary fixtures.
func (m *Memory) Plots() []Plot {
	start, end := m.ActivePlotRange()
	if start == end {
		return nil
	}
	byIndex := make(map[int]catalogue.CommonLandSet)
	if sets, ok := m.LandSets(); ok {
		for _, ls := range sets {
			byIndex[ls.PlotIndex] = ls
		}
	}
	var plots []Plot
	for i := start; i < end; i++ {
		fixtures := m.ExteriorSummary(i)
		if len(fixtures) == 0 {
			continue
		}
		p := Plot{Index: i, Fixtures: fixtures}
		if ls, ok := byIndex[i]; ok {
			p.LandSet = &ls
		}
		plots = append(plots, p)
	}
	return plots
}
