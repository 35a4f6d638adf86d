package housing

import (
	"housemem/internal/layout"
	"housemem/internal/memacc"
)

// Footprint lists the target memory the decoder reads in the current state: the static slots,
// every structure reachable from them and every placed object.
func (m *Memory) Footprint() []memacc.Span {
	var spans []memacc.Span
	add := func(addr, size uint64) {
		if addr != 0 {
			spans = append(spans, memacc.Span{Start: addr, Size: size})
		}
	}
	add(m.bases.HousingModule, memacc.PointerSize)
	add(m.bases.LayoutWorld, memacc.PointerSize)

	if mod, ok := m.housingModule(); ok {
		add(mod.Addr(), layout.ModuleWorkshopTerritory+memacc.PointerSize)
		for _, get := range []func() (layout.HousingObjectManager, bool){mod.OutdoorTerritory, mod.IndoorTerritory, mod.CurrentTerritory} {
			mgr, ok := get()
			if !ok {
				continue
			}
			add(mgr.Addr(), layout.ManagerIndoorFloor+4)
			if slots, ok := mgr.Slots(); ok {
				for _, p := range slots {
					add(p, layout.ObjectSize)
				}
			}
		}
	}

	if w, ok := m.layoutWorld(); ok {
		add(w.Addr(), layout.WorldActiveLayout+memacc.PointerSize)
		if l, ok := w.ActiveLayout(); ok {
			add(l.Addr(), layout.LayoutIndoorAreaData+memacc.PointerSize)
			if ctrl, ok := l.HousingController(); ok {
				add(ctrl.Addr(), layout.ControllerHouses+layout.HousesMax*layout.ControllerHouseStride)
			}
			if area, ok := l.IndoorAreaData(); ok {
				add(area.Addr(), layout.AreaLightLevel+4)
			}
		}
	}
	return spans
}
