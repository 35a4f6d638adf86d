package housing

import (
	"fmt"

	"housemem/catalogue"
	"housemem/common"
	"housemem/internal/layout"
	"housemem/internal/memacc"
)

// Memory is the decoding context: the target memory, the resolved bases and the catalogue.
// It holds no cached state; every call reads the target again.
type Memory struct {
	mem    memacc.Reader
	bases  Bases
	lookup catalogue.Lookup
	logger common.Logger
}

// New builds a context from already resolved bases. lookup and logger may be nil.
func New(mem memacc.Reader, bases Bases, lookup catalogue.Lookup, logger common.Logger) *Memory {
	if logger == nil {
		logger = common.NewNoOpLogger()
	}
	if lookup == nil {
		lookup = catalogue.NewBuilder().Build()
	}
	return &Memory{mem: mem, bases: bases, lookup: lookup, logger: logger}
}

// Init resolves the bases with scanner and builds a context. The returned Memory is always usable;
// when resolution fails it reports the affected state as unavailable.
func Init(scanner Scanner, mem memacc.Reader, sigs Signatures, lookup catalogue.Lookup, logger common.Logger) (*Memory, error) {
	bases, err := ResolveBases(scanner, sigs)
	m := New(mem, bases, lookup, logger)
	if err != nil {
		m.logger.Error(fmt.Errorf("could not resolve housing memory: %w", err))
	}
	if bases.HousingModule != 0 {
		m.logger.Logf(common.SeverityInfo, "HousingModuleBase at %X", bases.HousingModule)
		if mod, ok := m.mem.Ptr(bases.HousingModule); ok {
			m.logger.Logf(common.SeverityInfo, "HousingModule at %X", mod)
		}
	}
	if bases.LayoutWorld != 0 {
		m.logger.Logf(common.SeverityInfo, "LayoutWorldBase at %X", bases.LayoutWorld)
	}
	return m, err
}

func (m *Memory) Bases() Bases { return m.bases }

func (m *Memory) Lookup() catalogue.Lookup { return m.lookup }

// Available reports whether at least one base was resolved.
func (m *Memory) Available() bool {
	return m.bases.HousingModule != 0 || m.bases.LayoutWorld != 0
}

func (m *Memory) housingModule() (layout.HousingModule, bool) {
	if m.bases.HousingModule == 0 {
		return layout.HousingModule{}, false
	}
	p, ok := m.mem.Ptr(m.bases.HousingModule)
	if !ok {
		return layout.HousingModule{}, false
	}
	return layout.NewHousingModule(m.mem, p), true
}

func (m *Memory) layoutWorld() (layout.LayoutWorld, bool) {
	if m.bases.LayoutWorld == 0 {
		return layout.LayoutWorld{}, false
	}
	p, ok := m.mem.Ptr(m.bases.LayoutWorld)
	if !ok {
		return layout.LayoutWorld{}, false
	}
	return layout.NewLayoutWorld(m.mem, p), true
}

func (m *Memory) IsOutdoors() bool {
	mod, ok := m.housingModule()
	return ok && mod.IsOutdoors()
}

func (m *Memory) IsIndoors() bool {
	mod, ok := m.housingModule()
	return ok && mod.IsIndoors()
}

func (m *Memory) IsWorkshop() bool {
	mod, ok := m.housingModule()
	return ok && mod.IsWorkshop()
}

// ZoneKind classifies the current zone. Outdoors takes precedence over Indoors, and Indoors
// over Workshop, when the target reports more than one.
func (m *Memory) ZoneKind() layout.ZoneKind {
	mod, ok := m.housingModule()
	switch {
	case !ok:
		return layout.ZoneUnknown
	case mod.IsOutdoors():
		return layout.ZoneOutdoors
	case mod.IsIndoors():
		return layout.ZoneIndoors
	case mod.IsWorkshop():
		return layout.ZoneWorkshop
	default:
		return layout.ZoneUnknown
	}
}

// CurrentFloor returns the floor the player stands on, FloorNone outdoors or when unknown.
func (m *Memory) CurrentFloor() layout.InteriorFloor {
	mod, ok := m.housingModule()
	if !ok {
		return layout.FloorNone
	}
	if _, ok := mod.CurrentTerritory(); !ok || mod.IsOutdoors() {
		return layout.FloorNone
	}
	return mod.CurrentFloor()
}

// ActiveLayout returns the layout of the loaded territory.
func (m *Memory) ActiveLayout() (layout.LayoutManager, bool) {
	w, ok := m.layoutWorld()
	if !ok {
		return layout.LayoutManager{}, false
	}
	return w.ActiveLayout()
}

// HousingController returns the exterior controller of the loaded ward.
func (m *Memory) HousingController() (layout.HousingController, bool) {
	l, ok := m.ActiveLayout()
	if !ok {
		return layout.HousingController{}, false
	}
	return l.HousingController()
}

// TerritoryTypeID returns the loaded territory, 0 when unknown.
func (m *Memory) TerritoryTypeID() uint32 {
	l, ok := m.ActiveLayout()
	if !ok {
		return 0
	}
	id, _ := l.TerritoryTypeID()
	return id
}

// InteriorLightLevel returns the interior light setting, 0 outdoors or when unknown.
func (m *Memory) InteriorLightLevel() float32 {
	if m.IsOutdoors() {
		return 0
	}
	l, ok := m.ActiveLayout()
	if !ok {
		return 0
	}
	area, ok := l.IndoorAreaData()
	if !ok {
		return 0
	}
	v, _ := area.LightLevel()
	return v
}
