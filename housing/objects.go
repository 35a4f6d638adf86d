package housing

import (
	"math"
	"sort"

	"housemem/catalogue"
	"housemem/common"
	"housemem/internal/layout"
)

// Vec3 is a world position.
type Vec3 struct {
	X, Y, Z float32
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec3) float32 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	dz := float64(a.Z) - float64(b.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// Position returns the position of a placed object.
func Position(o layout.HousingGameObject) Vec3 {
	return Vec3{X: o.X, Y: o.Y, Z: o.Z}
}

type orderKind int

const (
	orderUnsorted orderKind = iota
	orderDistance
	orderName
)

// Order selects how Objects sorts its result.
type Order struct {
	kind    orderKind
	origin  Vec3
	resolve func(rowID uint32) string
}

// Unsorted keeps slot order.
func Unsorted() Order { return Order{kind: orderUnsorted} }

// ByDistance sorts nearest first.
func ByDistance(origin Vec3) Order { return Order{kind: orderDistance, origin: origin} }

// ByName sorts by resolved name using byte-wise comparison. Unresolved names sort as "".
func ByName(resolve func(rowID uint32) string) Order {
	return Order{kind: orderName, resolve: resolve}
}

// NameFromCatalogue names objects as furniture first, yard objects second.
func NameFromCatalogue(l catalogue.Lookup) func(rowID uint32) string {
	return func(rowID uint32) string { return catalogue.ObjectName(l, rowID) }
}

// Object copies the object in slot i of the current manager. It panics when i is not a slot index.
func (m *Memory) Object(slot int) (layout.HousingGameObject, bool) {
	mod, ok := m.housingModule()
	if !ok {
		return layout.HousingGameObject{}, false
	}
	mgr, ok := mod.CurrentManager()
	if !ok {
		return layout.HousingGameObject{}, false
	}
	return mgr.Object(slot)
}

// Objects copies every placed object of the current territory, ordered by order.
// It returns an empty slice when the state is unavailable.
func (m *Memory) Objects(order Order) []layout.HousingGameObject {
	mod, ok := m.housingModule()
	if !ok {
		return nil
	}
	mgr, ok := mod.CurrentManager()
	if !ok {
		return nil
	}
	slots, ok := mgr.Slots()
	if !ok {
		return nil
	}
	objs := make([]layout.HousingGameObject, 0, layout.ObjectSlots)
	for _, p := range slots {
		if p == 0 {
			continue
		}
		o, ok := layout.NewGameObject(m.mem, p).Read()
		if !ok {
			m.logger.Logf(common.SeverityDebug, "object at %X gone", p)
			continue
		}
		objs = append(objs, o)
	}
	SortObjects(objs, order)
	return objs
}

// SortObjects sorts objs in place. Both sorts are stable; names compare byte-wise.
func SortObjects(objs []layout.HousingGameObject, order Order) {
	switch order.kind {
	case orderDistance:
		keyed := make([]distanceKey, len(objs))
		for i, o := range objs {
			keyed[i] = distanceKey{obj: o, dist: Distance(order.origin, Position(o))}
		}
		sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].dist < keyed[j].dist })
		for i := range keyed {
			objs[i] = keyed[i].obj
		}
	case orderName:
		if order.resolve == nil {
			return
		}
		keyed := make([]nameKey, len(objs))
		for i, o := range objs {
			keyed[i] = nameKey{obj: o, name: order.resolve(o.HousingRowID)}
		}
		sort.SliceStable(keyed, func(i, j int) bool { return keyed[i].name < keyed[j].name })
		for i := range keyed {
			objs[i] = keyed[i].obj
		}
	}
}

type distanceKey struct {
	obj  layout.HousingGameObject
	dist float32
}

type nameKey struct {
	obj  layout.HousingGameObject
	name string
}
