package layout

import (
	"bytes"
	"encoding/binary"
	"math"
)

func leU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func leU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func leU64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }
func leF32(b []byte) float32 {
	return math.Float32frombits(leU32(b))
}

// HousePart is one exterior part of a house.
type HousePart struct {
	Category   int32
	Unknown1   int32
	FixtureKey uint16
	Color      uint8
	Padding    uint8
	Unknown2   int32
	Unknown3   uint64
	Raw        [HousePartSize]byte
}

// DecodeHousePart decodes a part from its HousePartSize bytes.
func DecodeHousePart(b []byte) HousePart {
	var p HousePart
	copy(p.Raw[:], b)
	p.Category = int32(leU32(b[PartCategory:]))
	p.Unknown1 = int32(leU32(b[PartUnknown1:]))
	p.FixtureKey = leU16(b[PartFixtureKey:])
	p.Color = b[PartColor]
	p.Padding = b[PartPadding]
	p.Unknown2 = int32(leU32(b[PartUnknown2:]))
	p.Unknown3 = leU64(b[PartUnknown3:])
	return p
}

// HousingGameObject is a copy of a placed object taken at enumeration time.
type HousingGameObject struct {
	Address       uint64
	Name          [ObjectNameLen]byte
	HousingRowID  uint32
	X, Y, Z       float32
	Rotation      float32
	HousingRowID2 uint32
	Color         uint8
}

// DecodeHousingGameObject decodes an object from its ObjectSize bytes read at addr.
func DecodeHousingGameObject(addr uint64, b []byte) HousingGameObject {
	o := HousingGameObject{Address: addr}
	copy(o.Name[:], b[ObjectName:ObjectName+ObjectNameLen])
	o.HousingRowID = leU32(b[ObjectRowID:])
	o.X = leF32(b[ObjectX:])
	o.Y = leF32(b[ObjectY:])
	o.Z = leF32(b[ObjectZ:])
	o.Rotation = leF32(b[ObjectRotation:])
	o.HousingRowID2 = leU32(b[ObjectRowID2:])
	o.Color = b[ObjectColor]
	return o
}

// NameString returns the embedded name up to its first NUL.
func (o HousingGameObject) NameString() string {
	if i := bytes.IndexByte(o.Name[:], 0); i >= 0 {
		return string(o.Name[:i])
	}
	return string(o.Name[:])
}
