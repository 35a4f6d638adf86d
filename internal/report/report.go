// Package report prints the decoded housing state as text.
package report

import (
	"fmt"
	"io"
	"os"

	"housemem/catalogue"
	"housemem/housing"
	"housemem/internal/layout"
)

const (
	SortDistance = "distance"
	SortName     = "name"
)

// Options control the object list.
type Options struct {
	Origin         housing.Vec3
	Sort           bool
	SortBy         string  // SortDistance or SortName
	RenderDistance float32 // 0 lists every object
}

// Printer writes housing reports.
type Printer struct {
	out    io.Writer
	lookup catalogue.Lookup
	opts   Options
	err    error
}

func NewPrinter(lookup catalogue.Lookup, opts Options) *Printer {
	if lookup == nil {
		lookup = catalogue.NewBuilder().Build()
	}
	return &Printer{out: os.Stdout, lookup: lookup, opts: opts}
}

// SetOutput allows redirecting the printer output
func (p *Printer) SetOutput(w io.Writer) {
	if w != nil {
		p.out = w
	}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

// Write prints a full report of mem to w.
func Write(w io.Writer, mem *housing.Memory, lookup catalogue.Lookup, opts Options) error {
	p := NewPrinter(lookup, opts)
	p.SetOutput(w)
	return p.Print(mem)
}

// Print writes the report and returns the first write error.
func (p *Printer) Print(mem *housing.Memory) error {
	p.err = nil
	if !mem.Available() {
		p.printf("Housing memory unavailable: signatures not resolved\n")
		return p.err
	}
	zone := mem.ZoneKind()
	p.printf("Zone: %s\n", zone)
	p.printf("Territory: %d\n", mem.TerritoryTypeID())

	switch zone {
	case layout.ZoneIndoors:
		p.printInterior(mem)
	case layout.ZoneOutdoors:
		p.printPlots(mem)
	}
	p.printObjects(mem)
	return p.err
}

func (p *Printer) printInterior(mem *housing.Memory) {
	current := mem.CurrentFloor()
	p.printf("Current floor: %s\n", current)
	p.printf("Light level: %.2f\n", mem.InteriorLightLevel())
	for f := 0; f < layout.FloorMax; f++ {
		fixtures := mem.InteriorFixtures(f)
		if !anyKey(fixtures) {
			continue
		}
		marker := ""
		if layout.InteriorFloor(f) == current {
			marker = " (current)"
		}
		p.printf("\n%s%s\n", layout.InteriorFloor(f), marker)
		for _, fx := range fixtures {
			p.printf("  %-8s %s\n", fx.Descriptor()+":", p.fixtureName(fx))
		}
	}
}

func anyKey(fixtures []housing.CommonFixture) bool {
	for _, f := range fixtures {
		if f.FixtureKey != 0 {
			return true
		}
	}
	return false
}

func (p *Printer) printPlots(mem *housing.Memory) {
	start, end := mem.ActivePlotRange()
	if start == end {
		p.printf("No plots loaded\n")
		return
	}
	p.printf("Plots %d-%d\n", start+1, end)
	for _, plot := range mem.Plots() {
		p.printf("\nPlot %d", plot.Index+1)
		if plot.LandSet != nil {
			p.printf(" (placard %d, %s)", plot.LandSet.PlacardID, plot.LandSet.SizeString())
		}
		p.printf("\n")
		for i, fx := range plot.Fixtures {
			label := "United"
			if !fx.United {
				// parts are named by slot, empty slots are not listed
				if fx.FixtureKey == 0 {
					continue
				}
				label = layout.ExteriorPartsType(i).String()
			}
			p.printf("  %-16s %s%s\n", label+":", p.fixtureName(fx), stainSuffix(fx.Stain))
		}
	}
}

func (p *Printer) fixtureName(fx housing.CommonFixture) string {
	if name := fx.ItemName(); name != "" {
		return name
	}
	if fx.FixtureKey == 0 {
		return "(none)"
	}
	return fmt.Sprintf("unknown [%d]", fx.FixtureKey)
}

func stainSuffix(s *catalogue.Stain) string {
	if s == nil || s.ID == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s %s)", s.Name, s.Hex())
}

func (p *Printer) order() housing.Order {
	if !p.opts.Sort {
		return housing.Unsorted()
	}
	if p.opts.SortBy == SortName {
		return housing.ByName(housing.NameFromCatalogue(p.lookup))
	}
	return housing.ByDistance(p.opts.Origin)
}

func (p *Printer) printObjects(mem *housing.Memory) {
	objs := mem.Objects(p.order())
	var shown []layout.HousingGameObject
	for _, o := range objs {
		if p.opts.RenderDistance > 0 && housing.Distance(p.opts.Origin, housing.Position(o)) > p.opts.RenderDistance {
			continue
		}
		shown = append(shown, o)
	}
	p.printf("\nObjects: %d of %d\n", len(shown), len(objs))
	for _, o := range shown {
		name := catalogue.ObjectName(p.lookup, o.HousingRowID)
		if name == "" {
			name = fmt.Sprintf("unknown [%d]", o.HousingRowID)
		}
		var stain *catalogue.Stain
		if o.Color != 0 {
			if s, ok := p.lookup.Stain(uint32(o.Color)); ok {
				stain = &s
			}
		}
		p.printf("  %8.2f  %s%s\n", housing.Distance(p.opts.Origin, housing.Position(o)), name, stainSuffix(stain))
	}
}
