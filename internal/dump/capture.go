package dump

import (
	"fmt"
	"sort"

	"housemem/internal/memacc"
	"housemem/internal/sigscan"
)

// MergeSpans sorts spans and joins the ones that overlap or touch. Empty spans are dropped.
func MergeSpans(spans []memacc.Span) []memacc.Span {
	var in []memacc.Span
	for _, s := range spans {
		if s.Size != 0 {
			in = append(in, s)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Start < in[j].Start })
	var out []memacc.Span
	for _, s := range in {
		if n := len(out); n > 0 && s.Start <= out[n-1].End() {
			if s.End() > out[n-1].End() {
				out[n-1].Size = s.End() - out[n-1].Start
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// headerSize is the part of the image captured for its PE headers.
const headerSize = 0x1000

// ModuleSpans returns the parts of mod a scan needs: the headers and the code and data sections.
func ModuleSpans(mod sigscan.Module) []memacc.Span {
	if mod.Size == 0 {
		return nil
	}
	spans := []memacc.Span{{Start: mod.Base, Size: min(headerSize, mod.Size)}}
	for _, s := range []sigscan.Section{mod.Text, mod.RData, mod.Data} {
		spans = append(spans, memacc.Span{Start: s.Start, Size: s.Size})
	}
	return spans
}

// Capture copies the module sections and spans out of mem. Spans that cannot be read are skipped
// and returned so the caller can report them.
func Capture(mem memacc.Memory, mod sigscan.Module, spans []memacc.Span, description string) (*Dump, []memacc.Span, error) {
	r := memacc.NewReader(mem)
	d := &Dump{Description: description, Module: mod}
	all := append(ModuleSpans(mod), spans...)
	var skipped []memacc.Span
	for i, s := range MergeSpans(all) {
		data, ok := r.Bytes(s.Start, int(s.Size))
		if !ok {
			skipped = append(skipped, s)
			continue
		}
		d.Regions = append(d.Regions, Region{Name: fmt.Sprintf("r%03d_%x", i, s.Start), Address: s.Start, Data: data})
	}
	if len(d.Regions) == 0 {
		return nil, skipped, ErrNoRegions
	}
	return d, skipped, nil
}
