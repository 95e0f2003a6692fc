package partition

import (
	"slices"

	"github.com/matzehuels/panetree/pkg/geom"
)

// FindCuts returns the sorted positions along axis at which container can be
// split without cutting through the interior of any element.
//
// Candidates are the container's two edges along axis plus both edges of
// every element. Candidates closer than [geom.Epsilon] are merged. A
// candidate survives if no element strictly straddles it. With no elements
// the result is just the two container edges.
func FindCuts(axis geom.Axis, container geom.Rect, elements []Element) []float64 {
	candidates := make([]float64, 0, 2+2*len(elements))
	candidates = append(candidates, container.Start(axis), container.End(axis))
	for _, e := range elements {
		candidates = append(candidates, e.Rect.Start(axis), e.Rect.End(axis))
	}
	slices.Sort(candidates)

	var cuts []float64
	for _, pos := range dedupe(candidates) {
		if !straddled(axis, pos, elements) {
			cuts = append(cuts, pos)
		}
	}
	return cuts
}

// dedupe collapses runs of sorted values that lie within Epsilon of the last
// kept value.
func dedupe(sorted []float64) []float64 {
	out := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if len(out) == 0 || v-out[len(out)-1] > geom.Epsilon {
			out = append(out, v)
		}
	}
	return out
}

// straddled reports whether some element's interior crosses pos along axis.
func straddled(axis geom.Axis, pos float64, elements []Element) bool {
	for _, e := range elements {
		start, end := e.Rect.Start(axis), e.Rect.End(axis)
		if pos > start+geom.Epsilon && pos < end-geom.Epsilon {
			return true
		}
	}
	return false
}
