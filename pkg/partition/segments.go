package partition

import "github.com/matzehuels/panetree/pkg/geom"

// Segment is a band of a container between two adjacent cuts, together with
// the elements that lie inside it.
type Segment struct {
	Rect     geom.Rect
	Elements []Element
}

// BuildSegments partitions container into bands between consecutive cuts
// along axis. Each band spans the container's full extent on the cross axis.
// Elements are assigned to the first band that contains them (with Epsilon
// tolerance). Bands thinner than Epsilon and bands with no elements are
// dropped.
func BuildSegments(axis geom.Axis, container geom.Rect, cuts []float64, elements []Element) []Segment {
	assigned := make([]bool, len(elements))

	var segments []Segment
	for i := 1; i < len(cuts); i++ {
		a, b := cuts[i-1], cuts[i]
		if b-a <= geom.Epsilon {
			continue
		}
		band := container.WithSpan(axis, a, b-a)

		var members []Element
		for j, e := range elements {
			if !assigned[j] && band.Contains(e.Rect) {
				members = append(members, e)
				assigned[j] = true
			}
		}
		if len(members) > 0 {
			segments = append(segments, Segment{Rect: band, Elements: members})
		}
	}
	return segments
}
