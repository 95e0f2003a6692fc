package partition

import (
	"slices"
	"testing"

	"github.com/matzehuels/panetree/pkg/geom"
)

func el(id string, x, y, w, h float64) Element {
	return Element{ID: id, Rect: geom.R(x, y, w, h), Label: "panel " + id}
}

func nearAll(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if !geom.Near(got[i], want[i]) {
			return false
		}
	}
	return true
}

func TestFindCuts(t *testing.T) {
	columns := []Element{el("a", 0, 0, 0.5, 1), el("b", 0.5, 0, 0.5, 1)}
	lShape := []Element{el("a", 0, 0, 0.6, 1), el("b", 0.6, 0, 0.4, 0.5), el("c", 0.6, 0.5, 0.4, 0.5)}

	tests := []struct {
		name     string
		axis     geom.Axis
		elements []Element
		want     []float64
	}{
		{name: "no elements", axis: geom.Horizontal, elements: nil, want: []float64{0, 1}},
		{name: "columns across x", axis: geom.Horizontal, elements: columns, want: []float64{0, 0.5, 1}},
		{name: "columns along y", axis: geom.Vertical, elements: columns, want: []float64{0, 1}},
		{name: "shared edges merged", axis: geom.Horizontal, elements: lShape, want: []float64{0, 0.6, 1}},
		{name: "straddled candidate dropped", axis: geom.Vertical, elements: lShape, want: []float64{0, 1}},
		{
			name: "near duplicates merged",
			axis: geom.Horizontal,
			elements: []Element{
				el("a", 0, 0, 1.0/3, 1),
				el("b", 1.0/3+1e-9, 0, 2.0/3-1e-9, 1),
			},
			want: []float64{0, 1.0 / 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindCuts(tt.axis, geom.Unit, tt.elements)
			if !nearAll(got, tt.want) {
				t.Errorf("FindCuts() = %v, want %v", got, tt.want)
			}
			if !slices.IsSorted(got) {
				t.Errorf("FindCuts() = %v, not sorted", got)
			}
		})
	}
}

func TestFindCutsTouchingBoundary(t *testing.T) {
	container := geom.R(0.5, 0, 0.5, 1)
	elements := []Element{el("a", 0.5, 0, 0.5, 0.3), el("b", 0.5, 0.3, 0.5, 0.7)}

	got := FindCuts(geom.Horizontal, container, elements)
	if want := []float64{0.5, 1}; !nearAll(got, want) {
		t.Errorf("FindCuts() = %v, want %v", got, want)
	}

	got = FindCuts(geom.Vertical, container, elements)
	if want := []float64{0, 0.3, 1}; !nearAll(got, want) {
		t.Errorf("FindCuts() = %v, want %v", got, want)
	}
}

func TestBuildSegments(t *testing.T) {
	elements := []Element{el("a", 0, 0, 0.25, 1), el("b", 0.5, 0, 0.5, 1)}

	tests := []struct {
		name      string
		cuts      []float64
		wantRects []geom.Rect
		wantIDs   [][]string
	}{
		{
			name:      "empty band discarded",
			cuts:      []float64{0, 0.25, 0.5, 1},
			wantRects: []geom.Rect{geom.R(0, 0, 0.25, 1), geom.R(0.5, 0, 0.5, 1)},
			wantIDs:   [][]string{{"a"}, {"b"}},
		},
		{
			name:      "thin band skipped",
			cuts:      []float64{0, 0.5, 0.5 + 1e-7, 1},
			wantRects: []geom.Rect{geom.R(0, 0, 0.5, 1), geom.R(0.5+1e-7, 0, 0.5-1e-7, 1)},
			wantIDs:   [][]string{{"a"}, {"b"}},
		},
		{
			name:      "single band",
			cuts:      []float64{0, 1},
			wantRects: []geom.Rect{geom.Unit},
			wantIDs:   [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSegments(geom.Horizontal, geom.Unit, tt.cuts, elements)
			if len(got) != len(tt.wantRects) {
				t.Fatalf("BuildSegments() returned %d segments, want %d", len(got), len(tt.wantRects))
			}
			for i, seg := range got {
				if !seg.Rect.ApproxEqual(tt.wantRects[i]) {
					t.Errorf("segment %d rect = %v, want %v", i, seg.Rect, tt.wantRects[i])
				}
				var ids []string
				for _, e := range seg.Elements {
					ids = append(ids, e.ID)
				}
				if !slices.Equal(ids, tt.wantIDs[i]) {
					t.Errorf("segment %d elements = %v, want %v", i, ids, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestBuildSegmentsAssignsOnce(t *testing.T) {
	// A zero-height element on a cut fits both neighbouring bands.
	elements := []Element{el("a", 0, 0, 1, 0.5), el("line", 0, 0.5, 1, 0), el("b", 0, 0.5, 1, 0.5)}

	got := BuildSegments(geom.Vertical, geom.Unit, []float64{0, 0.5, 1}, elements)
	count := 0
	for _, seg := range got {
		for _, e := range seg.Elements {
			if e.ID == "line" {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("element assigned %d times, want 1", count)
	}
}
