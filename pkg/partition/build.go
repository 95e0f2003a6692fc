package partition

import (
	"fmt"
	"strings"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
)

// PartitionError reports an element set that cannot be split into at least
// two bands along either axis, such as a pinwheel arrangement.
type PartitionError struct {
	Rect       geom.Rect // container that could not be split
	Axis       geom.Axis // axis that was attempted
	ElementIDs []string  // elements assigned to the container
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("cannot partition %d elements in %v along %s axis: %s",
		len(e.ElementIDs), e.Rect, e.Axis, strings.Join(e.ElementIDs, ", "))
}

// Unwrap exposes the coded error so callers can test with
// perrors.Is(err, perrors.ErrCodeUnpartitionable).
func (e *PartitionError) Unwrap() error {
	return perrors.New(perrors.ErrCodeUnpartitionable, "%d elements admit no split", len(e.ElementIDs))
}

// Build reconstructs the partition tree of elements inside the unit square.
// See [BuildIn].
func Build(elements []Element, opts ...Option) (*Tree, error) {
	return BuildIn(geom.Unit, elements, opts...)
}

// BuildIn reconstructs the partition tree of elements inside container.
//
// Elements must be pairwise non-overlapping and lie within container; this
// is assumed, not checked. A container without area is a caller error
// reported with code INVALID_RECT. An element set that admits no split at
// some level is reported as a [*PartitionError].
//
// With zero elements the root has no children. With one element the root
// holds a single Leaf whose rect is the whole container.
func BuildIn(container geom.Rect, elements []Element, opts ...Option) (*Tree, error) {
	if !container.Valid() || container.Degenerate() {
		return nil, perrors.New(perrors.ErrCodeInvalidRect, "container %v has no area", container)
	}
	t := newTree(container, opts...)
	if err := t.populate(t.root, elements); err != nil {
		return nil, err
	}
	return t, nil
}

// populate turns node id into a leaf or a branch for its element subset and
// recurses into every segment.
func (t *Tree) populate(id NodeID, elements []Element) error {
	switch len(elements) {
	case 0:
		return nil
	case 1:
		e := elements[0]
		leaf := &LeafData{ElementID: e.ID, Label: e.Label}
		if t.nodes[id].kind == Root {
			// The root always keeps one structural hop to its leaf.
			child := t.add(node{
				rect:   t.nodes[id].rect,
				kind:   Leaf,
				parent: id,
				depth:  t.nodes[id].depth + 1,
				leaf:   leaf,
			})
			t.nodes[id].children = append(t.nodes[id].children, child)
			return nil
		}
		t.nodes[id].kind = Leaf
		t.nodes[id].axis = geom.AxisNone
		t.nodes[id].leaf = leaf
		return nil
	}

	rect := t.nodes[id].rect
	vertical := FindCuts(geom.Vertical, rect, elements)
	horizontal := FindCuts(geom.Horizontal, rect, elements)

	axis, cuts := chooseAxis(vertical, horizontal)
	segments := BuildSegments(axis, rect, cuts, elements)
	if len(segments) < 2 {
		ids := make([]string, len(elements))
		for i, e := range elements {
			ids[i] = e.ID
		}
		return &PartitionError{Rect: rect, Axis: axis, ElementIDs: ids}
	}

	if t.nodes[id].kind != Root {
		t.nodes[id].kind = branchKind(axis)
	}
	t.nodes[id].axis = axis

	depth := t.nodes[id].depth + 1
	for _, seg := range segments {
		// Kind is refined by populate once the segment's own split is known.
		child := t.add(node{
			rect:   seg.Rect,
			kind:   branchKind(axis),
			parent: id,
			depth:  depth,
		})
		t.nodes[id].children = append(t.nodes[id].children, child)
		if err := t.populate(child, seg.Elements); err != nil {
			return err
		}
	}
	return nil
}

// chooseAxis picks the axis with more valid cuts. On a tie vertical wins as
// long as it has an interior cut.
//
// Only cut counts are compared. Elements that share one interior band (two
// stacked panels in a narrow column, say) give the cross axis an extra cut
// and win it, leaving a single non-empty segment; populate reports that as a
// PartitionError even though the other axis could split the set. Changing
// this changes which trees existing layouts reconstruct to.
func chooseAxis(vertical, horizontal []float64) (geom.Axis, []float64) {
	switch {
	case len(vertical) > len(horizontal):
		return geom.Vertical, vertical
	case len(horizontal) > len(vertical):
		return geom.Horizontal, horizontal
	case len(vertical) > 2:
		return geom.Vertical, vertical
	}
	return geom.Horizontal, horizontal
}
