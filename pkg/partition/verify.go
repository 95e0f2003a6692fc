package partition

import (
	"errors"
	"fmt"

	"github.com/matzehuels/panetree/pkg/geom"
)

// Verify checks the structural invariants of t and returns every violation
// joined into one error, or nil:
//   - each container's children tile it along its split axis;
//   - leaves have no children and carry leaf data;
//   - parent links and depths agree with the child lists;
//   - no element id appears in more than one leaf.
//
// A tree that went through a promotion without [WithResizeOnPromote] may
// legitimately fail the tiling check.
func (t *Tree) Verify() error {
	var errs []error
	seen := make(map[string]NodeID)

	t.Walk(func(n Node) bool {
		if n.IsLeaf() {
			if len(n.Children) > 0 {
				errs = append(errs, fmt.Errorf("leaf %d has %d children", n.ID, len(n.Children)))
			}
			if n.Leaf == nil {
				errs = append(errs, fmt.Errorf("leaf %d has no leaf data", n.ID))
			} else if prev, dup := seen[n.Leaf.ElementID]; dup {
				errs = append(errs, fmt.Errorf("element %q held by leaves %d and %d", n.Leaf.ElementID, prev, n.ID))
			} else {
				seen[n.Leaf.ElementID] = n.ID
			}
			return true
		}
		if n.Leaf != nil {
			errs = append(errs, fmt.Errorf("%s node %d carries leaf data", n.Kind, n.ID))
		}
		for _, c := range n.Children {
			if got := t.nodes[c].parent; got != n.ID {
				errs = append(errs, fmt.Errorf("node %d lists child %d whose parent is %d", n.ID, c, got))
			}
			if got := t.nodes[c].depth; got != n.Depth+1 {
				errs = append(errs, fmt.Errorf("node %d at depth %d under node %d at depth %d", c, got, n.ID, n.Depth))
			}
		}
		if err := t.checkTiling(n); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

// checkTiling reports whether the children of container n tile its rect.
func (t *Tree) checkTiling(n Node) error {
	if len(n.Children) == 0 {
		return nil
	}
	axis := n.Axis
	if axis == geom.AxisNone {
		if len(n.Children) > 1 {
			return fmt.Errorf("node %d has %d children but no split axis", n.ID, len(n.Children))
		}
		if r := t.nodes[n.Children[0]].rect; !r.ApproxEqual(n.Rect) {
			return fmt.Errorf("lone child %d rect %v does not fill node %d rect %v", n.Children[0], r, n.ID, n.Rect)
		}
		return nil
	}

	cross := axis.Cross()
	pos := n.Rect.Start(axis)
	for _, c := range n.Children {
		r := t.nodes[c].rect
		if !geom.Near(r.Start(axis), pos) {
			return fmt.Errorf("child %d of node %d starts at %g along %s, want %g", c, n.ID, r.Start(axis), axis, pos)
		}
		if !geom.Near(r.Start(cross), n.Rect.Start(cross)) || !geom.Near(r.Extent(cross), n.Rect.Extent(cross)) {
			return fmt.Errorf("child %d of node %d does not span the %s extent", c, n.ID, cross)
		}
		pos = r.End(axis)
	}
	if !geom.Near(pos, n.Rect.End(axis)) {
		return fmt.Errorf("children of node %d end at %g along %s, want %g", n.ID, pos, axis, n.Rect.End(axis))
	}
	return nil
}
