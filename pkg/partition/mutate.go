package partition

import (
	"slices"

	perrors "github.com/matzehuels/panetree/pkg/errors"
	"github.com/matzehuels/panetree/pkg/geom"
)

// Change describes the structural effect of a mutation. Fields that did not
// apply hold NoNode.
type Change struct {
	Removed  []NodeID // nodes unlinked from the tree, in unlink order
	Promoted NodeID   // survivor that took its former parent's place
	Relayout NodeID   // container whose children were redistributed
	Inserted NodeID   // leaf created by InsertLeaf
}

func newChange() Change {
	return Change{Promoted: NoNode, Relayout: NoNode, Inserted: NoNode}
}

// Empty reports whether the mutation left the tree untouched.
func (c Change) Empty() bool {
	return len(c.Removed) == 0 && c.Promoted == NoNode && c.Relayout == NoNode && c.Inserted == NoNode
}

func (c Change) merge(o Change) Change {
	c.Removed = append(c.Removed, o.Removed...)
	if o.Promoted != NoNode {
		c.Promoted = o.Promoted
	}
	if o.Relayout != NoNode {
		c.Relayout = o.Relayout
	}
	if o.Inserted != NoNode {
		c.Inserted = o.Inserted
	}
	return c
}

// RemoveLeaf removes the leaf holding elementID and restructures its
// ancestors. Removing an unknown id is a no-op and returns an empty Change,
// so removal is idempotent.
func (t *Tree) RemoveLeaf(elementID string) Change {
	id, ok := t.FindLeaf(elementID)
	if !ok {
		return newChange()
	}
	return t.Detach(t.nodes[id].parent, id)
}

// Detach unlinks child from branch and repairs branch:
//   - a branch left empty is itself detached from its parent;
//   - a branch left with one child is replaced by that child (see [Tree.Promote]);
//   - otherwise the remaining children are relayouted to fill branch.
//
// The root is never detached. A root left with one child relayouts it to
// fill the whole root.
func (t *Tree) Detach(branch, child NodeID) Change {
	ch := newChange()
	if !t.valid(branch) || !t.valid(child) || t.nodes[child].parent != branch {
		return ch
	}

	b := &t.nodes[branch]
	b.children = slices.DeleteFunc(b.children, func(id NodeID) bool { return id == child })
	t.nodes[child].parent = NoNode
	t.kill(child)
	ch.Removed = append(ch.Removed, child)

	remaining, parent := len(t.nodes[branch].children), t.nodes[branch].parent
	switch {
	case remaining == 0 && parent != NoNode:
		return ch.merge(t.Detach(parent, branch))
	case remaining == 0:
		t.nodes[branch].axis = geom.AxisNone
		return ch
	case remaining == 1 && parent != NoNode:
		return ch.merge(t.Promote(branch))
	case remaining == 1:
		ch = ch.merge(t.Relayout(branch, nil))
		t.nodes[branch].axis = geom.AxisNone
		return ch
	default:
		return ch.merge(t.Relayout(branch, nil))
	}
}

// Promote replaces branch, which must have exactly one child and a parent,
// with that child. The child takes branch's slot in the parent's children
// and inherits its depth.
//
// The promoted child keeps its own rect rather than growing into the space
// branch occupied, so the parent may no longer be tiled exactly. Trees
// built with [WithResizeOnPromote] remap the child onto branch's rect.
func (t *Tree) Promote(branch NodeID) Change {
	ch := newChange()
	if !t.valid(branch) {
		return ch
	}
	b := t.nodes[branch]
	if len(b.children) != 1 || b.parent == NoNode {
		return ch
	}

	survivor := b.children[0]
	siblings := t.nodes[b.parent].children
	siblings[slices.Index(siblings, branch)] = survivor

	t.nodes[survivor].parent = b.parent
	t.shiftDepth(survivor, b.depth-t.nodes[survivor].depth)
	if t.resizeOnPromote {
		t.reflow(survivor, b.rect)
	}

	t.nodes[branch].children = nil
	t.nodes[branch].parent = NoNode
	t.kill(branch)

	ch.Removed = append(ch.Removed, branch)
	ch.Promoted = survivor
	return ch
}

// Relayout redistributes branch's extent along its split axis among its
// children. Children in incoming receive an even share, 1/n of the branch.
// The remaining children are scaled proportionally into what is left. The
// last child absorbs floating-point drift so the children tile branch
// exactly. Every resized child's subtree is remapped with it.
func (t *Tree) Relayout(branch NodeID, incoming map[NodeID]bool) Change {
	ch := newChange()
	if !t.valid(branch) || len(t.nodes[branch].children) == 0 {
		return ch
	}

	axis := t.splitAxis(branch)
	if axis == geom.AxisNone {
		// Only a lone child under the root has no axis; it fills the root
		// either way.
		axis = geom.Horizontal
	}

	container := t.nodes[branch].rect
	children := t.nodes[branch].children
	total := container.Extent(axis)
	start := container.Start(axis)
	evenShare := 1 / float64(len(children))

	existingCount, existingExtent := 0, 0.0
	for _, c := range children {
		if !incoming[c] {
			existingCount++
			existingExtent += t.nodes[c].rect.Extent(axis)
		}
	}

	budget := float64(existingCount) * evenShare
	scale := 0.0
	if total > 0 && existingExtent > 0 {
		scale = budget / (existingExtent / total)
	}

	offset := 0.0
	for i, c := range children {
		var extent float64
		switch {
		case i == len(children)-1:
			extent = total - offset
		case incoming[c]:
			extent = evenShare * total
		default:
			extent = t.nodes[c].rect.Extent(axis) * scale
		}
		t.reflow(c, container.WithSpan(axis, start+offset, extent))
		offset += extent
	}

	ch.Relayout = branch
	return ch
}

// InsertLeaf adds a leaf for e next to the leaf holding targetID.
//
// If the target's parent already splits along axis, the new leaf becomes a
// sibling placed after (or before) the target. Otherwise the target is
// wrapped in a new branch of axis occupying the target's rect. Either way
// the affected container is relayouted with the new leaf taking an even
// share. In an empty tree the leaf fills the root and targetID is ignored.
func (t *Tree) InsertLeaf(targetID string, e Element, axis geom.Axis, after bool) (Change, error) {
	ch := newChange()
	if axis == geom.AxisNone {
		return ch, perrors.New(perrors.ErrCodeInvalidInput, "insert %q: axis is required", e.ID)
	}
	if err := perrors.ValidateElementID(e.ID); err != nil {
		return ch, err
	}
	if _, dup := t.FindLeaf(e.ID); dup {
		return ch, perrors.New(perrors.ErrCodeDuplicateID, "element %q already has a leaf", e.ID)
	}

	leaf := &LeafData{ElementID: e.ID, Label: e.Label}

	if len(t.nodes[t.root].children) == 0 {
		id := t.add(node{rect: t.nodes[t.root].rect, kind: Leaf, parent: t.root, depth: t.nodes[t.root].depth + 1, leaf: leaf})
		t.nodes[t.root].children = []NodeID{id}
		ch.Inserted = id
		return ch, nil
	}

	target, ok := t.FindLeaf(targetID)
	if !ok {
		return ch, perrors.New(perrors.ErrCodeNotFound, "insert %q: target %q not found", e.ID, targetID)
	}
	parent := t.nodes[target].parent

	if parent == t.root && t.nodes[parent].axis == geom.AxisNone {
		t.nodes[parent].axis = axis
	}

	container := parent
	if t.splitAxis(parent) == axis {
		id := t.add(node{rect: t.nodes[target].rect, kind: Leaf, parent: parent, depth: t.nodes[target].depth, leaf: leaf})
		pos := slices.Index(t.nodes[parent].children, target)
		if after {
			pos++
		}
		t.nodes[parent].children = slices.Insert(t.nodes[parent].children, pos, id)
		ch.Inserted = id
	} else {
		depth := t.nodes[target].depth
		wrapper := t.add(node{rect: t.nodes[target].rect, kind: branchKind(axis), axis: axis, parent: parent, depth: depth})
		siblings := t.nodes[parent].children
		siblings[slices.Index(siblings, target)] = wrapper

		t.nodes[target].parent = wrapper
		t.shiftDepth(target, 1)
		id := t.add(node{rect: t.nodes[target].rect, kind: Leaf, parent: wrapper, depth: depth + 1, leaf: leaf})
		if after {
			t.nodes[wrapper].children = []NodeID{target, id}
		} else {
			t.nodes[wrapper].children = []NodeID{id, target}
		}
		ch.Inserted = id
		container = wrapper
	}

	ch = ch.merge(t.Relayout(container, map[NodeID]bool{ch.Inserted: true}))
	return ch, nil
}

// reflow moves node id onto rect to and remaps its descendants with it.
func (t *Tree) reflow(id NodeID, to geom.Rect) {
	from := t.nodes[id].rect
	t.nodes[id].rect = to
	if from == to {
		return
	}
	for _, c := range t.nodes[id].children {
		t.remap(c, from, to)
	}
}

func (t *Tree) remap(id NodeID, from, to geom.Rect) {
	t.nodes[id].rect = t.nodes[id].rect.Remap(from, to)
	for _, c := range t.nodes[id].children {
		t.remap(c, from, to)
	}
}

func (t *Tree) shiftDepth(id NodeID, delta int) {
	if delta == 0 {
		return
	}
	t.nodes[id].depth += delta
	for _, c := range t.nodes[id].children {
		t.shiftDepth(c, delta)
	}
}

// kill marks id and everything below it as detached.
func (t *Tree) kill(id NodeID) {
	t.nodes[id].live = false
	for _, c := range t.nodes[id].children {
		t.kill(c)
	}
}
