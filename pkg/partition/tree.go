package partition

import (
	"fmt"
	"slices"

	"github.com/matzehuels/panetree/pkg/geom"
)

// NodeID addresses a node in a [Tree]'s arena.
type NodeID int

// NoNode is the NodeID of a missing parent or an absent node.
const NoNode NodeID = -1

// Kind classifies a node in the partition tree.
type Kind uint8

const (
	// Root is the top-level container. It always exists.
	Root Kind = iota
	// HorizontalBranch lays its children out left-to-right at full height.
	HorizontalBranch
	// VerticalBranch stacks its children top-to-bottom at full width.
	VerticalBranch
	// Leaf holds exactly one element and has no children.
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case HorizontalBranch:
		return "horizontal"
	case VerticalBranch:
		return "vertical"
	case Leaf:
		return "leaf"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "root":
		return Root, nil
	case "horizontal":
		return HorizontalBranch, nil
	case "vertical":
		return VerticalBranch, nil
	case "leaf":
		return Leaf, nil
	}
	return Root, fmt.Errorf("unknown node kind %q", s)
}

// branchKind returns the branch kind that splits along a.
func branchKind(a geom.Axis) Kind {
	if a == geom.Vertical {
		return VerticalBranch
	}
	return HorizontalBranch
}

// Element is one input rectangle: a panel placement in normalized units.
type Element struct {
	ID    string
	Rect  geom.Rect
	Label string
}

// LeafData is the payload carried by a Leaf node.
type LeafData struct {
	ElementID string
	Label     string
}

// Node is a read-only snapshot of one node in the tree. Rect is absolute:
// it is expressed in the root's coordinate space, not the parent's.
type Node struct {
	ID       NodeID
	Kind     Kind
	Axis     geom.Axis
	Rect     geom.Rect
	Parent   NodeID
	Children []NodeID
	Depth    int
	Leaf     *LeafData
}

// IsLeaf reports whether n is a Leaf.
func (n Node) IsLeaf() bool { return n.Kind == Leaf }

// node is the arena slot backing a Node.
type node struct {
	rect     geom.Rect
	kind     Kind
	axis     geom.Axis
	parent   NodeID
	children []NodeID
	depth    int
	leaf     *LeafData
	live     bool
}

// Tree is a partition tree stored in an arena of nodes addressed by
// [NodeID]. Parents own their children; the parent link is only a relation.
//
// A Tree is not safe for concurrent use. Mutations run several steps in
// place and must be serialized by the caller.
type Tree struct {
	nodes []node
	root  NodeID

	resizeOnPromote bool
}

// Option configures a Tree at build time.
type Option func(*Tree)

// WithResizeOnPromote makes [Tree.Promote] remap the surviving child onto
// the rect of the branch it replaces. By default the survivor keeps its
// previous rect.
func WithResizeOnPromote(enabled bool) Option {
	return func(t *Tree) { t.resizeOnPromote = enabled }
}

func newTree(container geom.Rect, opts ...Option) *Tree {
	t := &Tree{}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.add(node{rect: container, kind: Root, parent: NoNode})
	return t
}

// add appends n to the arena and returns its id.
func (t *Tree) add(n node) NodeID {
	n.live = true
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].live
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID { return t.root }

// Node returns a snapshot of the node with the given id. The second result
// is false if id was never allocated or has been detached.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}
	n := &t.nodes[id]
	out := Node{
		ID:       id,
		Kind:     n.kind,
		Axis:     n.axis,
		Rect:     n.rect,
		Parent:   n.parent,
		Children: slices.Clone(n.children),
		Depth:    n.depth,
	}
	if n.leaf != nil {
		leaf := *n.leaf
		out.Leaf = &leaf
	}
	return out, true
}

// Children returns the ordered child ids of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// Parent returns the parent of id, or NoNode for the root and detached nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// Rect returns the absolute rect of id.
func (t *Tree) Rect(id NodeID) geom.Rect {
	if !t.valid(id) {
		return geom.Rect{}
	}
	return t.nodes[id].rect
}

// Walk visits every live node in pre-order, parents before children and
// children in layout order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(Node) bool) {
	t.walk(t.root, fn)
}

func (t *Tree) walk(id NodeID, fn func(Node) bool) bool {
	n, ok := t.Node(id)
	if !ok {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !t.walk(c, fn) {
			return false
		}
	}
	return true
}

// Flatten returns every live node in pre-order.
func (t *Tree) Flatten() []Node {
	var out []Node
	t.Walk(func(n Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Leaves returns the Leaf nodes in pre-order.
func (t *Tree) Leaves() []Node {
	var out []Node
	t.Walk(func(n Node) bool {
		if n.IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int {
	count := 0
	for i := range t.nodes {
		if t.nodes[i].live {
			count++
		}
	}
	return count
}

// FindLeaf searches the tree depth-first for the leaf holding elementID.
func (t *Tree) FindLeaf(elementID string) (NodeID, bool) {
	found := NoNode
	t.Walk(func(n Node) bool {
		if n.Leaf != nil && n.Leaf.ElementID == elementID {
			found = n.ID
			return false
		}
		return true
	})
	return found, found != NoNode
}

// Clone returns a deep copy of t. Node ids are preserved.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		nodes:           make([]node, len(t.nodes)),
		root:            t.root,
		resizeOnPromote: t.resizeOnPromote,
	}
	for i, n := range t.nodes {
		n.children = slices.Clone(n.children)
		if n.leaf != nil {
			leaf := *n.leaf
			n.leaf = &leaf
		}
		c.nodes[i] = n
	}
	return c
}

// splitAxis returns the axis along which container id lays out children.
func (t *Tree) splitAxis(id NodeID) geom.Axis {
	switch n := &t.nodes[id]; n.kind {
	case HorizontalBranch:
		return geom.Horizontal
	case VerticalBranch:
		return geom.Vertical
	default:
		return n.axis
	}
}
