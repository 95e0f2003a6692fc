// Package partition reconstructs and maintains a tree of nested split
// containers from a flat set of non-overlapping rectangles.
//
// Panel placements arrive as [Element] values in normalized [0,1]×[0,1]
// coordinates. [Build] infers the implicit grid: at each level it looks for
// guillotine cuts along both axes, splits along the axis with more cuts, and
// recurses into every band. The leaves of the resulting [Tree] are exactly
// the input elements.
//
// # Pipeline
//
//   - [FindCuts]: split positions that cross no element's interior
//   - [BuildSegments]: bands between adjacent cuts with their elements
//   - [Build]: recursive construction of the tree
//   - [Tree.RemoveLeaf], [Tree.InsertLeaf]: incremental edits
//
// # Tree Model
//
// Nodes live in an arena and are addressed by [NodeID]. A node stores its
// parent id and an ordered child list; the parent link is a relation, not
// ownership. All rects are absolute, expressed in the root's coordinate
// space, so a renderer can map any node straight onto a viewport.
//
// Kinds:
//
//	Root              the container; records its split axis
//	HorizontalBranch  children left-to-right, full height
//	VerticalBranch    children top-to-bottom, full width
//	Leaf              one element, no children
//
// # Mutations
//
// Mutations are commands that return a [Change] describing what moved:
//
//	tree.RemoveLeaf("map")       // detach, then promote or relayout
//	tree.Detach(branch, child)   // the structural primitive
//	tree.Promote(branch)         // replace a single-child branch
//	tree.Relayout(branch, nil)   // proportional redistribution
//
// Removing an unknown id is a no-op. When a branch is reduced to one child
// the child is promoted into the branch's slot but keeps its old rect;
// [WithResizeOnPromote] opts into growing it to the freed space.
//
// # Axis Choice
//
// When both axes offer the same number of cuts, the vertical axis (bands
// stacked top-to-bottom) is preferred. This is a convention kept for
// compatibility with existing layouts.
//
// # Errors
//
// A container without area is reported with code INVALID_RECT. An element
// set with no guillotine cut at some level, such as a pinwheel, yields a
// [*PartitionError] whose chain carries code UNPARTITIONABLE.
//
// # Concurrency
//
// A [Tree] is a plain in-memory structure with no internal locking. Callers
// sharing one across goroutines must serialize access.
package partition
