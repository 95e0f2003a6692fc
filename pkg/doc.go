// Package pkg provides the core libraries for panetree.
//
// # Overview
//
// Panetree takes a flat list of axis-aligned rectangles (dashboard panels,
// window tiles, page regions) and reconstructs the hierarchical split layout
// that produces them. The resulting tree can then be edited: removing a
// panel lets its neighbours take over the space, inserting one makes room
// next to an existing panel.
//
// # Architecture
//
// The typical data flow:
//
//	Panel file (JSON / YAML / TOML)
//	         ↓
//	    [panels] package (decode + validate)
//	         ↓
//	    [partition] package (cut finding, tree build, edits)
//	         ↓
//	    [snapshot] package (flat pre-order form)
//	         ↓
//	    [render] package (SVG, DOT, PNG, PDF)
//
// # Quick Start
//
//	tree, err := partition.Build([]partition.Element{
//	    {ID: "nav", Rect: geom.R(0, 0, 0.25, 1)},
//	    {ID: "chart", Rect: geom.R(0.25, 0, 0.75, 0.5)},
//	    {ID: "table", Rect: geom.R(0.25, 0.5, 0.75, 0.5)},
//	})
//	if err != nil {
//	    return err
//	}
//	tree.RemoveLeaf("chart")
//	svg := render.RenderSVG(snapshot.FromTree(tree))
//
// # Main Packages
//
// [geom] - Rectangles, axes and the tolerance used for every float comparison.
//
// [partition] - The layout engine. [partition.Build] reconstructs a tree from
// elements; [partition.Tree] supports removal and insertion with relayout.
//
// [panels] - Panel file import and export.
//
// [snapshot] - Serializable pre-order form of a tree.
//
// [render] - SVG and Graphviz output, plus PNG/PDF conversion.
//
// [pipeline] - The read → build → render pipeline with caching, shared by the
// CLI and the preview server.
//
// [cache] - File, Redis and MongoDB cache backends.
//
// [observability] - Hooks for logging and metrics.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
//	go test ./...                         # All tests
//	go test -run Example ./pkg/partition  # Examples only
//	go test -tags integration ./pkg/cache # Redis and MongoDB backends
package pkg
