// Package render draws partition trees for debugging.
//
// # Overview
//
// Renderers consume a [snapshot.Snapshot] rather than a live tree, so a
// layout can be drawn straight from a saved tree.json file as well as from a
// freshly built tree. Two views are provided:
//
//   - [RenderSVG] draws every node at its absolute rect scaled to a pixel
//     viewport. Leaves are filled and labelled; branches can be outlined to
//     show the split structure.
//   - [RenderPDF] draws the same view onto a single PDF page.
//   - [ToDOT] describes the tree hierarchy as a Graphviz digraph, and
//     [RenderDOTSVG] lays it out with Graphviz.
//
// # Format Conversion
//
// [ToPNG] converts any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := render.RenderSVG(snap, render.WithSize(1280, 720))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [snapshot.Snapshot]: github.com/matzehuels/panetree/pkg/snapshot.Snapshot
package render
