package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/panetree/pkg/snapshot"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Detailed adds the rect of every node to its label.
	Detailed bool
}

// ToDOT converts a snapshot to a Graphviz digraph with one node per tree
// node and an edge from every parent to each child. Leaves are filled boxes;
// branches are dashed.
func ToDOT(s *snapshot.Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=monospace, fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, dotAttrs(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, n := range s.Nodes {
		if n.Parent >= 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.Parent, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n snapshot.Node, detailed bool) string {
	label := n.Kind
	if n.IsLeaf() {
		label = n.ElementID
		if n.Label != "" && n.Label != n.ElementID {
			label += "\n" + n.Label
		}
	} else if n.Axis != "" && n.Kind == "root" {
		label += "\n" + n.Axis
	}
	if detailed {
		label += fmt.Sprintf("\n%.3g,%.3g %.3gx%.3g", n.X, n.Y, n.Width, n.Height)
	}

	attrs := fmt.Sprintf("label=%q", label)
	if n.IsLeaf() {
		attrs += fmt.Sprintf(", fillcolor=%q", colorForID(n.ElementID))
	} else {
		attrs += ", style=\"rounded,dashed\""
	}
	return attrs
}

// RenderDOTSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg header with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
