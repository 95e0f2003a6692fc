package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// Default viewport used when no size is given.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	branches      bool
	labels        bool
}

// WithSize sets the pixel viewport the unit square is scaled onto.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// WithBranches outlines branch containers with dashed strokes.
func WithBranches() SVGOption { return func(r *svgRenderer) { r.branches = true } }

// WithoutLabels suppresses leaf labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// RenderSVG draws the nodes of s, scaled so the root fills the viewport.
// Leaves are drawn in pre-order and labelled with their label or, when that
// is empty, their element id.
func RenderSVG(s *snapshot.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="#ffffff"/>`+"\n", px(r.width), px(r.height))

	if len(s.Nodes) == 0 {
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	project := r.projector(s)
	for _, n := range s.Nodes {
		rect := project(n.Rect())

		if n.IsLeaf() {
			r.renderLeaf(&buf, n, rect.X, rect.Y, rect.Width, rect.Height)
		} else if r.branches && n.ID != 0 {
			fmt.Fprintf(&buf, `  <rect class="branch" data-axis="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#666666" stroke-width="1.5" stroke-dasharray="6 3"/>`+"\n",
				n.Axis, px(rect.X), px(rect.Y), px(rect.Width), px(rect.Height))
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// projector maps absolute rects into the viewport, scaled relative to the
// root so trees built in any container fit.
func (r *svgRenderer) projector(s *snapshot.Snapshot) func(geom.Rect) geom.Rect {
	root := s.Nodes[0].Rect()
	sx, sy := 0.0, 0.0
	if root.Width > 0 {
		sx = r.width / root.Width
	}
	if root.Height > 0 {
		sy = r.height / root.Height
	}
	return func(rect geom.Rect) geom.Rect {
		rect.X -= root.X
		rect.Y -= root.Y
		return rect.Scale(sx, sy)
	}
}

func (r *svgRenderer) renderLeaf(buf *bytes.Buffer, n snapshot.Node, x, y, w, h float64) {
	fmt.Fprintf(buf, `  <rect id="leaf-%s" class="leaf" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#333333" stroke-width="1"/>`+"\n",
		escapeXML(n.ElementID), px(x), px(y), px(w), px(h), colorForID(n.ElementID))
	if !r.labels {
		return
	}

	label := n.Label
	if label == "" {
		label = n.ElementID
	}
	size := fontSizeFor(w, h, len(label))
	fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="monospace" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		px(x+w/2), px(y+h/2), size, escapeXML(truncateLabel(label, w, size)))
}
