package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/panetree/pkg/snapshot"
)

// RenderPDF draws the same view as [RenderSVG] onto a single PDF page whose
// size in points matches the viewport. It needs no external tools.
func RenderPDF(s *snapshot.Snapshot, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: r.width, Ht: r.height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle("panetree layout", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(s.Nodes) > 0 {
		project := r.projector(s)
		for _, n := range s.Nodes {
			rect := project(n.Rect())
			switch {
			case n.IsLeaf():
				red, green, blue := hexRGB(colorForID(n.ElementID))
				pdf.SetFillColor(red, green, blue)
				pdf.SetDrawColor(0x33, 0x33, 0x33)
				pdf.SetLineWidth(1)
				pdf.SetDashPattern(nil, 0)
				pdf.Rect(rect.X, rect.Y, rect.Width, rect.Height, "FD")
				if r.labels {
					pdfLabel(pdf, tr, n, rect.X, rect.Y, rect.Width, rect.Height)
				}
			case r.branches && n.ID != 0:
				pdf.SetDrawColor(0x66, 0x66, 0x66)
				pdf.SetLineWidth(1.5)
				pdf.SetDashPattern([]float64{6, 3}, 0)
				pdf.Rect(rect.X, rect.Y, rect.Width, rect.Height, "D")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfLabel(pdf *fpdf.Fpdf, tr func(string) string, n snapshot.Node, x, y, w, h float64) {
	label := n.Label
	if label == "" {
		label = n.ElementID
	}
	size := fontSizeFor(w, h, len(label))
	pdf.SetFont("Courier", "", size)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, tr(truncateLabel(label, w, size)), "", 0, "CM", false, 0, "")
}

// hexRGB parses a "#rrggbb" colour. Malformed input yields black.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
