package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/panetree/pkg/render"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

// Render generates output artifacts for s in the requested formats.
func Render(ctx context.Context, s *snapshot.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// The SVG feeds png as well, so render it at most once.
	var svg []byte
	svgData := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(s, buildSVGOptions(opts)...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgData()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgData(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.RenderPDF(s, buildSVGOptions(opts)...)
		case FormatDOT:
			data = []byte(render.ToDOT(s, render.DOTOptions{Detailed: opts.Detailed}))
		case FormatDOTSVG:
			data, err = render.RenderDOTSVG(ctx, render.ToDOT(s, render.DOTOptions{Detailed: opts.Detailed}))
		case FormatJSON:
			data, err = snapshot.Marshal(s)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{render.WithSize(float64(opts.Width), float64(opts.Height))}
	if opts.Branches {
		svgOpts = append(svgOpts, render.WithBranches())
	}
	return svgOpts
}
