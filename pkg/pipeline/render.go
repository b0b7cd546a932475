package pipeline

import (
	stderrors "errors"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/grid"
	"github.com/matzehuels/recipetable/pkg/render"
	"github.com/matzehuels/recipetable/pkg/render/nodelink"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// Render generates output artifacts in the requested formats.
//
// The table formats (html, json, debug, text) are produced from the grid.
// The diagram formats (dot, svg, png, pdf) are produced from the layout's
// Graphviz source; the SVG is rendered at most once and shared by the
// converted formats.
func Render(l Layout, opts Options) (map[string][]byte, error) {
	if l.Grid == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no grid")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}

		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data = table.HTML(l.Grid, opts.HTML)
		case FormatJSON:
			data, err = grid.Marshal(l.Grid)
		case FormatDebug:
			data = []byte(table.Debug(l.Grid))
		case FormatText:
			var s string
			s, err = table.Terminal(l.Grid)
			data = []byte(s + "\n")
		case FormatDOT:
			data = []byte(l.DOT)
		case FormatSVG, FormatPNG, FormatPDF:
			if svg == nil {
				svg, err = nodelink.RenderSVG(l.DOT)
				if err != nil {
					break
				}
			}
			data, err = convertSVG(svg, format, opts.Scale)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if stderrors.Is(err, render.ErrNoConverter) {
				return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func convertSVG(svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatPNG:
		return render.ToPNG(svg, scale)
	case FormatPDF:
		return render.ToPDF(svg)
	default:
		return svg, nil
	}
}
