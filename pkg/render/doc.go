// Package render turns laid-out recipes into files people read.
//
// # Overview
//
// Two views are provided, each in its own subpackage:
//
//   - [table]: the recipe grid as an HTML table, a plain-text debug dump, or
//     a boxed terminal table
//   - [nodelink]: the backward tree as a Graphviz flow diagram
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(nodelink.ToDOT(store, tree, nodelink.Options{}))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [table]: github.com/matzehuels/recipetable/pkg/render/table
// [nodelink]: github.com/matzehuels/recipetable/pkg/render/nodelink
package render
