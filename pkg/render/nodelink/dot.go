package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/recipetable/pkg/flow"
	"github.com/matzehuels/recipetable/pkg/recipe"
	"github.com/matzehuels/recipetable/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds subtree size and depth to the first step of every path.
	Detailed bool
}

// ToDOT converts a backward tree to Graphviz DOT format. Ingredients are
// drawn as notes, steps as rounded boxes and the finished dish as a double
// circle. The result can be rendered using [RenderSVG], [RenderPDF], or
// [RenderPNG].
func ToDOT(s *recipe.Store, tree *flow.BackwardTree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")
	buf.WriteString("  done [label=\"<>\", shape=doublecircle, style=filled, fillcolor=lightgrey];\n")

	if tree == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	var edges []string
	next := 0
	id := func() string {
		next++
		return "n" + strconv.Itoa(next)
	}

	type item struct {
		node   *flow.BackwardTree
		target string
	}
	stack := []item{{node: tree, target: "done"}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.node

		entry := it.target
		if len(n.Actions) > 0 {
			ids := make([]string, len(n.Actions))
			for i, st := range n.Actions {
				ids[i] = id()
				label := stepLabel(s, st)
				if i == 0 && opts.Detailed {
					label += fmt.Sprintf("\nsize: %d\ndepth: %d", n.Size, n.MaxDepth)
				}
				fmt.Fprintf(&buf, "  %s [label=%q];\n", ids[i], label)
			}
			for i := 0; i < len(ids)-1; i++ {
				edges = append(edges, fmt.Sprintf("  %s -> %s;", ids[i], ids[i+1]))
			}
			edges = append(edges, fmt.Sprintf("  %s -> %s;", ids[len(ids)-1], it.target))
			entry = ids[0]
		}

		for _, ref := range n.Ingredients {
			ing := id()
			fmt.Fprintf(&buf, "  %s [label=%q, shape=note, style=filled, fillcolor=lightyellow];\n", ing, s.FormatIngredient(ref))
			edges = append(edges, fmt.Sprintf("  %s -> %s;", ing, entry))
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: n.Children[i], target: entry})
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.String()
}

func stepLabel(s *recipe.Store, st recipe.Step) string {
	if len(st.Seasonings) == 0 {
		return s.Name(st.Action)
	}
	parts := make([]string, len(st.Seasonings))
	for i, ref := range st.Seasonings {
		parts[i] = "+ " + s.FormatIngredient(ref)
	}
	return s.Name(st.Action) + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
