package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/pipeline"
	"github.com/matzehuels/recipetable/pkg/render/nodelink"
)

// graphCommand draws the backward tree as a node-link diagram. Unlike
// render it always recomputes and talks to Graphviz directly.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "graph [INPUT] [OUTPUT]",
		Short: "Draw the recipe flow as a diagram",
		Args:  recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			compiled, opts, err := c.compile(ctx, cmd, args)
			if err != nil {
				return err
			}
			tree, err := pipeline.BuildTree(ctx, compiled, opts)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(compiled.Store, tree, nodelink.Options{Detailed: detailed})
			var data []byte
			switch format {
			case pipeline.FormatDOT:
				data = []byte(dot)
			case pipeline.FormatSVG:
				data, err = nodelink.RenderSVG(dot)
			case pipeline.FormatPNG:
				data, err = nodelink.RenderPNG(dot, scale)
			case pipeline.FormatPDF:
				data, err = nodelink.RenderPDF(dot)
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid graph format: %q (must be dot, svg, png or pdf)", format)
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
			}
			return writeOutput(cmd, outputPath(args), data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "dot, svg, png or pdf")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats([]string{pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}))
	cmd.Flags().BoolVar(&detailed, "detailed", false, "annotate steps with subtree size and depth")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	return cmd
}
