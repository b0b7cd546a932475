package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/flow"
	"github.com/matzehuels/recipetable/pkg/grid"
	"github.com/matzehuels/recipetable/pkg/pipeline"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// compile reads and parses INPUT.
func (c *CLI) compile(ctx context.Context, cmd *cobra.Command, args []string) (*pipeline.Compiled, pipeline.Options, error) {
	in, err := readInput(cmd, args)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Name:   in.Name,
		Source: in.Source,
		Logger: loggerFromContext(ctx),
	}
	compiled, err := pipeline.Parse(ctx, opts)
	if err != nil {
		return nil, opts, err
	}
	return compiled, opts, nil
}

// debugParseTreeCommand prints the parsed recipe back in canonical form.
func (c *CLI) debugParseTreeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "debug-parse-tree [INPUT] [OUTPUT]",
		Short: "Print the raw parse tree",
		Args:  recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			compiled, _, err := c.compile(cmd.Context(), cmd, args)
			if err != nil {
				return err
			}
			return writeTo(cmd, outputPath(args), func(w io.Writer) error {
				return compiled.Store.WriteRecipe(w, compiled.Recipe)
			})
		},
	}
}

// debugAnalysisCommand prints the join-point map and every problem found.
// It never fails on an invalid recipe; showing the problems is the point.
func (c *CLI) debugAnalysisCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "debug-analysis [INPUT] [OUTPUT]",
		Short: "Print the analysis output",
		Args:  recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			compiled, opts, err := c.compile(ctx, cmd, args)
			if err != nil {
				return err
			}
			a := pipeline.Analyze(ctx, compiled, opts)
			s := compiled.Store

			if asYAML {
				data, err := flow.MarshalAnalysisYAML(s, a)
				if err != nil {
					return err
				}
				return writeOutput(cmd, outputPath(args), data)
			}
			return writeTo(cmd, outputPath(args), func(w io.Writer) error {
				if err := flow.WriteAnalysis(w, s, a); err != nil {
					return err
				}
				return flow.WriteProblems(w, s, a.Problems)
			})
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the analysis as YAML")
	return cmd
}

// debugBackwardTreeCommand prints the tree rooted at the finished dish.
func (c *CLI) debugBackwardTreeCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "debug-backward-tree [INPUT] [OUTPUT]",
		Short: "Print the generated backward tree",
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

			if asYAML {
				data, err := flow.MarshalTreeYAML(compiled.Store, tree)
				if err != nil {
					return err
				}
				return writeOutput(cmd, outputPath(args), data)
			}
			return writeTo(cmd, outputPath(args), func(w io.Writer) error {
				return flow.WriteTree(w, compiled.Store, tree)
			})
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the tree as YAML")
	return cmd
}

// debugTableCommand prints the raw cell spans of the laid out table.
func (c *CLI) debugTableCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "debug-table [INPUT] [OUTPUT]",
		Short: "Print the raw table layout info",
		Args:  recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.layoutGrid(cmd, args)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := grid.Marshal(g)
				if err != nil {
					return err
				}
				return writeOutput(cmd, outputPath(args), append(data, '\n'))
			}
			return writeOutput(cmd, outputPath(args), []byte(table.Debug(g)))
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the grid as JSON")
	return cmd
}

// layoutGrid runs parse, analysis and layout on INPUT without the cache.
func (c *CLI) layoutGrid(cmd *cobra.Command, args []string) (*grid.Grid, error) {
	ctx := cmd.Context()
	compiled, opts, err := c.compile(ctx, cmd, args)
	if err != nil {
		return nil, err
	}
	layout, err := pipeline.LayoutCompiled(ctx, compiled, opts)
	if err != nil {
		return nil, err
	}
	return layout.Grid, nil
}
