package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/recipetable/pkg/pipeline"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// htmlFlags registers the HTML table options on a command. The flag names
// keep the snake_case spelling of the original recipe tool.
type htmlFlags struct {
	standalone bool
	header     string
	footer     string
	classes    map[string]*string
}

func newHTMLFlags(fs *pflag.FlagSet) *htmlFlags {
	f := &htmlFlags{classes: make(map[string]*string)}
	d := table.DefaultHTMLOptions()

	fs.BoolVar(&f.standalone, "standalone", false, "wrap the table in an HTML page")
	fs.StringVar(&f.header, "html_header", "", "page header used with --standalone")
	fs.StringVar(&f.footer, "html_footer", "", "page footer used with --standalone")
	for name, def := range map[string]string{
		"amount_class":     d.AmountClass,
		"seasonings_class": d.SeasoningsClass,
		"ingredient_class": d.IngredientClass,
		"action_class":     d.ActionClass,
		"done_class":       d.DoneClass,
	} {
		f.classes[name] = fs.String(name, "", "CSS class (default \""+def+"\")")
	}
	return f
}

// options merges the flags that were set over the [html] config table.
func (f *htmlFlags) options(c *CLI, fs *pflag.FlagSet) (table.HTMLOptions, error) {
	opts, err := c.Config.HTML.HTMLOptions()
	if err != nil {
		return table.HTMLOptions{}, err
	}
	if fs.Changed("standalone") {
		opts.Standalone = f.standalone
	}
	if fs.Changed("html_header") {
		opts.Header = f.header
	}
	if fs.Changed("html_footer") {
		opts.Footer = f.footer
	}
	for name, dst := range map[string]*string{
		"amount_class":     &opts.AmountClass,
		"seasonings_class": &opts.SeasoningsClass,
		"ingredient_class": &opts.IngredientClass,
		"action_class":     &opts.ActionClass,
		"done_class":       &opts.DoneClass,
	} {
		if fs.Changed(name) {
			*dst = *f.classes[name]
		}
	}
	return opts, nil
}

// htmlTableCommand converts a recipe to an HTML table, bypassing the cache.
func (c *CLI) htmlTableCommand() *cobra.Command {
	var flags *htmlFlags

	cmd := &cobra.Command{
		Use:   "html-table [INPUT] [OUTPUT]",
		Short: "Convert the recipe to an HTML table",
		Args:  recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c, cmd.Flags())
			if err != nil {
				return err
			}
			if err := pipeline.ValidateHTMLOptions(opts); err != nil {
				return err
			}
			g, err := c.layoutGrid(cmd, args)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outputPath(args), table.HTML(g, opts))
		},
	}

	flags = newHTMLFlags(cmd.Flags())
	return cmd
}
