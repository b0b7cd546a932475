package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats  string  // comma-separated output formats
	detailed bool    // annotate the flow diagram with subtree size and depth
	scale    float64 // PNG resolution multiplier
	noCache  bool    // bypass the cache entirely
	refresh  bool    // recompute and overwrite cached entries
	quiet    bool    // suppress the spinner and stats line
}

// renderCommand runs the cached pipeline and writes one file per format.
//
// With a single format, OUTPUT names the file (stdout by default). With
// several, OUTPUT is a base path and each format gets its extension appended;
// the base defaults to INPUT without its extension.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	var html *htmlFlags

	cmd := &cobra.Command{
		Use:   "render [INPUT] [OUTPUT]",
		Short: "Render a recipe to one or more formats",
		Long: `Render a recipe through the cached pipeline.

Formats: ` + strings.Join(pipeline.FormatNames(), ", ") + `.
png and pdf require rsvg-convert (librsvg) on PATH.`,
		Args: recipeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			htmlOpts, err := html.options(c, cmd.Flags())
			if err != nil {
				return err
			}

			popts := pipeline.Options{
				Name:     in.Name,
				Source:   in.Source,
				Formats:  parseFormats(opts.formats),
				HTML:     htmlOpts,
				Detailed: opts.detailed,
				Scale:    opts.scale,
				Refresh:  opts.refresh,
				Logger:   logger,
			}
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			paths, err := outputPaths(in.Path, outputPath(args), popts.Formats)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(logger)
			var sp *Spinner
			if !opts.quiet {
				sp = newSpinnerWithContext(ctx, "Rendering "+in.Name)
				sp.Start()
			}
			result, err := runner.Execute(ctx, popts)
			if sp != nil {
				sp.Stop()
			}
			if err != nil {
				return err
			}

			for _, format := range popts.Formats {
				if err := writeOutput(cmd, paths[format], result.Artifacts[format]); err != nil {
					return err
				}
			}

			if !opts.quiet {
				printStats(result.Stats.Rows, result.Stats.Columns, 0,
					result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
			}
			prog.done("rendered", "recipe", in.Name, "formats", popts.Formats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated (default html)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats(pipeline.FormatNames()))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "annotate the flow diagram with subtree size and depth")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the pipeline cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached layouts and artifacts")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "no spinner or stats")
	html = newHTMLFlags(cmd.Flags())

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats,
// dropping duplicates. An empty flag yields nil, which the pipeline
// defaults to html.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input paths.
// If output is empty or stdout, it strips the extension from input.
// If output has a format extension (.html, .svg, ...), it strips that.
func basePath(output, input string) string {
	if output == "" || output == stdioArg {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths assigns a destination to every format.
func outputPaths(input, output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 {
		paths[formats[0]] = output
		return paths, nil
	}
	if (output == "" || output == stdioArg) && input == stdioArg {
		return nil, errors.New(errors.ErrCodeInvalidOption,
			"rendering %d formats from stdin needs an OUTPUT base path", len(formats))
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = fmt.Sprintf("%s.%s", base, extension(f))
	}
	return paths, nil
}

// extension maps a format to its file extension.
func extension(format string) string {
	switch format {
	case pipeline.FormatDebug, pipeline.FormatText:
		return format + ".txt"
	case pipeline.FormatDOT:
		return "gv"
	default:
		return format
	}
}
