package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/server"
)

// serveOpts holds flags that override the [server] config table.
type serveOpts struct {
	addr    string
	timeout time.Duration
	maxSize int
	noCache bool
}

// serveCommand runs the HTTP rendering service.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline over HTTP.

Endpoints:
  POST /v1/render                     compile a recipe (JSON body, or raw text with ?format=)
  GET  /v1/artifacts/{format}/{key}   fetch a cached artifact
  GET  /healthz                       liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (default from config)")
	cmd.Flags().IntVar(&opts.maxSize, "max-source-size", 0, "largest accepted recipe in bytes (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	cfg := c.Config.Server

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		timeout = opts.timeout
	}
	addr := cfg.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	maxSize := cfg.MaxSourceSize
	if opts.maxSize > 0 {
		maxSize = opts.maxSize
	}

	htmlOpts, err := c.Config.HTML.HTMLOptions()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, server.Options{
		Addr:           addr,
		MaxSourceSize:  maxSize,
		RequestTimeout: timeout,
		HTML:           htmlOpts,
		Logger:         c.Logger,
	})

	printSuccess("Serving on %s", addr)
	printDetail("Press Ctrl+C to stop")
	c.Logger.Info("server starting", "addr", addr, "timeout", timeout, "cache_backend", c.Config.Cache.Backend)
	return srv.ListenAndServe(ctx)
}
