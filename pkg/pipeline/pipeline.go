// Package pipeline provides the recipe compilation pipeline for recipetable.
//
// This package implements the complete parse → layout → render pipeline that
// is used by both the CLI and the HTTP server. By centralizing this logic,
// both entry points validate, cache, and log the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read the recipe source into an interned recipe
//  2. Layout: Check the flow graph, build the backward tree, and lay it out
//     as a grid (plus the Graphviz source of the flow diagram)
//  3. Render: Generate output in various formats (HTML, JSON, SVG, ...)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Name:    "soup.recipe",
//	    Source:  src,
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
//
// Run individual stages:
//
//	// Parse only
//	compiled, err := pipeline.Parse(ctx, opts)
//
//	// Layout with caching
//	layout, err := runner.GenerateLayout(ctx, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipetable/pkg/cache"
	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// LayoutVersion is part of every layout cache key. Bump it when the grid
	// layout changes for the same input.
	LayoutVersion = 1

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultName labels recipes read without a file name.
	DefaultName = "recipe"
)

// Format constants for output formats.
const (
	FormatHTML  = "html"
	FormatJSON  = "json"
	FormatDebug = "debug"
	FormatText  = "text"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML:  true,
	FormatJSON:  true,
	FormatDebug: true,
	FormatText:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
}

// FormatNames returns the supported formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the recipe pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Name          string `json:"name,omitempty"`
	Source        string `json:"source"`
	MaxSourceSize int    `json:"-"`

	// Layout options
	Detailed bool `json:"detailed,omitempty"` // Annotate the flow diagram with subtree size and depth
	Refresh  bool `json:"refresh,omitempty"`  // Ignore cached layouts and artifacts

	// Render options
	Formats []string          `json:"formats,omitempty"`
	HTML    table.HTMLOptions `json:"html,omitempty"`
	Scale   float64           `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed grid and flow diagram.
	Layout Layout

	// SourceHash is the content hash of the recipe source.
	SourceHash string

	// LayoutHash is the content hash of the serialized layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Columns    int
	Cells      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHTMLOptions checks the CSS class names, which are written into the
// output unescaped.
func ValidateHTMLOptions(o table.HTMLOptions) error {
	for _, class := range []string{o.AmountClass, o.SeasoningsClass, o.IngredientClass, o.ActionClass, o.DoneClass} {
		if class == "" {
			continue
		}
		if err := errors.ValidateClassName(class); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the recipe source and sets parse defaults.
func (o *Options) ValidateForParse() error {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.MaxSourceSize == 0 {
		o.MaxSourceSize = errors.MaxSourceSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidateSource(o.Source, o.MaxSourceSize)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.HTML.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := ValidateHTMLOptions(o.HTML); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Scale < 0 || o.Scale > 10 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must be between 0 and 10, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Version:  LayoutVersion,
		Detailed: o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. Only
// the options that affect the given format are included, so e.g. changing a
// CSS class does not invalidate cached SVGs.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatHTML:
		k.Standalone = o.HTML.Standalone
		k.Classes = []string{o.HTML.AmountClass, o.HTML.SeasoningsClass, o.HTML.IngredientClass, o.HTML.ActionClass, o.HTML.DoneClass}
		if o.HTML.Standalone {
			k.Header = o.HTML.Header
			k.Footer = o.HTML.Footer
		}
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

// String describes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s (%d bytes) -> %s", o.Name, len(o.Source), strings.Join(o.Formats, ","))
}
