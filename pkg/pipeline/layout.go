package pipeline

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/grid"
	"github.com/matzehuels/recipetable/pkg/observability"
	"github.com/matzehuels/recipetable/pkg/render/nodelink"
)

// Layout is the serializable result of the layout stage. It carries
// everything the renderers need, so a cached layout can be rendered without
// re-parsing the recipe.
type Layout struct {
	Name        string     `json:"name" bson:"name"`
	Grid        *grid.Grid `json:"grid" bson:"grid"`
	DOT         string     `json:"dot,omitempty" bson:"dot,omitempty"`
	Size        int        `json:"size" bson:"size"`
	MaxDepth    int        `json:"max_depth" bson:"max_depth"`
	Rules       int        `json:"rules" bson:"rules"`
	Ingredients int        `json:"ingredients" bson:"ingredients"`
}

// GenerateLayout parses the recipe in opts, checks its flow graph, and lays
// the backward tree out as a grid. The Graphviz source for the flow diagram
// is generated alongside so that the image formats can be rendered from a
// cached layout.
func GenerateLayout(ctx context.Context, opts Options) (Layout, error) {
	compiled, err := Parse(ctx, opts)
	if err != nil {
		return Layout{}, err
	}
	return LayoutCompiled(ctx, compiled, opts)
}

// LayoutCompiled runs the layout stage on an already parsed recipe.
func LayoutCompiled(ctx context.Context, c *Compiled, opts Options) (Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Name, len(c.Recipe.Rules))
	start := time.Now()

	tree, err := BuildTree(ctx, c, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Name, 0, time.Since(start), err)
		return Layout{}, err
	}

	g := grid.Build(c.Store, tree)
	ingredients, _, _ := c.Store.Stats()
	l := Layout{
		Name:        opts.Name,
		Grid:        g,
		DOT:         nodelink.ToDOT(c.Store, tree, nodelink.Options{Detailed: opts.Detailed}),
		Size:        tree.Size,
		MaxDepth:    tree.MaxDepth,
		Rules:       len(c.Recipe.Rules),
		Ingredients: ingredients,
	}
	hooks.OnLayoutComplete(ctx, opts.Name, len(g.Rows), time.Since(start), nil)
	return l, nil
}

// MarshalLayout serializes a layout to JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout deserializes a layout and checks that its grid is well
// formed.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if l.Grid == nil {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout has no grid")
	}
	if _, err := l.Grid.Occupancy(); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return l, nil
}
