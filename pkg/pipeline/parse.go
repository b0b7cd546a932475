package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/flow"
	"github.com/matzehuels/recipetable/pkg/observability"
	"github.com/matzehuels/recipetable/pkg/recipe"
	"github.com/matzehuels/recipetable/pkg/recipe/parse"
)

// Compiled is a parsed recipe together with the store its symbols live in.
type Compiled struct {
	Store  *recipe.Store
	Recipe recipe.Recipe
}

// Parse validates the source in opts and parses it into a new store.
// Syntax errors carry ErrCodeParse; the underlying *parse.Error keeps the
// position.
func Parse(ctx context.Context, opts Options) (*Compiled, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Name, len(opts.Source))

	start := time.Now()
	s := recipe.NewStore()
	r, err := parse.Parse(s, opts.Source)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeParse, err, "parse %s", opts.Name)
		hooks.OnParseComplete(ctx, opts.Name, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, opts.Name, len(r.Rules), time.Since(start), nil)

	opts.Logger.Debug("parsed recipe", "name", opts.Name, "rules", len(r.Rules))
	return &Compiled{Store: s, Recipe: r}, nil
}

// Analyze builds the flow graph of a compiled recipe.
func Analyze(ctx context.Context, c *Compiled, opts Options) *flow.Analysis {
	a := flow.Analyze(c.Store, c.Recipe)
	observability.Pipeline().OnAnalyzeComplete(ctx, opts.Name, len(a.Problems))
	if opts.Logger != nil {
		for _, p := range a.Problems {
			opts.Logger.Debug("graph problem", "kind", p.Kind, "detail", p.Describe(c.Store))
		}
	}
	return a
}

// BuildTree analyzes a compiled recipe and materializes its backward tree.
// Graph problems are reported as one ErrCodeInvalidRecipe error whose parts
// (see errors.List) are the individual problem descriptions.
func BuildTree(ctx context.Context, c *Compiled, opts Options) (*flow.BackwardTree, error) {
	a := Analyze(ctx, c, opts)
	tree, err := a.IntoTree()
	if err == nil {
		return tree, nil
	}

	var perr *flow.ProblemsError
	if !stderrors.As(err, &perr) {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build tree for %s", opts.Name)
	}
	descs := perr.Describe(c.Store)
	list := make([]error, len(descs))
	for i, d := range descs {
		list[i] = stderrors.New(d)
	}
	return nil, errors.Join(errors.ErrCodeInvalidRecipe, list, "recipe %q has %s", opts.Name, plural(len(descs), "problem"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
