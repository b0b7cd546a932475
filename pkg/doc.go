// Package pkg provides the core libraries for Recipetable.
//
// # Overview
//
// Recipetable compiles recipes written as flows of ingredients through
// actions and join points into a table: every ingredient gets its own row
// and every step spans the rows it combines. The pkg directory is organized
// into four areas:
//
//  1. Domain: [recipe], [flow], [grid]
//  2. Views: [render/table], [render/nodelink]
//  3. Orchestration: [pipeline], [cache], [observability]
//  4. Surfaces: [config], [server], [errors], [buildinfo]
//
// # Architecture
//
// The data flow through Recipetable:
//
//	recipe source text
//	         ↓
//	    [recipe/parse] (lexer + parser into an interned [recipe.Store])
//	         ↓
//	    [flow] (join-point analysis, problems, backward tree)
//	         ↓
//	    [grid] (row and column spans)
//	         ↓
//	    HTML / debug / text / JSON / DOT / SVG / PNG / PDF
//
// # Quick Start
//
// Compile a recipe into an HTML table:
//
//	opts := pipeline.Options{Name: "soup", Source: src, Formats: []string{"html"}}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeInvalidRecipe) lists problems via errors.List
//	}
//	html := result.Artifacts["html"]
//
// Or drive the stages directly:
//
//	s := recipe.NewStore()
//	r, err := parse.Parse(s, src)
//	tree, err := flow.Analyze(s, r).IntoTree()
//	g := grid.Build(s, tree)
//	out := table.HTML(g, table.DefaultHTMLOptions())
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/flow/...               # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [recipe]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/recipe
// [recipe/parse]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/recipe/parse
// [recipe.Store]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/recipe#Store
// [flow]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/flow
// [grid]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/grid
// [render/table]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/render/table
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/recipetable/pkg/buildinfo
package pkg
