package flow

import (
	"errors"

	"github.com/matzehuels/recipetable/pkg/recipe"
)

// Sink is the key for paths that end at `<>`.
const Sink = recipe.NoSymbol

// ErrConsumed is returned by [Analysis.IntoTree] when called a second time.
// Building a tree drains the analysis.
var ErrConsumed = errors.New("analysis already consumed")

// Path is one segment of a rule's chain between two boundaries.
type Path struct {
	Start   recipe.Input
	Actions []recipe.Step
}

// Analysis groups paths by the join point they feed and lists any problems
// that would prevent building a tree.
type Analysis struct {
	keys     []recipe.Symbol
	paths    map[recipe.Symbol][]Path
	Problems []Problem
	consumed bool
}

// Analyze splits the rules of r into paths and validates the resulting
// graph. It always returns an analysis; check Problems or call IntoTree.
func Analyze(s *recipe.Store, r recipe.Recipe) *Analysis {
	a := &Analysis{paths: make(map[recipe.Symbol][]Path)}

	for _, ref := range r.Rules {
		a.addRule(s.Rule(ref))
	}

	if len(a.paths[Sink]) == 0 {
		a.Problems = append(a.Problems, Problem{Kind: NoTerminal})
		return a
	}
	a.findUndefinedJoins()
	a.findCycles()
	return a
}

func (a *Analysis) addRule(rule recipe.Rule) {
	cur := Path{Start: rule.Input}
	for _, action := range rule.Actions {
		switch action.Kind {
		case recipe.ActionStep:
			cur.Actions = append(cur.Actions, action.Step)
		case recipe.ActionJoin:
			a.add(action.Point.Sym, cur)
			cur = Path{Start: recipe.JoinInput(action.Point)}
		case recipe.ActionDone:
			// anything after <> is unreachable
			a.add(Sink, cur)
			return
		}
	}
	if len(cur.Actions) > 0 {
		a.Problems = append(a.Problems, Problem{Kind: DanglingChain, Actions: cur.Actions, Start: cur.Start})
	}
}

func (a *Analysis) add(key recipe.Symbol, p Path) {
	if _, ok := a.paths[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.paths[key] = append(a.paths[key], p)
}

// findUndefinedJoins records join points used as inputs that no path feeds.
func (a *Analysis) findUndefinedJoins() {
	reported := make(map[recipe.Symbol]bool)
	for _, key := range a.keys {
		for _, p := range a.paths[key] {
			if !p.Start.IsJoin() {
				continue
			}
			sym := p.Start.Point.Sym
			if _, ok := a.paths[sym]; ok || reported[sym] {
				continue
			}
			reported[sym] = true
			a.Problems = append(a.Problems, Problem{Kind: UndefinedJoin, Point: sym})
		}
	}
}

// findCycles walks back from the sink with an explicit stack and records the
// first join point it reaches twice. A join point consumed by two different
// paths is reported the same way, since the result would not be a tree.
func (a *Analysis) findCycles() {
	var frontier []recipe.Symbol
	seen := make(map[recipe.Symbol]bool)

	for _, p := range a.paths[Sink] {
		if p.Start.IsJoin() {
			frontier = append(frontier, p.Start.Point.Sym)
		}
	}

	for len(frontier) > 0 {
		elem := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		if seen[elem] {
			a.Problems = append(a.Problems, Problem{Kind: Cycle, Point: elem})
			return
		}
		seen[elem] = true
		for _, p := range a.paths[elem] {
			if p.Start.IsJoin() {
				frontier = append(frontier, p.Start.Point.Sym)
			}
		}
	}
}

// Keys returns the join points that have at least one incoming path, in the
// order they were first fed. [Sink] is included if any path reaches it.
func (a *Analysis) Keys() []recipe.Symbol {
	return append([]recipe.Symbol(nil), a.keys...)
}

// Paths returns the paths feeding key. The slice must not be modified.
func (a *Analysis) Paths(key recipe.Symbol) []Path {
	return a.paths[key]
}

// OK reports whether the analysis has no problems.
func (a *Analysis) OK() bool { return len(a.Problems) == 0 }

// Consumed reports whether IntoTree has already drained the analysis.
func (a *Analysis) Consumed() bool { return a.consumed }
