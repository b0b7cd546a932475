package flow

import (
	"fmt"
	"strings"

	"github.com/matzehuels/recipetable/pkg/recipe"
)

// ProblemKind classifies graph invariant violations.
type ProblemKind int

const (
	// NoTerminal means no path reaches the sink.
	NoTerminal ProblemKind = iota
	// DanglingChain means a rule ends with steps that never reach a join
	// point or the sink.
	DanglingChain
	// Cycle means a join point was reached twice while walking back from
	// the sink.
	Cycle
	// UndefinedJoin means a rule starts from a join point nothing feeds.
	UndefinedJoin
)

var problemKindNames = map[ProblemKind]string{
	NoTerminal:    "no_terminal",
	DanglingChain: "dangling_chain",
	Cycle:         "cycle",
	UndefinedJoin: "undefined_join",
}

// String returns a snake_case name suitable for machine-readable output.
func (k ProblemKind) String() string {
	if s, ok := problemKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("problem(%d)", int(k))
}

// Problem is one reason a recipe cannot be turned into a tree. Only the
// fields relevant to Kind are set.
type Problem struct {
	Kind ProblemKind

	// DanglingChain: the trailing steps and where that segment started.
	Actions []recipe.Step
	Start   recipe.Input

	// Cycle, UndefinedJoin: the join point involved.
	Point recipe.Symbol
}

// Describe renders p as a single human-readable line.
func (p Problem) Describe(s *recipe.Store) string {
	switch p.Kind {
	case NoTerminal:
		return "no `<>` state"
	case DanglingChain:
		steps := make([]string, len(p.Actions))
		for i, st := range p.Actions {
			steps[i] = s.FormatStep(st)
		}
		if p.Start.IsJoin() {
			return fmt.Sprintf("path starting at join point '%s' goes through action path '%s -> ...' but never reaches a join point",
				s.FormatJoin(p.Start.Point), strings.Join(steps, " -> "))
		}
		return fmt.Sprintf("path starting from ingredients list '%s' goes through actions '%s' but never reaches a join point",
			s.FormatIngredients(p.Start.Ingredients), strings.Join(steps, " -> "))
	case Cycle:
		return fmt.Sprintf("the join point '$%s' is involved in a cycle", s.Resolve(p.Point))
	case UndefinedJoin:
		return fmt.Sprintf("the join point '$%s' is used as an input but nothing feeds it", s.Resolve(p.Point))
	default:
		return p.Kind.String()
	}
}

// ProblemsError carries the full problem list of an invalid analysis.
type ProblemsError struct {
	Problems []Problem
}

func (e *ProblemsError) Error() string {
	if len(e.Problems) == 1 {
		return "recipe graph has 1 problem"
	}
	return fmt.Sprintf("recipe graph has %d problems", len(e.Problems))
}

// Describe renders every problem, in order.
func (e *ProblemsError) Describe(s *recipe.Store) []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Describe(s)
	}
	return out
}
