package flow

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/recipetable/pkg/recipe"
)

// WriteAnalysis writes the path map in a compact text form: one block per
// join point, sink first, each path as `input -> step -> step`.
func WriteAnalysis(w io.Writer, s *recipe.Store, a *Analysis) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "analysis {")
	for _, key := range a.orderedKeys() {
		fmt.Fprintf(bw, "  %s\n", keyName(s, key))
		for _, p := range a.paths[key] {
			fmt.Fprintf(bw, "    %s\n", formatPath(s, p))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// WriteProblems writes "graph ok" or one problem per line.
func WriteProblems(w io.Writer, s *recipe.Store, problems []Problem) error {
	bw := bufio.NewWriter(w)
	if len(problems) == 0 {
		fmt.Fprintln(bw, "graph ok")
		return bw.Flush()
	}
	fmt.Fprintln(bw, "graph problems:")
	for _, p := range problems {
		fmt.Fprintf(bw, " - %s\n", p.Describe(s))
	}
	return bw.Flush()
}

// WriteTree writes an indented outline of t, one node per line.
func WriteTree(w io.Writer, s *recipe.Store, t *BackwardTree) error {
	bw := bufio.NewWriter(w)
	t.Walk(func(n *BackwardTree, level int) bool {
		indent := strings.Repeat("  ", level)
		var label string
		switch {
		case level == 0:
			label = "<>"
		case n.IsLeaf():
			label = s.FormatIngredients(n.Ingredients)
		default:
			label = "*"
		}
		for _, st := range n.Actions {
			label += " -> " + s.FormatStep(st)
		}
		fmt.Fprintf(bw, "%s%s (size=%d, depth=%d)\n", indent, label, n.Size, n.MaxDepth)
		return true
	})
	return bw.Flush()
}

type yamlPath struct {
	Start string   `yaml:"start"`
	Steps []string `yaml:"steps,omitempty"`
}

type yamlTarget struct {
	Target string     `yaml:"target"`
	Paths  []yamlPath `yaml:"paths"`
}

type yamlAnalysis struct {
	Targets  []yamlTarget `yaml:"targets"`
	Problems []string     `yaml:"problems,omitempty"`
}

// MarshalAnalysisYAML renders the analysis as YAML, targets in the same
// order as WriteAnalysis.
func MarshalAnalysisYAML(s *recipe.Store, a *Analysis) ([]byte, error) {
	out := yamlAnalysis{Targets: []yamlTarget{}}
	for _, key := range a.orderedKeys() {
		t := yamlTarget{Target: keyName(s, key)}
		for _, p := range a.paths[key] {
			t.Paths = append(t.Paths, yamlPath{Start: s.FormatInput(p.Start), Steps: formatSteps(s, p.Actions)})
		}
		out.Targets = append(out.Targets, t)
	}
	for _, p := range a.Problems {
		out.Problems = append(out.Problems, p.Describe(s))
	}
	return yaml.Marshal(out)
}

type yamlTree struct {
	Size        int         `yaml:"size"`
	MaxDepth    int         `yaml:"max_depth"`
	Ingredients []string    `yaml:"ingredients,omitempty"`
	Actions     []string    `yaml:"actions,omitempty"`
	Children    []*yamlTree `yaml:"children,omitempty"`
}

// MarshalTreeYAML renders t as nested YAML mappings.
func MarshalTreeYAML(s *recipe.Store, t *BackwardTree) ([]byte, error) {
	converted := make(map[*BackwardTree]*yamlTree)
	var root *yamlTree
	t.Walk(func(n *BackwardTree, _ int) bool {
		y := &yamlTree{Size: n.Size, MaxDepth: n.MaxDepth, Actions: formatSteps(s, n.Actions)}
		for _, ref := range n.Ingredients {
			y.Ingredients = append(y.Ingredients, s.FormatIngredient(ref))
		}
		converted[n] = y
		if root == nil {
			root = y
		}
		return true
	})
	// Walk is pre-order, so every parent exists before its children.
	t.Walk(func(n *BackwardTree, _ int) bool {
		for _, c := range n.Children {
			converted[n].Children = append(converted[n].Children, converted[c])
		}
		return true
	})
	return yaml.Marshal(root)
}

// orderedKeys puts the sink first, then join points in discovery order.
func (a *Analysis) orderedKeys() []recipe.Symbol {
	keys := make([]recipe.Symbol, 0, len(a.keys))
	if _, ok := a.paths[Sink]; ok {
		keys = append(keys, Sink)
	}
	for _, k := range a.keys {
		if k != Sink {
			keys = append(keys, k)
		}
	}
	return keys
}

func keyName(s *recipe.Store, key recipe.Symbol) string {
	if key == Sink {
		return "<>"
	}
	return "$" + s.Resolve(key)
}

func formatPath(s *recipe.Store, p Path) string {
	parts := append([]string{s.FormatInput(p.Start)}, formatSteps(s, p.Actions)...)
	return strings.Join(parts, " -> ")
}

func formatSteps(s *recipe.Store, steps []recipe.Step) []string {
	if len(steps) == 0 {
		return nil
	}
	out := make([]string, len(steps))
	for i, st := range steps {
		out[i] = s.FormatStep(st)
	}
	return out
}
