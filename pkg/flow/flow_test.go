package flow

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/matzehuels/recipetable/pkg/recipe"
	"github.com/matzehuels/recipetable/pkg/recipe/parse"
)

const twoIntoOne = `r { a -> step1 -> $j; b -> step2 -> $j; $j -> step3 -> <>; }`

func analyze(t *testing.T, src string) (*recipe.Store, *Analysis) {
	t.Helper()
	s := recipe.NewStore()
	r, err := parse.Parse(s, src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return s, Analyze(s, r)
}

// node is a name-resolved view of a BackwardTree for comparisons.
type node struct {
	Ingredients []string
	Actions     []string
	Size        int
	MaxDepth    int
	Children    []node
}

func shape(s *recipe.Store, t *BackwardTree) node {
	n := node{Size: t.Size, MaxDepth: t.MaxDepth}
	for _, ref := range t.Ingredients {
		n.Ingredients = append(n.Ingredients, s.FormatIngredient(ref))
	}
	for _, st := range t.Actions {
		n.Actions = append(n.Actions, s.FormatStep(st))
	}
	for _, c := range t.Children {
		n.Children = append(n.Children, shape(s, c))
	}
	return n
}

func TestAnalyzeTwoIntoOne(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	if !a.OK() {
		t.Fatalf("Problems = %v, want none", a.Problems)
	}

	j, _ := s.Lookup("j")
	keys := a.Keys()
	if len(keys) != 2 || keys[0] != j || keys[1] != Sink {
		t.Fatalf("Keys() = %v, want [j, sink]", keys)
	}

	got := map[string][]string{}
	for _, k := range keys {
		var name string
		if k == Sink {
			name = "<>"
		} else {
			name = s.Resolve(k)
		}
		for _, p := range a.Paths(k) {
			got[name] = append(got[name], formatPath(s, p))
		}
	}
	want := map[string][]string{
		"j":  {"a -> step1", "b -> step2"},
		"<>": {"$j -> step3"},
	}
	if diff := pretty.Compare(got, want); diff != "" {
		t.Errorf("paths diff (-got +want):\n%s", diff)
	}
}

func TestIntoTreeTwoIntoOne(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	tree, err := a.IntoTree()
	if err != nil {
		t.Fatalf("IntoTree() error: %v", err)
	}

	want := node{
		Size:     2,
		MaxDepth: 2,
		Children: []node{{
			Actions:  []string{"step3"},
			Size:     2,
			MaxDepth: 2,
			Children: []node{
				{Ingredients: []string{"a"}, Actions: []string{"step1"}, Size: 1, MaxDepth: 1},
				{Ingredients: []string{"b"}, Actions: []string{"step2"}, Size: 1, MaxDepth: 1},
			},
		}},
	}
	if diff := pretty.Compare(shape(s, tree), want); diff != "" {
		t.Errorf("tree diff (-got +want):\n%s", diff)
	}
}

func TestIntoTreeConsumes(t *testing.T) {
	_, a := analyze(t, twoIntoOne)
	if _, err := a.IntoTree(); err != nil {
		t.Fatalf("first IntoTree() error: %v", err)
	}
	if !a.Consumed() {
		t.Error("Consumed() = false after IntoTree")
	}
	if _, err := a.IntoTree(); !errors.Is(err, ErrConsumed) {
		t.Errorf("second IntoTree() error = %v, want ErrConsumed", err)
	}
}

func TestProblems(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "empty recipe",
			src:  "r {}",
			want: []string{"no `<>` state"},
		},
		{
			name: "only joins",
			src:  "r { a -> s -> $j; }",
			want: []string{"no `<>` state"},
		},
		{
			name: "dangling ingredients",
			src:  "r { a + [2] b -> s -> t; c -> <>; }",
			want: []string{"path starting from ingredients list 'a + [2] b' goes through actions 's -> t' but never reaches a join point"},
		},
		{
			name: "dangling after join",
			src:  "r { a -> $j -> s; $j -> <>; }",
			want: []string{"path starting at join point '$j' goes through action path 's -> ...' but never reaches a join point"},
		},
		{
			name: "dangling without sink",
			src:  "r { a -> s; }",
			want: []string{
				"path starting from ingredients list 'a' goes through actions 's' but never reaches a join point",
				"no `<>` state",
			},
		},
		{
			name: "undefined join",
			src:  "r { $ghost -> s -> <>; }",
			want: []string{"the join point '$ghost' is used as an input but nothing feeds it"},
		},
		{
			name: "cycle",
			src:  "r { $x -> s -> $y; $y -> t -> $x; $x -> u -> <>; }",
			want: []string{"the join point '$x' is involved in a cycle"},
		},
		{
			name: "join consumed twice",
			src:  "r { a -> s -> $j; $j -> t -> $k; $j -> u -> $k; $k -> v -> <>; }",
			want: []string{"the join point '$j' is involved in a cycle"},
		},
		{
			name: "unreachable cycle is not reported",
			src:  "r { $x -> s -> $y; $y -> t -> $x; a -> <>; }",
			want: nil,
		},
		{
			name: "steps after done are ignored",
			src:  "r { a -> s -> <> -> t; }",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a := analyze(t, tt.src)
			var got []string
			for _, p := range a.Problems {
				got = append(got, p.Describe(s))
			}
			if diff := pretty.Compare(got, tt.want); diff != "" {
				t.Errorf("problems diff (-got +want):\n%s", diff)
			}
		})
	}
}

func TestIntoTreeRefusesProblems(t *testing.T) {
	_, a := analyze(t, "r {}")
	_, err := a.IntoTree()
	var perr *ProblemsError
	if !errors.As(err, &perr) {
		t.Fatalf("IntoTree() error = %v, want *ProblemsError", err)
	}
	if len(perr.Problems) != 1 || perr.Problems[0].Kind != NoTerminal {
		t.Errorf("Problems = %v, want [NoTerminal]", perr.Problems)
	}
	if got := perr.Error(); got != "recipe graph has 1 problem" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTreeMetrics(t *testing.T) {
	src := `soup {
  onion + carrot + celery -> dice -> sweat -> $base;
  [1 l] stock -> heat -> $liquid;
  $base -> deglaze & wine -> $pot;
  $liquid -> $pot;
  $pot -> simmer -> season & salt -> <>;
  bread -> toast -> <>;
}`
	_, a := analyze(t, src)
	tree, err := a.IntoTree()
	if err != nil {
		t.Fatalf("IntoTree() error: %v", err)
	}
	if tree.Size != 5 {
		t.Errorf("root Size = %d, want 5", tree.Size)
	}
	// dice, sweat, deglaze, simmer, season
	if tree.MaxDepth != 5 {
		t.Errorf("root MaxDepth = %d, want 5", tree.MaxDepth)
	}

	tree.Walk(func(n *BackwardTree, _ int) bool {
		if n.IsLeaf() {
			if n.Size != len(n.Ingredients) {
				t.Errorf("leaf Size = %d, want %d", n.Size, len(n.Ingredients))
			}
			if n.MaxDepth != len(n.Actions) {
				t.Errorf("leaf MaxDepth = %d, want %d", n.MaxDepth, len(n.Actions))
			}
			return true
		}
		size, depth := 0, 0
		for _, c := range n.Children {
			size += c.Size
			depth = max(depth, c.MaxDepth)
		}
		if n.Size != size {
			t.Errorf("node Size = %d, want %d", n.Size, size)
		}
		if n.MaxDepth != depth+len(n.Actions) {
			t.Errorf("node MaxDepth = %d, want %d", n.MaxDepth, depth+len(n.Actions))
		}
		return true
	})
}

func TestIntoTreeDeepChain(t *testing.T) {
	const depth = 20000
	var b strings.Builder
	b.WriteString("deep {\n  a -> s -> $j0;\n")
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, "  $j%d -> s -> $j%d;\n", i, i+1)
	}
	fmt.Fprintf(&b, "  $j%d -> s -> <>;\n}\n", depth)

	_, a := analyze(t, b.String())
	if !a.OK() {
		t.Fatalf("Problems = %v", a.Problems)
	}
	tree, err := a.IntoTree()
	if err != nil {
		t.Fatalf("IntoTree() error: %v", err)
	}
	if tree.MaxDepth != depth+2 {
		t.Errorf("MaxDepth = %d, want %d", tree.MaxDepth, depth+2)
	}
	if tree.Size != 1 {
		t.Errorf("Size = %d, want 1", tree.Size)
	}
}

func TestWriteAnalysis(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	var buf bytes.Buffer
	if err := WriteAnalysis(&buf, s, a); err != nil {
		t.Fatal(err)
	}
	want := `analysis {
  <>
    $j -> step3
  $j
    a -> step1
    b -> step2
}
`
	if buf.String() != want {
		t.Errorf("WriteAnalysis() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteProblems(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	var buf bytes.Buffer
	WriteProblems(&buf, s, a.Problems)
	if buf.String() != "graph ok\n" {
		t.Errorf("WriteProblems() = %q", buf.String())
	}

	s, a = analyze(t, "r {}")
	buf.Reset()
	WriteProblems(&buf, s, a.Problems)
	if want := "graph problems:\n - no `<>` state\n"; buf.String() != want {
		t.Errorf("WriteProblems() = %q, want %q", buf.String(), want)
	}
}

func TestWriteTree(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	tree, _ := a.IntoTree()
	var buf bytes.Buffer
	if err := WriteTree(&buf, s, tree); err != nil {
		t.Fatal(err)
	}
	want := `<> (size=2, depth=2)
  * -> step3 (size=2, depth=2)
    a -> step1 (size=1, depth=1)
    b -> step2 (size=1, depth=1)
`
	if buf.String() != want {
		t.Errorf("WriteTree() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestMarshalYAML(t *testing.T) {
	s, a := analyze(t, twoIntoOne)
	data, err := MarshalAnalysisYAML(s, a)
	if err != nil {
		t.Fatalf("MarshalAnalysisYAML() error: %v", err)
	}
	for _, frag := range []string{"target: <>", "start: $j", "- step3", "target: $j", "start: a"} {
		if !bytes.Contains(data, []byte(frag)) {
			t.Errorf("analysis YAML missing %q:\n%s", frag, data)
		}
	}

	tree, _ := a.IntoTree()
	data, err = MarshalTreeYAML(s, tree)
	if err != nil {
		t.Fatalf("MarshalTreeYAML() error: %v", err)
	}
	for _, frag := range []string{"size: 2", "max_depth: 2", "ingredients:", "- b", "children:"} {
		if !bytes.Contains(data, []byte(frag)) {
			t.Errorf("tree YAML missing %q:\n%s", frag, data)
		}
	}
}
