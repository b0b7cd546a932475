package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/recipetable/pkg/recipe"
)

const scrambledEggs = `
nicer scrambled eggs {
  # aromatics first
  [1/2] onion + [1 clove] garlic
    -> chop coarsely -> sautee & butter -> $mix;
  [2] eggs -> whisk -> $mix;
  $mix -> stir & salt + [a pinch] pepper -> <>;
}
`

func TestScan(t *testing.T) {
	toks, err := Scan("a b -> $j; [2 ] x -> <>")
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []TokenType{WORD, WORD, ARROW, JOIN, SEMI, AMOUNT, WORD, ARROW, DONE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("Scan() returned %d tokens, want %d", len(toks), len(want))
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d = %s, want %s", i, toks[i].Type, tt)
		}
	}
	if toks[3].Text != "j" {
		t.Errorf("join text = %q, want %q", toks[3].Text, "j")
	}
	if toks[5].Text != "2" {
		t.Errorf("amount text = %q, want %q", toks[5].Text, "2")
	}
}

func TestScanHyphenatedWord(t *testing.T) {
	toks, err := Scan("half-and-half->stir")
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if toks[0].Type != WORD || toks[0].Text != "half-and-half" {
		t.Errorf("first token = %s %q, want name %q", toks[0].Type, toks[0].Text, "half-and-half")
	}
	if toks[1].Type != ARROW {
		t.Errorf("second token = %s, want '->'", toks[1].Type)
	}
}

func TestParseRoundTrip(t *testing.T) {
	s := recipe.NewStore()
	r, err := Parse(s, scrambledEggs)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := s.Name(r.Name); got != "nicer scrambled eggs" {
		t.Errorf("recipe name = %q", got)
	}
	if len(r.Rules) != 3 {
		t.Fatalf("len(Rules) = %d, want 3", len(r.Rules))
	}

	var buf bytes.Buffer
	if err := s.WriteRecipe(&buf, r); err != nil {
		t.Fatal(err)
	}
	want := `nicer scrambled eggs {
  [1/2] onion + [1 clove] garlic -> chop coarsely -> sautee & butter -> $mix;
  [2] eggs -> whisk -> $mix;
  $mix -> stir & salt + [a pinch] pepper -> <>;
}
`
	if buf.String() != want {
		t.Errorf("WriteRecipe() =\n%s\nwant\n%s", buf.String(), want)
	}

	// Canonical output parses back to the same text.
	s2 := recipe.NewStore()
	r2, err := Parse(s2, buf.String())
	if err != nil {
		t.Fatalf("re-Parse() error: %v", err)
	}
	var buf2 bytes.Buffer
	s2.WriteRecipe(&buf2, r2)
	if buf2.String() != want {
		t.Errorf("round trip mismatch:\n%s", buf2.String())
	}
}

func TestParseStructure(t *testing.T) {
	s := recipe.NewStore()
	r, err := Parse(s, scrambledEggs)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	first := s.Rule(r.Rules[0])
	if first.Input.Kind != recipe.InputIngredients || len(first.Input.Ingredients) != 2 {
		t.Fatalf("first rule input = %+v, want two ingredients", first.Input)
	}
	onion := s.Ingredient(first.Input.Ingredients[0])
	if !onion.HasAmount || s.Name(onion.Amount) != "1/2" || s.Name(onion.Name) != "onion" {
		t.Errorf("onion = %q %q", s.Name(onion.Amount), s.Name(onion.Name))
	}
	kinds := []recipe.ActionKind{recipe.ActionStep, recipe.ActionStep, recipe.ActionJoin}
	for i, k := range kinds {
		if first.Actions[i].Kind != k {
			t.Errorf("action %d kind = %s, want %s", i, first.Actions[i].Kind, k)
		}
	}

	last := s.Rule(r.Rules[2])
	if !last.Input.IsJoin() || s.Name(last.Input.Point) != "mix" {
		t.Errorf("last rule input = %+v, want $mix", last.Input)
	}
	if last.Input.Point.Sym != first.Actions[2].Point.Sym {
		t.Error("join point symbols should be interned to the same value")
	}
	if got := len(last.Actions[0].Step.Seasonings); got != 2 {
		t.Errorf("seasonings = %d, want 2", got)
	}
}

func TestParseWhitespaceNormalized(t *testing.T) {
	s := recipe.NewStore()
	r, err := Parse(s, "r {\n a -> chop\n   coarsely -> <>;\n b -> chop coarsely -> <>; }")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	a := s.Rule(r.Rules[0]).Actions[0].Step.Action
	b := s.Rule(r.Rules[1]).Actions[0].Step.Action
	if a.Sym != b.Sym {
		t.Errorf("%q and %q should intern to the same symbol", s.Name(a), s.Name(b))
	}
	if a.Span == b.Span {
		t.Error("spans should still point at distinct source ranges")
	}
}

func TestParseEmptyRecipe(t *testing.T) {
	s := recipe.NewStore()
	r, err := Parse(s, "nothing {}")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(r.Rules) != 0 {
		t.Errorf("len(Rules) = %d, want 0", len(r.Rules))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		col     int
		message string
	}{
		{"missing name", "{ a -> <>; }", 1, 1, "expected name for the recipe"},
		{"missing brace", "r -> <>;", 1, 3, "expected '{'"},
		{"missing semicolon", "r {\n  a -> <>\n}", 3, 1, "expected ';' at the end of a rule"},
		{"unclosed recipe", "r { a -> <>;", 1, 13, "expected '}' to close recipe"},
		{"trailing input", "r { a -> <>; } extra", 1, 16, "after the end of the recipe"},
		{"empty join", "r { $ -> <>; }", 1, 5, "join point needs a name"},
		{"unterminated amount", "r { [2 eggs -> <>; }", 1, 5, "unterminated amount"},
		{"empty amount", "r { [ ] eggs -> <>; }", 1, 5, "empty amount"},
		{"amount without name", "r { [2] -> <>; }", 1, 9, "after the amount"},
		{"dangling plus", "r { a + -> <>; }", 1, 9, "after '+'"},
		{"dangling ampersand", "r { a -> stir & ; }", 1, 17, "after '&'"},
		{"arrow to nothing", "r { a -> ; }", 1, 10, "for an action after '->'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(recipe.NewStore(), tt.src)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if perr.Line != tt.line || perr.Col != tt.col {
				t.Errorf("position = %d:%d, want %d:%d (%v)", perr.Line, perr.Col, tt.line, tt.col, err)
			}
			if !strings.Contains(perr.Msg, tt.message) {
				t.Errorf("message = %q, want it to contain %q", perr.Msg, tt.message)
			}
		})
	}
}
