package recipe

import (
	"fmt"
	"io"
	"strings"
)

// FormatIngredient renders an ingredient as `[amount] name`.
func (s *Store) FormatIngredient(ref IngredientRef) string {
	i := s.Ingredient(ref)
	if i.HasAmount {
		return fmt.Sprintf("[%s] %s", s.Name(i.Amount), s.Name(i.Name))
	}
	return s.Name(i.Name)
}

// FormatIngredients joins ingredients with " + ".
func (s *Store) FormatIngredients(list []IngredientRef) string {
	parts := make([]string, len(list))
	for i, ref := range list {
		parts[i] = s.FormatIngredient(ref)
	}
	return strings.Join(parts, " + ")
}

// FormatJoin renders a join point reference as `$name`.
func (s *Store) FormatJoin(p Loc) string { return "$" + s.Name(p) }

// FormatInput renders a rule input.
func (s *Store) FormatInput(in Input) string {
	if in.IsJoin() {
		return s.FormatJoin(in.Point)
	}
	return s.FormatIngredients(in.Ingredients)
}

// FormatStep renders a step as `action & seasoning + seasoning`.
func (s *Store) FormatStep(st Step) string {
	if len(st.Seasonings) == 0 {
		return s.Name(st.Action)
	}
	return s.Name(st.Action) + " & " + s.FormatIngredients(st.Seasonings)
}

// FormatAction renders one chain element.
func (s *Store) FormatAction(a Action) string {
	switch a.Kind {
	case ActionStep:
		return s.FormatStep(a.Step)
	case ActionJoin:
		return s.FormatJoin(a.Point)
	default:
		return "<>"
	}
}

// WriteRecipe writes r in canonical source form, one rule per line. Parsing
// the output yields an equivalent recipe.
func (s *Store) WriteRecipe(w io.Writer, r Recipe) error {
	if _, err := fmt.Fprintf(w, "%s {\n", s.Name(r.Name)); err != nil {
		return err
	}
	for _, ref := range r.Rules {
		rule := s.Rule(ref)
		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(s.FormatInput(rule.Input))
		for _, a := range rule.Actions {
			b.WriteString(" -> ")
			b.WriteString(s.FormatAction(a))
		}
		b.WriteString(";\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}\n")
	return err
}
