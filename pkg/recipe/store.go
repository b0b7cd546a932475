package recipe

import "fmt"

// Store owns the ingredient and rule arenas and the string interner for one
// compilation. See the package documentation for lifecycle rules.
type Store struct {
	ingredients []Ingredient
	rules       []Rule
	strings     []string // strings[sym-1]
	index       map[string]Symbol
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]Symbol)}
}

// Intern returns the symbol for s, adding it if it has not been seen.
func (s *Store) Intern(str string) Symbol {
	if sym, ok := s.index[str]; ok {
		return sym
	}
	s.strings = append(s.strings, str)
	sym := Symbol(len(s.strings))
	s.index[str] = sym
	return sym
}

// Lookup returns the symbol for str without interning it.
func (s *Store) Lookup(str string) (Symbol, bool) {
	sym, ok := s.index[str]
	return sym, ok
}

// Resolve returns the string behind sym. It panics on a symbol that did not
// come from this store.
func (s *Store) Resolve(sym Symbol) string {
	if sym == NoSymbol || int(sym) > len(s.strings) {
		panic(fmt.Sprintf("recipe: unknown symbol %d", sym))
	}
	return s.strings[sym-1]
}

// Name resolves a located symbol.
func (s *Store) Name(l Loc) string { return s.Resolve(l.Sym) }

// AddIngredient appends i and returns its handle.
func (s *Store) AddIngredient(i Ingredient) IngredientRef {
	s.ingredients = append(s.ingredients, i)
	return IngredientRef(len(s.ingredients) - 1)
}

// Ingredient returns the ingredient behind ref.
func (s *Store) Ingredient(ref IngredientRef) Ingredient {
	return s.ingredients[ref]
}

// AddRule appends r and returns its handle.
func (s *Store) AddRule(r Rule) RuleRef {
	s.rules = append(s.rules, r)
	return RuleRef(len(s.rules) - 1)
}

// Rule returns the rule behind ref.
func (s *Store) Rule(ref RuleRef) Rule {
	return s.rules[ref]
}

// Stats reports arena sizes.
func (s *Store) Stats() (ingredients, rules, symbols int) {
	return len(s.ingredients), len(s.rules), len(s.strings)
}
