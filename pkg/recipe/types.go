package recipe

// Symbol is an interned string handle. Two symbols are equal exactly when the
// strings they were interned from are equal (within one [Store]).
type Symbol uint32

// NoSymbol is never returned by [Store.Intern]. Package flow uses it as the
// key for paths that end at the sink.
const NoSymbol Symbol = 0

// Span is a half-open byte range [Start, End) into the recipe source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Loc is a symbol plus the source span it was read from. The span is only
// used for diagnostics.
type Loc struct {
	Sym  Symbol `json:"sym"`
	Span Span   `json:"span"`
}

// IngredientRef indexes an [Ingredient] in a [Store].
type IngredientRef int

// RuleRef indexes a [Rule] in a [Store].
type RuleRef int

// Ingredient is a named ingredient with an optional amount, e.g. `[2] eggs`.
type Ingredient struct {
	Amount    Loc
	HasAmount bool
	Name      Loc
}

// Step is a processing action with optional seasonings added at that step,
// e.g. `stir & salt + pepper`.
type Step struct {
	Action     Loc
	Seasonings []IngredientRef
}

// InputKind distinguishes the two ways a rule can start.
type InputKind int

const (
	// InputIngredients starts a chain from one or more ingredients.
	InputIngredients InputKind = iota
	// InputJoin continues a chain that earlier rules fed into a join point.
	InputJoin
)

// Input is the left-hand side of a rule.
type Input struct {
	Kind        InputKind
	Ingredients []IngredientRef // InputIngredients only
	Point       Loc             // InputJoin only
}

// IngredientsInput returns an input that starts from the given ingredients.
func IngredientsInput(list ...IngredientRef) Input {
	return Input{Kind: InputIngredients, Ingredients: list}
}

// JoinInput returns an input that continues from join point p.
func JoinInput(p Loc) Input {
	return Input{Kind: InputJoin, Point: p}
}

// IsJoin reports whether the input continues from a join point.
func (in Input) IsJoin() bool { return in.Kind == InputJoin }

// ActionKind distinguishes the three kinds of chain element.
type ActionKind int

const (
	// ActionStep is a processing step.
	ActionStep ActionKind = iota
	// ActionJoin merges the chain into a named join point.
	ActionJoin
	// ActionDone ends the chain at the sink.
	ActionDone
)

// String returns a short lowercase name for the kind.
func (k ActionKind) String() string {
	switch k {
	case ActionStep:
		return "step"
	case ActionJoin:
		return "join"
	case ActionDone:
		return "done"
	default:
		return "unknown"
	}
}

// Action is one element of a rule's chain after the input.
type Action struct {
	Kind  ActionKind
	Step  Step // ActionStep only
	Point Loc  // ActionJoin only
}

// StepAction wraps a step.
func StepAction(s Step) Action { return Action{Kind: ActionStep, Step: s} }

// JoinAction returns an action feeding join point p.
func JoinAction(p Loc) Action { return Action{Kind: ActionJoin, Point: p} }

// DoneAction returns the sink action `<>`.
func DoneAction() Action { return Action{Kind: ActionDone} }

// Rule is one `input -> action -> ...;` statement.
type Rule struct {
	Input   Input
	Actions []Action
}

// Recipe is a named list of rules in source order.
type Recipe struct {
	Name  Loc
	Rules []RuleRef
}
