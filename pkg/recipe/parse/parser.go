package parse

import (
	"strings"

	"github.com/matzehuels/recipetable/pkg/recipe"
)

// Parse reads one recipe from src, interning names and allocating ingredients
// and rules in s. On error s may hold partially added entries; they are
// unreachable from any returned recipe.
func Parse(s *recipe.Store, src string) (recipe.Recipe, error) {
	toks, err := Scan(src)
	if err != nil {
		return recipe.Recipe{}, err
	}
	p := &parser{store: s, src: src, toks: toks}
	return p.recipe()
}

type parser struct {
	store *recipe.Store
	src   string
	toks  []Token
	i     int
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.i++
		return true
	}
	return false
}

func (p *parser) need(tt TokenType, context string) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return Token{}, p.errAt(tok, "expected %s %s, found %s", tt, context, describe(tok))
	}
	p.i++
	return tok, nil
}

func (p *parser) errAt(tok Token, format string, args ...any) error {
	return newError(p.src, tok.Start, format, args...)
}

func describe(tok Token) string {
	switch tok.Type {
	case WORD:
		return "'" + tok.Text + "'"
	case JOIN:
		return "'$" + tok.Text + "'"
	case AMOUNT:
		return "'[" + tok.Text + "]'"
	}
	return tok.Type.String()
}

func (p *parser) loc(text string, start, end int) recipe.Loc {
	return recipe.Loc{Sym: p.store.Intern(text), Span: recipe.Span{Start: start, End: end}}
}

// words consumes one or more WORD tokens and joins them with single spaces.
func (p *parser) words(context string) (recipe.Loc, error) {
	first := p.peek()
	if first.Type != WORD {
		return recipe.Loc{}, p.errAt(first, "expected name %s, found %s", context, describe(first))
	}
	var parts []string
	last := first
	for p.peek().Type == WORD {
		last = p.peek()
		parts = append(parts, last.Text)
		p.i++
	}
	return p.loc(strings.Join(parts, " "), first.Start, last.End), nil
}

func (p *parser) recipe() (recipe.Recipe, error) {
	name, err := p.words("for the recipe")
	if err != nil {
		return recipe.Recipe{}, err
	}
	if _, err := p.need(LCURLY, "after the recipe name"); err != nil {
		return recipe.Recipe{}, err
	}

	r := recipe.Recipe{Name: name}
	for !p.match(RCURLY) {
		if p.peek().Type == EOF {
			return recipe.Recipe{}, p.errAt(p.peek(), "expected '}' to close recipe %q", p.store.Name(name))
		}
		rule, err := p.rule()
		if err != nil {
			return recipe.Recipe{}, err
		}
		r.Rules = append(r.Rules, p.store.AddRule(rule))
	}

	if tok := p.peek(); tok.Type != EOF {
		return recipe.Recipe{}, p.errAt(tok, "unexpected %s after the end of the recipe", describe(tok))
	}
	return r, nil
}

func (p *parser) rule() (recipe.Rule, error) {
	var rule recipe.Rule

	if tok := p.peek(); tok.Type == JOIN {
		p.i++
		rule.Input = recipe.JoinInput(p.loc(tok.Text, tok.Start, tok.End))
	} else {
		list, err := p.ingredients("at the start of a rule")
		if err != nil {
			return recipe.Rule{}, err
		}
		rule.Input = recipe.IngredientsInput(list...)
	}

	for p.match(ARROW) {
		action, err := p.action()
		if err != nil {
			return recipe.Rule{}, err
		}
		rule.Actions = append(rule.Actions, action)
	}

	if _, err := p.need(SEMI, "at the end of a rule"); err != nil {
		return recipe.Rule{}, err
	}
	return rule, nil
}

func (p *parser) action() (recipe.Action, error) {
	tok := p.peek()
	switch tok.Type {
	case DONE:
		p.i++
		return recipe.DoneAction(), nil
	case JOIN:
		p.i++
		return recipe.JoinAction(p.loc(tok.Text, tok.Start, tok.End)), nil
	}

	name, err := p.words("for an action after '->'")
	if err != nil {
		return recipe.Action{}, err
	}
	step := recipe.Step{Action: name}
	if p.match(AMP) {
		if step.Seasonings, err = p.ingredients("after '&'"); err != nil {
			return recipe.Action{}, err
		}
	}
	return recipe.StepAction(step), nil
}

func (p *parser) ingredients(context string) ([]recipe.IngredientRef, error) {
	var list []recipe.IngredientRef
	for {
		ing, err := p.ingredient(context)
		if err != nil {
			return nil, err
		}
		list = append(list, p.store.AddIngredient(ing))
		if !p.match(PLUS) {
			return list, nil
		}
		context = "after '+'"
	}
}

func (p *parser) ingredient(context string) (recipe.Ingredient, error) {
	var ing recipe.Ingredient
	if tok := p.peek(); tok.Type == AMOUNT {
		p.i++
		ing.Amount = p.loc(tok.Text, tok.Start, tok.End)
		ing.HasAmount = true
		context = "after the amount"
	}
	name, err := p.words(context)
	if err != nil {
		return recipe.Ingredient{}, err
	}
	ing.Name = name
	return ing, nil
}
