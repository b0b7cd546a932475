// Package recipe holds the parsed form of a recipe flow: ingredients feeding
// through chains of actions that merge at named join points and end at the
// single sink written `<>`.
//
// # Overview
//
// A [Store] owns everything the parser produces. Ingredients and rules live in
// append-only arenas and are referenced elsewhere by small integer handles
// ([IngredientRef], [RuleRef]); names are interned into [Symbol] values so
// that comparing two ingredient, action, or join-point names is an integer
// comparison. Nothing is ever removed from a store, so handles stay valid for
// its whole lifetime.
//
// A [Recipe] is the unit handed to the analyzer in package flow:
//
//	s := recipe.NewStore()
//	r, err := parse.Parse(s, src)
//	if err != nil {
//	    return err
//	}
//	s.WriteRecipe(os.Stdout, r)
//
// # Sum Types
//
// [Input] and [Action] are Kind-tagged structs. Use the constructors
// ([IngredientsInput], [JoinInput], [StepAction], [JoinAction], [DoneAction])
// rather than filling the fields by hand; only the fields matching the Kind
// are meaningful.
//
// # Concurrency
//
// A Store is not safe for concurrent mutation. Once the parser has finished
// populating it, concurrent readers are fine.
package recipe
