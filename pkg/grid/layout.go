package grid

import (
	"github.com/matzehuels/recipetable/pkg/flow"
	"github.com/matzehuels/recipetable/pkg/recipe"
)

// Build lays out a backward tree. The tree must come from
// [flow.Analysis.IntoTree]; an empty root yields an empty grid.
//
// Nodes are visited in pre-order with an explicit stack. A node's step cells
// are attached to the first row of its subtree, which is the first ingredient
// row of its first leaf. So every inner node is parked on a pending list when
// entered, and flushed, innermost first, right after the next leaf's own
// steps.
func Build(s *recipe.Store, tree *flow.BackwardTree) *Grid {
	g := &Grid{}
	if tree == nil || tree.Size == 0 {
		return g
	}
	g.Columns = tree.MaxDepth + 2

	type frame struct {
		node  *flow.BackwardTree
		depth int
		root  bool
	}
	stack := []frame{{node: tree, depth: tree.MaxDepth, root: true}}
	var pending []frame

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := it.node

		if !n.IsLeaf() {
			pending = append(pending, it)
			childDepth := it.depth - len(n.Actions)
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i], depth: childDepth})
			}
			continue
		}
		if len(n.Ingredients) == 0 {
			continue
		}

		first := len(g.Rows)
		span := it.depth - len(n.Actions) + 1
		for _, ref := range n.Ingredients {
			g.Rows = append(g.Rows, []Cell{{
				RowSpan: 1,
				ColSpan: span,
				Content: Ingredient(resolveItem(s, ref)),
			}})
		}

		row := g.Rows[first]
		row = appendSteps(row, s, n.Actions, n.Size)
		for i := len(pending) - 1; i >= 0; i-- {
			p := pending[i]
			if p.root {
				row = append(row, Cell{RowSpan: p.node.Size, ColSpan: 1, Content: Sink()})
				continue
			}
			row = appendSteps(row, s, p.node.Actions, p.node.Size)
		}
		g.Rows[first] = row
		pending = pending[:0]
	}
	return g
}

func appendSteps(row []Cell, s *recipe.Store, steps []recipe.Step, rows int) []Cell {
	for _, st := range steps {
		seasonings := make([]Item, len(st.Seasonings))
		for i, ref := range st.Seasonings {
			seasonings[i] = resolveItem(s, ref)
		}
		if len(seasonings) == 0 {
			seasonings = nil
		}
		row = append(row, Cell{RowSpan: rows, ColSpan: 1, Content: Step(s.Name(st.Action), seasonings...)})
	}
	return row
}

func resolveItem(s *recipe.Store, ref recipe.IngredientRef) Item {
	ing := s.Ingredient(ref)
	it := Item{Name: s.Name(ing.Name)}
	if ing.HasAmount {
		it.Amount = s.Name(ing.Amount)
	}
	return it
}
