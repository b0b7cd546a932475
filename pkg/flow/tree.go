package flow

import "github.com/matzehuels/recipetable/pkg/recipe"

// BackwardTree is the recipe rearranged as a tree rooted at the sink. Each
// node holds the steps of one path, applied to either its own ingredients
// (a leaf) or the results of its children (a join).
type BackwardTree struct {
	// Actions are the node's steps in application order.
	Actions []recipe.Step
	// Children are the paths feeding this node's join point, in the order
	// they appear in the source. Empty for leaves.
	Children []*BackwardTree
	// Ingredients are set on leaves only.
	Ingredients []recipe.IngredientRef
	// Size is the number of ingredient lines in the subtree.
	Size int
	// MaxDepth is the longest chain of steps from any leaf up to and
	// including this node.
	MaxDepth int
}

// IsLeaf reports whether t starts from an ingredient list.
func (t *BackwardTree) IsLeaf() bool { return len(t.Children) == 0 }

// Walk visits every node in pre-order with its distance from t.
// Returning false skips the node's children.
func (t *BackwardTree) Walk(fn func(node *BackwardTree, level int) bool) {
	type item struct {
		node  *BackwardTree
		level int
	}
	stack := []item{{t, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.level) {
			continue
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.node.Children[i], it.level + 1})
		}
	}
}

// IntoTree builds the backward tree, draining the analysis. It returns a
// *ProblemsError if the analysis has problems and ErrConsumed if called
// more than once.
func (a *Analysis) IntoTree() (*BackwardTree, error) {
	if a.consumed {
		return nil, ErrConsumed
	}
	a.consumed = true
	if len(a.Problems) > 0 {
		return nil, &ProblemsError{Problems: a.Problems}
	}

	type frame struct {
		node    *BackwardTree
		parent  *BackwardTree
		pending []Path
		next    int
	}

	root := &BackwardTree{}
	stack := []*frame{{node: root, pending: a.take(Sink)}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.next == len(f.pending) {
			stack = stack[:len(stack)-1]
			f.node.MaxDepth += len(f.node.Actions)
			if f.parent != nil {
				attach(f.parent, f.node)
			}
			continue
		}

		p := f.pending[f.next]
		f.next++
		node := &BackwardTree{Actions: p.Actions}

		if p.Start.IsJoin() {
			stack = append(stack, &frame{
				node:    node,
				parent:  f.node,
				pending: a.take(p.Start.Point.Sym),
			})
			continue
		}

		node.Ingredients = p.Start.Ingredients
		node.Size = len(p.Start.Ingredients)
		node.MaxDepth = len(p.Actions)
		attach(f.node, node)
	}

	a.keys = nil
	return root, nil
}

// attach appends a finished child, folding its metrics into the parent.
// The parent's own actions are added to MaxDepth once all children are in.
func attach(parent, child *BackwardTree) {
	parent.Children = append(parent.Children, child)
	parent.Size += child.Size
	if child.MaxDepth > parent.MaxDepth {
		parent.MaxDepth = child.MaxDepth
	}
}

func (a *Analysis) take(key recipe.Symbol) []Path {
	paths := a.paths[key]
	delete(a.paths, key)
	return paths
}
