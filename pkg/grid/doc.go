// Package grid lays a [flow.BackwardTree] out as a rectangular table of
// spanning cells.
//
// Each leaf ingredient gets its own row, left-most. The steps of a path sit to
// the right of the ingredients that feed it and span every row of their
// subtree, so a step shared by several chains appears exactly once. The last
// column holds a single sink cell spanning the whole table.
//
// For the recipe
//
//	r { a -> step1 -> $j; b -> step2 -> $j; $j -> step3 -> <>; }
//
// [Build] produces
//
//	+---+-------+-------+----+
//	| a | step1 |       |    |
//	+---+-------+ step3 | <> |
//	| b | step2 |       |    |
//	+---+-------+-------+----+
//
// Cells are stored per row in placement order, the way HTML tables are
// written: a cell spanning several rows appears only in the first of them.
// [Grid.Occupancy] expands the spans and checks that they tile the rectangle.
package grid
