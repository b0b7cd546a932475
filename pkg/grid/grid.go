package grid

import (
	"fmt"
	"strings"
)

// Kind identifies what a cell holds.
type Kind int

const (
	// KindIngredient is a left-most ingredient cell.
	KindIngredient Kind = iota
	// KindStep is a processing step, spanning the rows of every chain it
	// applies to.
	KindStep
	// KindSink is the single right-most cell marking the finished dish.
	KindSink
)

var kindNames = [...]string{
	KindIngredient: "ingredient",
	KindStep:       "step",
	KindSink:       "sink",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid cell kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell kind %q", b)
}

// Item is a resolved ingredient: a name with an optional amount.
type Item struct {
	Name   string `json:"name" bson:"name"`
	Amount string `json:"amount,omitempty" bson:"amount,omitempty"`
}

func (i Item) String() string {
	if i.Amount == "" {
		return i.Name
	}
	return "[" + i.Amount + "] " + i.Name
}

// Content is what a cell shows. Ingredient cells use Name and Amount; step
// cells use Name and Seasonings; sink cells carry nothing.
type Content struct {
	Kind       Kind   `json:"kind" bson:"kind"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	Amount     string `json:"amount,omitempty" bson:"amount,omitempty"`
	Seasonings []Item `json:"seasonings,omitempty" bson:"seasonings,omitempty"`
}

// Ingredient returns ingredient content.
func Ingredient(it Item) Content {
	return Content{Kind: KindIngredient, Name: it.Name, Amount: it.Amount}
}

// Step returns step content.
func Step(name string, seasonings ...Item) Content {
	return Content{Kind: KindStep, Name: name, Seasonings: seasonings}
}

// Sink returns sink content.
func Sink() Content { return Content{Kind: KindSink} }

// Item returns the ingredient of an ingredient cell.
func (c Content) Item() Item { return Item{Name: c.Name, Amount: c.Amount} }

// String renders the content in recipe source notation.
func (c Content) String() string {
	switch c.Kind {
	case KindIngredient:
		return c.Item().String()
	case KindStep:
		if len(c.Seasonings) == 0 {
			return c.Name
		}
		parts := make([]string, len(c.Seasonings))
		for i, s := range c.Seasonings {
			parts[i] = s.String()
		}
		return c.Name + " & " + strings.Join(parts, " + ")
	default:
		return "<>"
	}
}

// Cell is one table cell. Spans are always at least 1.
type Cell struct {
	RowSpan int     `json:"row_span" bson:"row_span"`
	ColSpan int     `json:"col_span" bson:"col_span"`
	Content Content `json:"content" bson:"content"`
}

// Grid is a laid-out recipe. Rows holds the cells that start in each row,
// left to right.
type Grid struct {
	Rows    [][]Cell `json:"rows" bson:"rows"`
	Columns int      `json:"columns" bson:"columns"`
}

// Empty reports whether the grid has no rows.
func (g *Grid) Empty() bool { return len(g.Rows) == 0 }

// CellCount returns the total number of cells.
func (g *Grid) CellCount() int {
	n := 0
	for _, row := range g.Rows {
		n += len(row)
	}
	return n
}

// Occupancy places every cell the way an HTML table would and returns, for
// each position, the cell covering it. It fails if a cell would overlap
// another, leave the grid, or if any position stays uncovered.
func (g *Grid) Occupancy() ([][]*Cell, error) {
	occ := make([][]*Cell, len(g.Rows))
	for r := range occ {
		occ[r] = make([]*Cell, g.Columns)
	}

	for r, row := range g.Rows {
		col := 0
		for i := range row {
			cell := &g.Rows[r][i]
			for col < g.Columns && occ[r][col] != nil {
				col++
			}
			if cell.RowSpan < 1 || cell.ColSpan < 1 {
				return nil, fmt.Errorf("row %d cell %d: spans must be positive, got %dx%d", r, i, cell.RowSpan, cell.ColSpan)
			}
			if r+cell.RowSpan > len(g.Rows) || col+cell.ColSpan > g.Columns {
				return nil, fmt.Errorf("row %d cell %d (%s): extends past the grid", r, i, cell.Content)
			}
			for dr := 0; dr < cell.RowSpan; dr++ {
				for dc := 0; dc < cell.ColSpan; dc++ {
					if occ[r+dr][col+dc] != nil {
						return nil, fmt.Errorf("row %d cell %d (%s): overlaps %s at (%d, %d)",
							r, i, cell.Content, occ[r+dr][col+dc].Content, r+dr, col+dc)
					}
					occ[r+dr][col+dc] = cell
				}
			}
			col += cell.ColSpan
		}
	}

	for r, row := range occ {
		for c, cell := range row {
			if cell == nil {
				return nil, fmt.Errorf("position (%d, %d) is not covered by any cell", r, c)
			}
		}
	}
	return occ, nil
}
