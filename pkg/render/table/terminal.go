package table

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/recipetable/pkg/grid"
)

var (
	ingredientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	stepStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Padding(0, 1)
	sinkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	borderStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Terminal draws g with box characters. Box tables cannot merge cells, so a
// spanning cell shows its content in its top-left position and leaves the
// rest of its area blank.
func Terminal(g *grid.Grid) (string, error) {
	if g.Empty() {
		return "", nil
	}
	occ, err := g.Occupancy()
	if err != nil {
		return "", err
	}

	rows := make([][]string, len(occ))
	for r, line := range occ {
		rows[r] = make([]string, len(line))
		for c, cell := range line {
			if isOrigin(occ, r, c) {
				rows[r][c] = cell.Content.String()
			}
		}
	}

	t := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= len(occ) || col >= len(occ[row]) {
				return lipgloss.NewStyle()
			}
			switch occ[row][col].Content.Kind {
			case grid.KindIngredient:
				return ingredientStyle
			case grid.KindStep:
				return stepStyle
			default:
				return sinkStyle
			}
		})
	return t.String(), nil
}

// isOrigin reports whether (r, c) is the top-left position of its cell.
func isOrigin(occ [][]*grid.Cell, r, c int) bool {
	cell := occ[r][c]
	if r > 0 && occ[r-1][c] == cell {
		return false
	}
	if c > 0 && occ[r][c-1] == cell {
		return false
	}
	return true
}
