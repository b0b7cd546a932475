package table

import (
	"fmt"
	"strings"

	"github.com/matzehuels/recipetable/pkg/grid"
)

// Debug lists every cell as " (colspan, rowspan, content)", one grid row per
// line.
func Debug(g *grid.Grid) string {
	var b strings.Builder
	for _, row := range g.Rows {
		for _, c := range row {
			fmt.Fprintf(&b, " (%d, %d, %s)", c.ColSpan, c.RowSpan, c.Content)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
