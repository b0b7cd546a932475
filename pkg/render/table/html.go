package table

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/recipetable/pkg/grid"
)

// DefaultHTMLHeader opens a standalone page with a small stylesheet.
const DefaultHTMLHeader = `<!DOCTYPE html>
<html>
  <body>
    <style type="text/css">
      body { font-family: "Fira Sans", arial; }
      td {
        padding: 1em;
      }
      table, td, tr {
        border: 2px solid;
        border-spacing: 0px;
      }
      .ingredient {
        background-color: #ddd;
      }
      .done {
        background-color: #555;
      }
      .amount { color: #555; }
      .seasonings { color: #333; }
    </style>
`

// DefaultHTMLFooter closes the page opened by DefaultHTMLHeader.
const DefaultHTMLFooter = `  </body>
</html>
`

// HTMLOptions controls HTML table output.
type HTMLOptions struct {
	// Standalone wraps the table in Header and Footer.
	Standalone bool   `json:"standalone,omitempty"`
	Header     string `json:"header,omitempty"`
	Footer     string `json:"footer,omitempty"`

	AmountClass     string `json:"amount_class,omitempty"`
	SeasoningsClass string `json:"seasonings_class,omitempty"`
	IngredientClass string `json:"ingredient_class,omitempty"`
	ActionClass     string `json:"action_class,omitempty"`
	DoneClass       string `json:"done_class,omitempty"`
}

// DefaultHTMLOptions returns the stock class names and page wrapper.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Header:          DefaultHTMLHeader,
		Footer:          DefaultHTMLFooter,
		AmountClass:     "amount",
		SeasoningsClass: "seasonings",
		IngredientClass: "ingredient",
		ActionClass:     "action",
		DoneClass:       "done",
	}
}

// SetDefaults fills empty fields from DefaultHTMLOptions.
func (o *HTMLOptions) SetDefaults() {
	d := DefaultHTMLOptions()
	if o.Header == "" {
		o.Header = d.Header
	}
	if o.Footer == "" {
		o.Footer = d.Footer
	}
	if o.AmountClass == "" {
		o.AmountClass = d.AmountClass
	}
	if o.SeasoningsClass == "" {
		o.SeasoningsClass = d.SeasoningsClass
	}
	if o.IngredientClass == "" {
		o.IngredientClass = d.IngredientClass
	}
	if o.ActionClass == "" {
		o.ActionClass = d.ActionClass
	}
	if o.DoneClass == "" {
		o.DoneClass = d.DoneClass
	}
}

// HTML renders g as an HTML table. Names and amounts are escaped; class
// names and the page wrapper are written as given.
func HTML(g *grid.Grid, opts HTMLOptions) []byte {
	opts.SetDefaults()

	var buf bytes.Buffer
	if opts.Standalone {
		buf.WriteString(opts.Header)
	}
	buf.WriteString("<table>\n")
	for _, row := range g.Rows {
		buf.WriteString("  <tr>")
		for _, c := range row {
			fmt.Fprintf(&buf, `<td class="%s" rowspan="%d" colspan="%d">`, cellClass(c.Content, opts), c.RowSpan, c.ColSpan)
			writeContent(&buf, c.Content, opts)
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</table>\n")
	if opts.Standalone {
		buf.WriteString(opts.Footer)
	}
	return buf.Bytes()
}

func cellClass(c grid.Content, opts HTMLOptions) string {
	switch c.Kind {
	case grid.KindIngredient:
		return opts.IngredientClass
	case grid.KindStep:
		return opts.ActionClass
	default:
		return opts.DoneClass
	}
}

func writeContent(buf *bytes.Buffer, c grid.Content, opts HTMLOptions) {
	switch c.Kind {
	case grid.KindIngredient:
		writeItem(buf, c.Item(), opts)
	case grid.KindStep:
		buf.WriteString(html.EscapeString(c.Name))
		if len(c.Seasonings) == 0 {
			return
		}
		fmt.Fprintf(buf, `<div class="%s">`, opts.SeasoningsClass)
		for i, it := range c.Seasonings {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeItem(buf, it, opts)
		}
		buf.WriteString("</div>")
	default:
		buf.WriteString("&lt;&gt;")
	}
}

func writeItem(buf *bytes.Buffer, it grid.Item, opts HTMLOptions) {
	if it.Amount != "" {
		fmt.Fprintf(buf, `<span class="%s">%s</span> `, opts.AmountClass, html.EscapeString(it.Amount))
	}
	buf.WriteString(html.EscapeString(it.Name))
}
