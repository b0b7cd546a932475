// Package table renders a recipe [grid.Grid] as a table.
//
// [HTML] writes a `<table>` whose cells carry rowspan and colspan attributes
// and a CSS class per cell kind; with [HTMLOptions.Standalone] the table is
// wrapped in a minimal styled page. [Debug] prints every cell's spans and
// content, one grid row per line. [Terminal] draws the table with box
// characters for the `show` command.
package table
