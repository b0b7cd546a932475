package cli

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recipetable/pkg/errors"
	"github.com/matzehuels/recipetable/pkg/flow"
	"github.com/matzehuels/recipetable/pkg/grid"
	"github.com/matzehuels/recipetable/pkg/pipeline"
	"github.com/matzehuels/recipetable/pkg/render/table"
)

// Viewer styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewerDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ViewerModel - Scrollable recipe viewer
// =============================================================================

// viewerPage is one tab of the viewer.
type viewerPage struct {
	Title string
	Lines []string
}

// ViewerModel is the bubbletea model for browsing a compiled recipe.
type ViewerModel struct {
	Name   string
	Pages  []viewerPage
	Page   int
	Offset int
	Height int
	Width  int
}

// NewViewerModel creates a viewer with one tab per rendering of the recipe.
func NewViewerModel(name string, pages []viewerPage) ViewerModel {
	return ViewerModel{Name: name, Pages: pages, Height: 20}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Page = (m.Page + 1) % len(m.Pages)
			m.Offset = 0
		case "shift+tab", "left", "h":
			m.Page = (m.Page + len(m.Pages) - 1) % len(m.Pages)
			m.Offset = 0
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-m.Height)
		case "pgdown", "f", " ":
			m.scroll(m.Height)
		case "home", "g":
			m.Offset = 0
		case "end", "G":
			m.scroll(len(m.Pages[m.Page].Lines))
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height - 5
		if m.Height < 3 {
			m.Height = 3
		}
		m.scroll(0)
	}
	return m, nil
}

// scroll moves the window by delta lines, clamped to the page.
func (m *ViewerModel) scroll(delta int) {
	maxOffset := len(m.Pages[m.Page].Lines) - m.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.Offset = min(max(m.Offset+delta, 0), maxOffset)
}

func (m ViewerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("  ")
	for i, p := range m.Pages {
		if i > 0 {
			b.WriteString(viewerDimStyle.Render(" │ "))
		}
		if i == m.Page {
			b.WriteString(tabActiveStyle.Render(p.Title))
		} else {
			b.WriteString(tabInactiveStyle.Render(p.Title))
		}
	}
	b.WriteString("\n\n")

	lines := m.Pages[m.Page].Lines
	end := min(m.Offset+m.Height, len(lines))
	for _, line := range lines[m.Offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewerDimStyle.Render(fmt.Sprintf("↑/↓ scroll  tab switch view  q quit  [%d-%d/%d]",
		min(m.Offset+1, len(lines)), end, len(lines))))
	return b.String()
}

// =============================================================================
// show command
// =============================================================================

// showCommand opens the table in a terminal viewer, or prints it with --print.
func (c *CLI) showCommand() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "show [INPUT]",
		Short: "Browse the recipe table in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			compiled, opts, err := c.compile(ctx, cmd, args)
			if err != nil {
				return err
			}
			tree, err := pipeline.BuildTree(ctx, compiled, opts)
			if err != nil {
				return err
			}
			g := grid.Build(compiled.Store, tree)
			rendered, err := table.Terminal(g)
			if err != nil {
				return err
			}

			if printOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return err
			}
			if len(args) == 0 || args[0] == stdioArg {
				return errors.New(errors.ErrCodeInvalidInput, "the viewer needs an INPUT file (stdin is the keyboard); use --print to read from stdin")
			}

			var treeText, srcText bytes.Buffer
			if err := flow.WriteTree(&treeText, compiled.Store, tree); err != nil {
				return err
			}
			if err := compiled.Store.WriteRecipe(&srcText, compiled.Recipe); err != nil {
				return err
			}

			model := NewViewerModel(opts.Name, []viewerPage{
				{Title: "table", Lines: splitLines(rendered)},
				{Title: "tree", Lines: splitLines(treeText.String())},
				{Title: "recipe", Lines: splitLines(srcText.String())},
			})
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "print the table instead of opening the viewer")
	return cmd
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
