package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/assetforge/assetforge/pkg/build"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// bundleListModel is the bubbletea model for browsing a build result. The
// list shows every bundle in dependency order; selecting one prints its
// content after the program exits.
type bundleListModel struct {
	result   *build.Result
	cursor   int
	selected *build.Artifact
}

func newBundleListModel(res *build.Result) bundleListModel {
	return bundleListModel{result: res}
}

func (m bundleListModel) Init() tea.Cmd {
	return nil
}

func (m bundleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.result.Artifacts)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = &m.result.Artifacts[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m bundleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Bundles"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("(dependency order)"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print  q quit"))
	b.WriteString("\n\n")

	for i, art := range m.result.Artifacts {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-24s %s", cursor, art.Name,
			listDimStyle.Render(formatSize(len(art.Content))))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.result.Artifacts))))

	return b.String()
}

// formatSize renders a byte count in a compact human form.
func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
