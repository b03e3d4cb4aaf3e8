package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// FamilyListModel - Interactive family selection
// =============================================================================

// FamilyListModel is the bubbletea model for interactive family selection.
type FamilyListModel struct {
	Families []family.FamilyListItem
	Cursor   int
	Selected *family.FamilyListItem
	Height   int
	Offset   int
}

// NewFamilyListModel creates a new family list model.
func NewFamilyListModel(families []family.FamilyListItem) FamilyListModel {
	return FamilyListModel{
		Families: families,
		Height:   15,
	}
}

func (m FamilyListModel) Init() tea.Cmd {
	return nil
}

func (m FamilyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Families)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Families) == 0 {
				return m, tea.Quit
			}
			f := m.Families[m.Cursor]
			m.Selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m FamilyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Family"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Families))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		f := m.Families[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, f.Name, orDash(f.Hometown), formatRelativeTime(f.UpdatedAt)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Family", "Hometown", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Families))))

	return b.String()
}

// pickFamily lets the user choose one of their families. It needs an
// interactive terminal.
func (c *CLI) pickFamily(ctx context.Context) (string, error) {
	if !isTerminal(os.Stdin) {
		return "", errors.New(errors.ErrCodeInvalidInput, "family id required")
	}
	client, err := c.apiClient()
	if err != nil {
		return "", err
	}
	var items []family.FamilyListItem
	err = withSpinner(ctx, "Loading families...", func(ctx context.Context) error {
		items, err = client.ListFamilies(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New(errors.ErrCodeFamilyNotFound, "no families yet; create one with 'jiapu families create'")
	}

	final, err := tea.NewProgram(NewFamilyListModel(items), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "family picker")
	}
	m, ok := final.(FamilyListModel)
	if !ok || m.Selected == nil {
		return "", context.Canceled
	}
	return m.Selected.ID, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return orDash(s)
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
