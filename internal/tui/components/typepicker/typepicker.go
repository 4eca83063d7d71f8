// Package typepicker is the dialog that asks which data type a new nested
// key gets.
package typepicker

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-variables/internal/tui/theme"
	"github.com/mattsolo1/grove-variables/pkg/models"
)

// ChosenMsg is sent when a type was picked.
type ChosenMsg struct {
	Type   models.DataType
	Target any
}

// CancelledMsg is sent when the dialog was dismissed.
type CancelledMsg struct {
	Target any
}

type typeItem models.DataType

func (i typeItem) FilterValue() string { return string(i) }
func (i typeItem) Title() string       { return string(i) }
func (i typeItem) Description() string { return "" }

type typeDelegate struct{}

func (d typeDelegate) Height() int                             { return 1 }
func (d typeDelegate) Spacing() int                            { return 0 }
func (d typeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d typeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(typeItem)
	if !ok {
		return
	}

	str := string(i)
	if index == m.Index() {
		str = lipgloss.NewStyle().Foreground(theme.DefaultTheme.Colors.Orange).Render("│ " + str)
	} else {
		str = "  " + str
	}

	fmt.Fprint(w, str)
}

// Model is the type choice dialog.
type Model struct {
	Active bool
	list   list.Model
	target any
	choose key.Binding
	cancel key.Binding
}

// New creates the dialog listing every data type.
func New() Model {
	var items []list.Item
	for _, t := range models.AllDataTypes() {
		items = append(items, typeItem(t))
	}
	l := list.New(items, typeDelegate{}, 30, len(items)+2)
	l.Title = "Select Data Type"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:   l,
		choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		cancel: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "cancel")),
	}
}

// Activate opens the dialog for target, starting from the first type.
func (m *Model) Activate(target any) {
	m.target = target
	m.list.Select(0)
	m.Active = true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Active {
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		target := m.target
		switch {
		case key.Matches(msg, m.choose):
			m.Active = false
			if item, ok := m.list.SelectedItem().(typeItem); ok {
				return m, func() tea.Msg { return ChosenMsg{Type: models.DataType(item), Target: target} }
			}
			return m, func() tea.Msg { return CancelledMsg{Target: target} }
		case key.Matches(msg, m.cancel):
			m.Active = false
			return m, func() tea.Msg { return CancelledMsg{Target: target} }
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.Active {
		return ""
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultTheme.Colors.Orange).
		Padding(0, 1).
		Render(m.list.View())
}
