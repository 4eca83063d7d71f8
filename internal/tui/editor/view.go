package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-variables/internal/tui/theme"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

func (m Model) View() string {
	t := theme.DefaultTheme

	if m.confirm.Active {
		return m.confirm.View()
	}
	if m.picker.Active {
		return m.picker.View()
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(t.Error.Render("Error: " + m.err.Error()))
	case m.view == nil && m.empty != "":
		b.WriteString(t.Muted.Render(m.empty))
	case m.view == nil:
		b.WriteString(t.Muted.Render("Loading..."))
	default:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	switch m.mode {
	case editingJSON:
		b.WriteString("\n" + m.area.View() + "\n")
		b.WriteString(t.Muted.Render("ctrl+s apply • esc cancel"))
	case browsing:
		if m.status != "" {
			b.WriteString(t.Info.Render(m.status) + "\n")
		}
		b.WriteString(m.help.View(m.keys))
	default:
		b.WriteString(m.input.View() + "\n")
		b.WriteString(t.Muted.Render("enter apply • esc cancel"))
	}
	return b.String()
}

func (m Model) header() string {
	t := theme.DefaultTheme
	parts := []string{t.Header.Render("Variables"), t.Highlight.Render(string(m.scope))}
	if m.scope == models.ScopeMessage {
		lo, hi := m.board.Range()
		parts = append(parts, t.Muted.Render(fmt.Sprintf("floors %s..%s", orBlank(lo.String()), orBlank(hi.String()))))
	}

	var types []string
	for i, dt := range models.AllDataTypes() {
		label := fmt.Sprintf("%d:%s", i+1, dt)
		if m.sess.typeEnabled(dt) {
			types = append(types, t.Success.Render(label))
		} else {
			types = append(types, t.Muted.Render(label))
		}
	}
	parts = append(parts, strings.Join(types, " "))
	if kw := m.sess.Filter().Keyword; kw != "" {
		parts = append(parts, t.Info.Render("/"+kw))
	}
	return strings.Join(parts, "  ")
}

func orBlank(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// syncViewport re-renders the rows into the viewport and scrolls so the
// cursor stays visible.
func (m *Model) syncViewport() {
	lines := make([]string, len(m.rows))
	clip := lipgloss.NewStyle()
	if m.width > 0 {
		clip = clip.MaxWidth(m.width)
	}
	for i, r := range m.rows {
		lines[i] = clip.Render(m.renderRow(r, i == m.cursor))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.viewport.Height > 0 {
		if m.cursor < m.viewport.YOffset {
			m.viewport.SetYOffset(m.cursor)
		} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
		}
	}
	m.sess.setOffset(m.viewport.YOffset)
}

func (m Model) renderRow(r row, selected bool) string {
	t := theme.DefaultTheme
	prefix := "  "
	if selected {
		prefix = t.Selected.Render("│ ")
	}
	indent := strings.Repeat("  ", r.depth)

	switch r.kind {
	case panelRow:
		arrow := "▸"
		if r.panel.Expanded {
			arrow = "▾"
		}
		return prefix + t.Header.Render(arrow+" "+r.panel.Title)
	case textRow:
		return prefix + indent + t.Muted.Render(r.text)
	}

	n, ok := m.view.Cards.Node(r.node)
	if !ok {
		return prefix
	}
	if r.kind == itemRow {
		items := n.Items()
		if r.item >= len(items) {
			return prefix
		}
		return prefix + indent + "- " + items[r.item]
	}

	name := n.Name()
	if selected {
		name = t.Highlight.Render(name)
	}
	line := prefix + indent + name + " " + t.Muted.Render(string(n.DataType())) + "  " + summary(n)
	if n.Status() == models.StatusNew {
		line += " " + t.Success.Render("(new)")
	}
	return line
}

func summary(n *card.Node) string {
	switch n.DataType() {
	case models.TypeString:
		quoted, err := value.Marshal(n.Text())
		if err != nil {
			return n.Text()
		}
		return quoted
	case models.TypeNumber:
		return n.Text()
	case models.TypeBoolean:
		on, _ := n.BoolState()
		return fmt.Sprintf("[%t]", on)
	case models.TypeArray:
		return fmt.Sprintf("[%d items]", len(n.Items()))
	case models.TypeObject:
		if n.ViewMode() == card.ViewJSON {
			return "{json}"
		}
		return "{card}"
	}
	return ""
}
