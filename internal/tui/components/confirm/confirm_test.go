package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirm(t *testing.T) {
	m := New()
	m.Activate("Delete key hp?", 7)
	assert.Contains(t, m.View(), "Delete key hp?")

	m, cmd := m.Update(keyMsg("y"))
	require.NotNil(t, cmd)
	assert.False(t, m.Active)
	assert.Equal(t, ConfirmedMsg{Target: 7}, cmd())
	assert.Empty(t, m.View())
}

func TestCancel(t *testing.T) {
	m := New()
	m.Activate("Delete?", "x")

	m, cmd := m.Update(keyMsg("q"))
	assert.Nil(t, cmd)
	assert.True(t, m.Active)

	m, cmd = m.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, CancelledMsg{Target: "x"}, cmd())
}

func TestInactiveIgnoresKeys(t *testing.T) {
	m := New()
	_, cmd := m.Update(keyMsg("y"))
	assert.Nil(t, cmd)
}
