package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-variables/internal/tui/components/confirm"
	"github.com/mattsolo1/grove-variables/internal/tui/components/typepicker"
	"github.com/mattsolo1/grove-variables/pkg/board"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

const headerLines, footerLines = 3, 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerLines-footerLines)
		m.area.SetWidth(max(20, msg.Width-4))
		m.help.Width = msg.Width
		m.syncViewport()
		return m, nil

	case renderedMsg:
		if msg.result.Cancelled {
			return m, nil
		}
		m.applySnapshot()
		return m, nil

	case storeChangedMsg:
		return m, tea.Batch(refreshCmd(m.ctx, m.board), waitForChangeCmd(m.changes))

	case savedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("failed to save %s: %v", msg.name, msg.err)
			m.logger.WithError(msg.err).WithField("name", msg.name).Error("failed to save variable")
			return m, nil
		}
		if msg.view == m.view {
			_ = m.view.Cards.MarkSaved(msg.node)
		}
		m.status = "saved " + msg.name
		m.syncViewport()
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("failed to delete %s: %v", msg.name, msg.err)
			m.logger.WithError(msg.err).WithField("name", msg.name).Error("failed to delete variable")
			return m, nil
		}
		m.status = "deleted " + msg.name
		return m, nil

	case confirm.ConfirmedMsg:
		var cmd tea.Cmd
		if id, ok := msg.Target.(card.NodeID); ok {
			cmd = m.deleteCard(id)
		}
		updated, saves := m.afterEdit()
		return updated, tea.Batch(cmd, saves)

	case confirm.CancelledMsg, typepicker.CancelledMsg:
		return m, nil

	case typepicker.ChosenMsg:
		if _, ok := msg.Target.(newVariable); ok {
			if m.scope != models.ScopeMessage {
				return m.createVariable(msg.Type, floor.ListFloor)
			}
			m.pendingType = msg.Type
			m.beginInput(enteringFloor, row{}, m.defaultFloor())
			return m, nil
		}
		if id, ok := msg.Target.(card.NodeID); ok && m.view != nil {
			if child, err := m.view.Cards.AddChild(id, msg.Type); err == nil {
				_ = m.view.Cards.Commit(child.ID())
				m.rows = buildRows(m.view)
				if i := indexOf(m.rows, cardRow, child.ID(), 0); i >= 0 {
					m.cursor = i
					m.beginInput(renaming, m.rows[i], child.Name())
				}
			}
		}
		return m.afterEdit()

	case tea.KeyMsg:
		if m.confirm.Active {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.picker.Active {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if m.mode != browsing {
			return m.updateInput(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot() {
	snap, ok := m.sess.take()
	if !ok {
		return
	}
	var (
		kind rowKind
		node card.NodeID
		item int
	)
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		r := m.rows[m.cursor]
		kind, node, item = r.kind, r.node, r.item
	}

	m.view, m.empty, m.err = snap.view, snap.empty, snap.err
	if m.view != nil {
		m.view.Cards.OnChange(m.sess.markChanged)
	}
	m.rows = buildRows(m.view)
	m.cursor = 0
	if node != 0 {
		if i := indexOf(m.rows, kind, node, item); i >= 0 {
			m.cursor = i
		}
	}
	m.syncViewport()
	m.viewport.SetYOffset(snap.restore)
	m.sess.setOffset(m.viewport.YOffset)
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.viewport.Height)
		return m, nil
	case key.Matches(msg, m.keys.NextScope), key.Matches(msg, m.keys.PrevScope):
		step := 1
		if key.Matches(msg, m.keys.PrevScope) {
			step = -1
		}
		m.scope = nextScope(m.scope, step)
		m.status = ""
		return m, activateCmd(m.ctx, m.board, m.scope)
	case key.Matches(msg, m.keys.Refresh):
		return m, refreshCmd(m.ctx, m.board)
	case key.Matches(msg, m.keys.Types):
		all := models.AllDataTypes()
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(all) {
			m.sess.toggleType(all[i])
		}
		return m, refreshCmd(m.ctx, m.board)
	case key.Matches(msg, m.keys.Search):
		m.beginInput(editingKeyword, row{}, m.sess.Filter().Keyword)
		return m, nil
	case key.Matches(msg, m.keys.Range):
		lo, hi := m.board.Range()
		m.beginInput(editingRange, row{}, strings.TrimSpace(lo.String()+" "+hi.String()))
		return m, nil
	case key.Matches(msg, m.keys.Older), key.Matches(msg, m.keys.Newer):
		return m.shiftRange(key.Matches(msg, m.keys.Newer))
	case key.Matches(msg, m.keys.NewVar):
		m.picker.Activate(newVariable{})
		return m, nil
	}

	if m.cursor >= 0 && m.cursor < len(m.rows) && m.rows[m.cursor].kind == panelRow {
		if key.Matches(msg, m.keys.Activate) {
			m.rows[m.cursor].panel.Toggle()
			m.rows = buildRows(m.view)
			m.syncViewport()
		}
		return m, nil
	}

	n, r, ok := m.currentNode()
	if !ok {
		return m, nil
	}
	tree := m.view.Cards

	switch {
	case key.Matches(msg, m.keys.Activate):
		switch n.DataType() {
		case models.TypeBoolean:
			on, _ := n.BoolState()
			_ = tree.SetBool(n.ID(), !on)
			_ = tree.Commit(n.ID())
		case models.TypeObject:
			_ = tree.Toggle(n.ID())
		}
		return m.afterEdit()

	case key.Matches(msg, m.keys.ToggleView):
		if n.DataType() == models.TypeObject {
			_ = tree.Toggle(n.ID())
		}
		return m.afterEdit()

	case key.Matches(msg, m.keys.AddKey):
		if n.DataType() == models.TypeObject && n.ViewMode() == card.ViewCard {
			m.picker.Activate(n.ID())
		}
		return m, nil

	case key.Matches(msg, m.keys.AddItem):
		if n.DataType() == models.TypeArray {
			_ = tree.AddItem(n.ID(), "")
			m.rows = buildRows(m.view)
			idx := len(n.Items()) - 1
			if i := indexOf(m.rows, itemRow, n.ID(), idx); i >= 0 {
				m.cursor = i
				m.beginInput(editingText, m.rows[i], "")
			}
		}
		return m.afterEdit()

	case key.Matches(msg, m.keys.Delete):
		if r.kind == itemRow {
			_ = tree.RemoveItem(n.ID(), r.item)
			_ = tree.Commit(n.ID())
			return m.afterEdit()
		}
		if n.IsNested() {
			m.confirm.Activate(fmt.Sprintf("Delete key %q?", n.Name()), n.ID())
		} else if r.kind == cardRow {
			m.confirm.Activate(fmt.Sprintf("Delete variable %q?", n.Name()), n.ID())
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		switch {
		case r.kind == itemRow:
			m.beginInput(editingText, r, n.Items()[r.item])
		case n.DataType() == models.TypeString, n.DataType() == models.TypeNumber:
			m.beginInput(editingText, r, n.Text())
		case n.DataType() == models.TypeObject && n.ViewMode() == card.ViewJSON:
			m.mode = editingJSON
			m.editTarget = r
			m.area.SetValue(n.JSONText())
			m.area.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		// saved variables are addressed by name in the store
		if r.kind == cardRow && (n.IsNested() || n.Status() == models.StatusNew) {
			m.beginInput(renaming, r, n.Name())
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		if r.kind != itemRow {
			return m, nil
		}
		to := r.item + 1
		if key.Matches(msg, m.keys.MoveUp) {
			to = r.item - 1
		}
		if err := tree.MoveItem(n.ID(), r.item, to); err == nil {
			_ = tree.Commit(n.ID())
			m.rows = buildRows(m.view)
			if i := indexOf(m.rows, itemRow, n.ID(), to); i >= 0 {
				m.cursor = i
			}
		}
		return m.afterEdit()
	}
	return m, nil
}

func (m *Model) beginInput(mode inputMode, target row, initial string) {
	m.mode = mode
	m.editTarget = target
	switch mode {
	case editingKeyword:
		m.input.Placeholder = "keyword"
	case editingRange:
		m.input.Placeholder = "min max"
	case renaming:
		m.input.Placeholder = "name"
	case enteringFloor:
		m.input.Placeholder = "floor"
	default:
		m.input.Placeholder = ""
	}
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == editingJSON {
		switch msg.String() {
		case "esc":
			m.mode = browsing
			m.area.Blur()
			return m, nil
		case "ctrl+s":
			m.mode = browsing
			m.area.Blur()
			if m.view != nil {
				_ = m.view.Cards.SetJSONText(m.editTarget.node, m.area.Value())
				_ = m.view.Cards.Commit(m.editTarget.node)
			}
			return m.afterEdit()
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.mode = browsing
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		mode, text := m.mode, m.input.Value()
		m.mode = browsing
		m.input.Blur()
		return m.applyInput(mode, text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) applyInput(mode inputMode, text string) (tea.Model, tea.Cmd) {
	switch mode {
	case editingKeyword:
		m.sess.setKeyword(text)
		return m, refreshCmd(m.ctx, m.board)
	case editingRange:
		fields := strings.Fields(text)
		if len(fields) != 2 {
			m.status = board.MsgInvalidFloor
			return m, nil
		}
		if msg := m.board.SetRange(fields[0], fields[1]); msg != "" {
			m.status = msg
			return m, nil
		}
		m.status = ""
		return m, refreshCmd(m.ctx, m.board)
	case enteringFloor:
		f, err := floor.ParseFloorID(text)
		if err != nil {
			m.status = board.MsgInvalidFloor
			return m, nil
		}
		return m.createVariable(m.pendingType, f)
	}

	if m.view == nil {
		return m, nil
	}
	tree := m.view.Cards
	r := m.editTarget
	switch mode {
	case editingText:
		if r.kind == itemRow {
			_ = tree.SetItem(r.node, r.item, text)
		} else {
			_ = tree.SetText(r.node, text)
		}
	case renaming:
		if n, ok := tree.Node(r.node); ok && n.IsTopLevel() {
			if problem := m.checkVariableName(r.node, text); problem != "" {
				m.status = problem
				return m, nil
			}
		}
		_, _ = tree.Rename(r.node, text)
	}
	_ = tree.Commit(r.node)
	return m.afterEdit()
}

// deleteCard removes a nested key, or a whole variable together with its
// stored value. A panel left without cards goes away.
func (m *Model) deleteCard(id card.NodeID) tea.Cmd {
	if m.view == nil {
		return nil
	}
	tree := m.view.Cards
	n, ok := tree.Node(id)
	if !ok {
		return nil
	}
	if n.IsNested() {
		_ = tree.DeleteChild(n.Parent(), id)
		return nil
	}

	name, status := n.Name(), n.Status()
	p, ok := m.view.PanelOf(id)
	if !ok {
		return nil
	}
	if err := tree.Remove(id); err != nil {
		return nil
	}
	m.view.Drop(id)
	if len(m.view.Panels) == 0 {
		m.view = nil
		m.empty = board.MsgNoVariables
		if m.scope == models.ScopeMessage {
			m.empty = floor.MsgNoVariables
		}
	}
	if status == models.StatusNew || m.store == nil || name == "" {
		return nil
	}
	return deleteCmd(m.ctx, m.store, m.entryFor(p, name, nil))
}

// createVariable adds an unsaved variable of type dt on top of the panel for
// f and starts naming it. It is stored once named.
func (m Model) createVariable(dt models.DataType, f int) (tea.Model, tea.Cmd) {
	if m.view == nil {
		m.view = &floor.View{Cards: card.New(m.cardOpts...)}
		m.view.Cards.OnChange(m.sess.markChanged)
		m.empty, m.err = "", nil
	}
	n := m.view.Cards.Build(value.NewItem(dt), false)
	p, created := m.view.Insert(f, n.ID())
	if created && f == floor.ListFloor {
		p.Title = string(m.scope)
	}
	p.Expanded = true

	m.rows = buildRows(m.view)
	if i := indexOf(m.rows, cardRow, n.ID(), 0); i >= 0 {
		m.cursor = i
		m.beginInput(renaming, m.rows[i], n.Name())
	}
	return m.afterEdit()
}

// checkVariableName returns why name cannot be given to the top-level card
// id, or "".
func (m Model) checkVariableName(id card.NodeID, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "variable name must not be empty"
	}
	p, ok := m.view.PanelOf(id)
	if !ok {
		return ""
	}
	for _, c := range p.Cards {
		if n, ok := m.view.Cards.Node(c); ok && c != id && n.Name() == name {
			return fmt.Sprintf("variable %q already exists", name)
		}
	}
	return ""
}

func (m Model) defaultFloor() string {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		if p := m.rows[m.cursor].panel; p != nil && p.Floor >= 0 {
			return fmt.Sprint(p.Floor)
		}
	}
	_, hi := m.board.Range()
	return hi.String()
}

func (m Model) shiftRange(newer bool) (tea.Model, tea.Cmd) {
	lo, hi := m.board.Range()
	if !lo.Set || !hi.Set {
		return m, nil
	}
	step := -1
	if newer {
		step = 1
	}
	if lo.Value+step < 0 {
		return m, nil
	}
	if msg := m.board.SetRange(fmt.Sprint(lo.Value+step), fmt.Sprint(hi.Value+step)); msg != "" {
		m.status = msg
		return m, nil
	}
	return m, refreshCmd(m.ctx, m.board)
}

// afterEdit rebuilds the rows, surfaces problems and saves every top-level
// card whose content was committed.
func (m Model) afterEdit() (tea.Model, tea.Cmd) {
	if problems := m.sess.drainProblems(); len(problems) > 0 {
		m.status = problems[len(problems)-1].Message
	}
	var cmds []tea.Cmd
	for _, id := range m.sess.drainChanged() {
		if cmd := m.saveCard(id); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	m.rows = buildRows(m.view)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncViewport()
	return m, tea.Batch(cmds...)
}

func (m Model) saveCard(id card.NodeID) tea.Cmd {
	if m.view == nil || m.store == nil {
		return nil
	}
	item, err := m.view.Cards.Item(id)
	if err != nil || item.Name == "" {
		return nil
	}
	p, ok := m.view.PanelOf(id)
	if !ok {
		return nil
	}
	return saveCmd(m.ctx, m.store, m.view, id, m.entryFor(p, item.Name, item.Value))
}

func (m Model) entryFor(p *floor.Panel, name string, v any) store.Entry {
	entry := store.Entry{Scope: m.scope, Floor: store.NoFloor, Name: name, Value: v}
	if m.scope == models.ScopeMessage {
		entry.Floor = p.Floor
	}
	return entry
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncViewport()
}

func nextScope(current models.Scope, step int) models.Scope {
	all := models.AllScopes()
	for i, s := range all {
		if s == current {
			return all[(i+step+len(all))%len(all)]
		}
	}
	return all[0]
}
