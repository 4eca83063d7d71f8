// Package editor is the interactive variable editor: a bubbletea program
// over a board, with floor renders running in the background.
package editor

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/internal/tui/components/confirm"
	"github.com/mattsolo1/grove-variables/internal/tui/components/typepicker"
	"github.com/mattsolo1/grove-variables/pkg/board"
	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

type inputMode int

const (
	browsing inputMode = iota
	editingText
	editingJSON
	editingKeyword
	editingRange
	renaming
	enteringFloor
)

// newVariable is the type picker target of the new-variable action.
type newVariable struct{}

// Config configures the editor.
type Config struct {
	Store  store.Store
	Scope  models.Scope
	Types  []models.DataType
	Window int
	Logger *logrus.Entry
}

// Model is the main model for the variable editor TUI
type Model struct {
	ctx    context.Context
	store  store.Store
	board  *board.Board
	sess   *session
	logger *logrus.Entry
	scope  models.Scope

	cardOpts []card.Option

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	area     textarea.Model
	confirm  confirm.Model
	picker   typepicker.Model

	view   *floor.View
	rows   []row
	cursor int
	empty  string
	err    error
	status string

	mode        inputMode
	editTarget  row
	pendingType models.DataType
	width       int
	height      int
	changes     chan struct{}
}

// New creates the editor model.
func New(ctx context.Context, cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	logger = logger.WithField("component", "editor")

	types := cfg.Types
	if len(types) == 0 {
		types = models.AllDataTypes()
	}
	scope := cfg.Scope
	if scope == "" {
		scope = models.ScopeGlobal
	}
	window := cfg.Window
	if window <= 0 {
		window = board.DefaultWindow
	}

	sess := newSession(types)
	cardOpts := []card.Option{card.WithReporter(sess), card.WithLogger(logger)}
	var src board.Source
	if cfg.Store != nil {
		src = cfg.Store
	}
	b := board.New(sess, src,
		board.WithFilter(sess),
		board.WithWindow(window),
		board.WithLogger(logger),
		board.WithCardOptions(cardOpts...),
	)

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.SetWidth(80)
	ta.SetHeight(16)

	return Model{
		ctx:      ctx,
		store:    cfg.Store,
		board:    b,
		sess:     sess,
		logger:   logger,
		scope:    scope,
		cardOpts: cardOpts,
		keys:     keys,
		help:     help.New(),
		viewport: viewport.New(80, 20),
		input:    ti,
		area:     ta,
		confirm:  confirm.New(),
		picker:   typepicker.New(),
		changes:  make(chan struct{}, 1),
	}
}

// Init starts the first render and, for file stores, the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{activateCmd(m.ctx, m.board, m.scope)}
	if fs, ok := m.store.(*store.FileStore); ok {
		cmds = append(cmds, watchCmd(m.ctx, fs, m.changes, m.logger), waitForChangeCmd(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m Model) currentNode() (*card.Node, row, bool) {
	if m.view == nil || m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil, row{}, false
	}
	r := m.rows[m.cursor]
	if r.kind == panelRow {
		return nil, r, false
	}
	n, ok := m.view.Cards.Node(r.node)
	return n, r, ok
}
