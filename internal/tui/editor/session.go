package editor

import (
	"sync"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
)

// session is the state shared between the bubbletea loop and the render
// goroutines. Everything behind mu may be touched from either side.
type session struct {
	mu sync.Mutex

	// written by renders
	view    *floor.View
	empty   string
	err     error
	restore int
	hasView bool

	// written by the UI
	offset   int
	types    map[models.DataType]bool
	keyword  string
	problems []card.Problem

	// top-level cards whose nested edits were committed, drained after
	// every key press
	changed []card.NodeID
}

func newSession(types []models.DataType) *session {
	s := &session{types: make(map[models.DataType]bool)}
	for _, t := range types {
		s.types[t] = true
	}
	return s
}

func (s *session) ShowEmpty(_ floor.EmptyReason, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view, s.empty, s.err, s.hasView = nil, message, nil, true
}

func (s *session) ShowError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view, s.empty, s.err, s.hasView = nil, "", err, true
}

func (s *session) Commit(view *floor.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view, s.empty, s.err, s.hasView = view, "", nil, true
}

func (s *session) ScrollOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *session) SetScrollOffset(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore = offset
}

// Filter is read by the board at the start of every render.
func (s *session) Filter() floor.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make(map[models.DataType]bool, len(s.types))
	for k, v := range s.types {
		types[k] = v
	}
	return floor.Filter{Types: types, Keyword: s.keyword}
}

func (s *session) toggleType(t models.DataType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[t] = !s.types[t]
}

func (s *session) typeEnabled(t models.DataType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types[t]
}

func (s *session) setKeyword(k string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyword = k
}

func (s *session) setOffset(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = offset
}

// Report collects problems from card trees for the status line.
func (s *session) Report(p card.Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, p)
}

func (s *session) drainProblems() []card.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.problems
	s.problems = nil
	return out
}

func (s *session) markChanged(n *card.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = append(s.changed, n.ID())
}

func (s *session) drainChanged() []card.NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.changed
	s.changed = nil
	return out
}

// snapshot is what the UI takes over after a render finished.
type snapshot struct {
	view    *floor.View
	empty   string
	err     error
	restore int
}

func (s *session) take() (snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasView {
		return snapshot{}, false
	}
	s.hasView = false
	return snapshot{view: s.view, empty: s.empty, err: s.err, restore: s.restore}, true
}
