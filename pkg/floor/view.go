package floor

import (
	"fmt"

	"github.com/mattsolo1/grove-variables/pkg/card"
)

// EmptyReason says why a render produced no panels.
type EmptyReason string

const (
	EmptyInvalidRange EmptyReason = "invalid_range"
	EmptyNoVariables  EmptyReason = "no_variables"
)

const (
	MsgInvalidRange = "Set a valid floor range to filter by"
	MsgEmptyRange   = "Max floor is below min floor, no floors in range"
	MsgNoVariables  = "No floor variables match the current filters"
	MsgRangeTooWide = "Floor range is too wide, show at most %d floors at once"
)

// ListFloor is the floor of the single panel a non-floor scope is shown in.
const ListFloor = -1

// Surface receives the outcome of a render. Exactly one method is called per
// render that is not cancelled. Calls happen while the pipeline holds its
// lock, so a Surface must not start another render from inside them.
type Surface interface {
	ShowEmpty(reason EmptyReason, message string)
	ShowError(err error)
	Commit(view *View)
}

// View is the batch a render commits: one panel per floor that kept at
// least one variable, newest floor first, with the cards they show.
type View struct {
	Cards  *card.Tree
	Panels []*Panel
}

// Panel returns the panel for floor.
func (v *View) Panel(floor int) (*Panel, bool) {
	for _, p := range v.Panels {
		if p.Floor == floor {
			return p, true
		}
	}
	return nil, false
}

// Len returns the number of cards across all panels.
func (v *View) Len() int {
	n := 0
	for _, p := range v.Panels {
		n += len(p.Cards)
	}
	return n
}

// Insert puts a card at the top of the panel for floor. A missing panel is
// created expanded, in descending floor order; created reports that.
func (v *View) Insert(floor int, id card.NodeID) (panel *Panel, created bool) {
	if p, ok := v.Panel(floor); ok {
		p.Cards = append([]card.NodeID{id}, p.Cards...)
		return p, false
	}
	p := newPanel(floor)
	p.Expanded = true
	p.Cards = []card.NodeID{id}
	at := len(v.Panels)
	for i, q := range v.Panels {
		if q.Floor < floor {
			at = i
			break
		}
	}
	v.Panels = append(v.Panels, nil)
	copy(v.Panels[at+1:], v.Panels[at:])
	v.Panels[at] = p
	return p, true
}

// Drop takes a card out of its panel and removes the panel once it has no
// cards left. It returns the panel the card was in.
func (v *View) Drop(id card.NodeID) (*Panel, bool) {
	for i, p := range v.Panels {
		for j, c := range p.Cards {
			if c != id {
				continue
			}
			p.Cards = append(p.Cards[:j], p.Cards[j+1:]...)
			if len(p.Cards) == 0 {
				v.Panels = append(v.Panels[:i], v.Panels[i+1:]...)
			}
			return p, true
		}
	}
	return nil, false
}

// PanelOf returns the panel showing the card.
func (v *View) PanelOf(id card.NodeID) (*Panel, bool) {
	for _, p := range v.Panels {
		for _, c := range p.Cards {
			if c == id {
				return p, true
			}
		}
	}
	return nil, false
}

// Panel is one collapsible floor group.
type Panel struct {
	Floor    int
	Title    string
	Expanded bool
	Cards    []card.NodeID
}

func newPanel(floor int) *Panel {
	return &Panel{Floor: floor, Title: fmt.Sprintf("# %d", floor)}
}

// Toggle flips the panel between expanded and collapsed.
func (p *Panel) Toggle() {
	p.Expanded = !p.Expanded
}

// Result is what a render resolves to. Callers must check Cancelled before
// acting on it, for example before restoring a scroll position.
type Result struct {
	Cancelled bool
	Err       error
}
