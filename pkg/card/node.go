package card

import "github.com/mattsolo1/grove-variables/pkg/models"

// NodeID addresses a node inside a Tree. Zero is never a valid id.
type NodeID uint64

// ViewMode selects which representation of an object card is authoritative.
type ViewMode string

const (
	ViewCard ViewMode = "card"
	ViewJSON ViewMode = "json"
)

// Node is one card. Its data type is fixed at creation; content changes go
// through the owning Tree so the two views of object cards stay in sync.
type Node struct {
	id         NodeID
	parent     NodeID
	variableID string
	name       string
	dataType   models.DataType
	nested     bool
	status     models.Status

	// Content inputs, depending on dataType
	text        string   // string and number
	trueActive  bool     // boolean
	falseActive bool     // boolean
	items       []string // array rows, in display order
	children    []NodeID // object properties, newest first when added by the user
	viewMode    ViewMode
	jsonText    string
}

func (n *Node) ID() NodeID                { return n.id }
func (n *Node) Parent() NodeID            { return n.parent }
func (n *Node) VariableID() string        { return n.variableID }
func (n *Node) Name() string              { return n.name }
func (n *Node) DataType() models.DataType { return n.dataType }
func (n *Node) IsNested() bool            { return n.nested }
func (n *Node) Status() models.Status     { return n.status }
func (n *Node) Text() string              { return n.text }
func (n *Node) ViewMode() ViewMode        { return n.viewMode }
func (n *Node) JSONText() string          { return n.jsonText }

// BoolState returns which of the two boolean toggles is active.
func (n *Node) BoolState() (trueActive, falseActive bool) {
	return n.trueActive, n.falseActive
}

// Items returns a copy of the array rows.
func (n *Node) Items() []string {
	out := make([]string, len(n.items))
	copy(out, n.items)
	return out
}

// Children returns a copy of the child ids in display order.
func (n *Node) Children() []NodeID {
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// IsTopLevel reports whether the node carries a persisted identifier.
func (n *Node) IsTopLevel() bool {
	return n.variableID != ""
}
