// Package card holds the variable card model: a tree of cards built from
// variable items, the edits a user makes on them, value extraction, and the
// card/JSON dual view of object cards.
package card

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// Tree owns every card node. It is not safe for concurrent use; one tree
// belongs to one render of one surface.
type Tree struct {
	nodes     map[NodeID]*Node
	roots     []NodeID
	lastID    NodeID
	focused   NodeID
	chooser   TypeChooser
	reporter  Reporter
	logger    *logrus.Entry
	listeners []func(*Node)
}

// Option configures a Tree.
type Option func(*Tree)

// WithTypeChooser wires the dialog used by PromptAddChild.
func WithTypeChooser(c TypeChooser) Option {
	return func(t *Tree) { t.chooser = c }
}

// WithReporter sets where recoverable problems go.
func WithReporter(r Reporter) Option {
	return func(t *Tree) { t.reporter = r }
}

// WithLogger sets the logger. Without a reporter, problems are logged here.
func WithLogger(l *logrus.Entry) Option {
	return func(t *Tree) { t.logger = l }
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{nodes: make(map[NodeID]*Node)}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logrus.NewEntry(logrus.New())
	}
	t.logger = t.logger.WithField("component", "card")
	if t.reporter == nil {
		t.reporter = NewLogReporter(t.logger)
	}
	return t
}

// Build creates the card for item. A top-level card keeps the item's ID and
// status; a nested card keeps neither. Object values are expanded into child
// cards in key order and the object's text view is materialized.
func (t *Tree) Build(item models.VariableItem, nested bool) *Node {
	n := t.build(item, nested, 0)
	if !nested {
		t.roots = append(t.roots, n.id)
	}
	return n
}

func (t *Tree) build(item models.VariableItem, nested bool, parent NodeID) *Node {
	v := value.Normalize(item.Value)
	dt := item.DataType
	if !dt.IsValid() {
		dt = value.Infer(v)
	}

	t.lastID++
	n := &Node{
		id:       t.lastID,
		parent:   parent,
		name:     item.Name,
		dataType: dt,
		nested:   nested,
	}
	if !nested {
		n.variableID = item.ID
		n.status = item.Status
	}
	t.nodes[n.id] = n

	switch dt {
	case models.TypeString:
		n.text = textFor(v)
	case models.TypeNumber:
		if f, ok := v.(float64); ok {
			n.text = value.FormatNumber(f)
		} else {
			n.text = textFor(v)
		}
	case models.TypeBoolean:
		b := truthy(v)
		n.trueActive, n.falseActive = b, !b
	case models.TypeArray:
		if list, ok := v.([]any); ok {
			for _, elem := range list {
				n.items = append(n.items, rowText(elem))
			}
		}
	case models.TypeObject:
		n.viewMode = ViewCard
		t.populate(n, v)
		t.syncTreeToText(n)
	}
	return n
}

func (t *Tree) populate(n *Node, v any) {
	var members []value.Member
	switch obj := v.(type) {
	case *value.Object:
		members = obj.Members()
	case map[string]any:
		members = value.ObjectFromMap(obj).Members()
	}
	for _, m := range members {
		child := t.build(models.VariableItem{
			Name:     m.Key,
			DataType: value.Infer(m.Value),
			Value:    m.Value,
		}, true, n.id)
		n.children = append(n.children, child.id)
	}
}

// Node returns the node for id.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Roots returns the top-level cards in build order.
func (t *Tree) Roots() []*Node {
	out := make([]*Node, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// Focused returns the card that last received focus, if any.
func (t *Tree) Focused() (*Node, bool) {
	return t.Node(t.focused)
}

// Focus moves focus to id.
func (t *Tree) Focus(id NodeID) {
	if _, ok := t.nodes[id]; ok {
		t.focused = id
	}
}

// FindTopLevelAncestor walks up from id until it reaches a card with a
// persisted identifier. It returns nil for orphans.
func (t *Tree) FindTopLevelAncestor(id NodeID) *Node {
	for cur := t.nodes[id]; cur != nil; cur = t.nodes[cur.parent] {
		if cur.IsTopLevel() {
			return cur
		}
		if !cur.nested {
			return nil
		}
	}
	return nil
}

// Remove deletes a card and its subtree. Nested cards are removed through
// DeleteChild so their parent stays in sync.
func (t *Tree) Remove(id NodeID) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("remove card %d: %w", id, ErrUnknownNode)
	}
	if n.nested {
		return t.DeleteChild(n.parent, id)
	}
	for i, rid := range t.roots {
		if rid == id {
			t.roots = append(t.roots[:i], t.roots[i+1:]...)
			break
		}
	}
	t.destroy(id)
	return nil
}

// OnChange registers fn to be called with the top-level card whenever a
// nested edit is committed or a nested card is deleted.
func (t *Tree) OnChange(fn func(*Node)) {
	t.listeners = append(t.listeners, fn)
}

func (t *Tree) notify(n *Node) {
	for _, fn := range t.listeners {
		fn(n)
	}
}

func (t *Tree) destroy(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.children {
		t.destroy(c)
	}
	delete(t.nodes, id)
	if t.focused == id {
		t.focused = 0
	}
}

func (t *Tree) report(p Problem) {
	t.reporter.Report(p)
}

func (t *Tree) lookup(id NodeID, op string) (*Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		err := fmt.Errorf("%s card %d: %w", op, id, ErrUnknownNode)
		t.report(Problem{Kind: ProblemStructure, Node: id, Message: "card not found", Err: err})
		return nil, err
	}
	return n, nil
}

func (t *Tree) lookupObject(id NodeID, op string) (*Node, error) {
	n, err := t.lookup(id, op)
	if err != nil {
		return nil, err
	}
	if n.dataType != models.TypeObject {
		err := fmt.Errorf("%s card %q: %w", op, n.name, ErrNotObject)
		t.report(Problem{Kind: ProblemStructure, Node: id, Message: "only object cards have keys", Err: err})
		return nil, err
	}
	return n, nil
}

// textFor renders a scalar for a single-line input. Null becomes empty.
func textFor(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return value.DisplayText(x)
	}
}

// rowText renders one array element. Strings that would parse as JSON are
// quoted so reading the row back yields the same string.
func rowText(v any) string {
	if s, ok := v.(string); ok {
		if _, err := value.ParseOrdered(s); err == nil {
			quoted, _ := value.Marshal(s)
			return quoted
		}
		return s
	}
	return value.DisplayText(v)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
