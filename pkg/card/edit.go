package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// AddChild creates a nested card of type dt at the front of an object card,
// with a generated key and the type's default value. The new card takes
// focus. A top-level parent's text view is refreshed immediately.
func (t *Tree) AddChild(id NodeID, dt models.DataType) (*Node, error) {
	parent, err := t.lookupObject(id, "add key to")
	if err != nil {
		return nil, err
	}
	if !dt.IsValid() {
		err := fmt.Errorf("add key to %q: unknown type %q", parent.name, dt)
		t.report(Problem{Kind: ProblemStructure, Node: id, Message: "unknown data type", Err: err})
		return nil, err
	}
	if parent.viewMode == ViewJSON {
		err := fmt.Errorf("add key to %q: card is in JSON view", parent.name)
		t.report(Problem{Kind: ProblemStructure, Node: id, Message: "switch to card view to add keys", Err: err})
		return nil, err
	}

	key := UniqueKey(t.siblingKeys(parent, 0), dt)
	child := t.build(models.VariableItem{
		Name:     key,
		DataType: dt,
		Value:    value.DefaultFor(dt),
	}, true, parent.id)
	parent.children = append([]NodeID{child.id}, parent.children...)
	t.focused = child.id

	if !parent.nested {
		t.syncTreeToText(parent)
	}
	t.logger.WithField("key", key).Debug("added nested card")
	return child, nil
}

// PromptAddChild asks the configured TypeChooser for a type, then adds a
// child of that type. A cancelled choice adds nothing.
func (t *Tree) PromptAddChild(ctx context.Context, id NodeID) (*Node, error) {
	if _, err := t.lookupObject(id, "add key to"); err != nil {
		return nil, err
	}
	if t.chooser == nil {
		t.report(Problem{
			Kind:    ProblemMissingCollaborator,
			Node:    id,
			Message: "type selection dialog is unavailable",
			Err:     ErrNoChooser,
		})
		return nil, ErrNoChooser
	}
	dt, err := t.chooser.ChooseType(ctx)
	if err != nil {
		return nil, err
	}
	return t.AddChild(id, dt)
}

// DeleteChild removes a nested card and its subtree from parentID, then
// refreshes the text view of the parent and of the top-level card and
// notifies change listeners.
func (t *Tree) DeleteChild(parentID, childID NodeID) error {
	parent, err := t.lookupObject(parentID, "delete key from")
	if err != nil {
		return err
	}
	idx := -1
	for i, id := range parent.children {
		if id == childID {
			idx = i
			break
		}
	}
	if idx < 0 {
		err := fmt.Errorf("delete card %d from %q: %w", childID, parent.name, ErrUnknownNode)
		t.report(Problem{Kind: ProblemStructure, Node: childID, Message: "card is not a child of this object", Err: err})
		return err
	}

	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	t.destroy(childID)
	t.syncTreeToText(parent)

	top := t.FindTopLevelAncestor(parentID)
	if top == nil {
		return nil
	}
	if top != parent && top.dataType == models.TypeObject && top.viewMode == ViewCard {
		t.syncTreeToText(top)
	}
	t.notify(top)
	return nil
}

// Commit is the nested save action: it refreshes the top-level card's text
// view from its subtree and notifies change listeners.
func (t *Tree) Commit(id NodeID) error {
	if _, err := t.lookup(id, "commit"); err != nil {
		return err
	}
	top := t.FindTopLevelAncestor(id)
	if top == nil {
		err := fmt.Errorf("commit card %d: no top-level card", id)
		t.report(Problem{Kind: ProblemStructure, Node: id, Message: "cannot find the variable this card belongs to", Err: err})
		return err
	}
	if top.dataType == models.TypeObject && top.viewMode == ViewCard {
		t.syncTreeToText(top)
	}
	t.notify(top)
	return nil
}

// MarkSaved clears the "new" status of a top-level card.
func (t *Tree) MarkSaved(id NodeID) error {
	n, err := t.lookup(id, "mark saved")
	if err != nil {
		return err
	}
	n.status = models.StatusSaved
	return nil
}

// Rename changes a nested card's key. A key that collides with a sibling
// is replaced by a generated one; the key actually applied is returned.
func (t *Tree) Rename(id NodeID, key string) (string, error) {
	n, err := t.lookup(id, "rename")
	if err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if n.nested && key != "" {
		if parent, ok := t.nodes[n.parent]; ok {
			siblings := t.siblingKeys(parent, n.id)
			if siblings[key] {
				generated := UniqueKey(siblings, n.dataType)
				t.report(Problem{
					Kind:    ProblemStructure,
					Node:    id,
					Message: fmt.Sprintf("key %q already exists, using %q", key, generated),
				})
				key = generated
			}
		}
	}
	n.name = key
	return key, nil
}

// SetText replaces the content of a string or number card.
func (t *Tree) SetText(id NodeID, text string) error {
	n, err := t.lookup(id, "set text of")
	if err != nil {
		return err
	}
	if n.dataType != models.TypeString && n.dataType != models.TypeNumber {
		return t.wrongType(n, "set text of")
	}
	n.text = text
	return nil
}

// SetBool activates the true or the false toggle of a boolean card.
func (t *Tree) SetBool(id NodeID, b bool) error {
	n, err := t.lookup(id, "set value of")
	if err != nil {
		return err
	}
	if n.dataType != models.TypeBoolean {
		return t.wrongType(n, "set value of")
	}
	n.trueActive, n.falseActive = b, !b
	return nil
}

// AddItem appends a row to an array card.
func (t *Tree) AddItem(id NodeID, text string) error {
	n, err := t.array(id, "add item to")
	if err != nil {
		return err
	}
	n.items = append(n.items, text)
	return nil
}

// SetItem replaces the row at index i.
func (t *Tree) SetItem(id NodeID, i int, text string) error {
	n, err := t.array(id, "set item of")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(n.items) {
		return fmt.Errorf("set item %d of %q: index out of range", i, n.name)
	}
	n.items[i] = text
	return nil
}

// RemoveItem deletes the row at index i.
func (t *Tree) RemoveItem(id NodeID, i int) error {
	n, err := t.array(id, "remove item from")
	if err != nil {
		return err
	}
	if i < 0 || i >= len(n.items) {
		return fmt.Errorf("remove item %d from %q: index out of range", i, n.name)
	}
	n.items = append(n.items[:i], n.items[i+1:]...)
	return nil
}

// MoveItem moves the row at from to position to, then drops rows that
// repeat an earlier row ignoring case and surrounding space.
func (t *Tree) MoveItem(id NodeID, from, to int) error {
	n, err := t.array(id, "move item of")
	if err != nil {
		return err
	}
	if from < 0 || from >= len(n.items) || to < 0 || to >= len(n.items) {
		return fmt.Errorf("move item %d to %d of %q: index out of range", from, to, n.name)
	}
	row := n.items[from]
	items := append(n.items[:from:from], n.items[from+1:]...)
	items = append(items[:to], append([]string{row}, items[to:]...)...)
	n.items = dedupeRows(items)
	return nil
}

// SetJSONText replaces the text view of an object card.
func (t *Tree) SetJSONText(id NodeID, text string) error {
	n, err := t.lookupObject(id, "set text of")
	if err != nil {
		return err
	}
	n.jsonText = text
	return nil
}

func (t *Tree) array(id NodeID, op string) (*Node, error) {
	n, err := t.lookup(id, op)
	if err != nil {
		return nil, err
	}
	if n.dataType != models.TypeArray {
		return nil, t.wrongType(n, op)
	}
	return n, nil
}

func (t *Tree) wrongType(n *Node, op string) error {
	err := fmt.Errorf("%s %q: card has type %s", op, n.name, n.dataType)
	t.report(Problem{Kind: ProblemStructure, Node: n.id, Message: "operation does not apply to this card", Err: err})
	return err
}

func dedupeRows(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(strings.TrimSpace(it))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}
