package card

import (
	"fmt"
	"strings"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// Toggle switches an object card between its card view and its JSON view.
//
// Leaving the card view always regenerates the text from the subtree, so the
// text shown is never stale. Leaving the JSON view parses the text and
// rebuilds every child card from it; if the text is malformed the problem is
// reported and the card stays in the JSON view with its text untouched.
func (t *Tree) Toggle(id NodeID) error {
	n, err := t.lookupObject(id, "toggle view of")
	if err != nil {
		return err
	}
	if n.viewMode == ViewJSON {
		if err := t.syncTextToTree(n); err != nil {
			return err
		}
		n.viewMode = ViewCard
		return nil
	}
	t.syncTreeToText(n)
	n.viewMode = ViewJSON
	return nil
}

// SyncTreeToText regenerates an object card's text view from its children.
func (t *Tree) SyncTreeToText(id NodeID) error {
	n, err := t.lookupObject(id, "sync text of")
	if err != nil {
		return err
	}
	t.syncTreeToText(n)
	return nil
}

// SyncTextToTree rebuilds an object card's children from its text view.
// Empty text leaves the children alone.
func (t *Tree) SyncTextToTree(id NodeID) error {
	n, err := t.lookupObject(id, "sync cards of")
	if err != nil {
		return err
	}
	return t.syncTextToTree(n)
}

func (t *Tree) syncTreeToText(n *Node) {
	obj := t.collectChildren(n)
	text, err := value.MarshalIndent(obj)
	if err != nil {
		t.report(Problem{Kind: ProblemMalformedText, Node: n.id, Message: "cannot render the JSON view", Err: err})
		return
	}
	n.jsonText = text
}

func (t *Tree) syncTextToTree(n *Node) error {
	if strings.TrimSpace(n.jsonText) == "" {
		return nil
	}
	obj, err := parseObjectText(n.jsonText)
	if err != nil {
		t.report(Problem{
			Kind:    ProblemMalformedText,
			Node:    n.id,
			Message: "JSON format error, cannot switch to the card view",
			Err:     err,
		})
		return fmt.Errorf("sync cards of %q: %w", n.name, err)
	}

	for _, id := range n.children {
		t.destroy(id)
	}
	n.children = n.children[:0]
	for _, m := range obj.Members() {
		child := t.build(models.VariableItem{
			Name:  m.Key,
			Value: m.Value,
		}, true, n.id)
		n.children = append(n.children, child.id)
	}
	t.logger.WithField("keys", len(n.children)).Debug("rebuilt nested cards from JSON")
	return nil
}
