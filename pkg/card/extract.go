package card

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// Extract reconstructs the value a card currently represents. Objects come
// back as map[string]any; use ExtractOrdered to keep key order.
func (t *Tree) Extract(id NodeID) (any, error) {
	v, err := t.ExtractOrdered(id)
	if err != nil {
		return nil, err
	}
	return value.Plain(v), nil
}

// ExtractOrdered is Extract with objects returned as *value.Object.
func (t *Tree) ExtractOrdered(id NodeID) (any, error) {
	n, err := t.lookup(id, "extract")
	if err != nil {
		return nil, err
	}
	return t.collect(n), nil
}

// Item returns the variable item for a card with its current value.
func (t *Tree) Item(id NodeID) (models.VariableItem, error) {
	v, err := t.Extract(id)
	if err != nil {
		return models.VariableItem{}, err
	}
	n := t.nodes[id]
	return models.VariableItem{
		ID:       n.variableID,
		Name:     n.name,
		DataType: n.dataType,
		Value:    v,
		Status:   n.status,
	}, nil
}

func (t *Tree) collect(n *Node) any {
	switch n.dataType {
	case models.TypeNumber:
		return parseNumber(n.text)
	case models.TypeBoolean:
		return n.trueActive
	case models.TypeArray:
		out := make([]any, 0, len(n.items))
		for _, row := range n.items {
			if v, err := value.ParseOrdered(row); err == nil {
				out = append(out, v)
			} else {
				out = append(out, row)
			}
		}
		return out
	case models.TypeObject:
		if n.viewMode == ViewJSON && strings.TrimSpace(n.jsonText) != "" {
			obj, err := parseObjectText(n.jsonText)
			if err == nil {
				return obj
			}
			t.report(Problem{
				Kind:    ProblemMalformedText,
				Node:    n.id,
				Message: fmt.Sprintf("JSON of %q is invalid, using the card view instead", n.name),
				Err:     err,
			})
		}
		return t.collectChildren(n)
	default:
		return n.text
	}
}

func (t *Tree) collectChildren(n *Node) *value.Object {
	obj := value.NewObject()
	for _, id := range n.children {
		child, ok := t.nodes[id]
		if !ok {
			continue
		}
		if child.name == "" {
			t.report(Problem{
				Kind:    ProblemStructure,
				Node:    child.id,
				Message: fmt.Sprintf("skipping a nested card of %q with an empty key", n.name),
			})
			continue
		}
		obj.Set(child.name, t.collect(child))
	}
	return obj
}

// parseNumber reads a number input. Empty or unparseable input is 0.
func parseNumber(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseObjectText(text string) (*value.Object, error) {
	v, err := value.ParseOrdered(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedText, err)
	}
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrMalformedText, value.Infer(value.Plain(v)))
	}
	return obj, nil
}
