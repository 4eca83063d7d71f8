package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

func TestToggleRoundTripKeepsText(t *testing.T) {
	tree, rec := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{
		"name": "Alice",
		"tags": []any{"1", "a"},
		"deep": map[string]any{"ok": true},
	}}, false)

	require.NoError(t, tree.Toggle(root.ID()))
	assert.Equal(t, ViewJSON, root.ViewMode())
	text := root.JSONText()

	require.NoError(t, tree.Toggle(root.ID()))
	assert.Equal(t, ViewCard, root.ViewMode())
	require.NoError(t, tree.Toggle(root.ID()))
	assert.Equal(t, text, root.JSONText())
	assert.Empty(t, rec.Problems())
}

func TestToggleToJSONAlwaysResyncs(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"inner": map[string]any{"a": 1.0}}}, false)
	inner := childByName(t, tree, root, "inner")

	// edit deep without committing
	a := childByName(t, tree, inner, "a")
	require.NoError(t, tree.SetText(a.ID(), "5"))

	require.NoError(t, tree.Toggle(root.ID()))
	assert.Equal(t, "{\n  \"inner\": {\n    \"a\": 5\n  }\n}", root.JSONText())
}

func TestToggleToCardRebuildsFromText(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"old": 1.0}}, false)
	require.NoError(t, tree.Toggle(root.ID()))
	require.NoError(t, tree.SetJSONText(root.ID(), `{"z": "last", "a": [1, 2], "m": {"k": null}}`))
	require.NoError(t, tree.Toggle(root.ID()))

	require.Len(t, root.Children(), 3)
	names := []string{}
	for _, id := range root.Children() {
		n, _ := tree.Node(id)
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)

	got, err := tree.Extract(root.ID())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"z": "last", "a": []any{1.0, 2.0}, "m": map[string]any{"k": ""}}, got)
}

func TestToggleMalformedStaysInJSON(t *testing.T) {
	tree, rec := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"a": 1.0}}, false)
	require.NoError(t, tree.Toggle(root.ID()))
	before := root.Children()

	for _, text := range []string{`{"a":`, `[1,2]`, `"str"`} {
		require.NoError(t, tree.SetJSONText(root.ID(), text))
		err := tree.Toggle(root.ID())
		assert.ErrorIs(t, err, ErrMalformedText)
		assert.Equal(t, ViewJSON, root.ViewMode())
		assert.Equal(t, text, root.JSONText())
		assert.Equal(t, before, root.Children())
	}
	assert.Equal(t, 3, rec.Count(ProblemMalformedText))
}

func TestToggleEmptyTextKeepsChildren(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"a": 1.0}}, false)
	require.NoError(t, tree.Toggle(root.ID()))
	require.NoError(t, tree.SetJSONText(root.ID(), "   "))
	require.NoError(t, tree.Toggle(root.ID()))
	assert.Equal(t, ViewCard, root.ViewMode())
	assert.Len(t, root.Children(), 1)
}

func TestExtractFromJSONView(t *testing.T) {
	tree, rec := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"a": 1.0}}, false)
	require.NoError(t, tree.Toggle(root.ID()))

	require.NoError(t, tree.SetJSONText(root.ID(), `{"b": 2}`))
	got, err := tree.Extract(root.ID())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 2.0}, got)

	// malformed text falls back to the subtree
	require.NoError(t, tree.SetJSONText(root.ID(), `{"b": `))
	got, err = tree.Extract(root.ID())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, got)
	assert.Equal(t, 1, rec.Count(ProblemMalformedText))
}

func TestToggleNonObject(t *testing.T) {
	tree, _ := newTestTree(t)
	s := tree.Build(models.VariableItem{ID: "s", Name: "s", Value: "x"}, false)
	assert.ErrorIs(t, tree.Toggle(s.ID()), ErrNotObject)
	assert.ErrorIs(t, tree.Toggle(404), ErrUnknownNode)
}
