package card

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

func newTestTree(t *testing.T, opts ...Option) (*Tree, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return New(append([]Option{WithReporter(rec)}, opts...)...), rec
}

func childByName(t *testing.T, tree *Tree, parent *Node, name string) *Node {
	t.Helper()
	for _, id := range parent.Children() {
		n, ok := tree.Node(id)
		require.True(t, ok)
		if n.Name() == name {
			return n
		}
	}
	t.Fatalf("no child %q under %q", name, parent.Name())
	return nil
}

func TestBuildScalars(t *testing.T) {
	tree, _ := newTestTree(t)

	s := tree.Build(models.VariableItem{ID: "1", Name: "greeting", Value: "hi"}, false)
	assert.Equal(t, models.TypeString, s.DataType())
	assert.Equal(t, "hi", s.Text())
	assert.Equal(t, "1", s.VariableID())
	assert.True(t, s.IsTopLevel())

	n := tree.Build(models.VariableItem{ID: "2", Name: "hp", Value: 42}, false)
	assert.Equal(t, models.TypeNumber, n.DataType())
	assert.Equal(t, "42", n.Text())

	b := tree.Build(models.VariableItem{ID: "3", Name: "alive", Value: true}, false)
	tr, fa := b.BoolState()
	assert.True(t, tr)
	assert.False(t, fa)

	a := tree.Build(models.VariableItem{ID: "4", Name: "bag", Value: []any{"sword", 2.0, "true", map[string]any{"k": 1}}}, false)
	assert.Equal(t, []string{"sword", "2", `"true"`, `{"k":1}`}, a.Items())

	assert.Len(t, tree.Roots(), 4)
}

func TestBuildNestedLosesIdentity(t *testing.T) {
	tree, _ := newTestTree(t)
	n := tree.Build(models.VariableItem{ID: "x", Name: "k", Value: "v", Status: models.StatusNew}, true)
	assert.Empty(t, n.VariableID())
	assert.Equal(t, models.StatusSaved, n.Status())
	assert.Empty(t, tree.Roots())
}

func TestBuildObjectMaterializesText(t *testing.T) {
	tree, _ := newTestTree(t)
	obj, err := value.ParseOrdered(`{"b":1,"a":{"c":[true]}}`)
	require.NoError(t, err)

	n := tree.Build(models.VariableItem{ID: "1", Name: "state", Value: obj}, false)
	require.Equal(t, models.TypeObject, n.DataType())
	assert.Equal(t, ViewCard, n.ViewMode())
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": {\n    \"c\": [\n      true\n    ]\n  }\n}", n.JSONText())

	require.Len(t, n.Children(), 2)
	first, _ := tree.Node(n.Children()[0])
	assert.Equal(t, "b", first.Name())
	assert.True(t, first.IsNested())
	assert.Equal(t, n.ID(), first.Parent())
}

func TestRoundTrip(t *testing.T) {
	values := []any{
		"",
		"plain",
		float64(-3.25),
		true,
		false,
		[]any{},
		[]any{"1", "x", 2.0, nil, []any{"a"}},
		map[string]any{},
		map[string]any{"hp": 42.0, "name": "Alice", "flags": map[string]any{"ok": false, "tags": []any{"a", "b"}}},
	}
	for _, v := range values {
		tree, rec := newTestTree(t)
		n := tree.Build(models.VariableItem{ID: "id", Name: "v", Value: v}, false)
		got, err := tree.Extract(n.ID())
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Empty(t, rec.Problems())
	}
}

func TestExtractNumberInput(t *testing.T) {
	tree, _ := newTestTree(t)
	n := tree.Build(models.VariableItem{ID: "1", Name: "n", DataType: models.TypeNumber, Value: 1.0}, false)

	cases := map[string]float64{"": 0, "  7.5 ": 7.5, "abc": 0, "1e3": 1000, "NaN": 0}
	for text, want := range cases {
		require.NoError(t, tree.SetText(n.ID(), text))
		got, err := tree.Extract(n.ID())
		require.NoError(t, err)
		assert.Equal(t, want, got, "input %q", text)
	}
}

func TestExtractArrayResilience(t *testing.T) {
	tree, _ := newTestTree(t)
	n := tree.Build(models.VariableItem{ID: "1", Name: "list", DataType: models.TypeArray, Value: []any{}}, false)
	require.NoError(t, tree.AddItem(n.ID(), "1"))
	require.NoError(t, tree.AddItem(n.ID(), "hello"))
	require.NoError(t, tree.AddItem(n.ID(), `{"a":2}`))

	got, err := tree.Extract(n.ID())
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "hello", map[string]any{"a": 2.0}}, got)
}

func TestExtractBooleanNeitherActive(t *testing.T) {
	tree, _ := newTestTree(t)
	n := tree.Build(models.VariableItem{ID: "1", Name: "b", DataType: models.TypeBoolean}, false)
	got, err := tree.Extract(n.ID())
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestExtractSkipsEmptyKeys(t *testing.T) {
	tree, rec := newTestTree(t)
	n := tree.Build(models.VariableItem{ID: "1", Name: "o", Value: map[string]any{"a": "x", "b": "y"}}, false)
	a := childByName(t, tree, n, "a")
	_, err := tree.Rename(a.ID(), "  ")
	require.NoError(t, err)

	got, err := tree.Extract(n.ID())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": "y"}, got)
	assert.Equal(t, 1, rec.Count(ProblemStructure))
}

func TestExtractUnknownNode(t *testing.T) {
	tree, rec := newTestTree(t)
	_, err := tree.Extract(99)
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.Equal(t, 1, rec.Count(ProblemStructure))
}

func TestItem(t *testing.T) {
	tree, _ := newTestTree(t)
	item := value.NewItem(models.TypeObject)
	item.Name = "fresh"
	n := tree.Build(item, false)
	assert.Equal(t, models.StatusNew, n.Status())

	got, err := tree.Item(n.ID())
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, map[string]any{}, got.Value)
	assert.Equal(t, models.StatusNew, got.Status)

	require.NoError(t, tree.MarkSaved(n.ID()))
	got, err = tree.Item(n.ID())
	require.NoError(t, err)
	assert.True(t, got.IsPersisted())
}

func TestFindTopLevelAncestor(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "root", Value: map[string]any{"a": map[string]any{"b": 1.0}}}, false)
	a := childByName(t, tree, root, "a")
	b := childByName(t, tree, a, "b")

	assert.Equal(t, root, tree.FindTopLevelAncestor(b.ID()))
	assert.Equal(t, root, tree.FindTopLevelAncestor(root.ID()))

	orphan := tree.Build(models.VariableItem{Name: "loose", Value: "v"}, true)
	assert.Nil(t, tree.FindTopLevelAncestor(orphan.ID()))
	assert.Nil(t, tree.FindTopLevelAncestor(12345))
}

func TestRemove(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "root", Value: map[string]any{"a": map[string]any{"b": 1.0}}}, false)
	require.Equal(t, 3, tree.Len())

	require.NoError(t, tree.Remove(root.ID()))
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Roots())
	assert.ErrorIs(t, tree.Remove(root.ID()), ErrUnknownNode)
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(""))
	assert.True(t, truthy("false"))
	assert.True(t, truthy(1.0))
	assert.True(t, truthy([]any{}))
}

func TestPromptAddChild(t *testing.T) {
	t.Run("no chooser", func(t *testing.T) {
		tree, rec := newTestTree(t)
		root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{}}, false)
		_, err := tree.PromptAddChild(context.Background(), root.ID())
		assert.ErrorIs(t, err, ErrNoChooser)
		assert.Equal(t, 1, rec.Count(ProblemMissingCollaborator))
		assert.Empty(t, root.Children())
	})

	t.Run("chosen types", func(t *testing.T) {
		tree, _ := newTestTree(t, WithTypeChooser(FixedChoices(models.TypeNumber)))
		root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{}}, false)
		child, err := tree.PromptAddChild(context.Background(), root.ID())
		require.NoError(t, err)
		assert.Equal(t, "num1", child.Name())

		_, err = tree.PromptAddChild(context.Background(), root.ID())
		assert.ErrorIs(t, err, ErrChoiceCancelled)
		assert.Len(t, root.Children(), 1)
	})

	t.Run("not an object", func(t *testing.T) {
		tree, _ := newTestTree(t, WithTypeChooser(FixedChoices(models.TypeNumber)))
		s := tree.Build(models.VariableItem{ID: "s", Name: "s", Value: "x"}, false)
		_, err := tree.PromptAddChild(context.Background(), s.ID())
		assert.ErrorIs(t, err, ErrNotObject)
	})
}
