package card

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

func TestAddChildKeys(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"str1": "taken"}}, false)

	s, err := tree.AddChild(root.ID(), models.TypeString)
	require.NoError(t, err)
	assert.Equal(t, "str2", s.Name())

	n, err := tree.AddChild(root.ID(), models.TypeNumber)
	require.NoError(t, err)
	assert.Equal(t, "num1", n.Name())

	focused, ok := tree.Focused()
	require.True(t, ok)
	assert.Equal(t, n.ID(), focused.ID())

	// newest first
	assert.Equal(t, n.ID(), root.Children()[0])
	assert.Equal(t, "{\n  \"num1\": 0,\n  \"str2\": \"\",\n  \"str1\": \"taken\"\n}", root.JSONText())
}

func TestAddChildSameTypeCountsUp(t *testing.T) {
	tests := []struct {
		dt     models.DataType
		prefix string
	}{
		{models.TypeString, "str"},
		{models.TypeNumber, "num"},
		{models.TypeBoolean, "flag"},
		{models.TypeArray, "array"},
		{models.TypeObject, "obj"},
	}
	const n = 5
	for _, tt := range tests {
		t.Run(string(tt.dt), func(t *testing.T) {
			tree, _ := newTestTree(t)
			root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{}}, false)

			for i := 0; i < n; i++ {
				_, err := tree.AddChild(root.ID(), tt.dt)
				require.NoError(t, err)
			}

			want := make([]string, 0, n)
			for i := n; i >= 1; i-- {
				want = append(want, fmt.Sprintf("%s%d", tt.prefix, i))
			}
			got := make([]string, 0, n)
			for _, id := range root.Children() {
				c, ok := tree.Node(id)
				require.True(t, ok)
				got = append(got, c.Name())
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestAddChildKeepsSiblingKeysUnique(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{}}, false)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		dt := models.AllDataTypes()[i%len(models.AllDataTypes())]
		c, err := tree.AddChild(root.ID(), dt)
		require.NoError(t, err)
		assert.False(t, seen[c.Name()], "duplicate key %s", c.Name())
		seen[c.Name()] = true
	}
}

func TestAddChildToNestedParentDoesNotTouchTopText(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"inner": map[string]any{}}}, false)
	before := root.JSONText()
	inner := childByName(t, tree, root, "inner")

	_, err := tree.AddChild(inner.ID(), models.TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, before, root.JSONText())

	require.NoError(t, tree.Commit(inner.ID()))
	assert.Equal(t, "{\n  \"inner\": {\n    \"flag1\": false\n  }\n}", root.JSONText())
}

func TestAddChildRejected(t *testing.T) {
	tree, rec := newTestTree(t)
	s := tree.Build(models.VariableItem{ID: "s", Name: "s", Value: "x"}, false)
	_, err := tree.AddChild(s.ID(), models.TypeString)
	assert.ErrorIs(t, err, ErrNotObject)

	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{}}, false)
	_, err = tree.AddChild(root.ID(), models.DataType("date"))
	assert.Error(t, err)

	require.NoError(t, tree.Toggle(root.ID()))
	_, err = tree.AddChild(root.ID(), models.TypeString)
	assert.Error(t, err)
	assert.Equal(t, 3, rec.Count(ProblemStructure))
}

func TestDeleteChild(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{
		"a":     1.0,
		"inner": map[string]any{"x": "y", "z": true},
	}}, false)

	var notified []*Node
	tree.OnChange(func(n *Node) { notified = append(notified, n) })

	inner := childByName(t, tree, root, "inner")
	x := childByName(t, tree, inner, "x")
	require.NoError(t, tree.DeleteChild(inner.ID(), x.ID()))

	assert.Equal(t, "{\n  \"z\": true\n}", inner.JSONText())
	assert.Equal(t, "{\n  \"a\": 1,\n  \"inner\": {\n    \"z\": true\n  }\n}", root.JSONText())
	require.Len(t, notified, 1)
	assert.Equal(t, root, notified[0])

	_, ok := tree.Node(x.ID())
	assert.False(t, ok)

	assert.ErrorIs(t, tree.DeleteChild(root.ID(), x.ID()), ErrUnknownNode)
}

func TestDeleteChildViaRemove(t *testing.T) {
	tree, _ := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"a": 1.0, "b": 2.0}}, false)
	a := childByName(t, tree, root, "a")

	require.NoError(t, tree.Remove(a.ID()))
	got, err := tree.Extract(root.ID())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 2.0}, got)
	assert.Equal(t, "{\n  \"b\": 2\n}", root.JSONText())
}

func TestCommitNotifies(t *testing.T) {
	tree, rec := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"a": "old"}}, false)
	calls := 0
	tree.OnChange(func(n *Node) {
		calls++
		assert.Equal(t, root.ID(), n.ID())
	})

	a := childByName(t, tree, root, "a")
	require.NoError(t, tree.SetText(a.ID(), "new"))
	require.NoError(t, tree.Commit(a.ID()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "{\n  \"a\": \"new\"\n}", root.JSONText())

	orphan := tree.Build(models.VariableItem{Name: "k", Value: "v"}, true)
	assert.Error(t, tree.Commit(orphan.ID()))
	assert.Equal(t, 1, rec.Count(ProblemStructure))
}

func TestRenameCollision(t *testing.T) {
	tree, rec := newTestTree(t)
	root := tree.Build(models.VariableItem{ID: "r", Name: "o", Value: map[string]any{"hp": 1.0, "mp": 2.0}}, false)
	mp := childByName(t, tree, root, "mp")

	key, err := tree.Rename(mp.ID(), "hp")
	require.NoError(t, err)
	assert.Equal(t, "num1", key)
	assert.Equal(t, "num1", mp.Name())
	assert.Equal(t, 1, rec.Count(ProblemStructure))

	key, err = tree.Rename(mp.ID(), " energy ")
	require.NoError(t, err)
	assert.Equal(t, "energy", key)
}

func TestSetWrongType(t *testing.T) {
	tree, _ := newTestTree(t)
	s := tree.Build(models.VariableItem{ID: "s", Name: "s", Value: "x"}, false)
	assert.Error(t, tree.SetBool(s.ID(), true))
	assert.Error(t, tree.AddItem(s.ID(), "x"))
	assert.ErrorIs(t, tree.SetJSONText(s.ID(), "{}"), ErrNotObject)
}

func TestArrayItems(t *testing.T) {
	tree, _ := newTestTree(t)
	a := tree.Build(models.VariableItem{ID: "a", Name: "a", Value: []any{"x", "y"}}, false)

	require.NoError(t, tree.SetItem(a.ID(), 1, "z"))
	require.NoError(t, tree.RemoveItem(a.ID(), 0))
	assert.Equal(t, []string{"z"}, a.Items())
	assert.Error(t, tree.SetItem(a.ID(), 5, "q"))
	assert.Error(t, tree.RemoveItem(a.ID(), -1))
}

func TestMoveItemDedupes(t *testing.T) {
	tree, _ := newTestTree(t)
	a := tree.Build(models.VariableItem{ID: "a", Name: "a", Value: []any{"Apple", "pear", " apple ", "fig"}}, false)

	require.NoError(t, tree.MoveItem(a.ID(), 3, 0))
	assert.Equal(t, []string{"fig", "Apple", "pear"}, a.Items())

	require.NoError(t, tree.MoveItem(a.ID(), 0, 2))
	assert.Equal(t, []string{"Apple", "pear", "fig"}, a.Items())

	assert.Error(t, tree.MoveItem(a.ID(), 0, 3))
}

func TestUniqueKey(t *testing.T) {
	assert.Equal(t, "str1", UniqueKey(nil, models.TypeString))
	assert.Equal(t, "obj3", UniqueKey(map[string]bool{"obj1": true, "obj2": true}, models.TypeObject))
	assert.Equal(t, "flag1", UniqueKey(map[string]bool{"flag2": true}, models.TypeBoolean))
	assert.Equal(t, "array1", UniqueKey(nil, models.TypeArray))
}
