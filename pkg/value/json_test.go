package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderedKeepsKeyOrder(t *testing.T) {
	v, err := ParseOrdered(`{"zeta": 1, "alpha": {"b": 2, "a": 3}, "mid": [1, {"y": 1, "x": 2}]}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)

	var keys []string
	for _, m := range obj.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	text, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"b":2,"a":3},"mid":[1,{"y":1,"x":2}]}`, text)
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "{invalid", "not json", "{\"a\":}"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", input)
	}
}

func TestParsePlain(t *testing.T) {
	v, err := Parse(` {"a": 1, "b": [true, null, "x"]} `)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": []any{true, nil, "x"}}, v)
}

func TestDuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := ParseOrdered(`{"a": 1, "b": 2, "a": 3}`)
	require.NoError(t, err)

	text, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, text)
}

func TestMarshalIndent(t *testing.T) {
	obj := NewObject()
	obj.Set("name", "<hero>")
	obj.Set("stats", map[string]any{})
	obj.Set("items", []any{})

	text, err := MarshalIndent(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"<hero>\",\n  \"stats\": {},\n  \"items\": []\n}", text)
}
