package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{42, "42"},
		{-3.5, "-3.5"},
		{0.1, "0.1"},
		{1000000, "1000000"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.input))
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, "a,,2", Stringify([]any{"a", nil, 2}))
	assert.Equal(t, "[object Object]", Stringify(map[string]any{"a": 1}))
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "1", DisplayText(1))
	assert.Equal(t, "plain", DisplayText("plain"))
	assert.Equal(t, `{"a":1}`, DisplayText(map[string]any{"a": 1}))
	assert.Equal(t, `[1,"x"]`, DisplayText([]any{1, "x"}))
	assert.Equal(t, "null", DisplayText(nil))
}
