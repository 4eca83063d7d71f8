package floor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBound(t *testing.T) {
	tests := map[string]Bound{
		"5":      At(5),
		"  12ab": At(12),
		"-3":     At(-3),
		"+7":     At(7),
		"":       {},
		"abc":    {},
		"-":      {},
		"0x10":   At(0),
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseBound(in), "input %q", in)
	}
	assert.Equal(t, "", Bound{}.String())
	assert.Equal(t, "4", At(4).String())
}

func TestDefaultRange(t *testing.T) {
	min, max := DefaultRange(10, 4)
	assert.Equal(t, At(6), min)
	assert.Equal(t, At(10), max)

	min, max = DefaultRange(2, 4)
	assert.Equal(t, At(0), min)
	assert.Equal(t, At(2), max)

	min, max = DefaultRange(-1, 4)
	assert.Equal(t, At(0), min)
	assert.Equal(t, At(0), max)
}

func TestParseFloorID(t *testing.T) {
	n, err := ParseFloorID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseFloorID("-1")
	assert.Error(t, err)
	_, err = ParseFloorID("1.5")
	assert.Error(t, err)
}
