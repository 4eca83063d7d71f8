package value

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a float the way a browser renders String(n).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads the exponent to two digits; browsers do not.
		s = strings.Replace(s, "e+0", "e+", 1)
		s = strings.Replace(s, "e-0", "e-", 1)
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Stringify converts a value to text the way String(v) does. It is used for
// scalar keyword matching.
func Stringify(v any) string {
	switch x := Normalize(v).(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return FormatNumber(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if item != nil {
				parts[i] = Stringify(item)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// DisplayText is the editable text of one array row: containers and null are
// shown as compact JSON, scalars as plain text.
func DisplayText(v any) string {
	n := Normalize(v)
	switch n.(type) {
	case nil, []any, map[string]any, *Object:
		s, err := Marshal(n)
		if err != nil {
			return Stringify(n)
		}
		return s
	}
	return Stringify(n)
}
