package floor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Bound is one end of a floor range as typed by the user. Set is false when
// the input did not start with a number.
type Bound struct {
	Value int
	Set   bool
}

// At returns a set bound.
func At(n int) Bound {
	return Bound{Value: n, Set: true}
}

func (b Bound) String() string {
	if !b.Set {
		return ""
	}
	return strconv.Itoa(b.Value)
}

// ParseBound reads the leading integer of s, ignoring leading space and
// anything after the digits, so "12abc" is 12 and "abc" is unset.
func ParseBound(s string) Bound {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return Bound{}
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return Bound{}
	}
	return At(n)
}

// DefaultRange is the range shown when the floor view opens: the last
// window+1 floors, clamped at floor 0.
func DefaultRange(lastFloor, window int) (min, max Bound) {
	if lastFloor < 0 {
		lastFloor = 0
	}
	if window < 0 {
		window = 0
	}
	low := lastFloor - window
	if low < 0 {
		low = 0
	}
	return At(low), At(lastFloor)
}

// ParseFloorID validates a floor id typed by the user.
func ParseFloorID(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse floor id %q: not an integer", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse floor id %q: must not be negative", s)
	}
	return n, nil
}
