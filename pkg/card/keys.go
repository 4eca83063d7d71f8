package card

import (
	"strconv"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

// KeyPrefix returns the prefix generated keys use for a data type.
func KeyPrefix(dt models.DataType) string {
	switch dt {
	case models.TypeString:
		return "str"
	case models.TypeNumber:
		return "num"
	case models.TypeBoolean:
		return "flag"
	case models.TypeArray:
		return "array"
	case models.TypeObject:
		return "obj"
	default:
		return "key"
	}
}

// UniqueKey returns the type prefix followed by the smallest positive
// counter not already taken in existing.
func UniqueKey(existing map[string]bool, dt models.DataType) string {
	prefix := KeyPrefix(dt)
	for i := 1; ; i++ {
		key := prefix + strconv.Itoa(i)
		if !existing[key] {
			return key
		}
	}
}

// siblingKeys collects the non-empty keys under parent, skipping exclude.
func (t *Tree) siblingKeys(parent *Node, exclude NodeID) map[string]bool {
	keys := make(map[string]bool, len(parent.children))
	for _, id := range parent.children {
		if id == exclude {
			continue
		}
		if c, ok := t.nodes[id]; ok && c.name != "" {
			keys[c.name] = true
		}
	}
	return keys
}
