// Package value holds the type inference rules and JSON text helpers shared
// by the card tree and the floor pipeline.
package value

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

// DefaultItemName is the name given to freshly created top-level variables.
const DefaultItemName = "new_variable"

// Infer returns the data type the editor uses for an arbitrary value.
// It never fails: anything unrecognized is treated as a string.
func Infer(v any) models.DataType {
	switch v.(type) {
	case nil:
		return models.TypeString
	case bool:
		return models.TypeBoolean
	case string:
		return models.TypeString
	case json.Number:
		return models.TypeNumber
	case []any:
		return models.TypeArray
	case map[string]any, *Object:
		return models.TypeObject
	case []byte:
		return models.TypeString
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return models.TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return models.TypeNumber
	case reflect.Slice, reflect.Array:
		return models.TypeArray
	case reflect.Map, reflect.Struct:
		return models.TypeObject
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return models.TypeString
		}
		return Infer(rv.Elem().Interface())
	}
	return models.TypeString
}

// DefaultFor returns the canonical default value for a data type.
func DefaultFor(t models.DataType) any {
	switch t {
	case models.TypeNumber:
		return float64(0)
	case models.TypeBoolean:
		return false
	case models.TypeArray:
		return []any{}
	case models.TypeObject:
		return map[string]any{}
	default:
		return ""
	}
}

// NewItem creates an unsaved top-level variable of the given type with a
// freshly minted identifier.
func NewItem(t models.DataType) models.VariableItem {
	if !t.IsValid() {
		t = models.TypeString
	}
	return models.VariableItem{
		ID:       uuid.NewString(),
		Name:     DefaultItemName,
		DataType: t,
		Value:    DefaultFor(t),
		Status:   models.StatusNew,
	}
}

// Normalize converts a decoded value (yaml, sql, redis, Go literals) into the
// canonical domain: string, float64, bool, nil, []any, map[string]any, or *Object.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, float64:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return float64(0)
		}
		return f
	case []byte:
		return string(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case *Object:
		out := NewObject()
		for _, m := range x.Members() {
			out.Set(m.Key, Normalize(m.Value))
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}

	// Structs and anything else go through their JSON form.
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return fmt.Sprint(v)
	}
	return parsed
}
