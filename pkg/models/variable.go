package models

import (
	"fmt"
	"strings"
)

// DataType is the editor-level type of a variable value
type DataType string

const (
	TypeString  DataType = "string"
	TypeNumber  DataType = "number"
	TypeBoolean DataType = "boolean"
	TypeArray   DataType = "array"
	TypeObject  DataType = "object"
)

// AllDataTypes returns the recognized data types in display order.
func AllDataTypes() []DataType {
	return []DataType{TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject}
}

// IsValid reports whether t is one of the recognized data types.
func (t DataType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	}
	return false
}

// IsScalar reports whether values of this type are matched by value in keyword searches.
func (t DataType) IsScalar() bool {
	return t == TypeString || t == TypeNumber || t == TypeBoolean
}

// ParseDataType parses a data type name, case-insensitively.
func ParseDataType(s string) (DataType, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown data type: %q", s)
	}
	return t, nil
}

// Scope identifies which tab of the variable manager a variable belongs to
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeChat      Scope = "chat"
	ScopeCharacter Scope = "character"
	ScopeScript    Scope = "script"
	ScopeMessage   Scope = "message" // Grouped by floor
)

// AllScopes returns every scope in tab order.
func AllScopes() []Scope {
	return []Scope{ScopeGlobal, ScopeChat, ScopeCharacter, ScopeScript, ScopeMessage}
}

// ParseScope parses a scope name.
func ParseScope(s string) (Scope, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllScopes() {
		if scope == valid {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown scope: %q", s)
}

// Status tracks whether a top-level item has been confirmed by a save
type Status string

const (
	StatusSaved Status = ""
	StatusNew   Status = "new"
)

// VariableItem is one named, typed value shown by the editor.
type VariableItem struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"` // Empty for nested or unsaved items
	Name     string   `json:"name" yaml:"name"`
	DataType DataType `json:"type" yaml:"type"`
	Value    any      `json:"value" yaml:"value"`
	Status   Status   `json:"status,omitempty" yaml:"status,omitempty"`
}

// IsPersisted reports whether the item carries a persisted identifier.
func (v VariableItem) IsPersisted() bool {
	return v.ID != ""
}
