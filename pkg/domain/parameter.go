package domain

// StorageType describes how a parameter value is stored by the host.
type StorageType string

// Supported parameter storage types.
const (
	StorageString  StorageType = "string"
	StorageDouble  StorageType = "double"
	StorageInteger StorageType = "integer"
)

// Scope selects where a named parameter is resolved.
type Scope int

const (
	// ScopeInstance looks on the element first and falls back to its type.
	ScopeInstance Scope = iota
	// ScopeType resolves on the element's type element.
	ScopeType
)

// Parameter is a named, typed value attached to an element or its type.
// Numeric values are in host internal units.
type Parameter interface {
	Name() string
	StorageType() StorageType
	HasValue() bool
	IsReadOnly() bool
	// AsString returns the stored text; empty for non-string parameters.
	AsString() string
	AsDouble() float64
	AsInteger() int
	// ValueString returns the host's display text for the value.
	ValueString() string
	SetString(value string) error
	SetDouble(value float64) error
	SetInteger(value int) error
}
