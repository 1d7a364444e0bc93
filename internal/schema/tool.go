// Package schema contains the core data model shared across fieldlens
// packages. Concrete implementations live in their respective packages; this
// package is the single canonical source of truth for every shared type.
package schema

// ParameterSpec describes one declared parameter of a remote tool, as
// delivered by the catalog. Immutable once loaded; never persisted.
type ParameterSpec struct {
	Key         string `json:"key" yaml:"key"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `json:"required" yaml:"required"`
}

// ToolSchema is a remote tool's declared interface: its identifier, a
// human-readable description, and the parameters it accepts in declaration
// order.
type ToolSchema struct {
	Slug        string          `json:"slug" yaml:"slug"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []ParameterSpec `json:"parameters" yaml:"parameters"`
}

// Parameter returns the ParameterSpec for key, or nil if the tool does not declare it.
func (t *ToolSchema) Parameter(key string) *ParameterSpec {
	for i := range t.Parameters {
		if t.Parameters[i].Key == key {
			return &t.Parameters[i]
		}
	}
	return nil
}

// RequiredKeys returns the keys of all required parameters in schema order.
func (t *ToolSchema) RequiredKeys() []string {
	var keys []string
	for _, p := range t.Parameters {
		if p.Required {
			keys = append(keys, p.Key)
		}
	}
	return keys
}
