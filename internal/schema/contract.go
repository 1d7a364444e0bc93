package schema

// PrimaryField is a parameter the user must supply, or that was inferred
// from the stated objective.
//
// A field is exactly one of:
//   - dynamic (IsDynamic true): must be asked; Description carries the
//     user-facing prompt
//   - static (IsDynamic false): GeneratedValue carries the value inferred
//     from the objective and GeneratedDescription explains the inference
type PrimaryField struct {
	FieldKey             string `json:"field_key"`
	Label                string `json:"label"`
	IsDynamic            bool   `json:"is_dynamic"`
	Description          string `json:"description,omitempty"`
	GeneratedValue       string `json:"generated_value,omitempty"`
	GeneratedDescription string `json:"generated_description,omitempty"`
}

// SecondaryField is an optional parameter given a sensible default and never
// asked.
type SecondaryField struct {
	FieldKey     string `json:"field_key"`
	Label        string `json:"label"`
	DefaultValue string `json:"default_value"`
}

// AutoField is a system-controlled parameter, never surfaced to the user.
type AutoField struct {
	FieldKey string `json:"field_key"`
	Value    string `json:"value"`
}

// FieldContract is the classification result for one (objective, tool) pair:
// how every declared parameter of the tool is handled for this objective.
// Immutable after creation; consumed by exactly one collection dialogue.
type FieldContract struct {
	ToolSlug        string           `json:"tool_slug"`
	Objective       string           `json:"objective"`
	PrimaryFields   []PrimaryField   `json:"primary_fields"`
	SecondaryFields []SecondaryField `json:"secondary_fields"`
	AutoFields      []AutoField      `json:"auto_fields"`
}

// StaticFields returns the primary fields inferable from the objective, in
// contract order.
func (c *FieldContract) StaticFields() []PrimaryField {
	var out []PrimaryField
	for _, f := range c.PrimaryFields {
		if !f.IsDynamic {
			out = append(out, f)
		}
	}
	return out
}

// DynamicFields returns the primary fields that must be asked, in contract
// order.
func (c *FieldContract) DynamicFields() []PrimaryField {
	var out []PrimaryField
	for _, f := range c.PrimaryFields {
		if f.IsDynamic {
			out = append(out, f)
		}
	}
	return out
}

// CollectedValues maps field keys to their final values, built incrementally
// by the collection dialogue. Keys are always a subset of the contract's
// primary field keys; the set is complete only when the dialogue terminates.
type CollectedValues map[string]string

// Clone returns an independent copy of v.
func (v CollectedValues) Clone() CollectedValues {
	out := make(CollectedValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ExecutionParams is the final merged parameter set handed to the executor.
// It preserves insertion order so the rendered instruction is deterministic.
type ExecutionParams struct {
	keys   []string
	values map[string]string
}

// NewExecutionParams returns an empty ExecutionParams ready for use.
func NewExecutionParams() *ExecutionParams {
	return &ExecutionParams{values: make(map[string]string)}
}

// Set stores value under key. Re-setting an existing key overwrites the value
// but keeps the key's original position.
func (p *ExecutionParams) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it is present.
func (p *ExecutionParams) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns all keys in insertion order.
func (p *ExecutionParams) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of stored parameters.
func (p *ExecutionParams) Len() int { return len(p.keys) }
