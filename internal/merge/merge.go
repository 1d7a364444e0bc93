// Package merge assembles final execution parameters from a contract and
// the values a dialogue collected, and renders the executor instruction.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// Merge layers auto values, then secondary defaults, then collected primary
// values into one parameter set. Later layers overwrite earlier ones, so a
// collected value always wins over a default for the same key. Insertion
// order is preserved for the instruction string.
func Merge(contract *schema.FieldContract, collected schema.CollectedValues) *schema.ExecutionParams {
	params := schema.NewExecutionParams()
	for _, f := range contract.AutoFields {
		params.Set(f.FieldKey, f.Value)
	}
	for _, f := range contract.SecondaryFields {
		params.Set(f.FieldKey, f.DefaultValue)
	}
	// Collected values overwrite unconditionally, even when the key also
	// carries an auto value or a secondary default. Contract order first,
	// then any remaining collected keys sorted.
	applied := make(map[string]bool, len(collected))
	for _, f := range contract.PrimaryFields {
		if v, ok := collected[f.FieldKey]; ok {
			params.Set(f.FieldKey, v)
			applied[f.FieldKey] = true
		}
	}
	extras := make([]string, 0)
	for k := range collected {
		if !applied[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		params.Set(k, collected[k])
	}
	return params
}

// Instruction renders the single-line executor instruction. Keys with empty
// values are omitted so the tool call carries no blank arguments.
func Instruction(toolSlug string, params *schema.ExecutionParams) string {
	var parts []string
	for _, k := range params.Keys() {
		v, _ := params.Get(k)
		if v == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return fmt.Sprintf("Use the tool %s with these exact parameters: %s", toolSlug, strings.Join(parts, ", "))
}
