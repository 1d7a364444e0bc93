package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/internal/catalog"
	"github.com/fieldlens/fieldlens/internal/schema"
	"github.com/fieldlens/fieldlens/internal/shared/stringutils"
)

// Policy carries the schema-driven classification tables. The values encode
// one provider's naming conventions, so they are configuration, not code.
type Policy struct {
	// AutoValues maps system-controlled parameter names (case-insensitive)
	// to the value filled in when the schema declares no default.
	AutoValues map[string]string
	// SecondaryDefaults maps known optional parameter names to the default
	// used instead of asking.
	SecondaryDefaults map[string]string
}

// SchemaClassifier classifies fields with deterministic per-name rules over
// the declared schema. Same inputs always yield the same contract.
type SchemaClassifier struct {
	catalog catalog.Provider
	policy  Policy
}

// NewSchemaClassifier creates a SchemaClassifier. The policy maps are
// normalised to lower-case keys once here.
func NewSchemaClassifier(cat catalog.Provider, policy Policy) *SchemaClassifier {
	return &SchemaClassifier{catalog: cat, policy: normalizePolicy(policy)}
}

func normalizePolicy(p Policy) Policy {
	out := Policy{
		AutoValues:        make(map[string]string, len(p.AutoValues)),
		SecondaryDefaults: make(map[string]string, len(p.SecondaryDefaults)),
	}
	for k, v := range p.AutoValues {
		out.AutoValues[strings.ToLower(k)] = v
	}
	for k, v := range p.SecondaryDefaults {
		out.SecondaryDefaults[strings.ToLower(k)] = v
	}
	return out
}

// Classify implements Classifier. Every declared parameter lands in exactly
// one of the three classes, in schema order within each class.
func (s *SchemaClassifier) Classify(ctx context.Context, objective, toolSlug string) (*schema.FieldContract, error) {
	ts, err := s.catalog.GetToolSchema(ctx, toolSlug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaUnavailable, toolSlug)
		}
		return nil, fmt.Errorf("fetch schema for %s: %w", toolSlug, err)
	}

	contract := &schema.FieldContract{
		ToolSlug:  ts.Slug,
		Objective: objective,
	}

	for _, p := range ts.Parameters {
		key := strings.ToLower(p.Key)
		label := p.Title
		if label == "" {
			label = stringutils.TitleLabel(p.Key)
		}

		switch {
		case s.isAuto(key):
			contract.AutoFields = append(contract.AutoFields, schema.AutoField{
				FieldKey: p.Key,
				Value:    s.autoValue(key, p),
			})

		case s.isKnownSecondary(key):
			contract.SecondaryFields = append(contract.SecondaryFields, schema.SecondaryField{
				FieldKey:     p.Key,
				Label:        label,
				DefaultValue: s.secondaryDefault(key, p),
			})

		case p.Required:
			desc := p.Description
			if desc == "" {
				desc = "Enter the " + label
			}
			contract.PrimaryFields = append(contract.PrimaryFields, schema.PrimaryField{
				FieldKey:    p.Key,
				Label:       label,
				IsDynamic:   true,
				Description: desc,
			})

		default:
			contract.SecondaryFields = append(contract.SecondaryFields, schema.SecondaryField{
				FieldKey:     p.Key,
				Label:        label,
				DefaultValue: p.Default,
			})
		}
	}

	return contract, nil
}

func (s *SchemaClassifier) isAuto(key string) bool {
	_, ok := s.policy.AutoValues[key]
	return ok
}

func (s *SchemaClassifier) isKnownSecondary(key string) bool {
	_, ok := s.policy.SecondaryDefaults[key]
	return ok
}

// autoValue resolves an auto field's value: schema default first, then the
// policy table, then a key-kind guess.
func (s *SchemaClassifier) autoValue(key string, p schema.ParameterSpec) string {
	if p.Default != "" {
		return p.Default
	}
	if v := s.policy.AutoValues[key]; v != "" {
		return v
	}
	return autoFallback(key)
}

// autoFallback guesses a value from the key's shape when neither the schema
// nor the policy supplies one.
func autoFallback(key string) string {
	switch {
	case strings.Contains(key, "calendar"):
		return "primary"
	case strings.HasPrefix(key, "send_") || strings.HasPrefix(key, "notify") ||
		strings.Contains(key, "flag") || strings.Contains(key, "enabled"):
		return "true"
	}
	return "default"
}

func (s *SchemaClassifier) secondaryDefault(key string, p schema.ParameterSpec) string {
	if v := s.policy.SecondaryDefaults[key]; v != "" {
		return v
	}
	return p.Default
}
