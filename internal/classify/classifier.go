// Package classify partitions a tool's declared parameters into auto,
// secondary, and primary fields for one stated objective.
//
// Two interchangeable strategies produce contracts of identical shape: the
// deterministic SchemaClassifier and the oracle-backed LLMClassifier. Deploys
// pick one via config; callers only see the Classifier interface.
package classify

import (
	"context"
	"errors"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// ErrSchemaUnavailable means the catalog has no schema for the tool.
// Callers fall back to the unstructured execution path.
var ErrSchemaUnavailable = errors.New("tool schema unavailable")

// ErrContractParse means the classification oracle's output could not be
// parsed into a contract. Callers fall back to the unstructured path.
var ErrContractParse = errors.New("cannot parse classification response")

// Classifier maps (objective, tool) to a field contract.
type Classifier interface {
	Classify(ctx context.Context, objective, toolSlug string) (*schema.FieldContract, error)
}

// validateContract rejects contracts that violate the primary-field
// invariant: a field is either dynamic or carries a generated value.
func validateContract(c *schema.FieldContract) error {
	for _, f := range c.PrimaryFields {
		if f.FieldKey == "" {
			return ErrContractParse
		}
		if !f.IsDynamic && f.GeneratedValue == "" {
			return ErrContractParse
		}
	}
	for _, f := range c.SecondaryFields {
		if f.FieldKey == "" {
			return ErrContractParse
		}
	}
	for _, f := range c.AutoFields {
		if f.FieldKey == "" {
			return ErrContractParse
		}
	}
	return nil
}
