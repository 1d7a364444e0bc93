// Package catalog resolves tool identifiers to their declared parameter
// schemas. Schemas come from local toolkit YAML files, a remote catalog
// service, or the built-in definitions, consulted in that order.
package catalog

import (
	"context"
	"errors"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// ErrNotFound is returned when no source knows the requested tool.
var ErrNotFound = errors.New("tool not found in catalog")

// Provider supplies a tool's declared schema for a tool identifier.
type Provider interface {
	GetToolSchema(ctx context.Context, slug string) (*schema.ToolSchema, error)
}

// Chain consults providers in order and returns the first schema found.
type Chain []Provider

// GetToolSchema implements Provider. Sources that fail with ErrNotFound are
// skipped; any other error aborts the lookup.
func (c Chain) GetToolSchema(ctx context.Context, slug string) (*schema.ToolSchema, error) {
	for _, p := range c {
		ts, err := p.GetToolSchema(ctx, slug)
		if err == nil {
			return ts, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
