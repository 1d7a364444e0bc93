package providers

import "github.com/fieldlens/fieldlens/internal/schema"

// Params are the raw values needed to construct any schema.LLMProvider.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openrouter", "anthropic"
}

// New creates the schema.LLMProvider for the given params.
func New(p Params) schema.LLMProvider {
	return NewOpenAIProvider(p.APIKey, p.APIBase, p.DefaultModel, p.ProviderName, p.ExtraHeaders)
}
