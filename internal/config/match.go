package config

import (
	"strings"

	"github.com/fieldlens/fieldlens/internal/providers"
)

// MatchResult is the resolved LLM provider config and registry name for a model.
type MatchResult struct {
	Provider *ProviderConfig
	Name     string // e.g. "openrouter", "anthropic"
}

// MatchProvider resolves which provider config and registry entry to use for
// model. If model is empty, the default model is used.
//
// Priority order:
//  1. Explicit provider prefix in the model string ("deepseek/deepseek-chat")
//  2. Keyword match in the model name (registry order)
//  3. Fallback: first provider with an API key configured, custom last
func (c *Config) MatchProvider(model string) MatchResult {
	if model == "" {
		model = c.Defaults.Model
	}
	modelLower := strings.ToLower(model)
	modelPrefix, _, _ := strings.Cut(modelLower, "/")
	normalizedPrefix := strings.ReplaceAll(modelPrefix, "-", "_")

	// 1. Explicit provider prefix wins.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil || p.APIKey == "" {
			continue
		}
		if modelPrefix != "" && normalizedPrefix == spec.Name {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 2. Keyword match.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil || p.APIKey == "" {
			continue
		}
		for _, kw := range spec.Keywords {
			if strings.Contains(modelLower, strings.ToLower(kw)) {
				return MatchResult{Provider: p, Name: spec.Name}
			}
		}
	}

	// 3. Any configured provider, custom last so explicit entries win.
	for _, spec := range providers.PROVIDERS {
		if spec.Name == "custom" {
			continue
		}
		if p := c.ProviderByName(spec.Name); p != nil && p.APIKey != "" {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}
	if c.Providers.Custom.APIKey != "" || c.Providers.Custom.APIBase != "" {
		return MatchResult{Provider: &c.Providers.Custom, Name: "custom"}
	}

	return MatchResult{Name: "openai"}
}
