// Package providers implements LLM backends behind schema.LLMProvider.
package providers

// ProviderSpec describes one known LLM provider: its registry name, the
// keywords that match it in a model string, and its default API base.
type ProviderSpec struct {
	Name           string
	Keywords       []string
	DefaultAPIBase string
	IsAnthropic    bool
}

// PROVIDERS is the provider registry, in match-priority order.
var PROVIDERS = []ProviderSpec{
	{Name: "openrouter", Keywords: []string{"openrouter"}, DefaultAPIBase: "https://openrouter.ai/api/v1"},
	{Name: "deepseek", Keywords: []string{"deepseek"}, DefaultAPIBase: "https://api.deepseek.com/v1"},
	{Name: "anthropic", Keywords: []string{"anthropic", "claude"}, DefaultAPIBase: "https://api.anthropic.com/v1", IsAnthropic: true},
	{Name: "groq", Keywords: []string{"groq"}, DefaultAPIBase: "https://api.groq.com/openai/v1"},
	{Name: "openai", Keywords: []string{"openai", "gpt", "o1", "o3"}, DefaultAPIBase: "https://api.openai.com/v1"},
	{Name: "custom", Keywords: nil},
}

// FindByName returns the registry entry with the given name, or nil.
func FindByName(name string) *ProviderSpec {
	for i := range PROVIDERS {
		if PROVIDERS[i].Name == name {
			return &PROVIDERS[i]
		}
	}
	return nil
}
