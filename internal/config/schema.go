// Package config defines the configuration schema for fieldlens.
//
// JSON keys use camelCase. The file lives at ~/.fieldlens/config.json and is
// created on first save; a missing or unparseable file falls back to defaults.
package config

import (
	"os"
	"path/filepath"
)

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty"`
}

// ProvidersConfig holds credentials for all supported LLM providers.
type ProvidersConfig struct {
	Custom     ProviderConfig `json:"custom"`
	OpenAI     ProviderConfig `json:"openai"`
	Anthropic  ProviderConfig `json:"anthropic"`
	OpenRouter ProviderConfig `json:"openrouter"`
	DeepSeek   ProviderConfig `json:"deepseek"`
	Groq       ProviderConfig `json:"groq"`
}

// Defaults holds default values for LLM requests.
type Defaults struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

func defaultDefaults() Defaults {
	return Defaults{
		Model:       "openai/gpt-4o-mini",
		MaxTokens:   4096,
		Temperature: 0,
	}
}

// ClassifierConfig selects the classification strategy and carries the
// schema-driven policy tables. The tables are configuration rather than code
// because the auto values encode one provider's naming conventions.
type ClassifierConfig struct {
	// Strategy is "schema" (deterministic heuristics) or "llm" (oracle).
	Strategy string `json:"strategy"`
	// AutoValues maps system-controlled parameter names to the value fieldlens
	// fills in, e.g. calendar_id → "primary".
	AutoValues map[string]string `json:"autoValues"`
	// SecondaryDefaults maps known optional parameter names to their defaults,
	// e.g. timezone → "Asia/Kolkata".
	SecondaryDefaults map[string]string `json:"secondaryDefaults"`
}

func defaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Strategy: "llm",
		AutoValues: map[string]string{
			"calendar_id":        "primary",
			"calendarid":         "primary",
			"send_updates":       "true",
			"send_notifications": "true",
			"visibility":         "default",
			"conference_data":    "false",
			"reminders":          "default",
		},
		SecondaryDefaults: map[string]string{
			"timezone":       "Asia/Kolkata",
			"event_duration": "30",
			"duration":       "30",
			"location":       "",
			"description":    "",
			"color":          "",
			"recurrence":     "",
			"state":          "open",
			"labels":         "",
			"assignees":      "",
			"milestone":      "",
		},
	}
}

// CollectConfig governs answer normalization during the dialogue.
type CollectConfig struct {
	// ReferenceTimezone is the fixed IANA timezone used when resolving
	// relative date expressions ("tomorrow 3pm") into API datetimes.
	ReferenceTimezone string `json:"referenceTimezone"`
}

func defaultCollectConfig() CollectConfig {
	return CollectConfig{ReferenceTimezone: "Asia/Kolkata"}
}

// CatalogConfig locates tool schema sources. Local toolkit YAML files are
// consulted before the remote catalog.
type CatalogConfig struct {
	Dir     string `json:"dir"`
	BaseURL string `json:"baseUrl,omitempty"`
}

func defaultCatalogConfig() CatalogConfig {
	return CatalogConfig{Dir: "~/.fieldlens/toolkits"}
}

// AuditConfig controls the append-only contract record store.
type AuditConfig struct {
	Enabled       bool   `json:"enabled"`
	Dir           string `json:"dir"`
	RetentionDays int    `json:"retentionDays"`
	// SweepSchedule is a cron expression for the retention sweep.
	SweepSchedule string `json:"sweepSchedule"`
}

func defaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       true,
		Dir:           "~/.fieldlens/contracts",
		RetentionDays: 30,
		SweepSchedule: "@daily",
	}
}

// ---- Channel configs -------------------------------------------------------

// SlackConfig configures the Slack transport (Socket Mode).
type SlackConfig struct {
	Enabled   bool     `json:"enabled"`
	BotToken  string   `json:"botToken"`
	AppToken  string   `json:"appToken"`
	AllowFrom []string `json:"allowFrom"`
}

// TelegramConfig configures the Telegram transport (long polling).
type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
}

// WebFormConfig configures the websocket form transport.
type WebFormConfig struct {
	Enabled bool   `json:"enabled"`
	Listen  string `json:"listen"`
}

// ChannelsConfig groups all transport configs.
type ChannelsConfig struct {
	Slack    SlackConfig    `json:"slack"`
	Telegram TelegramConfig `json:"telegram"`
	WebForm  WebFormConfig  `json:"webForm"`
}

func defaultChannelsConfig() ChannelsConfig {
	return ChannelsConfig{
		Slack:    SlackConfig{AllowFrom: []string{}},
		Telegram: TelegramConfig{AllowFrom: []string{}},
		WebForm:  WebFormConfig{Listen: "127.0.0.1:18841"},
	}
}

// IntentRule maps a keyword set to a tool slug. A rule matches when every
// keyword appears as a word in the user's message.
type IntentRule struct {
	Keywords []string `json:"keywords"`
	Tool     string   `json:"tool"`
}

func defaultIntents() []IntentRule {
	return []IntentRule{
		{Keywords: []string{"book", "appointment"}, Tool: "GOOGLECALENDAR_CREATE_EVENT"},
		{Keywords: []string{"schedule", "meeting"}, Tool: "GOOGLECALENDAR_CREATE_EVENT"},
		{Keywords: []string{"create", "event"}, Tool: "GOOGLECALENDAR_CREATE_EVENT"},
		{Keywords: []string{"send", "email"}, Tool: "GMAIL_SEND_EMAIL"},
		{Keywords: []string{"fetch", "email"}, Tool: "GMAIL_FETCH_EMAILS"},
		{Keywords: []string{"read", "email"}, Tool: "GMAIL_FETCH_EMAILS"},
		{Keywords: []string{"star", "repo"}, Tool: "GITHUB_ACTIVITY_STAR_REPO_FOR_AUTHENTICATED_USER"},
		{Keywords: []string{"create", "issue"}, Tool: "GITHUB_CREATE_AN_ISSUE"},
		{Keywords: []string{"list", "repo"}, Tool: "GITHUB_LIST_REPOSITORIES_FOR_AUTHENTICATED_USER"},
		{Keywords: []string{"send", "slack"}, Tool: "SLACK_SENDS_A_MESSAGE_TO_A_SLACK_CHANNEL"},
	}
}

// Config is the root configuration object.
type Config struct {
	Defaults   Defaults         `json:"defaults"`
	Providers  ProvidersConfig  `json:"providers"`
	Classifier ClassifierConfig `json:"classifier"`
	Collect    CollectConfig    `json:"collect"`
	Catalog    CatalogConfig    `json:"catalog"`
	Audit      AuditConfig      `json:"audit"`
	Channels   ChannelsConfig   `json:"channels"`
	Intents    []IntentRule     `json:"intents"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Defaults:   defaultDefaults(),
		Providers:  ProvidersConfig{},
		Classifier: defaultClassifierConfig(),
		Collect:    defaultCollectConfig(),
		Catalog:    defaultCatalogConfig(),
		Audit:      defaultAuditConfig(),
		Channels:   defaultChannelsConfig(),
		Intents:    defaultIntents(),
	}
}

// ProviderByName returns a pointer to the ProviderConfig field matching the
// given registry name (e.g. "openrouter", "anthropic"). Returns nil if unknown.
func (c *Config) ProviderByName(name string) *ProviderConfig {
	switch name {
	case "custom":
		return &c.Providers.Custom
	case "openai":
		return &c.Providers.OpenAI
	case "anthropic":
		return &c.Providers.Anthropic
	case "openrouter":
		return &c.Providers.OpenRouter
	case "deepseek":
		return &c.Providers.DeepSeek
	case "groq":
		return &c.Providers.Groq
	}
	return nil
}

// ExpandPath expands a leading "~/" against the user home directory.
func ExpandPath(p string) string {
	if len(p) >= 2 && p[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

// CatalogDir returns the expanded toolkit definition directory.
func (c *Config) CatalogDir() string { return ExpandPath(c.Catalog.Dir) }

// AuditDir returns the expanded contract record directory.
func (c *Config) AuditDir() string { return ExpandPath(c.Audit.Dir) }
