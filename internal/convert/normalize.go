package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
	"github.com/fieldlens/fieldlens/internal/shared/stringutils"
)

// normalizePrompt instructs the normalization oracle. It must return only the
// converted value; the caller strips any stray surrounding quotes.
const normalizePrompt = `Convert the user's natural language input into the exact API format required.

Field: %s
Field description: %s
User input: "%s"
Today's date: %s
User timezone: %s

Rules:
- For datetime fields: convert to ISO format YYYY-MM-DDTHH:MM in the user timezone (e.g. "tomorrow 3pm" -> "2026-02-19T15:00")
- For email fields: extract the email address, validate format
- For arrays: wrap single values in a list (e.g. "john@x.com" -> ["john@x.com"])
- For repo fields: ensure format is "owner/repo"
- If the input is already in the correct format, return it as-is
- Return ONLY the converted value, nothing else. No quotes, no explanation.
`

// Normalizer converts one validated answer into the API-exact value via the
// normalization oracle, resolving relative date expressions against a fixed
// reference timezone.
type Normalizer struct {
	provider schema.LLMProvider
	opts     schema.ChatOptions
	location *time.Location
	now      func() time.Time // injectable for tests
}

// NewNormalizer creates a Normalizer anchored to the given IANA timezone.
func NewNormalizer(provider schema.LLMProvider, opts schema.ChatOptions, timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load reference timezone %q: %w", timezone, err)
	}
	return &Normalizer{
		provider: provider,
		opts:     opts,
		location: loc,
		now:      time.Now,
	}, nil
}

// Timezone returns the reference timezone name.
func (n *Normalizer) Timezone() string { return n.location.String() }

// ReferenceDate returns today's date in the reference timezone, in the form
// the oracle prompt uses ("2026-02-18 (Wednesday)").
func (n *Normalizer) ReferenceDate() string {
	return n.now().In(n.location).Format("2006-01-02 (Monday)")
}

// Normalize converts raw into the API value for fieldKey. An oracle that
// echoes the input unchanged is success, not an error. On oracle failure the
// raw value is returned alongside the error so callers can degrade to
// passthrough without dropping the user's answer.
func (n *Normalizer) Normalize(ctx context.Context, fieldKey, fieldDesc, raw string) (string, error) {
	prompt := fmt.Sprintf(normalizePrompt,
		fieldKey, fieldDesc, raw, n.ReferenceDate(), n.location.String())

	msgs := schema.NewMessages()
	msgs.AddUser(prompt)

	resp, err := n.provider.Chat(ctx, msgs, nil, n.opts)
	if err != nil {
		return raw, fmt.Errorf("normalization oracle: %w", err)
	}

	value := stringutils.StripQuotes(stringutils.StripThink(resp.Text()))
	if value == "" {
		return raw, nil
	}
	return value, nil
}
