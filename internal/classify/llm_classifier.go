package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fieldlens/fieldlens/internal/catalog"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// LLMClassifier delegates classification to an oracle LLM. It minimises the
// primary set and infers static values from the objective, which the
// deterministic strategy cannot do.
type LLMClassifier struct {
	catalog  catalog.Provider
	provider schema.LLMProvider
	opts     schema.ChatOptions
}

// NewLLMClassifier creates an LLMClassifier using provider as the oracle.
func NewLLMClassifier(cat catalog.Provider, provider schema.LLMProvider, opts schema.ChatOptions) *LLMClassifier {
	return &LLMClassifier{catalog: cat, provider: provider, opts: opts}
}

// Classify implements Classifier.
func (l *LLMClassifier) Classify(ctx context.Context, objective, toolSlug string) (*schema.FieldContract, error) {
	ts, err := l.catalog.GetToolSchema(ctx, toolSlug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSchemaUnavailable, toolSlug)
		}
		return nil, fmt.Errorf("fetch schema for %s: %w", toolSlug, err)
	}

	paramsJSON, err := json.MarshalIndent(ts.Parameters, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}

	prompt := fmt.Sprintf(classifyPrompt,
		objective, ts.Name, ts.Description, string(paramsJSON), ts.Slug, objective)

	msgs := schema.NewMessages()
	msgs.AddUser(prompt)

	resp, err := l.provider.Chat(ctx, msgs, nil, l.opts)
	if err != nil {
		return nil, fmt.Errorf("classification oracle: %w", err)
	}

	contract, err := parseContract(resp.Text())
	if err != nil {
		return nil, err
	}
	if contract.ToolSlug == "" {
		contract.ToolSlug = ts.Slug
	}
	if contract.Objective == "" {
		contract.Objective = objective
	}
	return contract, nil
}

// parseContract turns the oracle's reply into a FieldContract. Markdown
// fences around the JSON payload are tolerated; anything else malformed is
// ErrContractParse.
func parseContract(text string) (*schema.FieldContract, error) {
	payload, ok := stripFences(text)
	if !ok {
		return nil, ErrContractParse
	}

	var contract schema.FieldContract
	if err := json.Unmarshal([]byte(payload), &contract); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractParse, err)
	}
	if err := validateContract(&contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// stripFences removes a surrounding ```/```json fence pair. Returns false
// when a fence opens but never closes.
func stripFences(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text, true
	}

	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	end := strings.Index(text, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(text[:end]), true
}
