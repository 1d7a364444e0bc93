package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// OpenAIProvider makes direct HTTP calls to any OpenAI-compatible endpoint,
// and also handles the Anthropic Messages API as a special case.
type OpenAIProvider struct {
	apiKey       string
	apiBase      string
	defaultModel string
	extraHeaders map[string]string
	isAnthropic  bool
	httpClient   *http.Client
}

// NewOpenAIProvider constructs a provider from raw config values.
// The caller extracts these from config.Config to avoid an import cycle.
func NewOpenAIProvider(apiKey, apiBase, defaultModel, providerName string, extraHeaders map[string]string) *OpenAIProvider {
	spec := FindByName(providerName)

	effectiveBase := apiBase
	if effectiveBase == "" {
		if spec != nil && spec.DefaultAPIBase != "" {
			effectiveBase = spec.DefaultAPIBase
		} else {
			effectiveBase = "https://api.openai.com/v1"
		}
	}
	effectiveBase = strings.TrimRight(effectiveBase, "/")

	isAnthropic := (spec != nil && spec.IsAnthropic) ||
		strings.Contains(strings.ToLower(effectiveBase), "anthropic.com")

	return &OpenAIProvider{
		apiKey:       apiKey,
		apiBase:      effectiveBase,
		defaultModel: defaultModel,
		extraHeaders: extraHeaders,
		isAnthropic:  isAnthropic,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *OpenAIProvider) DefaultModel() string { return p.defaultModel }

// Chat implements schema.LLMProvider. It dispatches to the Anthropic or
// OpenAI-compatible path based on the resolved endpoint.
func (p *OpenAIProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	model = stripProviderPrefix(model)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	if p.isAnthropic {
		return p.chatAnthropic(ctx, messages, tools, model, maxTokens, opts.Temperature)
	}
	return p.chatOpenAI(ctx, messages, tools, model, maxTokens, opts.Temperature)
}

// stripProviderPrefix removes a leading registry provider name from a model
// string ("openai/gpt-4o-mini" → "gpt-4o-mini") so the API receives the bare
// model name it expects. Unknown prefixes are kept (gateways route on them).
func stripProviderPrefix(model string) string {
	prefix, rest, ok := strings.Cut(model, "/")
	if !ok {
		return model
	}
	norm := strings.ReplaceAll(strings.ToLower(prefix), "-", "_")
	if spec := FindByName(norm); spec != nil && spec.Name != "openrouter" {
		return rest
	}
	return model
}

// ---------------------------------------------------------------------------
// OpenAI-compatible path
// ---------------------------------------------------------------------------

func (p *OpenAIProvider) chatOpenAI(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	model string,
	maxTokens int,
	temperature float64,
) (schema.LLMResponse, error) {
	body := map[string]any{
		"model":       model,
		"messages":    wireMessages(messages),
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	if len(tools) > 0 {
		body["tools"] = tools
		body["tool_choice"] = "auto"
	}

	raw, err := p.post(ctx, "/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return schema.LLMResponse{}, err
	}
	return parseOpenAIResponse(raw)
}

// ---------------------------------------------------------------------------
// Anthropic Messages API path
// ---------------------------------------------------------------------------

func (p *OpenAIProvider) chatAnthropic(
	ctx context.Context,
	messages schema.Messages,
	tools []map[string]any,
	model string,
	maxTokens int,
	temperature float64,
) (schema.LLMResponse, error) {
	system, converted := convertMessagesToAnthropic(messages)

	body := map[string]any{
		"model":       model,
		"messages":    converted,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	if system != "" {
		body["system"] = system
	}
	if len(tools) > 0 {
		body["tools"] = convertToolsToAnthropic(tools)
	}

	raw, err := p.post(ctx, "/messages", body, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return schema.LLMResponse{}, err
	}
	return parseAnthropicResponse(raw)
}

// post marshals body, issues the request, and returns the raw response bytes.
// Non-200 statuses become errors with a trimmed body excerpt.
func (p *OpenAIProvider) post(ctx context.Context, path string, body map[string]any, auth map[string]string) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range auth {
		req.Header.Set(k, v)
	}
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw))
	}
	return raw, nil
}

// ---------------------------------------------------------------------------
// Wire format helpers
// ---------------------------------------------------------------------------

// wireMessages converts typed messages to the OpenAI wire-format maps.
func wireMessages(messages schema.Messages) []map[string]any {
	out := make([]map[string]any, 0, len(messages.Messages))
	for _, m := range messages.Messages {
		out = append(out, map[string]any{
			"role":    m.Role,
			"content": m.Content,
		})
	}
	return out
}

// convertMessagesToAnthropic converts typed messages to Anthropic's wire
// format. Returns (system_prompt, converted_messages).
func convertMessagesToAnthropic(messages schema.Messages) (string, []map[string]any) {
	var system string
	var out []map[string]any

	for _, msg := range messages.Messages {
		switch msg.Role {
		case "system":
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content

		case "user":
			out = append(out, map[string]any{"role": "user", "content": msg.Content})

		case "assistant":
			out = append(out, map[string]any{"role": "assistant", "content": []any{
				map[string]any{"type": "text", "text": msg.Content},
			}})
		}
	}
	return system, out
}

// convertToolsToAnthropic converts OpenAI function schemas to Anthropic tool
// format. Key difference: "parameters" → "input_schema".
func convertToolsToAnthropic(tools []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		fn, _ := t["function"].(map[string]any)
		if fn == nil {
			continue
		}
		out = append(out, map[string]any{
			"name":         fn["name"],
			"description":  fn["description"],
			"input_schema": fn["parameters"],
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Response parsers
// ---------------------------------------------------------------------------

// openAIRespBody is the subset of the OpenAI chat completion response we care about.
type openAIRespBody struct {
	Choices []struct {
		Message struct {
			Content   any `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func parseOpenAIResponse(raw []byte) (schema.LLMResponse, error) {
	var body openAIRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse OpenAI response: %w", err)
	}
	if len(body.Choices) == 0 {
		return schema.LLMResponse{}, fmt.Errorf("empty choices in response")
	}

	msg := body.Choices[0].Message

	var content *string
	if c, ok := msg.Content.(string); ok && c != "" {
		content = &c
	}

	var toolCalls []schema.ToolCallRequest
	for _, tc := range msg.ToolCalls {
		args, err := repairJSON(tc.Function.Arguments)
		if err != nil {
			slog.Warn("failed to parse tool arguments", "tool", tc.Function.Name, "err", err)
			args = map[string]any{}
		}
		toolCalls = append(toolCalls, schema.ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	finish := body.Choices[0].FinishReason
	if finish == "" {
		finish = "stop"
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     body.Usage.PromptTokens,
			"completion_tokens": body.Usage.CompletionTokens,
			"total_tokens":      body.Usage.TotalTokens,
		},
	}, nil
}

// anthropicRespBody models the Anthropic Messages API response.
type anthropicRespBody struct {
	Content []struct {
		Type  string         `json:"type"`
		Text  string         `json:"text"`  // type=text
		ID    string         `json:"id"`    // type=tool_use
		Name  string         `json:"name"`  // type=tool_use
		Input map[string]any `json:"input"` // type=tool_use
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func parseAnthropicResponse(raw []byte) (schema.LLMResponse, error) {
	var body anthropicRespBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return schema.LLMResponse{}, fmt.Errorf("parse Anthropic response: %w", err)
	}

	var contentStr string
	var toolCalls []schema.ToolCallRequest

	for _, block := range body.Content {
		switch block.Type {
		case "text":
			contentStr += block.Text
		case "tool_use":
			toolCalls = append(toolCalls, schema.ToolCallRequest{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}

	var content *string
	if contentStr != "" {
		content = &contentStr
	}

	finish := "stop"
	if body.StopReason == "tool_use" {
		finish = "tool_calls"
	} else if body.StopReason != "" && body.StopReason != "end_turn" {
		finish = body.StopReason
	}

	return schema.LLMResponse{
		Content:      content,
		ToolCalls:    toolCalls,
		FinishReason: finish,
		Usage: map[string]int{
			"prompt_tokens":     body.Usage.InputTokens,
			"completion_tokens": body.Usage.OutputTokens,
			"total_tokens":      body.Usage.InputTokens + body.Usage.OutputTokens,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// JSON repair
// ---------------------------------------------------------------------------

// repairJSON attempts to unmarshal JSON, retrying after stripping trailing
// garbage characters. This handles some LLMs that emit truncated tool arguments.
func repairJSON(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, nil
	}

	// Attempt 1: trim trailing non-JSON characters.
	stripped := strings.TrimRight(raw, " \t\n\r}]")
	if !strings.HasSuffix(stripped, "}") {
		stripped += "}"
	}
	if err := json.Unmarshal([]byte(stripped), &out); err == nil {
		return out, nil
	}

	// Attempt 2: find the last complete JSON object.
	if i := strings.LastIndex(raw, "}"); i >= 0 {
		if err := json.Unmarshal([]byte(raw[:i+1]), &out); err == nil {
			return out, nil
		}
	}

	return map[string]any{}, fmt.Errorf("cannot repair JSON: %s", raw)
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
