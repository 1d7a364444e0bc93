package providers

import (
	"testing"
)

func TestRepairJSON_Valid(t *testing.T) {
	out, err := repairJSON(`{"a": 1, "b": "x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["b"] != "x" {
		t.Errorf("got %v", out)
	}
}

func TestRepairJSON_Empty(t *testing.T) {
	out, err := repairJSON("   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty map, got %v", out)
	}
}

func TestRepairJSON_TrailingGarbage(t *testing.T) {
	out, err := repairJSON(`{"a": "b"}}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["a"] != "b" {
		t.Errorf("got %v", out)
	}
}

func TestRepairJSON_Unrepairable(t *testing.T) {
	if _, err := repairJSON(`{"a": `); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestParseOpenAIResponse_TextAndUsage(t *testing.T) {
	raw := []byte(`{
		"choices": [{"message": {"content": "hello"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
	}`)
	resp, err := parseOpenAIResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Text() != "hello" {
		t.Errorf("text: got %q", resp.Text())
	}
	if resp.Usage["total_tokens"] != 15 {
		t.Errorf("usage: got %v", resp.Usage)
	}
}

func TestParseOpenAIResponse_ToolCalls(t *testing.T) {
	raw := []byte(`{
		"choices": [{"message": {"tool_calls": [
			{"id": "c1", "function": {"name": "create_event", "arguments": "{\"summary\": \"Sync\"}"}}
		]}, "finish_reason": "tool_calls"}]
	}`)
	resp, err := parseOpenAIResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !resp.HasToolCalls() {
		t.Fatal("expected tool calls")
	}
	tc := resp.ToolCalls[0]
	if tc.Name != "create_event" || tc.Arguments["summary"] != "Sync" {
		t.Errorf("tool call: %+v", tc)
	}
}

func TestParseOpenAIResponse_EmptyChoices(t *testing.T) {
	if _, err := parseOpenAIResponse([]byte(`{"choices": []}`)); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestParseAnthropicResponse_Blocks(t *testing.T) {
	raw := []byte(`{
		"content": [
			{"type": "text", "text": "calling "},
			{"type": "text", "text": "the tool"},
			{"type": "tool_use", "id": "t1", "name": "send_email", "input": {"subject": "Hi"}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 7, "output_tokens": 3}
	}`)
	resp, err := parseAnthropicResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Text() != "calling the tool" {
		t.Errorf("text: got %q", resp.Text())
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("finish: got %q", resp.FinishReason)
	}
	if len(resp.ToolCalls) != 1 || resp.ToolCalls[0].Arguments["subject"] != "Hi" {
		t.Errorf("tool calls: %+v", resp.ToolCalls)
	}
	if resp.Usage["total_tokens"] != 10 {
		t.Errorf("usage: %v", resp.Usage)
	}
}

func TestStripProviderPrefix(t *testing.T) {
	cases := map[string]string{
		"anthropic/claude-3-5-sonnet": "claude-3-5-sonnet",
		"openrouter/qwen-2.5":         "openrouter/qwen-2.5",
		"gpt-4o-mini":                 "gpt-4o-mini",
	}
	for in, want := range cases {
		if got := stripProviderPrefix(in); got != want {
			t.Errorf("stripProviderPrefix(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestFriendlyHTTPError(t *testing.T) {
	if got := friendlyHTTPError(429, []byte("whatever")); got != "rate limit exceeded" {
		t.Errorf("429: got %q", got)
	}
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	if got := friendlyHTTPError(500, long); len(got) != 300 {
		t.Errorf("long body not trimmed: %d chars", len(got))
	}
}
