package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// captureProvider records the messages it receives.
type captureProvider struct {
	msgs  schema.Messages
	reply string
}

func (c *captureProvider) Chat(_ context.Context, msgs schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	c.msgs = msgs
	reply := c.reply
	return schema.LLMResponse{Content: &reply}, nil
}

func (c *captureProvider) DefaultModel() string { return "test-model" }

func TestLLMExecutor_SystemPromptAndRelay(t *testing.T) {
	p := &captureProvider{reply: "Event created."}
	e := NewLLMExecutor(p, schema.NewChatOptions("m", 1024, 0), "Asia/Kolkata")
	e.now = func() time.Time {
		return time.Date(2026, 2, 18, 4, 30, 0, 0, time.UTC) // 10:00 IST
	}

	report, err := e.Execute(context.Background(), "Use the tool X with these exact parameters: {a=1}")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report != "Event created." {
		t.Errorf("report: %q", report)
	}

	if len(p.msgs.Messages) != 2 {
		t.Fatalf("messages: got %d, want system+user", len(p.msgs.Messages))
	}
	system := p.msgs.Messages[0]
	if system.Role != "system" {
		t.Errorf("first message role: %q", system.Role)
	}
	if !strings.Contains(system.Content, "2026-02-18 10:00") {
		t.Errorf("system prompt missing local timestamp: %q", system.Content)
	}
	if !strings.Contains(system.Content, "Asia/Kolkata") {
		t.Errorf("system prompt missing timezone: %q", system.Content)
	}
	user := p.msgs.Messages[1]
	if user.Content != "Use the tool X with these exact parameters: {a=1}" {
		t.Errorf("instruction altered: %q", user.Content)
	}
}

func TestLLMExecutor_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	p := &captureProvider{reply: "ok"}
	e := NewLLMExecutor(p, schema.NewChatOptions("m", 1024, 0), "Not/AZone")
	if e.location != time.UTC {
		t.Errorf("expected UTC fallback, got %v", e.location)
	}
}
