package dialogue

import (
	"context"
	"strings"
	"testing"

	"github.com/fieldlens/fieldlens/internal/convert"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// scriptPrompter replays canned answers and records everything said.
type scriptPrompter struct {
	answers  []string
	asked    []string
	said     []string
	failAt   int // Ask index that returns ErrInterrupted; -1 = never
	askCount int
}

func newScriptPrompter(answers ...string) *scriptPrompter {
	return &scriptPrompter{answers: answers, failAt: -1}
}

func (p *scriptPrompter) Say(_ context.Context, text string) error {
	p.said = append(p.said, text)
	return nil
}

func (p *scriptPrompter) Ask(_ context.Context, prompt string) (string, error) {
	idx := p.askCount
	p.askCount++
	p.asked = append(p.asked, prompt)
	if p.failAt >= 0 && idx >= p.failAt {
		return "", ErrInterrupted
	}
	if idx >= len(p.answers) {
		return "", ErrInterrupted
	}
	return p.answers[idx], nil
}

func (p *scriptPrompter) saidContaining(sub string) bool {
	for _, s := range p.said {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// echoOracle returns the input's last quoted segment unchanged, so
// normalization is an identity function in these tests.
type echoOracle struct{}

func (echoOracle) Chat(_ context.Context, msgs schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	// The prompt embeds the raw input as: User input: "..."
	content := msgs.Messages[len(msgs.Messages)-1].Content
	_, after, _ := strings.Cut(content, `User input: "`)
	raw, _, _ := strings.Cut(after, `"`)
	return schema.LLMResponse{Content: &raw}, nil
}

func (echoOracle) DefaultModel() string { return "test-model" }

func newTestNormalizer(t *testing.T) *convert.Normalizer {
	t.Helper()
	n, err := convert.NewNormalizer(echoOracle{}, schema.NewChatOptions("m", 256, 0), "Asia/Kolkata")
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	return n
}

func dynamicField(key, label string) schema.PrimaryField {
	return schema.PrimaryField{FieldKey: key, Label: label, IsDynamic: true}
}

func TestCollect_NoPrimaryFields(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug:   "GMAIL_FETCH_EMAILS",
		AutoFields: []schema.AutoField{{FieldKey: "max_results", Value: "10"}},
	}
	p := newScriptPrompter()
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v, want done", state)
	}
	if len(values) != 0 {
		t.Errorf("expected no collected values, got %v", values)
	}
	if p.askCount != 0 {
		t.Errorf("expected zero questions, asked %d", p.askCount)
	}
	if !p.saidContaining("auto-filled") {
		t.Error("expected the no-input notice")
	}
}

func TestCollect_DynamicOrder(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug: "T",
		PrimaryFields: []schema.PrimaryField{
			dynamicField("a", "A"),
			dynamicField("b", "B"),
			dynamicField("c", "C"),
		},
	}
	p := newScriptPrompter("one", "two", "three")
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v", state)
	}
	if values["a"] != "one" || values["b"] != "two" || values["c"] != "three" {
		t.Errorf("values out of order: %v", values)
	}
	// Prompts carry the (i/total) counter in contract order.
	if !strings.HasPrefix(p.asked[0], "(1/3)") || !strings.HasPrefix(p.asked[2], "(3/3)") {
		t.Errorf("prompt counters wrong: %v", p.asked)
	}
}

func TestCollect_CountPhrasing(t *testing.T) {
	// Without statics the opener has no "more"; after a statics batch it does.
	contract := &schema.FieldContract{
		ToolSlug: "T",
		PrimaryFields: []schema.PrimaryField{
			dynamicField("a", "A"),
			dynamicField("b", "B"),
		},
	}
	p := newScriptPrompter("one", "two")
	NewCollector(contract, p, newTestNormalizer(t)).Collect(context.Background())
	if !p.saidContaining("I need 2 things from you.") {
		t.Errorf("wrong opener without statics: %v", p.said)
	}
	if p.saidContaining("more") {
		t.Errorf("'more' without a statics batch: %v", p.said)
	}

	withStatic := &schema.FieldContract{
		ToolSlug: "T",
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "summary", Label: "Title", GeneratedValue: "Sync"},
			dynamicField("a", "A"),
		},
	}
	p = newScriptPrompter("", "one")
	NewCollector(withStatic, p, newTestNormalizer(t)).Collect(context.Background())
	if !p.saidContaining("Now I just need 1 more thing from you.") {
		t.Errorf("wrong opener after statics: %v", p.said)
	}
}

func TestCollect_RepromptOnEmptyAndInvalid(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug: "GMAIL_SEND_EMAIL",
		PrimaryFields: []schema.PrimaryField{
			dynamicField("recipient_email", "Recipient Email"),
		},
	}
	p := newScriptPrompter("", "nonsense", "sam@example.com")
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v", state)
	}
	if values["recipient_email"] != "sam@example.com" {
		t.Errorf("got %q", values["recipient_email"])
	}
	if p.askCount != 3 {
		t.Errorf("expected 3 asks (empty, invalid, valid), got %d", p.askCount)
	}
	if !p.saidContaining("I need this to proceed") {
		t.Error("missing empty-answer nudge")
	}
	if !p.saidContaining("valid email") {
		t.Error("missing validation message")
	}
}

func TestCollect_CancellationKeepsPartial(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug: "T",
		PrimaryFields: []schema.PrimaryField{
			dynamicField("a", "A"),
			dynamicField("b", "B"),
		},
	}
	p := newScriptPrompter("value")
	p.failAt = 1
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateCancelled {
		t.Fatalf("state: got %v, want cancelled", state)
	}
	if values["a"] != "value" {
		t.Errorf("partial value lost: %v", values)
	}
	if _, ok := values["b"]; ok {
		t.Error("unanswered field has a value")
	}
}

func TestCollect_StaticConfirm(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug: "GOOGLECALENDAR_CREATE_EVENT",
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "start_datetime", Label: "Start", GeneratedValue: "2026-02-19T15:00", GeneratedDescription: "from 'tomorrow 3pm'"},
			dynamicField("attendees", "Attendees"),
		},
	}
	p := newScriptPrompter("", "sam@example.com")
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v", state)
	}
	if values["start_datetime"] != "2026-02-19T15:00" {
		t.Errorf("static value not stored: %v", values)
	}
	if values["attendees"] != "sam@example.com" {
		t.Errorf("dynamic value missing: %v", values)
	}
	if !p.saidContaining("I inferred these from your request") {
		t.Error("missing inference summary")
	}
}

func TestCollect_StaticEdit(t *testing.T) {
	contract := &schema.FieldContract{
		ToolSlug: "GOOGLECALENDAR_CREATE_EVENT",
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "start_datetime", Label: "Start", GeneratedValue: "2026-02-19T15:00"},
			{FieldKey: "summary", Label: "Title", GeneratedValue: "Sync"},
		},
	}
	// "edit", new start value, blank keeps the title.
	p := newScriptPrompter("edit", "2026-02-20T10:00", "")
	c := NewCollector(contract, p, newTestNormalizer(t))

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v", state)
	}
	if values["start_datetime"] != "2026-02-20T10:00" {
		t.Errorf("edited value not stored: %v", values)
	}
	if values["summary"] != "Sync" {
		t.Errorf("blank edit should keep current value: %v", values)
	}
}

func TestCollect_NormalizedEcho(t *testing.T) {
	// Oracle that rewrites everything to a fixed value.
	contract := &schema.FieldContract{
		ToolSlug:      "T",
		PrimaryFields: []schema.PrimaryField{dynamicField("start_datetime", "Start")},
	}
	fixed := "2026-02-19T15:00"
	n, err := convert.NewNormalizer(fixedOracle{value: fixed}, schema.NewChatOptions("m", 256, 0), "Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	p := newScriptPrompter("tomorrow 3pm")
	c := NewCollector(contract, p, n)

	values, state := c.Collect(context.Background())
	if state != StateDone {
		t.Fatalf("state: got %v", state)
	}
	if values["start_datetime"] != fixed {
		t.Errorf("got %q", values["start_datetime"])
	}
	// The echo appears only because the value changed.
	if !p.saidContaining("Got it! I'll use: " + fixed) {
		t.Error("missing conversion echo")
	}
}

type fixedOracle struct{ value string }

func (f fixedOracle) Chat(context.Context, schema.Messages, []map[string]any, schema.ChatOptions) (schema.LLMResponse, error) {
	v := f.value
	return schema.LLMResponse{Content: &v}, nil
}

func (f fixedOracle) DefaultModel() string { return "test-model" }
