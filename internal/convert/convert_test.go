package convert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

func TestValidate_Email(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"sam@example.com", true},
		{"invite sam@example.com please", true},
		{"first.last+tag@sub.example.co.uk", true},
		{"not-an-email", false},
		{"sam@", false},
		{"", false},
	}
	for _, tc := range cases {
		err := Validate("attendee_emails", tc.value)
		if tc.ok && err != nil {
			t.Errorf("Validate(attendee_emails, %q): unexpected error %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Validate(attendee_emails, %q): expected rejection", tc.value)
		}
	}
}

func TestValidate_Repo(t *testing.T) {
	if err := Validate("repo", "composiohq/composio"); err != nil {
		t.Errorf("owner/repo form rejected: %v", err)
	}
	if err := Validate("repo", "composio"); err == nil {
		t.Error("bare repo name accepted, want rejection")
	}
	// Owner fields are a plain name, no slash required.
	if err := Validate("repo_owner", "composiohq"); err != nil {
		t.Errorf("repo_owner rejected: %v", err)
	}
}

func TestValidate_DatetimePassesNaturalLanguage(t *testing.T) {
	if err := Validate("start_datetime", "tomorrow 3pm"); err != nil {
		t.Errorf("natural language datetime rejected: %v", err)
	}
	if err := Validate("start_datetime", ""); err == nil {
		t.Error("empty datetime accepted")
	}
}

func TestValidate_GenericNonEmpty(t *testing.T) {
	if err := Validate("summary", "sync with design"); err != nil {
		t.Errorf("non-empty generic value rejected: %v", err)
	}
	if err := Validate("summary", ""); err == nil {
		t.Error("empty generic value accepted")
	}
}

// oracleStub echoes a canned reply or fails.
type oracleStub struct {
	reply string
	err   error
}

func (o *oracleStub) Chat(context.Context, schema.Messages, []map[string]any, schema.ChatOptions) (schema.LLMResponse, error) {
	if o.err != nil {
		return schema.LLMResponse{}, o.err
	}
	reply := o.reply
	return schema.LLMResponse{Content: &reply}, nil
}

func (o *oracleStub) DefaultModel() string { return "test-model" }

func newTestNormalizer(t *testing.T, o *oracleStub) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(o, schema.NewChatOptions("m", 256, 0), "Asia/Kolkata")
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	n.now = func() time.Time {
		return time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	}
	return n
}

func TestNormalize_RelativeDatetime(t *testing.T) {
	n := newTestNormalizer(t, &oracleStub{reply: "2026-02-19T15:00"})

	got, err := n.Normalize(context.Background(), "start_datetime", "Event start", "tomorrow 3pm")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "2026-02-19T15:00" {
		t.Errorf("got %q, want 2026-02-19T15:00", got)
	}
}

func TestNormalize_StripsQuotesAndThink(t *testing.T) {
	n := newTestNormalizer(t, &oracleStub{reply: "<think>reasoning</think>\"2026-02-19T15:00\""})

	got, err := n.Normalize(context.Background(), "start_datetime", "Event start", "tomorrow 3pm")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "2026-02-19T15:00" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_OracleFailureReturnsRaw(t *testing.T) {
	boom := errors.New("upstream down")
	n := newTestNormalizer(t, &oracleStub{err: boom})

	got, err := n.Normalize(context.Background(), "start_datetime", "Event start", "tomorrow 3pm")
	if err == nil {
		t.Fatal("expected error")
	}
	if got != "tomorrow 3pm" {
		t.Errorf("expected raw value back, got %q", got)
	}
}

func TestNormalize_EmptyReplyReturnsRaw(t *testing.T) {
	n := newTestNormalizer(t, &oracleStub{reply: ""})

	got, err := n.Normalize(context.Background(), "summary", "Event title", "sync")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "sync" {
		t.Errorf("got %q, want raw value", got)
	}
}

func TestReferenceDate_Format(t *testing.T) {
	n := newTestNormalizer(t, &oracleStub{})
	// 2026-02-18 10:00 UTC is already the 18th in Asia/Kolkata (UTC+5:30).
	if got := n.ReferenceDate(); got != "2026-02-18 (Wednesday)" {
		t.Errorf("ReferenceDate: got %q", got)
	}
}
