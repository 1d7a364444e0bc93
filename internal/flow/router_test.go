package flow

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// collectOutbound drains outbound messages until one matches pred or the
// timeout elapses.
func collectOutbound(t *testing.T, b bus.Bus, pred func(bus.OutboundMessage) bool) bus.OutboundMessage {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-b.OutboundChan():
			if pred(msg) {
				return msg
			}
		case <-deadline:
			t.Fatal("timed out waiting for outbound message")
		}
	}
}

func TestRouter_FallbackRoundTrip(t *testing.T) {
	exec := &recordingExecutor{report: "relayed answer"}
	engine := newTestEngine(t, &stubClassifier{contract: &schema.FieldContract{}}, exec)

	b := bus.NewMessageBus(16)
	router := NewRouter(b, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	b.PublishInbound(bus.NewInboundMessage("console", "u1", "direct", "tell me a joke"))

	out := collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return m.Content() == "relayed answer"
	})
	if out.Channel() != "console" || out.ChatId() != "direct" {
		t.Errorf("reply misrouted: %s:%s", out.Channel(), out.ChatId())
	}
}

func TestRouter_DialogueAnswerRouting(t *testing.T) {
	classifier := &stubClassifier{contract: &schema.FieldContract{
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "subject", Label: "Subject", IsDynamic: true},
		},
	}}
	exec := &recordingExecutor{report: "sent"}
	engine := newTestEngine(t, classifier, exec)

	b := bus.NewMessageBus(16)
	router := NewRouter(b, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	b.PublishInbound(bus.NewInboundMessage("telegram", "u1", "42", "send an email please"))

	// Wait for the question, then answer in the same session.
	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return strings.Contains(m.Content(), "(1/1)")
	})
	b.PublishInbound(bus.NewInboundMessage("telegram", "u1", "42", "Quarterly sync"))

	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return m.Content() == "sent"
	})

	if len(exec.instructions) != 1 || !strings.Contains(exec.instructions[0], "subject=Quarterly sync") {
		t.Errorf("instruction: %v", exec.instructions)
	}
}

// gatedClassifier blocks inside Classify until released, and counts calls.
type gatedClassifier struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (g *gatedClassifier) Classify(_ context.Context, objective, toolSlug string) (*schema.FieldContract, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	<-g.release
	return &schema.FieldContract{ToolSlug: toolSlug, Objective: objective}, nil
}

func TestRouter_OneDialoguePerSession(t *testing.T) {
	classifier := &gatedClassifier{release: make(chan struct{})}
	exec := &recordingExecutor{report: "done"}
	engine := newTestEngine(t, classifier, exec)

	b := bus.NewMessageBus(16)
	router := NewRouter(b, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	// Two quick messages for one session: the second arrives while the
	// first dialogue is still classifying and must not start another.
	b.PublishInbound(bus.NewInboundMessage("slack", "u1", "C1", "send an email please"))
	b.PublishInbound(bus.NewInboundMessage("slack", "u1", "C1", "send an email please"))

	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return strings.Contains(m.Content(), "still working")
	})

	close(classifier.release)
	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return m.Content() == "done"
	})

	classifier.mu.Lock()
	calls := classifier.calls
	classifier.mu.Unlock()
	if calls != 1 {
		t.Errorf("one session must run one dialogue at a time, classified %d times", calls)
	}
	if len(exec.instructions) != 1 {
		t.Errorf("executions: %d", len(exec.instructions))
	}
}

func TestRouter_CancelWordInterrupts(t *testing.T) {
	classifier := &stubClassifier{contract: &schema.FieldContract{
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "subject", Label: "Subject", IsDynamic: true},
		},
	}}
	exec := &recordingExecutor{}
	engine := newTestEngine(t, classifier, exec)

	b := bus.NewMessageBus(16)
	router := NewRouter(b, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()

	b.PublishInbound(bus.NewInboundMessage("slack", "u1", "C1", "send an email please"))
	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return strings.Contains(m.Content(), "(1/1)")
	})
	b.PublishInbound(bus.NewInboundMessage("slack", "u1", "C1", "cancel"))

	collectOutbound(t, b, func(m bus.OutboundMessage) bool {
		return strings.Contains(m.Content(), "Nothing was executed")
	})
	if len(exec.instructions) != 0 {
		t.Error("cancelled dialogue must not execute")
	}
}
