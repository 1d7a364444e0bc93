package flow

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/dialogue"
)

// Router consumes inbound bus messages and runs one dialogue per session.
// A message for a session with no active dialogue starts one; while a
// dialogue is waiting on a question, the session's next message is routed to
// it as the answer.
type Router struct {
	bus    bus.Bus
	engine *Engine

	mu      sync.Mutex
	waiters map[string]chan answer    // session key -> pending Ask
	active  map[string]bool           // session key -> dialogue in flight
	meta    map[string]map[string]any // session key -> last inbound metadata
}

type answer struct {
	text      string
	interrupt bool
}

// NewRouter creates a Router over the given bus and engine.
func NewRouter(b bus.Bus, engine *Engine) *Router {
	return &Router{
		bus:     b,
		engine:  engine,
		waiters: make(map[string]chan answer),
		active:  make(map[string]bool),
		meta:    make(map[string]map[string]any),
	}
}

// Run consumes inbound messages until the context is cancelled.
func (r *Router) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-r.bus.InboundChan():
			r.dispatch(ctx, msg)
		}
	}
}

func (r *Router) dispatch(ctx context.Context, msg bus.InboundMessage) {
	key := msg.SessionKey()
	blank := strings.TrimSpace(msg.Content()) == ""

	r.mu.Lock()
	waiter, waiting := r.waiters[key]
	busy := r.active[key]
	if msg.Metadata() != nil {
		r.meta[key] = msg.Metadata()
	}
	// Claim the session before the goroutine starts; only one dialogue
	// runs per session at a time.
	if !waiting && !busy && !blank {
		r.active[key] = true
	}
	r.mu.Unlock()

	if waiting {
		a := answer{text: msg.Content()}
		if isCancelWord(msg.Content()) {
			a.interrupt = true
		}
		select {
		case waiter <- a:
		case <-ctx.Done():
		}
		return
	}

	// Blank lines answer a pending question (Enter confirms) but never
	// start a new dialogue.
	if blank {
		return
	}

	// A dialogue is in flight but not yet at a question, for example while
	// classification runs. A second one would race it for the session's
	// answers.
	if busy {
		r.send(msg.Channel(), msg.ChatId(), "One moment, I'm still working on your previous request.")
		return
	}

	slog.Info("starting dialogue", "session", key, "preview", msg.Preview())
	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.active, key)
			r.mu.Unlock()
		}()

		p := &busPrompter{router: r, channel: msg.Channel(), chatId: msg.ChatId(), key: key}
		res, err := r.engine.HandleMessage(ctx, p, msg.Content())
		if err != nil {
			slog.Error("dialogue failed", "session", key, "err", err)
			r.send(msg.Channel(), msg.ChatId(), "Sorry, something went wrong: "+err.Error())
			return
		}
		if res.Report != "" {
			r.send(msg.Channel(), msg.ChatId(), res.Report)
		}
	}()
}

// send publishes an outbound message, carrying the session's last inbound
// metadata so transports can keep replies threaded.
func (r *Router) send(channel, chatId, content string) {
	out := bus.NewOutboundMessage(channel, chatId, content)
	r.mu.Lock()
	if md, ok := r.meta[channel+":"+chatId]; ok {
		out.SetMetadata(md)
	}
	r.mu.Unlock()
	r.bus.PublishOutbound(out)
}

func isCancelWord(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cancel", "stop", "abort", "nevermind", "never mind":
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Bus-backed prompter
// ---------------------------------------------------------------------------

// busPrompter satisfies dialogue.Prompter over the bus. Ask registers the
// session as waiting, sends the question, and blocks until the session's
// next inbound message arrives.
type busPrompter struct {
	router  *Router
	channel string
	chatId  string
	key     string
}

func (p *busPrompter) Say(_ context.Context, text string) error {
	p.router.send(p.channel, p.chatId, text)
	return nil
}

func (p *busPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	ch := make(chan answer, 1)
	p.router.mu.Lock()
	p.router.waiters[p.key] = ch
	p.router.mu.Unlock()
	defer func() {
		p.router.mu.Lock()
		delete(p.router.waiters, p.key)
		p.router.mu.Unlock()
	}()

	p.router.send(p.channel, p.chatId, prompt)

	select {
	case <-ctx.Done():
		return "", dialogue.ErrInterrupted
	case a := <-ch:
		if a.interrupt {
			return "", dialogue.ErrInterrupted
		}
		return a.text, nil
	}
}
