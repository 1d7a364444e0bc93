// Package executor hands finished instructions to whatever actually runs
// the tool. The default implementation relays through an LLM that holds the
// tool connections; swapping in a direct API client only needs this
// interface.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

// Executor runs one instruction and returns the execution report.
type Executor interface {
	Execute(ctx context.Context, instruction string) (string, error)
}

// ---------------------------------------------------------------------------
// LLM-backed executor
// ---------------------------------------------------------------------------

const executorSystemPrompt = `You are a tool execution assistant. You receive instructions that
name a tool and its exact parameters. Call the named tool with exactly the parameters given. Do
not invent, rename, or omit parameters. If the instruction is a freeform request instead, use
your best judgement to fulfil it with the tools available.

Today's date and time is %s (%s). When a parameter needs a datetime, use ISO format
YYYY-MM-DDTHH:MM.`

// LLMExecutor sends the instruction as a single chat turn to a provider that
// has the tool connections attached on its side.
type LLMExecutor struct {
	provider schema.LLMProvider
	opts     schema.ChatOptions
	location *time.Location
	now      func() time.Time
}

// NewLLMExecutor creates an executor bound to one provider. The timezone
// names the user's local zone for the date stamp in the system prompt; an
// unknown zone falls back to UTC.
func NewLLMExecutor(provider schema.LLMProvider, opts schema.ChatOptions, timezone string) *LLMExecutor {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &LLMExecutor{
		provider: provider,
		opts:     opts,
		location: loc,
		now:      time.Now,
	}
}

// Execute relays one instruction and returns the assistant's report.
func (e *LLMExecutor) Execute(ctx context.Context, instruction string) (string, error) {
	now := e.now().In(e.location)
	system := fmt.Sprintf(executorSystemPrompt, now.Format("2006-01-02 15:04"), e.location.String())

	msgs := schema.Messages{}
	msgs.AddSystem(system)
	msgs.AddUser(instruction)

	resp, err := e.provider.Chat(ctx, msgs, nil, e.opts)
	if err != nil {
		return "", fmt.Errorf("execute instruction: %w", err)
	}
	return resp.Text(), nil
}
