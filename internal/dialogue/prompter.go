// Package dialogue drives the turn-based collection of primary field values.
// The state machine is transport-agnostic: any surface that can ask a
// question and relay the answer implements Prompter.
package dialogue

import (
	"context"
	"errors"
)

// ErrInterrupted is returned by a Prompter when its input source ends or the
// user aborts. The collector treats it as cancellation, not failure.
var ErrInterrupted = errors.New("dialogue interrupted")

// Prompter is the dialogue I/O port: a blocking request/reply surface.
// Implementations exist for the console, Slack, Telegram, and websocket
// forms; the collector never knows which one it is talking to.
type Prompter interface {
	// Ask sends prompt and blocks for the user's next reply.
	Ask(ctx context.Context, prompt string) (string, error)
	// Say sends a one-way notice with no reply expected.
	Say(ctx context.Context, text string) error
}
